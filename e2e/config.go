package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServerURL  string `envconfig:"E2E_SERVER_URL"`
	SocketURL  string `envconfig:"E2E_SOCKET_URL"`
	HealthAddr string `envconfig:"E2E_HEALTH_ADDR"`
	// E2E_DEBUG_JSON dumps the decoded responses
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
