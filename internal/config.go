package internal

import (
	"fmt"
	"time"
)

// Config is the server configuration, read from the environment.
type Config struct {
	Host                 string        `env:"HOST,default=localhost"`
	Port                 int           `env:"PORT,default=3000"`
	HealthPort           int           `env:"HEALTH_PORT,default=3001"`
	LogLevel             string        `env:"LOG_LEVEL,required=true"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	LimitMessages        *int          `env:"LIMIT_MESSAGES"`
	JWTSecret            string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration    time.Duration `env:"AUTH_TOKEN_DURATION,default=168h"`
	DeliveryBufferSize   int           `env:"DELIVERY_BUFFER_SIZE,default=1024"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,default=2s"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=10s"`
	LowCapacityThreshold int           `env:"LOW_CAPACITY_THRESHOLD,default=16"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s"`
	BodyLimit            int           `env:"BODY_LIMIT,default=10485760"`
	MediaDir             string        `env:"MEDIA_DIR,default=./media"`
	MediaPrefix          string        `env:"MEDIA_PREFIX,default=/media"`
	MaxImageBytes        int           `env:"MAX_IMAGE_BYTES,default=5242880"`
	OutboxDir            string        `env:"OUTBOX_DIR,default=./outbox"`
	ClientURL            string        `env:"CLIENT_URL,default=http://localhost:5173"`
	EnableModeration     bool          `env:"ENABLE_MODERATION,default=true"`
	CharReplacement      string        `env:"CHARACTER_REPLACEMENT,default=*"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
