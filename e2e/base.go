package e2e

import (
	"chat-hub/client"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const password = "ComplexPass123!"

type BaseSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration and skips when no server is targeted.
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerURL == "" {
		s.T().Skip("E2E_SERVER_URL is not set")
	}
}

func (s *BaseSuite) header(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Dump logs v as JSON when E2E_DEBUG_JSON is enabled.
func (s *BaseSuite) Dump(label string, v any) {
	if !s.Config.DebugJSON {
		return
	}
	data, err := json.MarshalIndent(v, "", "  ")
	s.Require().NoError(err)
	s.T().Logf("%s:\n%s", label, data)
}

// SignedUp creates a fresh account and returns an API logged in as it.
func (s *BaseSuite) SignedUp(name string) (*client.HTTPAPI, client.Session) {
	api := client.NewHTTPAPI(s.Config.ServerURL)
	email := fmt.Sprintf("%s-%d@example.com", name, time.Now().UnixNano())
	var session client.Session
	s.WithTimeout("Sign up "+name, func(ctx context.Context) {
		var err error
		session, err = api.Signup(ctx, name, email, password)
		s.Require().NoError(err)
	})
	return api, session
}

// WithTimeout runs a named step with a bounded context.
func (s *BaseSuite) WithTimeout(name string, fn func(ctx context.Context)) {
	s.header(name)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	fn(ctx)
}

// WithHealth provides a gRPC health client.
func (s *BaseSuite) WithHealth(name string, fn func(ctx context.Context, client healthpb.HealthClient)) {
	conn, err := grpc.NewClient(s.Config.HealthAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	s.Require().NoError(err, "Failed to connect to gRPC server at "+s.Config.HealthAddr)
	defer conn.Close()

	s.WithTimeout(name, func(ctx context.Context) {
		fn(ctx, healthpb.NewHealthClient(conn))
	})
}
