package main

import (
	"chat-hub/auth"
	"chat-hub/infrastructure/http/server"
	"chat-hub/internal"
	"chat-hub/moderation"
	"chat-hub/repositories"
	"chat-hub/runtime"
	"chat-hub/runtime/workers"
	"chat-hub/services"
	"chat-hub/sink"
	"chat-hub/storage"
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component, serves until a termination signal and
// returns only once deferred cleanups can run.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}

	// 2. Database (BadgerDB)
	db, err := repositories.OpenDB(config.BadgerFilepath, false)
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	users := repositories.NewUserRepository(db)
	friends := repositories.NewFriendRepository(db)
	groups := repositories.NewGroupRepository(db)
	messages := repositories.NewMessageRepository(db, log, config.LimitMessages)

	// 3. External collaborators
	images, err := storage.NewDiskImageStore(log, config.MediaDir, config.MediaPrefix, config.MaxImageBytes)
	if err != nil {
		return fmt.Errorf("image store: %w", err)
	}
	mailer := sink.NewMailSink(log, config.ClientURL, config.OutboxDir)
	issuer := auth.NewTokenIssuer(config.JWTSecret, config.AuthTokenDuration)

	// 4. Presence, delivery and routing
	registry := runtime.NewRegistry()
	delivery := workers.NewDeliveryWorker(log, config.DeliveryBufferSize, config.SinkTimeout)
	healthMonitoring := workers.NewHealthMonitoringWorker(log, registry, config.MetricInterval)
	capacity := workers.NewChannelCapacityWorker(log,
		[]workers.NamedGauge{{Name: "delivery", Gauge: delivery}},
		config.MetricInterval, config.LowCapacityThreshold)
	router := runtime.NewRouter(log, registry, delivery, users, groups, messages, images)
	if config.EnableModeration {
		dictionaries, err := moderation.LoadDictionaries()
		if err != nil {
			return fmt.Errorf("moderation dictionaries: %w", err)
		}
		moderator, err := moderation.NewLanguageModerator(dictionaries, charReplacement, log)
		if err != nil {
			return fmt.Errorf("moderator: %w", err)
		}
		router.WithModerator(moderator)
		log.Info("Moderation enabled", "languages", moderator.Languages())
	}

	relationships := services.NewRelationshipService(log, users, friends, registry)
	httpServer := server.NewServer(log, server.Config{
		BodyLimit:            config.BodyLimit,
		ConnectionBufferSize: config.ConnectionBufferSize,
		MediaDir:             config.MediaDir,
		MediaPrefix:          config.MediaPrefix,
		ShutdownTimeout:      config.ShutdownTimeout,
	}, server.Dependencies{
		Issuer:        issuer,
		Registry:      registry,
		Router:        router,
		Auth:          services.NewAuthService(log, users, issuer, images, mailer, registry),
		Conversations: services.NewConversationService(log, users, messages, registry),
		Relationships: relationships,
		Groups:        services.NewGroupService(log, groups, messages, relationships),
		Health:        healthMonitoring,
	})

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Supervised workers
	supervisor := workers.NewSupervisor(log)
	supervisor.Add(delivery, healthMonitoring, capacity)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		supervisor.Run(ctx)
	}()

	// 7. gRPC health endpoint for orchestrators
	healthAddress := fmt.Sprintf("%s:%d", config.Host, config.HealthPort)
	listener, err := net.Listen("tcp", healthAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", healthAddress, err)
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	errChan := make(chan error, 2)
	go func() {
		log.Info("Starting gRPC health server", "address", healthAddress)
		if err := grpcServer.Serve(listener); err != nil && err != grpc.ErrServerStopped {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 8. HTTP API
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	go func() {
		log.Info("Starting HTTP server", "address", address)
		if err := httpServer.Listen(ctx, address); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 9. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err = <-errChan:
		log.Error("Server failed", "error", err)
	}

	// 10. Final Cleanup
	healthServer.Shutdown()
	grpcServer.GracefulStop()
	stop()
	supervisor.Stop()
	wg.Wait()
	log.Info("Program stopped cleanly")
	return err
}
