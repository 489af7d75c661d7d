// Package server exposes the chat over HTTP: a REST API for commands and
// queries, and a websocket endpoint through which messages are pushed.
package server

import (
	"chat-hub/auth"
	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/runtime/workers"
	"chat-hub/services"
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// MessageRouter is the part of the router the API relies on.
type MessageRouter interface {
	Send(ctx context.Context, actingID string, target domain.Target, body domain.Body) (domain.Message, error)
	MarkRead(ctx context.Context, readerID string, messageIDs []string) error
	Messages(ctx context.Context, readerID string, target domain.Target) ([]domain.Message, error)
}

// HealthReporter returns the last process sample.
type HealthReporter interface {
	Snapshot() workers.Health
}

type Config struct {
	BodyLimit            int
	ConnectionBufferSize int
	MediaDir             string
	MediaPrefix          string
	ShutdownTimeout      time.Duration
}

// Dependencies gathers what handlers delegate to.
type Dependencies struct {
	Issuer        *auth.TokenIssuer
	Registry      contract.IRegistry
	Router        MessageRouter
	Auth          *services.AuthService
	Conversations *services.ConversationService
	Relationships services.IRelationshipService
	Groups        services.IGroupService
	Health        HealthReporter
}

type Server struct {
	log     *slog.Logger
	config  Config
	deps    Dependencies
	app     *fiber.App
	baseCtx context.Context
}

func NewServer(log *slog.Logger, config Config, deps Dependencies) *Server {
	s := &Server{log: log, config: config, deps: deps, baseCtx: context.Background()}
	s.app = fiber.New(fiber.Config{
		AppName:               "chat-hub",
		BodyLimit:             config.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})
	s.routes()
	return s
}

// App gives access to the fiber application, mainly for app.Test.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) routes() {
	protect := auth.Protect(s.deps.Issuer)

	if s.config.MediaDir != "" {
		s.app.Static(s.config.MediaPrefix, s.config.MediaDir)
	}
	s.app.Get("/health", s.health)

	api := s.app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/signup", s.signup)
	authRoutes.Post("/login", s.login)
	authRoutes.Post("/logout", s.logout)
	authRoutes.Get("/check", protect, s.check)
	authRoutes.Put("/update-profile", protect, s.updateProfile)

	messages := api.Group("/messages", protect)
	messages.Get("/contacts", s.contacts)
	messages.Get("/chats", s.chats)
	messages.Get("/user/:id", s.directMessages)
	messages.Get("/group/:id", s.groupMessages)
	messages.Post("/send/:id", s.sendMessage)
	messages.Post("/read", s.markRead)

	friends := api.Group("/friends", protect)
	friends.Post("/request/:id", s.sendFriendRequest)
	friends.Put("/accept/:requestId", s.acceptFriendRequest)
	friends.Get("/requests", s.friendRequests)
	friends.Get("/friends", s.friendList)
	friends.Get("/suggestions", s.suggestions)

	groups := api.Group("/groups", protect)
	groups.Post("/create", s.createGroup)
	groups.Get("/", s.myGroups)
	groups.Put("/:groupId/add", s.addMember)
	groups.Put("/:groupId/remove", s.removeMember)

	api.Get("/online", protect, s.online)

	s.app.Use("/ws", protect, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws", websocket.New(s.socket))
}

// Listen blocks until the listener fails or ctx is cancelled.
// Live websockets are closed when ctx is done.
func (s *Server) Listen(ctx context.Context, addr string) error {
	s.baseCtx = ctx
	errCh := make(chan error, 1)
	go func() { errCh <- s.app.Listen(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info("Shutting down HTTP server")
		return s.app.ShutdownWithTimeout(s.config.ShutdownTimeout)
	}
}

func errorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
		}
		status := errors.HTTPStatus(err)
		if status == fiber.StatusInternalServerError {
			log.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}
		return c.Status(status).JSON(fiber.Map{"message": errors.PublicMessage(err)})
	}
}

// parse decodes the JSON body; any decoding failure is a bad request.
func parse(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return errors.ErrInvalidRequest
	}
	return nil
}
