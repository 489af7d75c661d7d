package server

import (
	"chat-hub/auth"
	"chat-hub/sink"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// socket registers the connection as the user's live handle until it closes.
// A newer connection of the same user replaces it in the registry; the
// deferred Unregister is then a no-op.
func (s *Server) socket(c *websocket.Conn) {
	userID, _ := c.Locals(auth.UserIDKey).(string)
	conn := sink.NewWebsocketSink(s.log, userID, c, s.config.ConnectionBufferSize)

	s.deps.Registry.Register(userID, conn)
	defer s.deps.Registry.Unregister(userID, conn)
	s.log.Debug("User connected", "user_id", userID, "connection_id", conn.ID())

	conn.Serve(s.baseCtx)
	s.log.Debug("User disconnected", "user_id", userID, "connection_id", conn.ID())
}

func (s *Server) health(c *fiber.Ctx) error {
	if s.deps.Health == nil {
		return c.JSON(fiber.Map{"status": "ok"})
	}
	return c.JSON(s.deps.Health.Snapshot())
}
