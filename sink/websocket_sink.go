package sink

import (
	"chat-hub/domain/event"
	"chat-hub/errors"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

var ErrConnectionClosed = fmt.Errorf("%w: connection closed", errors.ErrTransport)

// SocketConn is the part of a websocket connection the sink relies on.
type SocketConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// WebsocketSink is the server side handle of one live websocket.
// Consume never writes to the socket itself: frames are buffered and written
// by WritePump, so a slow client never blocks the delivery goroutine.
type WebsocketSink struct {
	id     string
	userID string
	log    *slog.Logger
	conn   SocketConn
	send   chan []byte
	closed chan struct{}
	once   sync.Once
}

func NewWebsocketSink(log *slog.Logger, userID string, conn SocketConn, bufferSize int) *WebsocketSink {
	return &WebsocketSink{
		id:     uuid.NewString(),
		userID: userID,
		log:    log,
		conn:   conn,
		send:   make(chan []byte, bufferSize),
		closed: make(chan struct{}),
	}
}

func (s *WebsocketSink) ID() string { return s.id }

func (s *WebsocketSink) UserID() string { return s.userID }

// Consume encodes the event and queues the frame.
func (s *WebsocketSink) Consume(ctx context.Context, e event.DomainEvent) error {
	data, err := event.Encode(e)
	if err != nil {
		return err
	}
	select {
	case <-s.closed:
		return ErrConnectionClosed
	default:
	}
	select {
	case s.send <- data:
		return nil
	case <-s.closed:
		return ErrConnectionClosed
	case <-ctx.Done():
		s.log.Debug("Websocket buffer full, frame lost", "user_id", s.userID, "event", e.Name())
		return ctx.Err()
	}
}

// Serve runs the connection until the client leaves or ctx is done.
func (s *WebsocketSink) Serve(ctx context.Context) {
	go s.writePump(ctx)
	s.readPump(ctx)
	s.Close()
}

// readPump drains incoming frames. Clients never send anything meaningful,
// reading is only how a close is noticed.
func (s *WebsocketSink) readPump(ctx context.Context) {
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.closed:
		}
	}()
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			s.log.Debug("Websocket read ended", "user_id", s.userID, "error", err)
			return
		}
	}
}

func (s *WebsocketSink) writePump(ctx context.Context) {
	for {
		select {
		case <-s.closed:
			return
		case data := <-s.send:
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.log.Debug("Websocket write failed", "user_id", s.userID, "error", err)
				s.Close()
				return
			}
		}
	}
}

// Close is idempotent.
func (s *WebsocketSink) Close() {
	s.once.Do(func() {
		close(s.closed)
		_ = s.conn.Close()
	})
}

// Done is closed once the connection is gone.
func (s *WebsocketSink) Done() <-chan struct{} { return s.closed }
