package client

import (
	"chat-hub/domain"
	"chat-hub/domain/event"
	"context"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/fasthttp/websocket"
)

// SocketTransport keeps a websocket to the server open and decodes pushed events.
// It reconnects after a failure until its context is done.
type SocketTransport struct {
	log       *slog.Logger
	url       string
	retry     time.Duration
	connected atomic.Bool
	messages  chan domain.Message
}

// NewSocketTransport builds the transport for the ws(s) endpoint wsURL.
func NewSocketTransport(log *slog.Logger, wsURL, token string, bufferSize int, retry time.Duration) (*SocketTransport, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, err
	}
	query := u.Query()
	query.Set("token", token)
	u.RawQuery = query.Encode()
	return &SocketTransport{
		log:      log,
		url:      u.String(),
		retry:    retry,
		messages: make(chan domain.Message, bufferSize),
	}, nil
}

func (s *SocketTransport) Connected() bool { return s.connected.Load() }

func (s *SocketTransport) Messages() <-chan domain.Message { return s.messages }

// Run dials and reads until ctx is done.
func (s *SocketTransport) Run(ctx context.Context) error {
	for {
		if err := s.session(ctx); err != nil {
			s.log.Debug("Socket session ended", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.retry):
		}
	}
}

func (s *SocketTransport) session(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}
	s.connected.Store(true)
	defer s.connected.Store(false)

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		evt, err := event.Decode(data)
		if err != nil {
			s.log.Warn("Unreadable event", "error", err)
			continue
		}
		if pushed, ok := evt.(event.NewMessage); ok {
			select {
			case s.messages <- pushed.Message:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
