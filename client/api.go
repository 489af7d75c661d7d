package client

import (
	"chat-hub/domain"
	"context"
	"fmt"
)

var (
	ErrSendFailed           = fmt.Errorf("message could not be sent")
	ErrNotConnected         = fmt.Errorf("socket not connected")
	ErrNoActiveConversation = fmt.Errorf("no active conversation")
	ErrEngineStopped        = fmt.Errorf("engine stopped")
)

// API is the part of the REST API the engine calls.
type API interface {
	ChatPartners(ctx context.Context) ([]domain.Conversation, error)
	Groups(ctx context.Context) ([]domain.Conversation, error)
	Contacts(ctx context.Context) ([]domain.Identity, error)
	Messages(ctx context.Context, target domain.Target) ([]domain.Message, error)
	Send(ctx context.Context, target domain.Target, body domain.Body) (domain.Message, error)
	MarkRead(ctx context.Context, messageIDs []string) error
}

// Notifier shows alerts and errors to the user.
type Notifier interface {
	Alert(alert Alert)
	Error(err error)
}

// Socket is the live push channel.
type Socket interface {
	Connected() bool
	Messages() <-chan domain.Message
}
