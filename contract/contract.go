//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-hub/domain"
	"chat-hub/domain/event"
	"context"
	"reflect"
)

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Connection is the handle of one live client connection.
// ID must be unique per physical connection, not per user.
type Connection interface {
	ID() string
	Consume(ctx context.Context, e event.DomainEvent) error
}

// Transport receives "deliver" commands from the router.
// It owns the way an event reaches the socket behind the handle.
type Transport interface {
	Deliver(ctx context.Context, conn Connection, e event.DomainEvent) error
}

type IRegistry interface {
	Register(userID string, conn Connection)
	Unregister(userID string, conn Connection)
	Lookup(userID string) (Connection, bool)
	OnlineSet() []string
	IsOnline(userID string) bool
}

// ImageStore stands for the blob store holding uploaded pictures.
type ImageStore interface {
	Upload(ctx context.Context, data string) (string, error)
}

// Mailer sends transactional e-mails.
type Mailer interface {
	SendWelcome(ctx context.Context, user domain.Identity) error
}

// Moderator rewrites message text before it is stored.
type Moderator interface {
	Censor(text string) string
}
