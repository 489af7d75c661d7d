package services

import (
	"chat-hub/domain/event"
	"context"
)

type conn struct {
	id string
}

func (c conn) ID() string { return c.id }

func (c conn) Consume(context.Context, event.DomainEvent) error { return nil }
