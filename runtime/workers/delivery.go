package workers

import (
	"chat-hub/contract"
	"chat-hub/domain/event"
	"chat-hub/errors"
	"context"
	"log/slog"
	"time"
)

type delivery struct {
	conn  contract.Connection
	event event.DomainEvent
}

// DeliveryWorker pushes events to live connections.
//
// Deliveries are queued in one FIFO channel drained by a single goroutine, so
// events are handed to connections in the order they were accepted.
// Delivery is at most once: a full queue drops the event, a connection that
// does not consume within sinkTimeout loses it. Nothing is retried.
type DeliveryWorker struct {
	log         *slog.Logger
	queue       chan delivery
	sinkTimeout time.Duration
}

func NewDeliveryWorker(log *slog.Logger, bufferSize int, sinkTimeout time.Duration) *DeliveryWorker {
	return &DeliveryWorker{
		log:         log,
		queue:       make(chan delivery, bufferSize),
		sinkTimeout: sinkTimeout,
	}
}

// Deliver enqueues the event without blocking the caller.
func (w *DeliveryWorker) Deliver(ctx context.Context, conn contract.Connection, e event.DomainEvent) error {
	if conn == nil {
		return nil
	}
	select {
	case w.queue <- delivery{conn: conn, event: e}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		w.log.Warn("Delivery queue full, dropping event", "connection", conn.ID(), "event", e.Name())
		return errors.ErrDeliveryQueueFull
	}
}

// Usage returns the number of queued deliveries and the queue size.
func (w *DeliveryWorker) Usage() (int, int) {
	return len(w.queue), cap(w.queue)
}

func (w *DeliveryWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping deliveries")
			return nil
		case d := <-w.queue:
			w.push(ctx, d)
		}
	}
}

func (w *DeliveryWorker) push(ctx context.Context, d delivery) {
	sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()
	if err := d.conn.Consume(sinkCtx, d.event); err != nil {
		w.log.Debug("Event lost", "connection", d.conn.ID(), "event", d.event.Name(), "error", err)
	}
}
