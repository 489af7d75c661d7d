package client

import (
	"context"
	"time"
)

// WaitConnected polls probe every interval until it reports true.
// It returns ErrNotConnected once timeout has elapsed, or the context error.
func WaitConnected(ctx context.Context, probe func() bool, interval, timeout time.Duration) error {
	if probe() {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return ErrNotConnected
		case <-ticker.C:
			if probe() {
				return nil
			}
		}
	}
}
