package session

import (
	"context"
	"time"
)

// Checkpointer periodically invokes a checkpoint function while a
// session is active. Transition checkpoints (interview start, artifact
// and step advances) are handled by the orchestrator itself; this timer
// covers the gaps between them. Stop is safe to call more than once.
type Checkpointer struct {
	interval time.Duration
	fn       func(context.Context)
	cancel   context.CancelFunc
	done     chan struct{}
}

// DefaultCheckpointInterval is the periodic checkpoint cadence for an
// active session.
const DefaultCheckpointInterval = 2 * time.Minute

// NewCheckpointer creates a checkpointer that calls fn every interval.
// A non-positive interval means DefaultCheckpointInterval.
func NewCheckpointer(interval time.Duration, fn func(context.Context)) *Checkpointer {
	if interval <= 0 {
		interval = DefaultCheckpointInterval
	}
	return &Checkpointer{interval: interval, fn: fn}
}

// Start begins the periodic checkpoint loop. It is a no-op if already
// running.
func (c *Checkpointer) Start() {
	if c.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})

	go func() {
		defer close(c.done)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.fn(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit. Used when the session
// is paused or stopped.
func (c *Checkpointer) Stop() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
	c.cancel = nil
}
