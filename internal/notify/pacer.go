package notify

import (
	"context"
	"time"
)

// Pacer throttles consecutive sends against the messaging channel's rate
// limits. It is injected into the dispatcher so tests run without timers.
type Pacer interface {
	Wait(ctx context.Context)
}

type delayPacer struct {
	delay time.Duration
}

// NewDelayPacer returns a Pacer that blocks for a fixed delay, aborting
// early when the context is cancelled.
func NewDelayPacer(delay time.Duration) Pacer {
	return delayPacer{delay: delay}
}

func (p delayPacer) Wait(ctx context.Context) {
	if p.delay <= 0 {
		return
	}
	t := time.NewTimer(p.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// NopPacer waits for nothing. Test seam.
type NopPacer struct{}

func (NopPacer) Wait(context.Context) {}
