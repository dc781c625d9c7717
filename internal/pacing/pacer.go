package pacing

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a fixed minimum interval between sequential operations.
// The first Wait returns immediately; each later Wait blocks until the
// interval since the previous one has elapsed. A nil Pacer never blocks.
type Pacer struct {
	limiter *rate.Limiter
}

// New creates a pacer for the given interval; returns nil if the interval
// is not positive.
func New(interval time.Duration) *Pacer {
	if interval <= 0 {
		return nil
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next operation may proceed or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}
