// Package simulated provides a Deliverer that stands in for a real message service.
package simulated

import (
	"context"
	"time"

	"github.com/aretw0/devcraft/pkg/domain"
	"github.com/jonboulle/clockwork"
)

// DefaultLatency is the artificial delay before a message counts as delivered.
const DefaultLatency = 1500 * time.Millisecond

// Deliverer waits a fixed latency and then accepts (or rejects) the message.
// Nothing leaves the process.
type Deliverer struct {
	latency time.Duration
	clock   clockwork.Clock
	failure error
}

// Option configures the Deliverer.
type Option func(*Deliverer)

// WithLatency overrides DefaultLatency.
func WithLatency(d time.Duration) Option {
	return func(s *Deliverer) {
		s.latency = d
	}
}

// WithClock sets the clock the latency is measured on.
func WithClock(c clockwork.Clock) Option {
	return func(s *Deliverer) {
		s.clock = c
	}
}

// WithFailure makes every delivery fail with err after the latency.
func WithFailure(err error) Option {
	return func(s *Deliverer) {
		s.failure = err
	}
}

// New creates a simulated deliverer.
func New(opts ...Option) *Deliverer {
	d := &Deliverer{
		latency: DefaultLatency,
		clock:   clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Deliver blocks for the configured latency or until ctx is done.
func (d *Deliverer) Deliver(ctx context.Context, sub domain.Submission) error {
	timer := d.clock.NewTimer(d.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
	}
	return d.failure
}
