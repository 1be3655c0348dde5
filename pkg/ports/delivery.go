package ports

import (
	"context"

	"github.com/aretw0/devcraft/pkg/domain"
)

// Deliverer hands a validated message to whatever service stores or forwards it.
// A nil error means the message was accepted. Implementations must return promptly
// with ctx.Err() once ctx is canceled.
type Deliverer interface {
	Deliver(ctx context.Context, sub domain.Submission) error
}

// DelivererFunc adapts a function to the Deliverer interface.
type DelivererFunc func(ctx context.Context, sub domain.Submission) error

// Deliver calls f(ctx, sub).
func (f DelivererFunc) Deliver(ctx context.Context, sub domain.Submission) error {
	return f(ctx, sub)
}
