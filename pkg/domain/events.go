package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTransition       EventType = "transition"
	EventValidationFailed EventType = "validation_failed"
	EventDelivered        EventType = "delivered"
	EventDeliveryFailed   EventType = "delivery_failed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// TransitionEvent records a change of submission state.
type TransitionEvent struct {
	EventBase
	From SubmissionState `json:"from"`
	To   SubmissionState `json:"to"`
}

// ValidationEvent carries the errors of a rejected submit attempt.
type ValidationEvent struct {
	EventBase
	Errors []FieldError `json:"errors"`
}

// DeliveryEvent describes the outcome of a delivery call.
type DeliveryEvent struct {
	EventBase
	SubmissionID string        `json:"submission_id"`
	Duration     time.Duration `json:"duration"`
	Err          error         `json:"-"`
}

// LifecycleHooks defines callbacks for workflow observability.
// Nil hooks are skipped.
type LifecycleHooks struct {
	OnTransition       func(context.Context, *TransitionEvent)
	OnValidationFailed func(context.Context, *ValidationEvent)
	OnDelivered        func(context.Context, *DeliveryEvent)
	OnDeliveryFailed   func(context.Context, *DeliveryEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTransition:       chain(h.OnTransition, other.OnTransition),
		OnValidationFailed: chain(h.OnValidationFailed, other.OnValidationFailed),
		OnDelivered:        chain(h.OnDelivered, other.OnDelivered),
		OnDeliveryFailed:   chain(h.OnDeliveryFailed, other.OnDeliveryFailed),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
