package form

import (
	"fmt"

	"github.com/aretw0/devcraft/pkg/domain"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Engine applies contact form transitions. It holds no session state.
type Engine struct {
	validator *Validator
	clock     clockwork.Clock
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithClock sets the clock used to stamp UpdatedAt and ReceivedAt.
func WithClock(c clockwork.Clock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithValidator replaces the default rule set.
func WithValidator(v *Validator) EngineOption {
	return func(e *Engine) {
		e.validator = v
	}
}

// NewEngine creates an engine with the standard contact rules.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		validator: NewValidator(),
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validator returns the rule set used on submit.
func (e *Engine) Validator() *Validator {
	return e.validator
}

// Edit stores a new value for field and clears that field's error, if any.
// The new value is not validated.
func (e *Engine) Edit(s *domain.FormState, field domain.Field, value string) (*domain.FormState, error) {
	if s.Status.Disabled() {
		return s, domain.ErrInputsDisabled
	}
	if _, err := domain.ParseField(string(field)); err != nil {
		return s, err
	}
	clean, err := Sanitize(value)
	if err != nil {
		return s, fmt.Errorf("field %s: %w", field, err)
	}

	next := s.Snapshot()
	next.Input.Set(field, clean)
	next.Errors = next.Errors.Clear(field)
	next.UpdatedAt = e.clock.Now()
	return next, nil
}

// Submit validates the input. On failure it returns an idle state carrying the errors
// and a nil submission. On success it returns the submitting state and the submission
// to hand to the delivery collaborator.
func (e *Engine) Submit(s *domain.FormState) (*domain.FormState, *domain.Submission, error) {
	if s.Status.Disabled() {
		return s, nil, domain.ErrSubmissionInFlight
	}

	next := s.Snapshot()
	next.UpdatedAt = e.clock.Now()

	if errs := e.validator.Validate(s.Input); len(errs) > 0 {
		next.Errors = errs
		return next, nil, nil
	}

	id, err := uuid.NewV7()
	if err != nil {
		return s, nil, fmt.Errorf("failed to allocate submission id: %w", err)
	}

	trimmed := Trim(s.Input)
	next.Errors = nil
	next.Status = domain.StateSubmitting
	next.Attempt++
	next.SubmissionID = id.String()

	return next, &domain.Submission{
		ID:         id,
		SessionID:  s.SessionID,
		Name:       trimmed.Name,
		Email:      trimmed.Email,
		Message:    trimmed.Message,
		ReceivedAt: next.UpdatedAt,
	}, nil
}

// Complete moves a submitting form to submitted. It reports false, leaving the state
// untouched, when the state has moved on from the given attempt.
func (e *Engine) Complete(s *domain.FormState, attempt int) (*domain.FormState, bool) {
	if s.Status != domain.StateSubmitting || s.Attempt != attempt {
		return s, false
	}
	next := s.Snapshot()
	next.Status = domain.StateSubmitted
	next.UpdatedAt = e.clock.Now()
	return next, true
}

// Fail returns a submitting form to idle after a rejected delivery.
// Entered values are kept so the visitor can retry.
func (e *Engine) Fail(s *domain.FormState, attempt int) (*domain.FormState, bool) {
	if s.Status != domain.StateSubmitting || s.Attempt != attempt {
		return s, false
	}
	next := s.Snapshot()
	next.Status = domain.StateIdle
	next.SubmissionID = ""
	next.UpdatedAt = e.clock.Now()
	return next, true
}

// Reset clears a submitted form back to an empty idle form.
func (e *Engine) Reset(s *domain.FormState, attempt int) (*domain.FormState, bool) {
	if s.Status != domain.StateSubmitted || s.Attempt != attempt {
		return s, false
	}
	next := s.Snapshot()
	next.Input = domain.FormInput{}
	next.Errors = nil
	next.Status = domain.StateIdle
	next.SubmissionID = ""
	next.UpdatedAt = e.clock.Now()
	return next, true
}
