package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/devcraft/internal/logging"
	"github.com/aretw0/devcraft/pkg/domain"
	"github.com/aretw0/devcraft/pkg/form"
	"github.com/aretw0/devcraft/pkg/ports"
	"github.com/aretw0/devcraft/pkg/session"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrClosed is returned by Submit once Shutdown has started.
var ErrClosed = errors.New("contact service is shut down")

const tracerName = "github.com/aretw0/devcraft/pkg/contact"

// Service coordinates form sessions, delivery and the automatic reset.
type Service struct {
	sessions  *session.Manager
	deliverer ports.Deliverer
	engine    *form.Engine

	notifier   ports.Notifier
	publisher  ports.Publisher
	hooks      domain.LifecycleHooks
	clock      clockwork.Clock
	resetDelay time.Duration
	staleAfter time.Duration
	logger     *slog.Logger
	tracer     trace.Tracer

	tasks taskSet
}

// NewService creates a workflow service over the given sessions and delivery collaborator.
func NewService(sessions *session.Manager, deliverer ports.Deliverer, opts ...Option) *Service {
	s := &Service{
		sessions:   sessions,
		deliverer:  deliverer,
		notifier:   nopNotifier{},
		publisher:  nopPublisher{},
		clock:      clockwork.NewRealClock(),
		resetDelay: DefaultResetDelay,
		staleAfter: DefaultStaleAfter,
		logger:     logging.NewNop(),
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = form.NewEngine(form.WithClock(s.clock))
	}
	s.tasks.init()
	return s
}

// Engine returns the form engine driving transitions.
func (s *Service) Engine() *form.Engine {
	return s.engine
}

// State returns the session's form, starting an idle one if needed.
// A non-idle form that no task on this process owns and that has not moved
// for the stale window is recovered: a lost delivery returns to idle with its
// values, a missed reset clears the form.
func (s *Service) State(ctx context.Context, sessionID string) (*domain.FormState, error) {
	state, err := s.sessions.LoadOrStart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !s.isStale(sessionID, state) {
		return state, nil
	}

	s.logger.Warn("Recovering stale form", "session_id", sessionID, "status", state.Status)
	before, after, err := s.sessions.Update(ctx, sessionID, func(cur *domain.FormState) (*domain.FormState, error) {
		if !s.isStale(sessionID, cur) {
			return cur, nil
		}
		if cur.Status == domain.StateSubmitting {
			next, _ := s.engine.Fail(cur, cur.Attempt)
			return next, nil
		}
		next, _ := s.engine.Reset(cur, cur.Attempt)
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	s.emitTransition(ctx, before, after)
	return after, nil
}

func (s *Service) isStale(sessionID string, state *domain.FormState) bool {
	if s.staleAfter <= 0 || !state.Status.Disabled() || s.tasks.has(sessionID) {
		return false
	}
	return s.clock.Since(state.UpdatedAt) > s.staleAfter
}

// Edit stores a field value. It fails with domain.ErrInputsDisabled unless the form is idle.
func (s *Service) Edit(ctx context.Context, sessionID string, field domain.Field, value string) (*domain.FormState, error) {
	before, after, err := s.sessions.Update(ctx, sessionID, func(cur *domain.FormState) (*domain.FormState, error) {
		return s.engine.Edit(cur, field, value)
	})
	if err != nil {
		return after, err
	}
	s.publish(ctx, before, after)
	return after, nil
}

// Submit validates the form. Invalid input leaves the form idle with its errors populated.
// Valid input moves it to submitting and starts delivery in the background; the returned
// state is the submitting one. A form that is not idle yields domain.ErrSubmissionInFlight
// and is left untouched.
func (s *Service) Submit(ctx context.Context, sessionID string) (*domain.FormState, error) {
	if s.tasks.isClosed() {
		return nil, ErrClosed
	}

	ctx, span := s.tracer.Start(ctx, "contact.submit",
		trace.WithAttributes(attribute.String("contact.session_id", sessionID)))
	defer span.End()

	var sub *domain.Submission
	before, after, err := s.sessions.Update(ctx, sessionID, func(cur *domain.FormState) (*domain.FormState, error) {
		next, pending, err := s.engine.Submit(cur)
		sub = pending
		return next, err
	})
	if err != nil {
		if !errors.Is(err, domain.ErrSubmissionInFlight) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return after, err
	}
	s.publish(ctx, before, after)

	if sub == nil {
		span.SetAttributes(attribute.Int("contact.errors", len(after.Errors)))
		s.logger.Debug("Submit rejected by validation", "session_id", sessionID, "errors", len(after.Errors))
		if s.hooks.OnValidationFailed != nil {
			s.hooks.OnValidationFailed(ctx, &domain.ValidationEvent{
				EventBase: s.event(domain.EventValidationFailed, sessionID),
				Errors:    after.Errors.Sorted(),
			})
		}
		return after, nil
	}

	span.SetAttributes(
		attribute.Int("contact.attempt", after.Attempt),
		attribute.String("contact.submission_id", after.SubmissionID),
	)
	s.emitTransition(ctx, before, after)

	// Delivery outlives the request but keeps its values (trace, logger fields).
	taskCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	t := &task{attempt: after.Attempt, stop: func() bool { cancel(); return false }}
	if !s.tasks.start(sessionID, t) {
		cancel()
		s.abandon(ctx, sessionID, after.Attempt)
		return nil, ErrClosed
	}
	go s.deliver(taskCtx, sessionID, t, *sub)

	return after, nil
}

// abandon returns a submitting form to idle without a toast when delivery never started.
func (s *Service) abandon(ctx context.Context, sessionID string, attempt int) {
	before, after, err := s.sessions.Update(context.WithoutCancel(ctx), sessionID, func(cur *domain.FormState) (*domain.FormState, error) {
		next, _ := s.engine.Fail(cur, attempt)
		return next, nil
	})
	if err != nil {
		s.logger.Error("Failed to release abandoned submission", "session_id", sessionID, "err", err)
		return
	}
	s.publish(ctx, before, after)
}

func (s *Service) deliver(ctx context.Context, sessionID string, t *task, sub domain.Submission) {
	defer s.tasks.done()
	defer t.stop()

	ctx, span := s.tracer.Start(ctx, "contact.deliver",
		trace.WithAttributes(attribute.String("contact.submission_id", sub.ID.String())))
	defer span.End()

	started := s.clock.Now()
	err := s.deliverer.Deliver(ctx, sub)
	elapsed := s.clock.Since(started)

	if ctx.Err() != nil {
		// Session closed or service shutting down: nothing may change.
		span.SetAttributes(attribute.Bool("contact.canceled", true))
		s.logger.Debug("Delivery canceled", "session_id", sessionID, "submission_id", sub.ID)
		s.tasks.finish(sessionID, t)
		return
	}

	evt := &domain.DeliveryEvent{
		SubmissionID: sub.ID.String(),
		Duration:     elapsed,
		Err:          err,
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("Delivery failed", "session_id", sessionID, "submission_id", sub.ID, "err", err)
		s.resolve(ctx, sessionID, t, false, evt)
		return
	}

	s.logger.Info("Message delivered", "session_id", sessionID, "submission_id", sub.ID, "duration", elapsed)
	s.resolve(ctx, sessionID, t, true, evt)
}

// resolve applies a delivery outcome to the session that started it.
func (s *Service) resolve(ctx context.Context, sessionID string, t *task, ok bool, evt *domain.DeliveryEvent) {
	before, after, err := s.sessions.Update(ctx, sessionID, func(cur *domain.FormState) (*domain.FormState, error) {
		if ok {
			next, _ := s.engine.Complete(cur, t.attempt)
			return next, nil
		}
		next, _ := s.engine.Fail(cur, t.attempt)
		return next, nil
	})
	if err != nil {
		s.logger.Error("Failed to record delivery outcome", "session_id", sessionID, "err", err)
		s.tasks.finish(sessionID, t)
		return
	}
	if before.Status == after.Status {
		// Attempt no longer current.
		s.tasks.finish(sessionID, t)
		return
	}

	s.publish(ctx, before, after)
	s.emitTransition(ctx, before, after)

	if ok {
		evt.EventBase = s.event(domain.EventDelivered, sessionID)
		if s.hooks.OnDelivered != nil {
			s.hooks.OnDelivered(ctx, evt)
		}
		s.notifier.Notify(ctx, sessionID, domain.SentNotification())
		s.scheduleReset(sessionID, t)
		return
	}

	evt.EventBase = s.event(domain.EventDeliveryFailed, sessionID)
	if s.hooks.OnDeliveryFailed != nil {
		s.hooks.OnDeliveryFailed(ctx, evt)
	}
	s.notifier.Notify(ctx, sessionID, domain.FailedNotification())
	s.tasks.finish(sessionID, t)
}

// scheduleReset replaces the finished delivery task with the reset timer.
func (s *Service) scheduleReset(sessionID string, prev *task) {
	next := &task{attempt: prev.attempt}
	var timer clockwork.Timer
	next.stop = func() bool { return timer.Stop() }
	if !s.tasks.replace(sessionID, prev, next, func() {
		timer = s.clock.AfterFunc(s.resetDelay, func() {
			defer s.tasks.done()
			s.reset(sessionID, next)
		})
	}) {
		s.logger.Debug("Reset not scheduled, session gone", "session_id", sessionID)
	}
}

func (s *Service) reset(sessionID string, t *task) {
	if !s.tasks.finish(sessionID, t) {
		return
	}
	ctx := context.Background()
	before, after, err := s.sessions.Update(ctx, sessionID, func(cur *domain.FormState) (*domain.FormState, error) {
		next, _ := s.engine.Reset(cur, t.attempt)
		return next, nil
	})
	if err != nil {
		s.logger.Error("Failed to reset form", "session_id", sessionID, "err", err)
		return
	}
	s.publish(ctx, before, after)
	s.emitTransition(ctx, before, after)
}

// Close ends the session: its pending delivery or reset is canceled and its state deleted.
func (s *Service) Close(ctx context.Context, sessionID string) error {
	s.tasks.cancel(sessionID)
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to close session %s: %w", sessionID, err)
	}
	s.logger.Debug("Session closed", "session_id", sessionID)
	return nil
}

// Shutdown cancels every task and waits for their goroutines to return or ctx to end.
// Submit fails with ErrClosed afterwards.
func (s *Service) Shutdown(ctx context.Context) error {
	n := s.tasks.shutdown()
	s.logger.Debug("Contact service shutting down", "canceled_tasks", n)
	return s.tasks.wait(ctx)
}

// Pending reports how many sessions have a delivery or reset outstanding.
func (s *Service) Pending() int {
	return s.tasks.size()
}

func (s *Service) publish(ctx context.Context, before, after *domain.FormState) {
	if diff := domain.Diff(before, after); diff != nil {
		s.publisher.Publish(ctx, diff)
	}
}

func (s *Service) emitTransition(ctx context.Context, before, after *domain.FormState) {
	if before.Status == after.Status {
		return
	}
	s.logger.Debug("Form transition", "session_id", after.SessionID, "from", before.Status, "to", after.Status)
	if s.hooks.OnTransition != nil {
		s.hooks.OnTransition(ctx, &domain.TransitionEvent{
			EventBase: s.event(domain.EventTransition, after.SessionID),
			From:      before.Status,
			To:        after.Status,
		})
	}
}

func (s *Service) event(t domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{Timestamp: s.clock.Now(), Type: t, SessionID: sessionID}
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, string, domain.Notification) {}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, *domain.StateDiff) {}
