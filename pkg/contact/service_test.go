package contact_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/devcraft/pkg/adapters/memory"
	"github.com/aretw0/devcraft/pkg/adapters/simulated"
	"github.com/aretw0/devcraft/pkg/contact"
	"github.com/aretw0/devcraft/pkg/domain"
	"github.com/aretw0/devcraft/pkg/session"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var epoch = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

type recorder struct {
	toasts chan domain.Notification
	diffs  chan *domain.StateDiff

	mu          sync.Mutex
	transitions []string
	rejected    int
	delivered   int
	failed      int
}

func newRecorder() *recorder {
	return &recorder{
		toasts: make(chan domain.Notification, 16),
		diffs:  make(chan *domain.StateDiff, 64),
	}
}

func (r *recorder) Notify(_ context.Context, _ string, n domain.Notification) {
	r.toasts <- n
}

func (r *recorder) Publish(_ context.Context, d *domain.StateDiff) {
	r.diffs <- d
}

func (r *recorder) hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.transitions = append(r.transitions, fmt.Sprintf("%s->%s", e.From, e.To))
		},
		OnValidationFailed: func(context.Context, *domain.ValidationEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.rejected++
		},
		OnDelivered: func(context.Context, *domain.DeliveryEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.delivered++
		},
		OnDeliveryFailed: func(_ context.Context, e *domain.DeliveryEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.failed++
		},
	}
}

func (r *recorder) snapshot() (transitions []string, rejected, delivered, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.transitions...), r.rejected, r.delivered, r.failed
}

func (r *recorder) waitToast(t *testing.T) domain.Notification {
	t.Helper()
	select {
	case n := <-r.toasts:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for toast")
	}
	return domain.Notification{}
}

func (r *recorder) assertNoToast(t *testing.T) {
	t.Helper()
	select {
	case n := <-r.toasts:
		t.Fatalf("unexpected toast: %+v", n)
	case <-time.After(20 * time.Millisecond):
	}
}

type harness struct {
	svc      *contact.Service
	sessions *session.Manager
	clock    *clockwork.FakeClock
	rec      *recorder
}

func newHarness(t *testing.T, deliveryOpts ...simulated.Option) *harness {
	t.Helper()
	clock := clockwork.NewFakeClockAt(epoch)
	rec := newRecorder()
	sessions := session.NewManager(memory.NewStore())
	deliverer := simulated.New(append([]simulated.Option{simulated.WithClock(clock)}, deliveryOpts...)...)

	svc := contact.NewService(sessions, deliverer,
		contact.WithClock(clock),
		contact.WithNotifier(rec),
		contact.WithPublisher(rec),
		contact.WithHooks(rec.hooks()),
	)
	return &harness{svc: svc, sessions: sessions, clock: clock, rec: rec}
}

func (h *harness) fill(t *testing.T, sid string, in domain.FormInput) {
	t.Helper()
	ctx := context.Background()
	for _, f := range domain.Fields {
		_, err := h.svc.Edit(ctx, sid, f, in.Get(f))
		require.NoError(t, err)
	}
}

func (h *harness) waitStatus(t *testing.T, sid string, want domain.SubmissionState) *domain.FormState {
	t.Helper()
	var last *domain.FormState
	require.Eventually(t, func() bool {
		st, err := h.sessions.Load(context.Background(), sid)
		if err != nil {
			return false
		}
		last = st
		return st.Status == want
	}, 2*time.Second, time.Millisecond, "status never became %s", want)
	return last
}

func (h *harness) shutdown(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, h.svc.Shutdown(ctx))
}

var quote = domain.FormInput{
	Name:    "Jane Doe",
	Email:   "jane@example.com",
	Message: "I would like a quote for a new website.",
}

func TestService_SubmitLifecycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := newHarness(t)
	ctx := context.Background()
	sid := "lifecycle"
	h.fill(t, sid, quote)

	state, err := h.svc.Submit(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, domain.StateSubmitting, state.Status)
	assert.Equal(t, 1, h.svc.Pending())

	// Inputs are disabled and re-entrant submits are no-ops.
	_, err = h.svc.Edit(ctx, sid, domain.FieldName, "Other")
	assert.ErrorIs(t, err, domain.ErrInputsDisabled)
	_, err = h.svc.Submit(ctx, sid)
	assert.ErrorIs(t, err, domain.ErrSubmissionInFlight)

	require.NoError(t, h.clock.BlockUntilContext(ctx, 1))
	h.clock.Advance(simulated.DefaultLatency)

	assert.Equal(t, domain.SentNotification(), h.rec.waitToast(t))
	submitted := h.waitStatus(t, sid, domain.StateSubmitted)
	assert.Equal(t, quote, submitted.Input)

	_, err = h.svc.Submit(ctx, sid)
	assert.ErrorIs(t, err, domain.ErrSubmissionInFlight)

	require.NoError(t, h.clock.BlockUntilContext(ctx, 1))
	h.clock.Advance(contact.DefaultResetDelay)

	idle := h.waitStatus(t, sid, domain.StateIdle)
	assert.True(t, idle.Input.IsEmpty())
	assert.Empty(t, idle.Errors)
	assert.Eventually(t, func() bool { return h.svc.Pending() == 0 }, time.Second, time.Millisecond)

	h.rec.assertNoToast(t)
	transitions, rejected, delivered, failed := h.rec.snapshot()
	assert.Equal(t, []string{"idle->submitting", "submitting->submitted", "submitted->idle"}, transitions)
	assert.Zero(t, rejected)
	assert.Equal(t, 1, delivered)
	assert.Zero(t, failed)

	h.shutdown(t)
}

func TestService_InvalidSubmit(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := newHarness(t)
	ctx := context.Background()
	sid := "invalid"
	h.fill(t, sid, domain.FormInput{Name: "", Email: "a@b.com", Message: "short"})

	state, err := h.svc.Submit(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, domain.StateIdle, state.Status)
	assert.Equal(t, map[string]string{
		"name":    "Name is required",
		"message": "Message must be at least 10 characters",
	}, state.Errors.Messages())
	assert.Equal(t, domain.KindRequired, state.Errors[domain.FieldName].Kind)
	assert.Equal(t, domain.KindTooShort, state.Errors[domain.FieldMessage].Kind)
	assert.Zero(t, h.svc.Pending())

	// Editing clears only the edited field, whatever the value.
	state, err = h.svc.Edit(ctx, sid, domain.FieldName, "")
	require.NoError(t, err)
	assert.False(t, state.Errors.Has(domain.FieldName))
	assert.True(t, state.Errors.Has(domain.FieldMessage))

	h.rec.assertNoToast(t)
	transitions, rejected, _, _ := h.rec.snapshot()
	assert.Empty(t, transitions)
	assert.Equal(t, 1, rejected)

	h.shutdown(t)
}

func TestService_DeliveryFailureKeepsValues(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := newHarness(t, simulated.WithFailure(errors.New("smtp down")))
	ctx := context.Background()
	sid := "failure"
	h.fill(t, sid, quote)

	_, err := h.svc.Submit(ctx, sid)
	require.NoError(t, err)

	require.NoError(t, h.clock.BlockUntilContext(ctx, 1))
	h.clock.Advance(simulated.DefaultLatency)

	assert.Equal(t, domain.FailedNotification(), h.rec.waitToast(t))
	state := h.waitStatus(t, sid, domain.StateIdle)
	assert.Equal(t, quote, state.Input)
	assert.Empty(t, state.Errors)
	assert.Empty(t, state.SubmissionID)
	assert.Eventually(t, func() bool { return h.svc.Pending() == 0 }, time.Second, time.Millisecond)

	// The visitor can retry straight away.
	retry, err := h.svc.Submit(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, domain.StateSubmitting, retry.Status)
	assert.Equal(t, 2, retry.Attempt)

	_, _, _, failed := h.rec.snapshot()
	assert.Equal(t, 1, failed)

	h.shutdown(t)
}

func TestService_CloseCancelsDelivery(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := newHarness(t)
	ctx := context.Background()
	sid := "close-delivery"
	h.fill(t, sid, quote)

	_, err := h.svc.Submit(ctx, sid)
	require.NoError(t, err)
	require.NoError(t, h.clock.BlockUntilContext(ctx, 1))

	require.NoError(t, h.svc.Close(ctx, sid))
	assert.Zero(t, h.svc.Pending())

	h.clock.Advance(simulated.DefaultLatency)
	h.rec.assertNoToast(t)

	_, err = h.sessions.Load(ctx, sid)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	h.shutdown(t)
	transitions, _, delivered, failed := h.rec.snapshot()
	assert.Equal(t, []string{"idle->submitting"}, transitions)
	assert.Zero(t, delivered)
	assert.Zero(t, failed)
}

func TestService_CloseCancelsReset(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := newHarness(t)
	ctx := context.Background()
	sid := "close-reset"
	h.fill(t, sid, quote)

	_, err := h.svc.Submit(ctx, sid)
	require.NoError(t, err)
	require.NoError(t, h.clock.BlockUntilContext(ctx, 1))
	h.clock.Advance(simulated.DefaultLatency)
	h.rec.waitToast(t)
	h.waitStatus(t, sid, domain.StateSubmitted)
	require.NoError(t, h.clock.BlockUntilContext(ctx, 1))

	require.NoError(t, h.svc.Close(ctx, sid))
	h.clock.Advance(contact.DefaultResetDelay)

	h.shutdown(t)
	_, err = h.sessions.Load(ctx, sid)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	transitions, _, _, _ := h.rec.snapshot()
	assert.NotContains(t, transitions, "submitted->idle")
}

func TestService_Shutdown(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := newHarness(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		sid := fmt.Sprintf("shutdown-%d", i)
		h.fill(t, sid, quote)
		_, err := h.svc.Submit(ctx, sid)
		require.NoError(t, err)
	}
	require.NoError(t, h.clock.BlockUntilContext(ctx, 3))
	assert.Equal(t, 3, h.svc.Pending())

	h.shutdown(t)
	assert.Zero(t, h.svc.Pending())
	h.rec.assertNoToast(t)

	h.fill(t, "late", quote)
	_, err := h.svc.Submit(ctx, "late")
	assert.ErrorIs(t, err, contact.ErrClosed)
}

func TestService_StaleRecovery(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	t.Run("Lost Delivery Returns To Idle", func(t *testing.T) {
		st := domain.NewFormState("stale-submitting")
		st.Input = quote
		st.Status = domain.StateSubmitting
		st.Attempt = 1
		st.UpdatedAt = h.clock.Now().Add(-2 * contact.DefaultStaleAfter)
		require.NoError(t, h.sessions.Save(ctx, st.SessionID, st))

		got, err := h.svc.State(ctx, st.SessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.StateIdle, got.Status)
		assert.Equal(t, quote, got.Input)
	})

	t.Run("Missed Reset Clears Form", func(t *testing.T) {
		st := domain.NewFormState("stale-submitted")
		st.Input = quote
		st.Status = domain.StateSubmitted
		st.Attempt = 1
		st.UpdatedAt = h.clock.Now().Add(-2 * contact.DefaultStaleAfter)
		require.NoError(t, h.sessions.Save(ctx, st.SessionID, st))

		got, err := h.svc.State(ctx, st.SessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.StateIdle, got.Status)
		assert.True(t, got.Input.IsEmpty())
	})

	t.Run("Recent Form Is Left Alone", func(t *testing.T) {
		st := domain.NewFormState("fresh-submitting")
		st.Status = domain.StateSubmitting
		st.UpdatedAt = h.clock.Now()
		require.NoError(t, h.sessions.Save(ctx, st.SessionID, st))

		got, err := h.svc.State(ctx, st.SessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.StateSubmitting, got.Status)
	})

	h.shutdown(t)
}

func TestService_PublishesDiffs(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Edit(ctx, "diffs", domain.FieldEmail, "ada@example.com")
	require.NoError(t, err)

	select {
	case d := <-h.rec.diffs:
		assert.Equal(t, "diffs", d.SessionID)
		assert.Equal(t, map[domain.Field]string{domain.FieldEmail: "ada@example.com"}, d.Input)
		assert.Nil(t, d.Status)
	case <-time.After(time.Second):
		t.Fatal("no diff published")
	}

	// Rejected edits publish nothing.
	_, err = h.svc.Edit(ctx, "diffs", domain.Field("phone"), "123")
	assert.ErrorIs(t, err, domain.ErrUnknownField)
	select {
	case d := <-h.rec.diffs:
		t.Fatalf("unexpected diff: %+v", d)
	default:
	}

	h.shutdown(t)
}
