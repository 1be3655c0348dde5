package contact

import (
	"log/slog"
	"time"

	"github.com/aretw0/devcraft/pkg/domain"
	"github.com/aretw0/devcraft/pkg/form"
	"github.com/aretw0/devcraft/pkg/ports"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/trace"
)

// DefaultResetDelay is how long the confirmation stays on screen before the form clears.
const DefaultResetDelay = 3000 * time.Millisecond

// DefaultStaleAfter is how old a non-idle form without a local task may get
// before State recovers it.
const DefaultStaleAfter = time.Minute

// Option configures the Service.
type Option func(*Service)

// WithClock sets the clock driving reset timers and form timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithLogger configures a logger for the Service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithHooks adds lifecycle hooks. Repeated calls are merged in order.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Service) {
		s.hooks = s.hooks.Merge(hooks)
	}
}

// WithNotifier sets the collaborator that shows toasts.
func WithNotifier(n ports.Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithPublisher sets the receiver of state diffs.
func WithPublisher(p ports.Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithResetDelay overrides DefaultResetDelay.
func WithResetDelay(d time.Duration) Option {
	return func(s *Service) {
		s.resetDelay = d
	}
}

// WithStaleAfter overrides DefaultStaleAfter. Zero disables recovery.
func WithStaleAfter(d time.Duration) Option {
	return func(s *Service) {
		s.staleAfter = d
	}
}

// WithTracer sets the tracer for contact.submit and contact.deliver spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithEngine replaces the default form engine.
func WithEngine(e *form.Engine) Option {
	return func(s *Service) {
		s.engine = e
	}
}
