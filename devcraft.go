package devcraft

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/devcraft/internal/config"
	"github.com/aretw0/devcraft/internal/logging"
	"github.com/aretw0/devcraft/internal/metrics"
	"github.com/aretw0/devcraft/internal/trace"
	"github.com/aretw0/devcraft/pkg/adapters/file"
	httpadapter "github.com/aretw0/devcraft/pkg/adapters/http"
	"github.com/aretw0/devcraft/pkg/adapters/memory"
	"github.com/aretw0/devcraft/pkg/adapters/redis"
	"github.com/aretw0/devcraft/pkg/adapters/simulated"
	"github.com/aretw0/devcraft/pkg/adapters/sqlite"
	"github.com/aretw0/devcraft/pkg/contact"
	"github.com/aretw0/devcraft/pkg/content"
	"github.com/aretw0/devcraft/pkg/domain"
	"github.com/aretw0/devcraft/pkg/persistence/middleware"
	"github.com/aretw0/devcraft/pkg/ports"
	"github.com/aretw0/devcraft/pkg/session"
	"github.com/aretw0/devcraft/pkg/site"
	"github.com/jonboulle/clockwork"
)

// ErrSimulatedFailure is what the simulated deliverer returns when delivery.fail is set.
var ErrSimulatedFailure = errors.New("simulated delivery failure")

// App is the assembled service: content, renderer, workflow and HTTP handler.
type App struct {
	Content  *content.Site
	Renderer *site.Renderer
	Sessions *session.Manager
	Contact  *contact.Service
	Streams  *httpadapter.StreamManager
	Metrics  *metrics.Metrics
	Tracing  *trace.Provider
	Inbox    *sqlite.Inbox

	cfg     *config.Config
	logger  *slog.Logger
	handler http.Handler
	closers []func() error
}

// Option customizes New.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	clock     clockwork.Clock
	store     ports.StateStore
	deliverer ports.Deliverer
	site      *content.Site
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock drives delivery latency and the reset delay from c.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithStore replaces the configured store backend. Middleware still applies.
func WithStore(s ports.StateStore) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithDeliverer replaces the configured delivery backend.
func WithDeliverer(d ports.Deliverer) Option {
	return func(o *options) {
		o.deliverer = d
	}
}

// WithContent serves site instead of the embedded content.
func WithContent(site *content.Site) Option {
	return func(o *options) {
		o.site = site
	}
}

// New wires every component described by cfg.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := &options{
		logger: logging.NewNop(),
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(o)
	}

	app := &App{cfg: cfg, logger: o.logger}
	if err := app.build(ctx, o); err != nil {
		_ = app.close()
		return nil, err
	}
	return app, nil
}

func (a *App) build(ctx context.Context, o *options) error {
	cfg := a.cfg

	a.Content = o.site
	if a.Content == nil {
		loaded, err := content.Load()
		if err != nil {
			return fmt.Errorf("failed to load site content: %w", err)
		}
		a.Content = loaded
	}

	renderer, err := site.New(a.Content, site.WithPretty(cfg.Pretty), site.WithNow(o.clock.Now))
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	a.Renderer = renderer

	sessions, err := a.buildSessions(o)
	if err != nil {
		return err
	}
	a.Sessions = sessions

	deliverer, err := a.buildDeliverer(o)
	if err != nil {
		return err
	}

	a.Tracing, err = trace.New(ctx, trace.Config{
		Endpoint:    cfg.Trace.Endpoint,
		Insecure:    cfg.Trace.Insecure,
		SampleRatio: cfg.Trace.SampleRatio,
		Version:     Version,
	})
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func() error { return a.Tracing.Shutdown(context.Background()) })

	a.Streams = httpadapter.NewStreamManager(a.logger)

	contactOpts := []contact.Option{
		contact.WithClock(o.clock),
		contact.WithLogger(a.logger),
		contact.WithNotifier(a.Streams),
		contact.WithPublisher(a.Streams),
		contact.WithResetDelay(cfg.Contact.ResetDelay),
		contact.WithStaleAfter(cfg.Contact.StaleAfter),
		contact.WithTracer(a.Tracing.Tracer("github.com/aretw0/devcraft/pkg/contact")),
	}
	httpOpts := []httpadapter.Option{
		httpadapter.WithLogger(a.logger),
		httpadapter.WithStreams(a.Streams),
		httpadapter.WithVersion(Version),
		httpadapter.WithSecureCookies(cfg.HTTP.SecureCookies),
		httpadapter.WithPingInterval(cfg.HTTP.PingInterval),
	}
	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
		contactOpts = append(contactOpts, contact.WithHooks(a.Metrics.Hooks()))
		httpOpts = append(httpOpts,
			httpadapter.WithMetricsHandler(a.Metrics.Handler()),
			httpadapter.WithRequestObserver(a.Metrics.ObserveRequest),
		)
	}

	a.Contact = contact.NewService(a.Sessions, deliverer, contactOpts...)
	a.handler = httpadapter.NewHandler(a.Contact, a.Renderer, httpOpts...)

	a.logger.Debug("Application wired",
		"store", cfg.Store.Backend,
		"delivery", cfg.Delivery.Backend,
		"encrypted", cfg.Store.EncryptionKey != "",
		"metrics", cfg.Metrics.Enabled,
		"tracing", a.Tracing.Enabled(),
	)
	return nil
}

func (a *App) buildSessions(o *options) (*session.Manager, error) {
	cfg := a.cfg.Store
	sessionOpts := []session.Option{session.WithLogger(a.logger)}

	store := o.store
	if store == nil {
		switch cfg.Backend {
		case config.StoreRedis:
			rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
				redis.WithTTL(cfg.Redis.TTL),
				redis.WithPrefix(cfg.Redis.Prefix),
			)
			a.closers = append(a.closers, rs.Close)
			sessionOpts = append(sessionOpts, session.WithLocker(redis.NewLocker(rs.Client(), cfg.Redis.Prefix)))
			store = rs
		case config.StoreFile:
			store = file.New(cfg.File.Dir)
		default:
			store = memory.NewStore()
		}
	}

	var mws []middleware.Middleware
	if cfg.RedactDelivered {
		mws = append(mws, middleware.NewPIIMiddleware())
	}
	keys, err := cfg.EncryptionKeys()
	if err != nil {
		return nil, fmt.Errorf("invalid store encryption key: %w", err)
	}
	if keys != nil {
		mws = append(mws, middleware.NewEncryptionMiddleware(*keys))
	}

	return session.NewManager(middleware.Chain(store, mws...), sessionOpts...), nil
}

func (a *App) buildDeliverer(o *options) (ports.Deliverer, error) {
	if o.deliverer != nil {
		return o.deliverer, nil
	}
	cfg := a.cfg

	simOpts := []simulated.Option{
		simulated.WithClock(o.clock),
		simulated.WithLatency(cfg.Contact.SubmitLatency),
	}
	if cfg.Delivery.Fail {
		simOpts = append(simOpts, simulated.WithFailure(ErrSimulatedFailure))
	}
	delay := simulated.New(simOpts...)

	if cfg.Delivery.Backend != config.DeliverySQLite {
		return delay, nil
	}

	inbox, err := sqlite.Open(cfg.Delivery.SQLite.Path)
	if err != nil {
		return nil, err
	}
	a.Inbox = inbox
	a.closers = append(a.closers, inbox.Close)

	// The inbox write follows the same latency the visitor sees with the simulated backend.
	return ports.DelivererFunc(func(ctx context.Context, sub domain.Submission) error {
		if err := delay.Deliver(ctx, sub); err != nil {
			return err
		}
		return inbox.Deliver(ctx, sub)
	}), nil
}

// Handler returns the site's HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Shutdown stops the workflow tasks, then releases stores, the inbox and the tracer.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.Contact != nil {
		if err := a.Contact.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("contact tasks: %w", err))
		}
	}
	if err := a.close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
