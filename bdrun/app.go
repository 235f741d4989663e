package bdrun

import (
	"context"
	"net/http"

	"github.com/advdv/bdispatch"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// App wraps an fx.App for lifecycle management.
type App struct {
	app *fx.App
}

// AppConfig holds configuration for the app.
type AppConfig struct {
	ServerConfig
	DispatchOptions []bdispatch.Option
	FxOptions       []fx.Option
}

// Option configures the App.
type Option func(*AppConfig)

// runtimeProviderParams holds dependencies for Runtime.
type runtimeProviderParams[E Environment] struct {
	fx.In

	Env       E
	App       *bdispatch.App
	Transport http.RoundTripper
	Metrics   *Metrics
}

// WithFx adds fx options for dependency injection.
func WithFx(fxOpts ...fx.Option) Option {
	return func(c *AppConfig) {
		c.FxOptions = append(c.FxOptions, fxOpts...)
	}
}

// WithDispatchOptions passes options to [bdispatch.New], for example a custom error responder.
func WithDispatchOptions(opts ...bdispatch.Option) Option {
	return func(c *AppConfig) {
		c.DispatchOptions = append(c.DispatchOptions, opts...)
	}
}

// WithHealthHandler sets a custom health check handler.
// If not set, a default handler returning 200 OK is used.
func WithHealthHandler(h func(http.ResponseWriter, *http.Request)) Option {
	return func(c *AppConfig) {
		c.HealthHandler = h
	}
}

// FxOptions returns the fx options that make up the app's dependency graph.
func FxOptions[E Environment](routing any, opts ...Option) []fx.Option {
	var cfg AppConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	baseOpts := make([]fx.Option, 0, 14+len(cfg.FxOptions))
	baseOpts = append(baseOpts, []fx.Option{
		fx.NopLogger,
		fx.Provide(ParseEnv[E]()),
		fx.Provide(func(e E) Environment { return e }),
		fx.Provide(func(e E) (*zap.Logger, error) { return NewLogger(e) }),
		fx.Provide(func(l *zap.Logger) *bdispatch.App {
			return bdispatch.New(append([]bdispatch.Option{
				bdispatch.WithLogger(NewDispatchLogger(l)),
			}, cfg.DispatchOptions...)...)
		}),
		fx.Provide(NewTracerProvider),
		fx.Provide(NewPropagator),
		fx.Provide(NewMetrics),
		fx.Provide(func(tp trace.TracerProvider, prop propagation.TextMapPropagator) http.RoundTripper {
			return NewHTTPTransport(tp, prop)
		}),
		fx.Supply(cfg.ServerConfig),
		fx.Provide(NewListenConfig),
		fx.Provide(func(p runtimeProviderParams[E]) *Runtime[E] {
			return NewRuntime(p.Env, p.App, RuntimeParams{Transport: p.Transport, Metrics: p.Metrics})
		}),
		fx.Invoke(startServerHook),
		fx.Invoke(routing),
	}...)

	return append(baseOpts, cfg.FxOptions...)
}

// NewApp creates a batteries-included app with dependency injection.
//
// The routing function can request any types that are provided via fx options.
// At minimum, it should accept *bdispatch.App for routing.
//
// Example:
//
//	bdrun.NewApp[Env](func(a *bdispatch.App, h *Handlers) {
//	    a.GetFunc(a.Named("list-items", "/items"), h.ListItems)
//	},
//	    bdrun.WithFx(fx.Provide(NewHandlers)),
//	).Run()
func NewApp[E Environment](routing any, opts ...Option) *App {
	return &App{
		app: fx.New(FxOptions[E](routing, opts...)...),
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() {
	a.app.Run()
}

// Err returns an error that occurred while building the dependency graph.
func (a *App) Err() error {
	return a.app.Err() //nolint:wrapcheck
}

// Start starts the application and blocks until 'ctx' is done, then stops it.
func (a *App) Start(ctx context.Context) error {
	if err := a.app.Start(ctx); err != nil {
		return err //nolint:wrapcheck
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.app.StopTimeout())
	defer cancel()

	return a.app.Stop(stopCtx) //nolint:wrapcheck
}
