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

// ServerConfig holds optional configuration for the HTTP server.
type ServerConfig struct {
	HealthHandler func(http.ResponseWriter, *http.Request)
}

// ServerParams holds the dependencies for serving the app.
type ServerParams struct {
	fx.In

	Env        Environment
	App        *bdispatch.App
	Logger     *zap.Logger
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
	Metrics    *Metrics
}

// NewListenConfig registers the stages every app starts with and returns how the app is served.
// It must run before the routing so the request dependencies are available to every route.
func NewListenConfig(params ServerParams, cfg ServerConfig) bdispatch.ListenConfig {
	params.App.Use(WithRequestDep(params.Logger))

	healthPath := params.Env.healthPath()
	healthHandler := cfg.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}

	params.App.Get(healthPath, bdispatch.StdHandler(http.HandlerFunc(healthHandler)))

	metricsPath := params.Env.metricsPath()
	params.App.Get(metricsPath, bdispatch.StdHandler(params.Metrics.Handler()))

	return bdispatch.ListenConfig{
		Host:    params.Env.host(),
		Port:    params.Env.port(),
		Backlog: params.Env.maxConns(),
		Middleware: []bdispatch.Middleware{
			// Tracing is disabled for probes and scrapes to avoid noisy orphan traces.
			withTracing(params.TracerProv, params.Propagator, params.Env.serviceName(), healthPath, metricsPath),
			params.Metrics.Middleware,
		},
	}
}

// startServerHook registers lifecycle hooks for the HTTP server.
func startServerHook(
	lc fx.Lifecycle, env Environment, app *bdispatch.App, cfg bdispatch.ListenConfig, logger *zap.Logger,
) {
	var srv *bdispatch.Server

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) (err error) {
			if srv, err = app.Start(ctx, cfg); err != nil {
				return err //nolint:wrapcheck
			}

			logger.Info("started server", zap.Stringer("addr", srv.Addr()))

			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")

			if d := env.shutdownTimeout(); d > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d)
				defer cancel()
			}

			return srv.Shutdown(ctx) //nolint:wrapcheck
		},
	})
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
