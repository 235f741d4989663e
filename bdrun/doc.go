// Package bdrun runs a [bdispatch.App] as a service.
//
// # Overview
//
// bdrun wires the ambient concerns of a service around the dispatcher with
// go.uber.org/fx: configuration from environment variables, structured logging
// with zap, OpenTelemetry tracing, Prometheus metrics and a health route. The
// routing function receives the [bdispatch.App] and anything else provided via
// [WithFx]:
//
//	type Env struct {
//	    bdrun.BaseEnvironment
//	    TableName string `env:"TABLE_NAME,required"`
//	}
//
//	func main() {
//	    bdrun.NewApp[Env](func(a *bdispatch.App, h *Handlers) {
//	        a.GetFunc(a.Named("get-item", "/items/:id"), h.GetItem)
//	    }, bdrun.WithFx(fx.Provide(NewHandlers))).Run()
//	}
//
// # Environment
//
// [BaseEnvironment] reads the variables every app needs:
//
//   - BD_PORT (required) and BD_HOST: the address to listen on
//   - BD_SERVICE_NAME (required): used for tracing and metrics
//   - BD_LOG_LEVEL: debug, info (default), warn or error
//   - BD_OTEL_EXPORTER: none (default) or stdout
//   - BD_HEALTH_PATH and BD_METRICS_PATH: default to /health and /metrics
//   - BD_MAX_CONNS: caps concurrently accepted connections, 0 means no cap
//   - BD_SHUTDOWN_TIMEOUT: how long in-flight requests get on shutdown (10s)
//
// # Stages
//
// Before the routing runs, bdrun registers a global stage that assigns every
// request an id (kept from an incoming X-Request-ID header) and the routes for
// the health check and metrics. Handlers get a request-correlated logger with
// [Log] and the request's span with [Span].
//
// # Runtime
//
// [Runtime] gives handler constructors access to the environment, URL
// reversing, metrics and a traced HTTP client via [Runtime.NewRequest].
package bdrun
