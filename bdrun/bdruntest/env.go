package bdruntest

import (
	"strconv"
	"testing"
)

// Env provides a chainable builder for setting [bdrun.BaseEnvironment] env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets all [bdrun.BaseEnvironment] env vars to sensible test defaults.
// Port is required because each test must use a unique port to avoid collisions.
//
// Defaults:
//   - BD_HOST: "127.0.0.1"
//   - BD_SERVICE_NAME: "test"
//   - BD_OTEL_EXPORTER: "none"
//   - BD_HEALTH_PATH: "/health"
//   - BD_METRICS_PATH: "/metrics"
//   - BD_SHUTDOWN_TIMEOUT: "5s"
//
// Use the returned [Env] to override individual values:
//
//	bdruntest.SetBaseEnv(t, 18085).ServiceName("orders").HealthPath("/ready")
func SetBaseEnv(t testing.TB, port int) *Env {
	t.Helper()
	t.Setenv("BD_HOST", "127.0.0.1")
	t.Setenv("BD_PORT", strconv.Itoa(port))
	t.Setenv("BD_SERVICE_NAME", "test")
	t.Setenv("BD_OTEL_EXPORTER", "none")
	t.Setenv("BD_HEALTH_PATH", "/health")
	t.Setenv("BD_METRICS_PATH", "/metrics")
	t.Setenv("BD_SHUTDOWN_TIMEOUT", "5s")

	return &Env{t: t}
}

// ServiceName overrides BD_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("BD_SERVICE_NAME", name)

	return e
}

// HealthPath overrides BD_HEALTH_PATH.
func (e *Env) HealthPath(path string) *Env {
	e.t.Helper()
	e.t.Setenv("BD_HEALTH_PATH", path)

	return e
}

// MetricsPath overrides BD_METRICS_PATH.
func (e *Env) MetricsPath(path string) *Env {
	e.t.Helper()
	e.t.Setenv("BD_METRICS_PATH", path)

	return e
}

// MaxConns overrides BD_MAX_CONNS.
func (e *Env) MaxConns(n int) *Env {
	e.t.Helper()
	e.t.Setenv("BD_MAX_CONNS", strconv.Itoa(n))

	return e
}

// OtelExporter overrides BD_OTEL_EXPORTER.
func (e *Env) OtelExporter(exp string) *Env {
	e.t.Helper()
	e.t.Setenv("BD_OTEL_EXPORTER", exp)

	return e
}
