package bdrun

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must implement.
// Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	host() string
	port() int
	serviceName() string
	logLevel() zapcore.Level
	otelExporter() string
	healthPath() string
	metricsPath() string
	maxConns() int
	shutdownTimeout() time.Duration
}

// BaseEnvironment contains the environment variables every app reads.
// Embed this in your custom environment struct.
type BaseEnvironment struct {
	Host            string        `env:"BD_HOST"`
	Port            int           `env:"BD_PORT,required"`
	ServiceName     string        `env:"BD_SERVICE_NAME,required"`
	LogLevel        zapcore.Level `env:"BD_LOG_LEVEL" envDefault:"info"`
	OtelExporter    string        `env:"BD_OTEL_EXPORTER" envDefault:"none"`
	HealthPath      string        `env:"BD_HEALTH_PATH" envDefault:"/health"`
	MetricsPath     string        `env:"BD_METRICS_PATH" envDefault:"/metrics"`
	MaxConns        int           `env:"BD_MAX_CONNS" envDefault:"0"`
	ShutdownTimeout time.Duration `env:"BD_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func (e BaseEnvironment) host() string                   { return e.Host }
func (e BaseEnvironment) port() int                      { return e.Port }
func (e BaseEnvironment) serviceName() string            { return e.ServiceName }
func (e BaseEnvironment) logLevel() zapcore.Level        { return e.LogLevel }
func (e BaseEnvironment) otelExporter() string           { return e.OtelExporter }
func (e BaseEnvironment) healthPath() string             { return e.HealthPath }
func (e BaseEnvironment) metricsPath() string            { return e.MetricsPath }
func (e BaseEnvironment) maxConns() int                  { return e.MaxConns }
func (e BaseEnvironment) shutdownTimeout() time.Duration { return e.ShutdownTimeout }

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}

		return e, nil
	}
}
