package bdrun

import (
	"github.com/advdv/bdispatch"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger configured from the environment.
// Uses JSON encoding, BD_LOG_LEVEL controls the level (debug, info, warn, error).
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogUnhandledDispatchError(err error) {
	l.Logger.Error("unhandled dispatch error, aborting request", zap.Error(err))
}

func (l zapLogger) LogHandlerError(err error) {
	l.Logger.Error("handler error", zap.Error(err))
}

func (l zapLogger) LogStackExhausted(method, path string) {
	l.Logger.Warn("stack exhausted without a response",
		zap.String("method", method), zap.String("path", path))
}

func (l zapLogger) LogFinalizeError(err error) {
	l.Logger.Error("error while finalizing response", zap.Error(err))
}

// NewDispatchLogger adapts 'l' to the [bdispatch.Logger] interface.
func NewDispatchLogger(l *zap.Logger) bdispatch.Logger {
	return zapLogger{l.Named("bdispatch").Named("bdrun")}
}
