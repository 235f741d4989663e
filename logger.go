package bdispatch

import (
	"log"
	"sync/atomic"
	"testing"
)

// Logger can be implemented to get informed about important states.
type Logger interface {
	// LogUnhandledDispatchError is called when even the default error responder failed.
	LogUnhandledDispatchError(err error)
	// LogHandlerError is called by the default error responder for the error it responds with.
	LogHandlerError(err error)
	// LogStackExhausted is called when no stage finalized the response. It means no not-found
	// responder was installed, or it didn't finalize.
	LogStackExhausted(method, path string)
	// LogFinalizeError is called when a result could not be written as the response body.
	LogFinalizeError(err error)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogUnhandledDispatchError(err error) {
	l.Logger.Printf("bdispatch: unhandled dispatch error: %s", err)
}

func (l stdLogger) LogHandlerError(err error) {
	l.Logger.Printf("bdispatch: handler error: %s", err)
}

func (l stdLogger) LogStackExhausted(method, path string) {
	l.Logger.Printf("bdispatch: warning: stack exhausted without a response for %s %s, "+
		"responding with not found. This is a bug in the configuration", method, path)
}

func (l stdLogger) LogFinalizeError(err error) {
	l.Logger.Printf("bdispatch: error while finalizing response: %s", err)
}

// NewStdLogger returns a Logger that prints to 'l'. A nil 'l' uses log.Default().
func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}

	return stdLogger{l}
}

type TestLogger struct {
	tb testing.TB

	NumLogUnhandledDispatchError int64
	NumLogHandlerError           int64
	NumLogStackExhausted         int64
	NumLogFinalizeError          int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogUnhandledDispatchError(err error) {
	atomic.AddInt64(&l.NumLogUnhandledDispatchError, 1)
	l.tb.Logf("bdispatch: unhandled dispatch error: %s", err)
}

func (l *TestLogger) LogHandlerError(err error) {
	atomic.AddInt64(&l.NumLogHandlerError, 1)
	l.tb.Logf("bdispatch: handler error: %s", err)
}

func (l *TestLogger) LogStackExhausted(method, path string) {
	atomic.AddInt64(&l.NumLogStackExhausted, 1)
	l.tb.Logf("bdispatch: stack exhausted for %s %s", method, path)
}

func (l *TestLogger) LogFinalizeError(err error) {
	atomic.AddInt64(&l.NumLogFinalizeError, 1)
	l.tb.Logf("bdispatch: error while finalizing response: %s", err)
}

var _ Logger = &TestLogger{}
