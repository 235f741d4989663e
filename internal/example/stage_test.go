package example_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advdv/bdispatch"
	"github.com/advdv/bdispatch/internal/example"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStage(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	app := bdispatch.New(bdispatch.WithLogger(bdispatch.NewTestLogger(t)))
	app.Get("/", bdispatch.HandlerFunc(func(_ bdispatch.ResponseWriter, r *http.Request) (any, error) {
		example.Log(r).Info("before stage")
		return nil, nil
	}))
	app.Use(example.Stage(zap.New(core)))
	app.Get("/", bdispatch.HandlerFunc(func(_ bdispatch.ResponseWriter, r *http.Request) (any, error) {
		example.Log(r).Info("after stage")
		return "ok", nil
	}))

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, "ok", rec.Body.String())

	entries := logs.TakeAll()
	require.Len(t, entries, 1)
	require.Equal(t, "after stage", entries[0].Message)
	require.Equal(t, http.MethodGet, entries[0].ContextMap()["method"])
}
