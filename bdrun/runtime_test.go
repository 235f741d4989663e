package bdrun_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advdv/bdispatch"
	"github.com/advdv/bdispatch/bdrun"
	"github.com/carlmjohnson/requests"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func TestRuntimeNewRequest(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.Header.Get("Traceparent"))) //nolint:errcheck
	}))
	t.Cleanup(upstream.Close)

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	app := bdispatch.New()
	app.Get(app.Named("ping", "/ping/:n"), bdispatch.Static("x"))

	rt := bdrun.NewRuntime(appEnv{}, app, bdrun.RuntimeParams{
		Transport: bdrun.NewHTTPTransport(tp, propagation.TraceContext{}),
	})

	ctx, span := tp.Tracer("test").Start(t.Context(), "handler")

	var body string
	require.NoError(t, rt.NewRequest().BaseURL(upstream.URL).ToString(&body).Fetch(ctx))
	span.End()

	require.Contains(t, body, span.SpanContext().TraceID().String())
	require.Len(t, rec.Ended(), 2)

	url, err := rt.Reverse("ping", "1")
	require.NoError(t, err)
	require.Equal(t, "/ping/1", url)
	require.Nil(t, rt.Metrics())
	require.Equal(t, "", rt.Env().ServiceName)
}

func TestNewHTTPClient(t *testing.T) {
	c := bdrun.NewHTTPClient(http.DefaultTransport)
	require.Same(t, http.DefaultTransport, c.Transport)
}

func TestRuntimeNewRequestForwardsRequestID(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.Header.Get(bdrun.RequestIDHeader))) //nolint:errcheck
	}))
	t.Cleanup(upstream.Close)

	app := bdispatch.New(bdispatch.WithLogger(bdispatch.NewTestLogger(t)))
	rt := bdrun.NewRuntime(appEnv{}, app, bdrun.RuntimeParams{
		Transport: bdrun.NewHTTPTransport(sdktrace.NewTracerProvider(), propagation.TraceContext{}),
	})

	app.Use(bdrun.WithRequestDep(zap.NewNop()))
	app.GetFunc("/proxy", func(_ bdispatch.ResponseWriter, r *http.Request) (any, error) {
		var body string
		if err := rt.NewRequest().BaseURL(upstream.URL).ToString(&body).Fetch(r.Context()); err != nil {
			return nil, err //nolint:wrapcheck
		}

		return "upstream saw " + body, nil
	})
	app.GetFunc("/explicit", func(_ bdispatch.ResponseWriter, r *http.Request) (any, error) {
		var body string
		if err := rt.NewRequest().BaseURL(upstream.URL).
			Header(bdrun.RequestIDHeader, "chosen").
			ToString(&body).Fetch(r.Context()); err != nil {
			return nil, err //nolint:wrapcheck
		}

		return body, nil
	})

	t.Run("incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/proxy", nil)
		req.Header.Set(bdrun.RequestIDHeader, "abc-123")

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "upstream saw abc-123", rec.Body.String())
	})

	t.Run("generated id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/proxy", nil))
		require.Equal(t, "upstream saw "+rec.Header().Get(bdrun.RequestIDHeader), rec.Body.String())
	})

	t.Run("explicit header wins", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/explicit", nil))
		require.Equal(t, "chosen", rec.Body.String())
	})
}

func TestHTTPTransportOutsideDispatch(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("id=" + r.Header.Get(bdrun.RequestIDHeader))) //nolint:errcheck
	}))
	t.Cleanup(upstream.Close)

	c := bdrun.NewHTTPClient(bdrun.NewHTTPTransport(sdktrace.NewTracerProvider(), propagation.TraceContext{}))

	var body string
	require.NoError(t, requests.URL(upstream.URL).Client(c).ToString(&body).Fetch(t.Context()))
	require.Equal(t, "id=", body)
}
