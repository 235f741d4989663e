package bdrun

import (
	"net/http"

	"github.com/advdv/bdispatch"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RequestIDHeader is read from the request, and set on the response, to correlate logs.
const RequestIDHeader = "X-Request-ID"

type localsKey int

const localsKeyRequestDep localsKey = iota

// requestDep holds request-scoped dependencies.
// App-scoped dependencies (env, app) are accessed via Runtime instead.
type requestDep struct {
	id     string
	logger *zap.Logger
}

// WithRequestDep returns a global stage that assigns the request its id and makes the request
// dependencies available to later stages. An incoming X-Request-ID is kept.
func WithRequestDep(logger *zap.Logger) bdispatch.HandlerFunc {
	return func(w bdispatch.ResponseWriter, r *http.Request) (any, error) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		bdispatch.LocalsOf(r).Set(localsKeyRequestDep, &requestDep{id: id, logger: logger})

		return nil, nil
	}
}

func requestDepFromRequest(r *http.Request) *requestDep {
	d, ok := bdispatch.LocalValue[*requestDep](r, localsKeyRequestDep)
	if !ok {
		panic("bdrun: requestDep not found for request; is the stage registered?")
	}

	return d
}

// RequestID returns the id of the request.
func RequestID(r *http.Request) string {
	return requestDepFromRequest(r).id
}

// Log returns a request and trace-correlated zap logger.
func Log(r *http.Request) *zap.Logger {
	d := requestDepFromRequest(r)

	return d.logger.With(zap.String("request_id", d.id)).With(traceFields(r)...)
}

// Span returns the current trace span of the request.
func Span(r *http.Request) trace.Span {
	return trace.SpanFromContext(r.Context())
}

// traceFields extracts trace_id and span_id for log correlation.
func traceFields(r *http.Request) []zap.Field {
	sc := trace.SpanContextFromContext(r.Context())
	if !sc.IsValid() {
		return nil
	}

	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}
