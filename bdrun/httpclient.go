package bdrun

import (
	"net/http"

	"github.com/advdv/bdispatch"
	"github.com/carlmjohnson/requests"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// NewHTTPTransport creates the RoundTripper for outbound calls. Calls are traced, and a call that is made
// with the context of a dispatched request carries that request's id in the X-Request-ID header.
func NewHTTPTransport(tp trace.TracerProvider, prop propagation.TextMapPropagator) http.RoundTripper {
	return otelhttp.NewTransport(forwardRequestID{next: http.DefaultTransport},
		otelhttp.WithTracerProvider(tp),
		otelhttp.WithPropagators(prop),
	)
}

// NewHTTPClient creates an *http.Client on top of 't'.
func NewHTTPClient(t http.RoundTripper) *http.Client {
	return &http.Client{Transport: t}
}

// forwardRequestID copies the id that [WithRequestDep] assigned onto outbound requests. The request
// locals travel with the context, so this works for any request built from r.Context().
type forwardRequestID struct {
	next http.RoundTripper
}

func (t forwardRequestID) RoundTrip(req *http.Request) (*http.Response, error) {
	d, ok := bdispatch.LocalValue[*requestDep](req, localsKeyRequestDep)
	if !ok || req.Header.Get(RequestIDHeader) != "" {
		return t.next.RoundTrip(req) //nolint:wrapcheck
	}

	req = req.Clone(req.Context())
	req.Header.Set(RequestIDHeader, d.id)

	return t.next.RoundTrip(req) //nolint:wrapcheck
}

// newRequestBuilder creates a base [requests.Builder] on 't'. Handlers access it via [Runtime.NewRequest].
func newRequestBuilder(t http.RoundTripper) *requests.Builder {
	return requests.New().Transport(t)
}
