package bdrun

import (
	"net/http"

	"github.com/advdv/bdispatch"
	"github.com/carlmjohnson/requests"
)

// Runtime provides access to app-scoped dependencies.
// Inject this into handler constructors via fx instead of pulling them from the request.
//
// Example:
//
//	type Handlers struct {
//	    rt *bdrun.Runtime[Env]
//	}
//
//	func NewHandlers(rt *bdrun.Runtime[Env]) *Handlers {
//	    return &Handlers{rt: rt}
//	}
//
//	func (h *Handlers) GetItem(w bdispatch.ResponseWriter, r *http.Request) (any, error) {
//	    url, _ := h.rt.Reverse("get-item", bdispatch.Param(r, "id"))
//	    // ...
//	}
type Runtime[E Environment] struct {
	env       E
	app       *bdispatch.App
	transport http.RoundTripper
	metrics   *Metrics
}

// RuntimeParams holds optional dependencies for Runtime.
type RuntimeParams struct {
	Transport http.RoundTripper
	Metrics   *Metrics
}

// NewRuntime creates a new Runtime with the given dependencies.
func NewRuntime[E Environment](env E, app *bdispatch.App, params RuntimeParams) *Runtime[E] {
	if params.Transport == nil {
		params.Transport = http.DefaultTransport
	}

	return &Runtime[E]{
		env:       env,
		app:       app,
		transport: params.Transport,
		metrics:   params.Metrics,
	}
}

// Env returns the environment configuration.
func (r *Runtime[E]) Env() E {
	return r.env
}

// Reverse returns the URL for a named route with the given parameters.
// The route must have been registered with a pattern from [bdispatch.App.Named].
func (r *Runtime[E]) Reverse(name string, params ...string) (string, error) {
	return r.app.Reverse(name, params...)
}

// NewRequest returns a fresh [requests.Builder] whose outbound requests are traced. Fetch it with the
// context of the dispatched request to forward the request id:
//
//	err := h.rt.NewRequest().BaseURL(upstream).ToJSON(&out).Fetch(r.Context())
func (r *Runtime[E]) NewRequest() *requests.Builder {
	return newRequestBuilder(r.transport)
}

// Metrics returns the app's metrics, nil when the runtime was created without them.
func (r *Runtime[E]) Metrics() *Metrics {
	return r.metrics
}
