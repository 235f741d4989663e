// Package bdruntest provides test helpers for bdrun applications.
//
// [New] builds the same dependency graph as [bdrun.NewApp] on [fxtest.App], so a
// broken graph fails the test right away. The returned [App] also holds on to the
// dispatcher the routing function registered on, which lets a test send requests
// through the complete execution stack (request id stage, health and metrics
// routes, not-found responder) without starting the listener:
//
//	bdruntest.SetBaseEnv(t, 18081)
//	app := bdruntest.New[TestEnv](t, routing, bdrun.WithFx(fx.Provide(NewHandlers)))
//	rec := app.Do(httptest.NewRequest(http.MethodGet, "/items/1", nil))
//
// Call RequireStart (and RequireStop on cleanup) to serve the app over the network.
package bdruntest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advdv/bdispatch"
	"github.com/advdv/bdispatch/bdrun"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// App embeds *fxtest.App and the dispatcher of the app under test.
type App struct {
	*fxtest.App
	dispatch *bdispatch.App
}

// New creates a test app with the same DI graph as [bdrun.NewApp].
func New[E bdrun.Environment](t testing.TB, routing any, opts ...bdrun.Option) *App {
	a := &App{}
	opts = append(opts, bdrun.WithFx(fx.Populate(&a.dispatch)))
	a.App = fxtest.New(t, bdrun.FxOptions[E](routing, opts...)...)

	return a
}

// Dispatcher returns the dispatcher the routing function registered on.
func (a *App) Dispatcher() *bdispatch.App {
	return a.dispatch
}

// Do sends 'req' through the execution stack in-process and returns the recorded response. The first
// request seals the stack, just like it does when the app is served.
func (a *App) Do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.dispatch.ServeHTTP(rec, req)

	return rec
}
