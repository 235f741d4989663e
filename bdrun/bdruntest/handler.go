package bdruntest

import (
	"net/http"
	"net/http/httptest"

	"github.com/advdv/bdispatch"
)

// CallHandler runs a single [bdispatch.HandlerFunc] the way the dispatcher would and returns the
// recorded response. A handler that does not respond records the not found response. It panics
// when the handler returns an error.
func CallHandler(handler bdispatch.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	app := bdispatch.New(bdispatch.WithErrorResponder(
		func(_ bdispatch.ResponseWriter, _ *http.Request, err error) (any, error) {
			return nil, err
		}))
	app.Use(handler)

	rec := httptest.NewRecorder()
	if err := app.Dispatch(rec, req); err != nil {
		panic("bdruntest: handler returned error: " + err.Error())
	}

	return rec
}
