// Command bdispatch-demo serves a small app that shows how the execution stack handles failures.
//
// Run it with:
//
//	BD_PORT=8080 BD_SERVICE_NAME=demo go run ./cmd/bdispatch-demo
//
// GET / fails and is handled by the error handler registered for "/". GET /err fails and its error
// handler fails as well, so the default error responder answers with status 500.
package main

import (
	"net/http"

	"github.com/advdv/bdispatch"
	"github.com/advdv/bdispatch/bdrun"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

func routing(a *bdispatch.App) {
	a.UseFunc(func(w bdispatch.ResponseWriter, r *http.Request) (any, error) {
		if r.URL.Path == "/favicon.ico" {
			w.SetStatus(http.StatusNotFound)
		}

		return nil, nil
	})

	a.UseFunc(func(_ bdispatch.ResponseWriter, r *http.Request) (any, error) {
		bdrun.Log(r).Debug("resource requested", zap.String("path", r.URL.Path))
		return nil, nil
	})

	a.GetFunc("/", func(bdispatch.ResponseWriter, *http.Request) (any, error) {
		return nil, errors.New("fg")
	})

	a.UsePath("/", bdispatch.ErrorHandlerFunc(func(_ bdispatch.ResponseWriter, r *http.Request, err error) (any, error) {
		bdrun.Log(r).Error("request failed", zap.Error(err))
		return "Hiya!", nil
	}))

	a.GetFunc("/err", func(bdispatch.ResponseWriter, *http.Request) (any, error) {
		return nil, errors.New("fgfdf")
	})

	a.UsePath("/err", bdispatch.ErrorHandlerFunc(func(_ bdispatch.ResponseWriter, r *http.Request, err error) (any, error) {
		bdrun.Log(r).Error("request to /err failed", zap.Error(err))
		return nil, errors.New("the test")
	}))
}

func main() {
	bdrun.NewApp[bdrun.BaseEnvironment](routing).Run()
}
