// Package example implements an example stage in an outside package.
package example

import (
	"net/http"

	"github.com/advdv/bdispatch"
	"go.uber.org/zap"
)

// localsKey type scopes the values this package stores.
type localsKey string

// Stage provides an example for a stage that hands a logger to later stages.
func Stage(logs *zap.Logger) bdispatch.HandlerFunc {
	return func(_ bdispatch.ResponseWriter, r *http.Request) (any, error) {
		bdispatch.LocalsOf(r).Set(localsKey("zap"), logs.With(zap.String("method", r.Method)))

		return nil, nil
	}
}

// Log returns the logger stored by [Stage], or a no-op logger.
func Log(r *http.Request) *zap.Logger {
	if l, ok := bdispatch.LocalValue[*zap.Logger](r, localsKey("zap")); ok {
		return l
	}

	return zap.NewNop()
}
