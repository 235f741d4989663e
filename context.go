package bdispatch

import (
	"context"
	"net/http"
	"sync"
)

// ctxKey is the key type for context values.
type ctxKey int

const (
	ctxKeyParams ctxKey = iota
	ctxKeyLocals
)

// Locals is a request-scoped store that lets earlier stages hand values to later stages of the same
// walk. Stages receive the same *http.Request for the whole walk, so values cannot be passed by
// replacing the request context.
type Locals struct {
	mu   sync.RWMutex
	vals map[any]any
}

// Set stores 'v' under 'key'.
func (l *Locals) Set(key, v any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.vals == nil {
		l.vals = map[any]any{}
	}

	l.vals[key] = v
}

// Get returns the value stored under 'key'.
func (l *Locals) Get(key any) (any, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	v, ok := l.vals[key]

	return v, ok
}

// LocalsOf returns the request-scoped store. Outside of a dispatch it returns a detached, empty store.
func LocalsOf(r *http.Request) *Locals {
	if l, ok := r.Context().Value(ctxKeyLocals).(*Locals); ok {
		return l
	}

	return &Locals{}
}

// LocalValue is a typed shortcut for reading from [LocalsOf].
func LocalValue[T any](r *http.Request, key any) (T, bool) {
	v, ok := LocalsOf(r).Get(key)
	if !ok {
		var zero T
		return zero, false
	}

	t, ok := v.(T)

	return t, ok
}

// ParamsOf returns all path parameters captured for the request.
func ParamsOf(r *http.Request) Params {
	ps, _ := r.Context().Value(ctxKeyParams).(Params)

	return ps
}

// Param returns the path parameter with the given name, or an empty string.
func Param(r *http.Request, name string) string {
	return ParamsOf(r)[name]
}

func withFrameValues(r *http.Request, ps Params) *http.Request {
	ctx := context.WithValue(r.Context(), ctxKeyParams, ps)
	ctx = context.WithValue(ctx, ctxKeyLocals, &Locals{})

	return r.WithContext(ctx)
}
