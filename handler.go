package bdispatch

import (
	"net/http"
)

// Role tells the dispatcher when a stage may run.
type Role int

const (
	// RoleHandler stages run during the normal walk of the stack.
	RoleHandler Role = iota
	// RoleErrorHandler stages only run as a fallback after another stage failed.
	RoleErrorHandler
)

func (r Role) String() string {
	switch r {
	case RoleHandler:
		return "handler"
	case RoleErrorHandler:
		return "error handler"
	default:
		return "unknown"
	}
}

// Stage is one step of the execution stack. It is implemented by exactly two types: [HandlerFunc]
// and [ErrorHandlerFunc]. The type a function is registered as decides its role.
type Stage interface {
	Role() Role
	isStage()
}

// HandlerFunc is a stage that handles the request. A non-nil result is written as the response
// body, unless the handler already finalized the response itself. A nil result, including a typed
// nil such as a nil pointer or slice, continues the walk. A non-nil error triggers the error
// fallback.
type HandlerFunc func(w ResponseWriter, r *http.Request) (any, error)

// Role implements [Stage].
func (HandlerFunc) Role() Role { return RoleHandler }
func (HandlerFunc) isStage()   {}

// ErrorHandlerFunc is a stage that receives the error of a failed stage. It is skipped during the
// normal walk of the stack.
type ErrorHandlerFunc func(w ResponseWriter, r *http.Request, err error) (any, error)

// Role implements [Stage].
func (ErrorHandlerFunc) Role() Role { return RoleErrorHandler }
func (ErrorHandlerFunc) isStage()   {}

var (
	_ Stage = HandlerFunc(nil)
	_ Stage = ErrorHandlerFunc(nil)
)

// StdHandler runs a standard library [http.Handler] as a stage. The std handler is expected to
// write the full response, if it doesn't the walk continues with the next stage.
func StdHandler(h http.Handler) HandlerFunc {
	return func(w ResponseWriter, r *http.Request) (any, error) {
		h.ServeHTTP(w, r)
		return nil, nil
	}
}

// Static returns a stage that always responds with 'body'.
func Static(body any) HandlerFunc {
	return func(ResponseWriter, *http.Request) (any, error) {
		return body, nil
	}
}
