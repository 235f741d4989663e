package bdispatch

import (
	"log"
	"net/http"
	"sync"
	"sync/atomic"
)

// stackEntry is one position of the execution stack: a globalEntry or a routedMarker.
type stackEntry interface{ isEntry() }

// globalEntry is a stage that is not bound to a path, it applies to every request.
type globalEntry struct{ stage Stage }

// routedMarker refers to a candidate registered with the matcher, it only applies to requests that
// match the candidate.
type routedMarker struct{ id CandidateID }

func (globalEntry) isEntry()  {}
func (routedMarker) isEntry() {}

// App dispatches requests through a single execution stack in which global stages and routed stages
// run in the order they were registered.
type App struct {
	logs      Logger
	matcher   Matcher
	reverser  *Reverser
	errorResp ErrorHandlerFunc
	notFound  HandlerFunc
	stack     []stackEntry
	nextID    CandidateID
	sealed    atomic.Bool
	sealOnce  sync.Once
}

// Option configures the App.
type Option func(*App)

// WithLogger sets the logger, it defaults to the standard library's default logger.
func WithLogger(l Logger) Option {
	return func(a *App) { a.logs = l }
}

// WithMatcher replaces the default path matcher.
func WithMatcher(m Matcher) Option {
	return func(a *App) { a.matcher = m }
}

// WithErrorResponder replaces the default error responder. If it fails the failure is unrecoverable
// for that request.
func WithErrorResponder(h ErrorHandlerFunc) Option {
	return func(a *App) { a.errorResp = h }
}

// WithNotFound replaces the not-found responder that is installed at the end of the stack.
func WithNotFound(h HandlerFunc) Option {
	return func(a *App) { a.notFound = h }
}

// New creates an App with an empty stack.
func New(opts ...Option) *App {
	a := &App{
		logs:     NewStdLogger(log.Default()),
		matcher:  NewMatcher(),
		reverser: NewReverser(),
		notFound: NotFound,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.errorResp == nil {
		a.errorResp = DefaultErrorResponder(a.logs)
	}

	return a
}

// Use appends global stages. They run for every request, in between the routed stages that were
// registered before and after them.
func (a *App) Use(stages ...Stage) *App {
	a.ensureNotSealed()

	for _, s := range stages {
		ensureStage(s)
		a.stack = append(a.stack, globalEntry{s})
	}

	return a
}

// UsePath appends stages for every request method whose path equals 'pattern' or lies below it.
func (a *App) UsePath(pattern string, stages ...Stage) *App {
	return a.register(stages, func(c Candidate) error {
		return a.matcher.RegisterPrefix(pattern, c)
	})
}

// Handle appends stages for requests with 'method' that match 'pattern'. Use [MethodAll] to match any
// method.
func (a *App) Handle(method, pattern string, stages ...Stage) *App {
	return a.register(stages, func(c Candidate) error {
		return a.matcher.Register(method, pattern, c)
	})
}

// All registers stages for every method.
func (a *App) All(pattern string, stages ...Stage) *App {
	return a.Handle(MethodAll, pattern, stages...)
}

// Get registers stages for GET (and HEAD) requests.
func (a *App) Get(pattern string, stages ...Stage) *App {
	return a.Handle(http.MethodGet, pattern, stages...)
}

// Head registers stages for HEAD requests.
func (a *App) Head(pattern string, stages ...Stage) *App {
	return a.Handle(http.MethodHead, pattern, stages...)
}

// Post registers stages for POST requests.
func (a *App) Post(pattern string, stages ...Stage) *App {
	return a.Handle(http.MethodPost, pattern, stages...)
}

// Put registers stages for PUT requests.
func (a *App) Put(pattern string, stages ...Stage) *App {
	return a.Handle(http.MethodPut, pattern, stages...)
}

// Patch registers stages for PATCH requests.
func (a *App) Patch(pattern string, stages ...Stage) *App {
	return a.Handle(http.MethodPatch, pattern, stages...)
}

// Delete registers stages for DELETE requests.
func (a *App) Delete(pattern string, stages ...Stage) *App {
	return a.Handle(http.MethodDelete, pattern, stages...)
}

// Options registers stages for OPTIONS requests.
func (a *App) Options(pattern string, stages ...Stage) *App {
	return a.Handle(http.MethodOptions, pattern, stages...)
}

// Connect registers stages for CONNECT requests.
func (a *App) Connect(pattern string, stages ...Stage) *App {
	return a.Handle(http.MethodConnect, pattern, stages...)
}

// Trace registers stages for TRACE requests.
func (a *App) Trace(pattern string, stages ...Stage) *App {
	return a.Handle(http.MethodTrace, pattern, stages...)
}

// UseFunc appends a single global [HandlerFunc]. Unlike [App.Use] it accepts plain functions and method
// values without a conversion.
func (a *App) UseFunc(h HandlerFunc) *App {
	return a.Use(h)
}

// UseError appends a global [ErrorHandlerFunc]. Registered last it catches every failure that no routed
// error handler took care of.
func (a *App) UseError(h ErrorHandlerFunc) *App {
	return a.Use(h)
}

// HandleFunc registers a single [HandlerFunc] for requests with 'method' that match 'pattern'.
func (a *App) HandleFunc(method, pattern string, h HandlerFunc) *App {
	return a.Handle(method, pattern, h)
}

// HandleError registers an [ErrorHandlerFunc] for requests with 'method' that match 'pattern'. It handles
// failures of the routed stages registered before it.
func (a *App) HandleError(method, pattern string, h ErrorHandlerFunc) *App {
	return a.Handle(method, pattern, h)
}

// GetFunc registers a single [HandlerFunc] for GET (and HEAD) requests.
func (a *App) GetFunc(pattern string, h HandlerFunc) *App {
	return a.Handle(http.MethodGet, pattern, h)
}

// PostFunc registers a single [HandlerFunc] for POST requests.
func (a *App) PostFunc(pattern string, h HandlerFunc) *App {
	return a.Handle(http.MethodPost, pattern, h)
}

// PutFunc registers a single [HandlerFunc] for PUT requests.
func (a *App) PutFunc(pattern string, h HandlerFunc) *App {
	return a.Handle(http.MethodPut, pattern, h)
}

// PatchFunc registers a single [HandlerFunc] for PATCH requests.
func (a *App) PatchFunc(pattern string, h HandlerFunc) *App {
	return a.Handle(http.MethodPatch, pattern, h)
}

// DeleteFunc registers a single [HandlerFunc] for DELETE requests.
func (a *App) DeleteFunc(pattern string, h HandlerFunc) *App {
	return a.Handle(http.MethodDelete, pattern, h)
}

// Named records 'pattern' under 'name' so it can be turned back into a path with [App.Reverse]. It returns
// the pattern for use in a registration call.
func (a *App) Named(name, pattern string) string {
	return a.reverser.Named(name, pattern)
}

// Reverse returns the path for the named pattern with its parameters substituted by 'vals'.
func (a *App) Reverse(name string, vals ...string) (string, error) {
	return a.reverser.Reverse(name, vals...)
}

// Seal ends the configuration phase: the not-found responder is installed and any further registration
// panics. It is called implicitly by [App.Start] and by the first request, calling it again is a no-op.
func (a *App) Seal() {
	a.sealOnce.Do(a.seal)
}

func (a *App) seal() {
	a.sealed.Store(true)

	// the not-found responder goes right before the trailing global error handlers so the last of
	// those remains the last entry, and thereby the catch-all for global failures.
	at := len(a.stack)
	for at > 0 && isGlobalErrorHandler(a.stack[at-1]) {
		at--
	}

	stack := make([]stackEntry, 0, len(a.stack)+1)
	stack = append(stack, a.stack[:at]...)
	stack = append(stack, globalEntry{a.notFound})
	stack = append(stack, a.stack[at:]...)
	a.stack = stack
}

func (a *App) register(stages []Stage, add func(Candidate) error) *App {
	a.ensureNotSealed()

	for _, s := range stages {
		ensureStage(s)

		a.nextID++
		c := Candidate{ID: a.nextID, Stage: s}
		if err := add(c); err != nil {
			panic("bdispatch: " + err.Error())
		}

		a.stack = append(a.stack, routedMarker{c.ID})
	}

	return a
}

func (a *App) ensureNotSealed() {
	if a.sealed.Load() {
		panic("bdispatch: cannot register after the stack is sealed")
	}
}

func ensureStage(s Stage) {
	switch st := s.(type) {
	case HandlerFunc:
		if st != nil {
			return
		}
	case ErrorHandlerFunc:
		if st != nil {
			return
		}
	}

	panic("bdispatch: nil stage")
}

func isGlobalErrorHandler(e stackEntry) bool {
	g, ok := e.(globalEntry)

	return ok && g.stage.Role() == RoleErrorHandler
}
