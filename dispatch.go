package bdispatch

import (
	"fmt"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ServeHTTP makes the App implement the http.Handler interface. When even the error responder fails the
// error is logged and the handler panics with [http.ErrAbortHandler], so the server aborts just this
// request's connection.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := a.Dispatch(w, r); err != nil {
		a.logs.LogUnhandledDispatchError(err)
		panic(http.ErrAbortHandler)
	}
}

// Dispatch walks the execution stack for a single request. Failing stages are handled by an error
// handler, the returned error is only non-nil when the error responder itself failed.
func (a *App) Dispatch(w http.ResponseWriter, r *http.Request) error {
	a.Seal()

	match := a.matcher.Find(r.Method, r.URL.Path)
	f := &frame{
		app:   a,
		w:     NewResponseWriter(w),
		r:     withFrameValues(r, match.Params),
		match: match,
	}

	return f.walk()
}

// frame is the state of a single request's walk over the stack. It is never shared between requests.
type frame struct {
	app      *App
	w        ResponseWriter
	r        *http.Request
	match    Match
	position int
	cursor   int
}

func (f *frame) walk() error {
	for f.position = 0; f.position < len(f.app.stack); f.position++ {
		h, routed, ok := f.resolve(f.app.stack[f.position])
		if !ok {
			continue
		}

		done, err := f.step(h, routed)
		if err != nil {
			return err
		}

		if done {
			return nil
		}
	}

	f.app.logs.LogStackExhausted(f.r.Method, f.r.URL.Path)

	res, err := NotFound(f.w, f.r)
	if err != nil {
		return errors.Wrap(err, "respond not found")
	}

	f.finalize(res)

	return nil
}

// resolve determines the handler to run for a stack entry. It reports false if the entry doesn't apply
// to this request, or only applies as a fallback.
func (f *frame) resolve(e stackEntry) (h HandlerFunc, routed bool, ok bool) {
	switch e := e.(type) {
	case globalEntry:
		h, ok = e.stage.(HandlerFunc)

		return h, false, ok
	case routedMarker:
		c, idx, found := lo.FindIndexOf(f.match.Candidates, func(c Candidate) bool {
			return c.ID == e.id
		})
		if !found {
			return nil, false, false
		}

		f.cursor = idx + 1
		h, ok = c.Stage.(HandlerFunc)

		return h, true, ok
	default:
		panic(fmt.Sprintf("bdispatch: unknown stack entry: %T", e))
	}
}

// step runs 'h' and reports whether the response is done.
func (f *frame) step(h HandlerFunc, routed bool) (bool, error) {
	res, err := f.call(h)
	if err != nil {
		if res, err = f.handleFailure(err, routed); err != nil {
			return true, err
		}
	}

	return f.finalize(res), nil
}

// handleFailure runs the fallback for a failed stage. The default error responder gets one more go when the
// fallback fails, its own failure is returned.
func (f *frame) handleFailure(cause error, routed bool) (any, error) {
	fallback, isDefault := f.substitute(routed)
	f.event("bdispatch.fallback", cause, attribute.Bool("bdispatch.fallback.default", isDefault))

	res, err := f.callError(fallback, cause)
	if err == nil {
		return res, nil
	}

	if isDefault {
		f.event("bdispatch.fatal", err)
		return nil, errors.Wrap(err, "error responder failed")
	}

	f.event("bdispatch.fallback", err, attribute.Bool("bdispatch.fallback.default", true))

	if res, err = f.callError(f.app.errorResp, err); err != nil {
		f.event("bdispatch.fatal", err)
		return nil, errors.Wrap(err, "error responder failed")
	}

	return res, nil
}

// substitute picks the error handler for a failure at the current position. Failures of routed stages
// go to the first error handler among the candidates after the cursor. After that, and for failures of
// global stages, a global error handler at the very end of the stack is used. Otherwise the default error
// responder is used.
func (f *frame) substitute(routed bool) (ErrorHandlerFunc, bool) {
	if routed {
		if c, ok := lo.Find(f.match.Candidates[f.cursor:], func(c Candidate) bool {
			return c.Stage.Role() == RoleErrorHandler
		}); ok {
			return c.Stage.(ErrorHandlerFunc), false //nolint:forcetypeassert
		}
	}

	if g, ok := lo.LastOrEmpty(f.app.stack).(globalEntry); ok {
		if eh, ok := g.stage.(ErrorHandlerFunc); ok {
			return eh, false
		}
	}

	return f.app.errorResp, true
}

// finalize decides whether the walk is done. A response that was finalized by the stage ends the walk,
// otherwise a non-nil result is written as the body. Typed nils (a nil pointer, map or slice) count as no
// result. The check comes first so nothing is written twice.
func (f *frame) finalize(res any) bool {
	if f.w.Finalized() {
		return true
	}

	if lo.IsNil(res) {
		return false
	}

	if err := writeBody(f.w, res); err != nil {
		f.app.logs.LogFinalizeError(err)
		f.w.SetStatus(http.StatusInternalServerError)
	}

	if err := f.w.End(); err != nil {
		f.app.logs.LogFinalizeError(err)
	}

	return true
}

func (f *frame) call(h HandlerFunc) (res any, err error) {
	defer recoverStage(&err)

	return h(f.w, f.r)
}

func (f *frame) callError(h ErrorHandlerFunc, cause error) (res any, err error) {
	defer recoverStage(&err)

	return h(f.w, f.r, cause)
}

// recoverStage turns a panicking stage into a failing stage. Aborts are passed on to net/http.
func recoverStage(err *error) {
	rec := recover()
	if rec == nil {
		return
	}

	if rec == http.ErrAbortHandler { //nolint:errorlint
		panic(rec)
	}

	if rerr, ok := rec.(error); ok {
		*err = errors.Wrap(rerr, "stage panicked")
		return
	}

	*err = errors.Newf("stage panicked: %v", rec)
}

// event records 'err' on the request's span, if it has one.
func (f *frame) event(name string, err error, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(f.r.Context())
	if !span.IsRecording() {
		return
	}

	attrs = append(attrs,
		attribute.Int("bdispatch.position", f.position),
		attribute.String("bdispatch.error", err.Error()))
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// writeBody writes a stage's result as the response body.
func writeBody(w ResponseWriter, res any) error {
	var err error

	switch v := res.(type) {
	case string:
		_, err = io.WriteString(w, v)
	case []byte:
		_, err = w.Write(v)
	case io.Reader:
		_, err = io.Copy(w, v)
		if c, ok := v.(io.Closer); ok {
			err = errors.CombineErrors(err, c.Close())
		}
	case error:
		_, err = io.WriteString(w, v.Error())
	case fmt.Stringer:
		_, err = io.WriteString(w, v.String())
	default:
		var b []byte
		if b, err = json.Marshal(v); err != nil {
			return errors.Wrapf(err, "encode %T", v)
		}

		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
		}

		_, err = w.Write(b)
	}

	return errors.Wrap(err, "write body")
}
