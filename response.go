package bdispatch

import (
	"bufio"
	"net"
	"net/http"

	"github.com/cockroachdb/errors"
)

// ErrResponseEnded is returned when writing to a response that was already ended.
var ErrResponseEnded = errors.New("bdispatch: response already ended")

// ResponseWriter implements the http.ResponseWriter but tracks whether the response was finalized. The status
// code can be prepared with SetStatus without sending anything, the first Write or WriteHeader sends the
// headers and finalizes the response.
type ResponseWriter interface {
	http.ResponseWriter
	// SetStatus sets the status code that is sent with the headers. It has no effect once the headers are sent.
	SetStatus(code int)
	// Status returns the status code that was, or will be, sent.
	Status() int
	// End sends the headers if needed and ends the stream. Calling it again is a no-op.
	End() error
	// Finalized reports whether headers were sent or the stream was ended.
	Finalized() bool
}

type response struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	ended       bool
}

var (
	_ ResponseWriter = (*response)(nil)
	_ http.Flusher   = (*response)(nil)
	_ http.Hijacker  = (*response)(nil)
)

// NewResponseWriter wraps 'w'. If 'w' already implements [ResponseWriter] it is returned as is.
func NewResponseWriter(w http.ResponseWriter) ResponseWriter {
	if rw, ok := w.(ResponseWriter); ok {
		return rw
	}

	return &response{ResponseWriter: w, status: http.StatusOK}
}

func (r *response) SetStatus(code int) {
	if r.wroteHeader {
		return
	}

	r.status = code
}

func (r *response) Status() int { return r.status }

func (r *response) Finalized() bool { return r.wroteHeader || r.ended }

func (r *response) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}

	// informational responses precede the final one, they don't finalize the response.
	if code >= 100 && code <= 199 && code != http.StatusSwitchingProtocols {
		r.ResponseWriter.WriteHeader(code)
		return
	}

	r.status = code
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(code)
}

func (r *response) Write(b []byte) (int, error) {
	if r.ended {
		return 0, ErrResponseEnded
	}

	if !r.wroteHeader {
		r.WriteHeader(r.status)
	}

	return r.ResponseWriter.Write(b) //nolint:wrapcheck
}

func (r *response) End() error {
	if r.ended {
		return nil
	}

	if !r.wroteHeader {
		r.WriteHeader(r.status)
	}

	r.ended = true

	return nil
}

// Unwrap returns the underlying http.ResponseWriter for use with http.ResponseController.
func (r *response) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *response) Flush() {
	if !r.wroteHeader {
		r.WriteHeader(r.status)
	}

	_ = http.NewResponseController(r.ResponseWriter).Flush()
}

func (r *response) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	conn, rw, err := http.NewResponseController(r.ResponseWriter).Hijack()
	if err != nil {
		return nil, nil, errors.Wrap(err, "hijack")
	}

	r.wroteHeader, r.ended = true, true

	return conn, rw, nil
}
