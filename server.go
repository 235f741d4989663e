package bdispatch

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/netutil"
)

// DefaultReadHeaderTimeout bounds how long the server waits for request headers.
const DefaultReadHeaderTimeout = 5 * time.Second

// ListenConfig configures [App.Start].
type ListenConfig struct {
	// Host to bind to, empty binds all interfaces.
	Host string
	// Port to bind to, zero picks a free port.
	Port int
	// Backlog caps the number of connections that are accepted at the same time, zero means no cap.
	Backlog int
	// ReadHeaderTimeout defaults to DefaultReadHeaderTimeout.
	ReadHeaderTimeout time.Duration
	// Middleware wraps the App, see [Wrap].
	Middleware []Middleware
}

// Server is a started App.
type Server struct {
	srv      *http.Server
	ln       net.Listener
	done     chan struct{}
	serveErr error
}

// Start seals the stack and binds the listener. It returns once the listener is bound, or with an
// error if binding failed. Requests are served in the background until [Server.Shutdown].
func (a *App) Start(ctx context.Context, cfg ListenConfig) (*Server, error) {
	a.Seal()

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen on %s", addr)
	}

	if cfg.Backlog > 0 {
		ln = netutil.LimitListener(ln, cfg.Backlog)
	}

	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}

	s := &Server{
		ln:   ln,
		done: make(chan struct{}),
		srv: &http.Server{
			Handler:           Wrap(a, cfg.Middleware...),
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		},
	}

	go func() {
		defer close(s.done)

		if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			s.serveErr = err
		}
	}()

	return s, nil
}

// Addr returns the address the server is bound to.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Shutdown stops accepting connections and waits for in-flight requests to finish or for 'ctx' to end.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "shutdown")
	}

	<-s.done

	return errors.Wrap(s.serveErr, "serve")
}
