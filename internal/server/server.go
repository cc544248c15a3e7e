// Package server implements the single-route HTTP responder.
//
// The server reports its own identity as "name@version" plain text on
// GET / and nothing else. The listener is created before serving so that
// port conflicts surface immediately rather than inside the serve loop.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
)

// Server is the single-route hello server.
type Server struct {
	name    string
	version string

	httpServer *http.Server
	listener   net.Listener
}

// New creates a server that reports name@version on its root route.
func New(name, version string) *Server {
	return &Server{
		name:    name,
		version: version,
	}
}

// Identity returns the body served on the root route: "name@version".
func (s *Server) Identity() string {
	return fmt.Sprintf("%s@%s", s.name, s.version)
}

// Handler returns the HTTP handler for the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, s.Identity())
	})
	return mux
}

// Listen binds the listener on addr ("host:port", IPv6 hosts bracketed).
// net.Listen returns an error if the port is already in use; callers treat
// that as a bind failure and exit.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound listener address. Only valid after Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve starts serving on the bound listener in a goroutine and returns a
// channel that receives the terminal serve error. http.ErrServerClosed
// (graceful shutdown) is mapped to nil.
func (s *Server) Serve() <-chan error {
	errCh := make(chan error, 1)

	s.httpServer = &http.Server{
		Handler: s.Handler(),
	}

	go func() {
		err := s.httpServer.Serve(s.listener)
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		} else {
			errCh <- nil
		}
		close(errCh)
	}()

	return errCh
}

// Shutdown gracefully stops the server, waiting for in-flight requests up
// to the context deadline. Safe to call when Serve was never started.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		if s.listener != nil {
			return s.listener.Close()
		}
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
		return err
	}
	return nil
}
