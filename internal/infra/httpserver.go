package infra

import (
	"context"
	"net/http"
	"time"
)

// HTTPServer wraps http.Server with a shutdown sequence that also quiesces
// the background components tied to the server's lifetime, most importantly
// the job runner pool.
type HTTPServer struct {
	server *http.Server
	drains []func()
}

// NewHTTPServer creates a configured HTTP server. Drain hooks run after the
// listener has stopped, in order, so background workers are released only
// once no new submissions can arrive.
func NewHTTPServer(cfg *Config, handler http.Handler, drains ...func()) *HTTPServer {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}

	return &HTTPServer{server: srv, drains: drains}
}

// Start runs the HTTP server in the current goroutine.
func (s *HTTPServer) Start() error {
	if s.server == nil {
		return nil
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the listener, then runs the drain hooks. Hooks
// run even when the listener shutdown errors; the listener error wins.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)
	for _, drain := range s.drains {
		drain()
	}
	return err
}
