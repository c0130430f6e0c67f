// Package server hosts the long-running development server over one built
// dist target. Run blocks until its context is canceled; the serve
// pipeline has no other way to finish.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Server serves the static contents of a dist target directory.
type Server struct {
	Port     int
	LogLevel string
	Dir      string
}

// New creates a Server for the given dist directory.
func New(port int, logLevel, dir string) *Server {
	return &Server{Port: port, LogLevel: logLevel, Dir: dir}
}

// Run serves until ctx is canceled, then shuts down gracefully. A nil
// return means the server was stopped externally; any other error is a
// startup or serve failure.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/", s.withAccessLog(http.FileServer(http.Dir(s.Dir))))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Printf("serving %s on :%d", s.Dir, s.Port)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// withAccessLog logs each request when the log level is debug.
func (s *Server) withAccessLog(next http.Handler) http.Handler {
	if s.LogLevel != "debug" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
