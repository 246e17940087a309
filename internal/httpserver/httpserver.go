package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Handler exposes the router, mainly for tests.
func (srv HTTPServer) Handler() http.Handler {
	return srv.gin
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (srv HTTPServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", srv.port),
		Handler: srv.gin,
	}

	errCh := make(chan error, 1)
	go func() {
		srv.l.Infof(ctx, "HTTP server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), srv.shutdownTimeout)
	defer cancel()

	srv.l.Infof(shutdownCtx, "HTTP server shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
