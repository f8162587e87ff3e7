// Package httpserver runs an http.Handler until its context is cancelled.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/iliyamo/userhub/internal/logutil"
)

// ShutdownTimeout bounds how long in-flight requests may run after shutdown
// starts.
const ShutdownTimeout = 15 * time.Second

// Serve listens on addr and blocks until ctx is cancelled or the listener
// fails. On cancellation it shuts the server down gracefully and returns nil.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return run(ctx, srv, srv.ListenAndServe)
}

func run(ctx context.Context, srv *http.Server, listen func() error) error {
	log := logutil.GetOrDefault(ctx).With().Str("server.addr", srv.Addr).Logger()

	errc := make(chan error, 1)
	go func() {
		log.Info().Msg("starting HTTP server")
		errc <- listen()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("shutdown completed")
	return nil
}
