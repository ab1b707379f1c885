// Package server runs an HTTP handler until the process is signalled.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

// DefaultShutdownTimeout bounds how long in-flight requests get to finish.
const DefaultShutdownTimeout = 10 * time.Second

// Options configures Run.
type Options struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// ShutdownTimeout defaults to DefaultShutdownTimeout.
	ShutdownTimeout time.Duration

	// Cleanup runs after the server has drained, with the remaining shutdown
	// budget. Its error is logged and returned.
	Cleanup func(ctx context.Context) error

	Logger *slog.Logger
}

// Run serves handler until ctx is cancelled, SIGINT or SIGTERM arrives, or
// the listener fails. It then drains in-flight requests and runs Cleanup.
func Run(ctx context.Context, handler http.Handler, opts Options) error {
	listener, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", opts.Addr, err)
	}
	return Serve(ctx, listener, handler, opts)
}

// Serve is Run on an existing listener.
func Serve(ctx context.Context, listener net.Listener, handler http.Handler, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", listener.Addr().String())
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("server failed", "error", err)
			runErr = fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
		runErr = errors.Join(runErr, fmt.Errorf("server shutdown failed: %w", err))
	}

	if opts.Cleanup != nil {
		if err := opts.Cleanup(shutdownCtx); err != nil {
			log.Error("cleanup failed", "error", err)
			runErr = errors.Join(runErr, fmt.Errorf("cleanup: %w", err))
		}
	}

	log.Info("server shutdown completed")
	return runErr
}
