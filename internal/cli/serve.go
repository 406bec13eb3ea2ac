package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aretw0/scriptflow/internal/metrics"
	httpAdapter "github.com/aretw0/scriptflow/pkg/adapters/http"
	"github.com/aretw0/scriptflow/pkg/session"
)

// ShutdownTimeout bounds how long in-flight requests may take once serving stops.
const ShutdownTimeout = 5 * time.Second

// ServeOptions configures Serve.
type ServeOptions struct {
	Addr    string
	Version string
	Metrics *metrics.Collector
	Logger  *slog.Logger
	// Ready, when set, receives the bound address once the listener is up.
	Ready func(addr string)
}

// Serve exposes mgr over HTTP until ctx is cancelled, then drains in-flight requests.
func Serve(ctx context.Context, mgr *session.Manager, opts ServeOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	hopts := []httpAdapter.Option{
		httpAdapter.WithLogger(logger),
		httpAdapter.WithVersion(opts.Version),
	}
	if opts.Metrics != nil {
		hopts = append(hopts,
			httpAdapter.WithMetrics(opts.Metrics.Handler()),
			httpAdapter.WithSessionObserver(opts.Metrics),
		)
	}

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", opts.Addr, err)
	}

	srv := &http.Server{
		Handler:           httpAdapter.NewHandler(mgr, hopts...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "addr", ln.Addr().String(), "nodes", mgr.Graph().Len())
		serverErrors <- srv.Serve(ln)
	}()
	if opts.Ready != nil {
		opts.Ready(ln.Addr().String())
	}

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
			return srv.Close()
		}
		logger.Info("HTTP server stopped")
		return nil
	}
}
