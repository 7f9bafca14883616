// Package server assembles the splitgroups HTTP server: Connect services,
// health and metrics endpoints, and the middleware around them.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/splitgroups/internal/config"
	"github.com/mmynk/splitgroups/internal/metrics"
	"github.com/mmynk/splitgroups/internal/middleware"
	"github.com/mmynk/splitgroups/internal/service"
	"github.com/mmynk/splitgroups/internal/storage"
	"github.com/mmynk/splitgroups/pkg/api/apiconnect"
)

// Server serves the group and expense APIs over one listener.
type Server struct {
	cfg     *config.Config
	store   storage.Store
	metrics *metrics.Collector
}

// New creates a Server backed by store. Metrics are collected only when
// enabled in cfg.
func New(cfg *config.Config, store storage.Store) *Server {
	s := &Server{cfg: cfg, store: store}
	if cfg.Metrics.Enabled {
		s.metrics = metrics.NewCollector(cfg.Metrics.Namespace)
	}
	return s
}

// Metrics returns the server's collector, or nil when metrics are disabled.
func (s *Server) Metrics() *metrics.Collector {
	return s.metrics
}

// Handler returns the root HTTP handler. It speaks HTTP/1.1 and h2c.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Register Connect services
	interceptors := connect.WithInterceptors(
		middleware.RequestIDInterceptor(),
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(s.metrics),
	)
	mux.Handle(apiconnect.NewGroupServiceHandler(service.NewGroupService(s.store, s.metrics), interceptors))
	mux.Handle(apiconnect.NewExpenseServiceHandler(service.NewExpenseService(s.store, s.metrics), interceptors))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	handler := middleware.LogRequests(middleware.CORS(s.cfg.Server.AllowedOrigins)(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	return h2c.NewHandler(handler, &http2.Server{})
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.Server.ReadHeaderTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Connect server starting", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		slog.Info("Server stopped gracefully")
		return nil
	})
	return g.Wait()
}

// ListenAndServe listens on the configured address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, ln)
}
