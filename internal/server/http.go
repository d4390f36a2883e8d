package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/padel-mcp/internal/instrumentation"
)

const (
	// DefaultHTTPAddr is the default listen address for streamable-http.
	DefaultHTTPAddr = ":8080"

	// DefaultMCPEndpoint is the path the MCP streamable HTTP handler is mounted on.
	DefaultMCPEndpoint = "/mcp"
)

// HTTPServerConfig configures the streamable-http transport.
type HTTPServerConfig struct {
	// Addr defaults to DefaultHTTPAddr.
	Addr string

	// MCPServer is the server tools are registered on. Required.
	MCPServer *mcpserver.MCPServer

	// Health serves the probe endpoints when set.
	Health *HealthChecker

	// Metrics records per-route request metrics. May be nil.
	Metrics *instrumentation.Metrics

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// HTTPServer serves MCP over streamable HTTP next to the health endpoints.
type HTTPServer struct {
	addr    string
	router  chi.Router
	metrics *instrumentation.Metrics
	logger  *slog.Logger

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
}

// NewHTTPServer builds the router for the streamable-http transport.
func NewHTTPServer(cfg HTTPServerConfig) (*HTTPServer, error) {
	if cfg.MCPServer == nil {
		return nil, fmt.Errorf("mcp server is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultHTTPAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &HTTPServer{
		addr:    cfg.Addr,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	streamable := mcpserver.NewStreamableHTTPServer(cfg.MCPServer,
		mcpserver.WithEndpointPath(DefaultMCPEndpoint),
	)
	r.Handle(DefaultMCPEndpoint, streamable)

	if cfg.Health != nil {
		cfg.Health.RegisterHealthEndpoints(r)
	}

	s.router = r
	return s, nil
}

// Handler returns the root router.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// instrument records request count and latency per matched route pattern.
func (s *HTTPServer) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		var pattern string
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			pattern = rctx.RoutePattern()
		}
		route := instrumentation.RouteLabel(pattern)
		elapsed := time.Since(start)

		s.metrics.RecordHTTPRequest(r.Context(), r.Method, route, status, elapsed)
		s.logger.Debug("http request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", elapsed.String(),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// Start serves until Shutdown is called.
func (s *HTTPServer) Start() error {
	return s.StartWithReadySignal(nil)
}

// StartWithReadySignal binds the listener, closes ready and serves. ready may be nil.
func (s *HTTPServer) StartWithReadySignal(ready chan<- struct{}) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	// No WriteTimeout: streamed MCP responses stay open for the whole session.
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("starting streamable http server",
		"addr", ln.Addr().String(),
		"endpoint", DefaultMCPEndpoint)
	if ready != nil {
		close(ready)
	}

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Addr returns the bound address once started, otherwise the configured one.
func (s *HTTPServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}
