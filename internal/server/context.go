package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/teemow/padel-mcp/internal/availability"
	"github.com/teemow/padel-mcp/internal/instrumentation"
)

// Config holds the collaborators shared by all tool invocations.
type Config struct {
	// Clubs serves the club directory. Required.
	Clubs availability.ClubDirectory

	// Availability serves court slots. Required.
	Availability availability.AvailabilitySource

	// Clock defaults to the system clock.
	Clock availability.Clock

	// DefaultLocation defaults to UTC.
	DefaultLocation *time.Location

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx     context.Context
	cancel  context.CancelFunc
	clubs   availability.ClubDirectory
	handler *availability.Handler
	logger  *slog.Logger

	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, cfg Config) (*ServerContext, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	handler, err := availability.NewHandler(availability.Config{
		Clubs:           cfg.Clubs,
		Availability:    cfg.Availability,
		Clock:           cfg.Clock,
		DefaultLocation: cfg.DefaultLocation,
		Logger:          cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create availability handler: %w", err)
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:     shutdownCtx,
		cancel:  cancel,
		clubs:   cfg.Clubs,
		handler: handler,
		logger:  cfg.Logger,
	}, nil
}

// Context returns the server context. It is cancelled on Shutdown.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Clubs returns the club directory.
func (sc *ServerContext) Clubs() availability.ClubDirectory {
	return sc.clubs
}

// Availability returns the availability query handler.
func (sc *ServerContext) Availability() *availability.Handler {
	return sc.handler
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Metrics returns the metrics recorder, or nil when instrumentation is off.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder used by tool handlers.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// AuditLogger returns the audit logger, or nil when audit logging is off.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger used by tool handlers.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
