package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/padel-mcp/internal/instrumentation"
	"github.com/teemow/padel-mcp/internal/resources"
	"github.com/teemow/padel-mcp/internal/server"
	"github.com/teemow/padel-mcp/internal/tools/padel_tools"
)

const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"
)

// serveOptions holds the flags of the serve command.
type serveOptions struct {
	api            apiOptions
	transport      string
	httpAddr       string
	metricsEnabled bool
	metricsAddr    string
}

func newServeCmd() *cobra.Command {
	return newServeCmdWithOptions(&serveOptions{})
}

func newServeCmdWithOptions(opts *serveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the MCP server to expose padel court search to AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP on /mcp with health endpoints

The upstream API base URL is required, either through --api-base-url or the
PADEL_API_BASE_URL environment variable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.loadEnv(cmd); err != nil {
				return err
			}
			return runServe(opts)
		},
	}

	addAPIFlags(cmd, &opts.api)
	cmd.Flags().StringVar(&opts.transport, "transport", transportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", server.DefaultHTTPAddr, "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&opts.metricsEnabled, "metrics-enabled", false, "Serve Prometheus metrics on a dedicated port (env: "+envMetricsEnabled+")")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address (env: "+envMetricsAddr+")")

	return cmd
}

func (o *serveOptions) loadEnv(cmd *cobra.Command) error {
	if err := o.api.loadEnv(cmd); err != nil {
		return err
	}

	if !cmd.Flags().Changed("metrics-enabled") {
		if v := os.Getenv(envMetricsEnabled); v != "" {
			enabled, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", envMetricsEnabled, v, err)
			}
			o.metricsEnabled = enabled
		}
	}

	if !cmd.Flags().Changed("metrics-addr") {
		if v := os.Getenv(envMetricsAddr); v != "" {
			o.metricsAddr = v
		}
	}

	return nil
}

func (o *serveOptions) validate() error {
	switch o.transport {
	case transportStdio, transportStreamableHTTP:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", o.transport)
	}
	return o.api.validate()
}

func runServe(opts *serveOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	logger := newLogger(opts.api.debug)
	slog.SetDefault(logger)

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Warn("error during instrumentation shutdown", "error", err)
		}
	}()

	var metricsServer *server.MetricsServer
	if opts.metricsEnabled && provider.Enabled() {
		metricsServer, err = startMetricsServer(opts.metricsAddr, provider)
		if err != nil {
			return err
		}
		logger.Info("metrics server started", "addr", metricsServer.Addr())
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("error during metrics server shutdown", "error", err)
			}
		}()
	}

	serverContext, err := newServerContext(shutdownCtx, &opts.api, logger, provider.Metrics())
	if err != nil {
		return err
	}
	defer func() {
		_ = serverContext.Shutdown()
	}()
	serverContext.SetAuditLogger(provider.AuditLogger())

	sessions := server.NewSessionTracker(provider.Metrics(), logger)

	mcpSrv := newMCPServer(sessions.Hooks())
	if err := registerAll(mcpSrv, serverContext); err != nil {
		return err
	}

	logger.Info("starting padel-mcp",
		"version", version,
		"transport", opts.transport,
		"default_timezone", serverContext.Availability().DefaultLocation().String(),
		"instrumentation", provider.Enabled())

	switch opts.transport {
	case transportStdio:
		return runStdioServer(mcpSrv)
	default:
		health := server.NewHealthChecker(serverContext, sessions, version)
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, health, opts.httpAddr, provider.Metrics(), logger)
	}
}

func newMCPServer(hooks *mcpserver.Hooks) *mcpserver.MCPServer {
	options := []mcpserver.ServerOption{
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
	}
	if hooks != nil {
		options = append(options, mcpserver.WithHooks(hooks))
	}
	return mcpserver.NewMCPServer("padel-mcp", version, options...)
}

func startMetricsServer(addr string, provider *instrumentation.Provider) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		Enabled:                 true,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Use ready channel to confirm metrics server started successfully
	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	select {
	case <-metricsReady:
		return metricsServer, nil
	case err := <-metricsErr:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("metrics server startup timed out")
	}
}

// registerAll registers all MCP tools and resources
func registerAll(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext) error {
	type registration struct {
		name     string
		register func() error
	}

	registrations := []registration{
		{
			name: "Padel tools",
			register: func() error {
				return padel_tools.RegisterPadelTools(mcpSrv, sc)
			},
		},
		{
			name: "Padel resources",
			register: func() error {
				return resources.RegisterPadelResources(mcpSrv, sc)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(
	ctx context.Context,
	mcpSrv *mcpserver.MCPServer,
	sc *server.ServerContext,
	health *server.HealthChecker,
	addr string,
	metrics *instrumentation.Metrics,
	logger *slog.Logger,
) error {
	httpServer, err := server.NewHTTPServer(server.HTTPServerConfig{
		Addr:      addr,
		MCPServer: mcpSrv,
		Health:    health,
		Metrics:   metrics,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		// Readiness fails before the listener closes.
		health.SetReady(false)
		_ = sc.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		logger.Info("HTTP server stopped normally")
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}
