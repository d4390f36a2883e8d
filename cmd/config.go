package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/padel-mcp/internal/instrumentation"
	"github.com/teemow/padel-mcp/internal/logging"
	"github.com/teemow/padel-mcp/internal/padel"
	"github.com/teemow/padel-mcp/internal/server"
)

// Environment variables read when the matching flag is not set.
const (
	envAPIBaseURL      = "PADEL_API_BASE_URL"
	envDefaultTimezone = "PADEL_DEFAULT_TIMEZONE"
	envUpstreamTimeout = "PADEL_UPSTREAM_TIMEOUT"
	envUpstreamRetries = "PADEL_UPSTREAM_RETRIES"
	envMetricsEnabled  = "METRICS_ENABLED"
	envMetricsAddr     = "METRICS_ADDR"
)

// apiOptions configures the upstream padel API and query defaults. It is
// shared by every command that talks to the API.
type apiOptions struct {
	baseURL         string
	defaultTimezone string
	timeout         time.Duration
	retries         int
	debug           bool
}

func addAPIFlags(cmd *cobra.Command, o *apiOptions) {
	cmd.Flags().StringVar(&o.baseURL, "api-base-url", "", "Base URL of the court availability API (env: "+envAPIBaseURL+")")
	cmd.Flags().StringVar(&o.defaultTimezone, "default-timezone", "UTC", "IANA timezone used to interpret query dates and clubs without a known timezone (env: "+envDefaultTimezone+")")
	cmd.Flags().DurationVar(&o.timeout, "upstream-timeout", padel.DefaultTimeout, "Timeout for each upstream API request (env: "+envUpstreamTimeout+")")
	cmd.Flags().IntVar(&o.retries, "upstream-retries", padel.DefaultMaxRetries, "Transparent retries for failed upstream GET requests, 0 disables (env: "+envUpstreamRetries+")")
	cmd.Flags().BoolVar(&o.debug, "debug", false, "Enable debug logging")
}

// loadEnv fills options from the environment. Environment variables only
// override flag values when the flag was not explicitly set.
func (o *apiOptions) loadEnv(cmd *cobra.Command) error {
	if !cmd.Flags().Changed("api-base-url") {
		if v := os.Getenv(envAPIBaseURL); v != "" {
			o.baseURL = v
		}
	}

	if !cmd.Flags().Changed("default-timezone") {
		if v := os.Getenv(envDefaultTimezone); v != "" {
			o.defaultTimezone = v
		}
	}

	if !cmd.Flags().Changed("upstream-timeout") {
		if v := os.Getenv(envUpstreamTimeout); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", envUpstreamTimeout, v, err)
			}
			o.timeout = d
		}
	}

	if !cmd.Flags().Changed("upstream-retries") {
		if v := os.Getenv(envUpstreamRetries); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", envUpstreamRetries, v, err)
			}
			o.retries = n
		}
	}

	return nil
}

func (o *apiOptions) validate() error {
	if o.baseURL == "" {
		return fmt.Errorf("API base URL is required (use --api-base-url or %s)", envAPIBaseURL)
	}
	if o.timeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive, got %s", o.timeout)
	}
	if o.retries < 0 {
		return fmt.Errorf("upstream retries must not be negative, got %d", o.retries)
	}
	if _, err := o.location(); err != nil {
		return err
	}
	return nil
}

func (o *apiOptions) location() (*time.Location, error) {
	loc, err := time.LoadLocation(o.defaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid default timezone %q: %w", o.defaultTimezone, err)
	}
	return loc, nil
}

func (o *apiOptions) clientConfig(logger *slog.Logger, metrics *instrumentation.Metrics) padel.Config {
	retries := o.retries
	if retries == 0 {
		// padel.Config treats zero as "use the default".
		retries = -1
	}
	return padel.Config{
		BaseURL:    o.baseURL,
		Timeout:    o.timeout,
		MaxRetries: retries,
		UserAgent:  "padel-mcp/" + version,
		Logger:     logging.NewSlogAdapter(logging.WithService(logger, instrumentation.ServicePadel)),
		Metrics:    metrics,
	}
}

// newServerContext validates o and wires a padel client into a server context.
func newServerContext(ctx context.Context, o *apiOptions, logger *slog.Logger, metrics *instrumentation.Metrics) (*server.ServerContext, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}

	loc, err := o.location()
	if err != nil {
		return nil, err
	}

	client, err := padel.NewClient(o.clientConfig(logger, metrics))
	if err != nil {
		return nil, fmt.Errorf("failed to create padel client: %w", err)
	}

	sc, err := server.NewServerContext(ctx, server.Config{
		Clubs:           client,
		Availability:    client,
		DefaultLocation: loc,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create server context: %w", err)
	}
	sc.SetMetrics(metrics)
	return sc, nil
}

// newLogger writes to stderr so stdout stays free for the stdio transport
// and for command output.
func newLogger(debug bool) *slog.Logger {
	return logging.NewLogger(os.Stderr, debug)
}
