package padel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/teemow/padel-mcp/internal/instrumentation"
	"github.com/teemow/padel-mcp/internal/logging"
)

const (
	DefaultTimeout       = 30 * time.Second
	DefaultMaxRetries    = 2
	DefaultRetryInterval = 200 * time.Millisecond
	DefaultUserAgent     = "padel-mcp"

	clubsPath          = "/api/padel-clubs"
	availabilitiesPath = "/api/court-availabilities"

	maxBodySize      = 16 << 20
	maxErrorBodySize = 512
)

// Config configures a Client.
type Config struct {
	// BaseURL is the absolute http(s) URL of the API. Required.
	BaseURL string

	// HTTPClient is used as the base for outbound requests. Its transport is
	// wrapped with tracing and retries.
	HTTPClient *http.Client

	// Timeout bounds each call including retries (default: 30s).
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt
	// (default: 2). A negative value disables retries.
	MaxRetries int

	// RetryInterval is the initial backoff between attempts (default: 200ms).
	RetryInterval time.Duration

	// UserAgent is sent with every request (default: padel-mcp).
	UserAgent string

	Logger  logging.Logger
	Metrics *instrumentation.Metrics
}

// Client calls the court-booking aggregation API. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string
	logger     logging.Logger
	metrics    *instrumentation.Metrics
}

// NewClient creates a client from cfg, applying defaults for unset fields.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be an absolute http or https URL", cfg.BaseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = DefaultRetryInterval
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.DefaultLogger()
	}

	httpClient := &http.Client{}
	if cfg.HTTPClient != nil {
		*httpClient = *cfg.HTTPClient
	}
	if httpClient.Timeout == 0 {
		httpClient.Timeout = cfg.Timeout
	}
	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	httpClient.Transport = otelhttp.NewTransport(newRetryTransport(base, cfg))

	return &Client{
		baseURL:    u,
		httpClient: httpClient,
		userAgent:  cfg.UserAgent,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
	}, nil
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListClubs fetches the full club directory.
func (c *Client) ListClubs(ctx context.Context) (*ClubsResponse, error) {
	var out ClubsResponse
	if err := c.get(ctx, instrumentation.OperationListClubs, clubsPath, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCourtAvailabilities fetches bookable slots matching q.
func (c *Client) ListCourtAvailabilities(ctx context.Context, q AvailabilityQuery) (*CourtAvailabilitiesResponse, error) {
	var out CourtAvailabilitiesResponse
	if err := c.get(ctx, instrumentation.OperationListAvailabilities, availabilitiesPath, q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, op, path, rawQuery string, out any) (err error) {
	ctx, span := instrumentation.StartUpstreamSpan(ctx, instrumentation.ServicePadel, op)
	start := time.Now()
	defer func() {
		status := instrumentation.StatusSuccess
		if err != nil {
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err)
		} else {
			instrumentation.SetSpanSuccess(span)
		}
		c.metrics.RecordUpstreamOperation(ctx, instrumentation.ServicePadel, op, status, time.Since(start))
		span.End()
	}()

	u := *c.baseURL
	u.Path += path
	u.RawQuery = rawQuery

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &APIError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("calling padel API", logging.KeyOperation, op, logging.KeyURL, u.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		c.logger.Debug("padel API returned error status",
			logging.Service(instrumentation.ServicePadel),
			logging.Operation(op),
			"status_code", resp.StatusCode,
			"body", logging.Truncate(strings.TrimSpace(string(body)), 200),
		)
		return &APIError{Op: op, Err: &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &APIError{Op: op, Err: err}
	}
	if err := decode(body, out); err != nil {
		return &APIError{Op: op, Err: err}
	}
	return nil
}

func decode(body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if bytes.Equal(trimmed, []byte("null")) {
		return ErrEmptyResponse
	}
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
