package padel

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/teemow/padel-mcp/internal/instrumentation"
	"github.com/teemow/padel-mcp/internal/logging"
)

const maxRetryInterval = 2 * time.Second

// retryTransport retries idempotent requests on connection errors and
// gateway failures. The last response is returned as-is once retries are
// exhausted so that callers still see the upstream status.
type retryTransport struct {
	next       http.RoundTripper
	maxRetries int
	interval   time.Duration
	logger     logging.Logger
	metrics    *instrumentation.Metrics
}

func newRetryTransport(next http.RoundTripper, cfg Config) *retryTransport {
	return &retryTransport{
		next:       next,
		maxRetries: cfg.MaxRetries,
		interval:   cfg.RetryInterval,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.maxRetries <= 0 || (req.Method != http.MethodGet && req.Method != http.MethodHead) {
		return t.next.RoundTrip(req)
	}

	ctx := req.Context()
	attempts := 0

	op := func() (*http.Response, error) {
		attempts++
		final := attempts > t.maxRetries

		resp, err := t.next.RoundTrip(req.Clone(ctx))
		if err != nil {
			if final || ctx.Err() != nil {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}

		if final || !retryableStatus(resp.StatusCode) {
			return resp, nil
		}

		drain(resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = t.interval
	b.MaxInterval = maxRetryInterval

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(t.maxRetries+1)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			t.notify(ctx, req, err, next)
		}),
	)
}

func (t *retryTransport) notify(ctx context.Context, req *http.Request, err error, next time.Duration) {
	code := instrumentation.StatusClass(0)
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		code = instrumentation.StatusClass(statusErr.StatusCode)
	}

	t.metrics.RecordUpstreamRetry(ctx, instrumentation.ServicePadel, code)
	if t.logger != nil {
		t.logger.Debug("retrying padel API request",
			logging.KeyURL, req.URL.Path,
			logging.KeyError, err.Error(),
			"backoff", next.String(),
		)
	}
}

// drain discards the rest of body so the connection can be reused.
func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}
