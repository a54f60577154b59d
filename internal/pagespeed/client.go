package pagespeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/shyim/pagespeed-api/internal/models"
)

const DefaultEndpoint = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

// StatusError is returned for non-2xx answers from the API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pagespeed: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether a later attempt may succeed.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type Options struct {
	Endpoint   string
	APIKey     string
	Timeout    time.Duration
	MaxRetries uint64
	HTTPClient *http.Client
}

type Client struct {
	endpoint   string
	apiKey     string
	timeout    time.Duration
	maxRetries uint64
	httpClient *http.Client
	newBackOff func() backoff.BackOff
}

func NewClient(opts Options) *Client {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	return &Client{
		endpoint:   endpoint,
		apiKey:     opts.APIKey,
		timeout:    opts.Timeout,
		maxRetries: opts.MaxRetries,
		httpClient: httpClient,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxElapsedTime = 0
			return b
		},
	}
}

// Run requests a Lighthouse audit of pageURL. Each attempt is bounded by the
// configured timeout. Timeouts, transport errors, 429 and 5xx are retried.
func (c *Client) Run(ctx context.Context, pageURL string, device models.Device, categories []models.Category) (*models.PageSpeedResponse, error) {
	reqURL, err := c.buildURL(pageURL, device, categories)
	if err != nil {
		return nil, err
	}

	var resp *models.PageSpeedResponse
	attempt := 0
	operation := func() error {
		attempt++
		r, err := c.do(ctx, reqURL)
		if err != nil {
			var permanent *backoff.PermanentError
			if errors.As(err, &permanent) {
				return err
			}
			var statusErr *StatusError
			if errors.As(err, &statusErr) && !statusErr.Retryable() {
				return backoff.Permanent(err)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			slog.Warn("PageSpeed request failed", "url", pageURL, "attempt", attempt, "error", err)
			return err
		}
		resp = r
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) buildURL(pageURL string, device models.Device, categories []models.Category) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("pagespeed: invalid endpoint: %w", err)
	}

	q := u.Query()
	q.Set("url", pageURL)
	q.Set("strategy", string(device))
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	for _, category := range categories {
		q.Add("category", string(category))
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (c *Client) do(ctx context.Context, reqURL string) (*models.PageSpeedResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return nil, &StatusError{StatusCode: res.StatusCode, Body: string(body)}
	}

	var out models.PageSpeedResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("pagespeed: decode response: %w", err))
	}

	return &out, nil
}
