// Package transport executes HTTP requests against one remote API with
// uniform error classification and retry. Each Client instance is bound to a
// single base URL and a single auth scheme; the Mindshare and Twitter APIs
// each get their own instance so credentials are never cross-applied.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"mindshare-sdk/apierror"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond
	maxBackoff         = 30 * time.Second
	maxLoggedBody      = 2048
)

// Config configures a Client. Exactly one of APIKey and BearerToken should
// be set; APIKey wins if both are.
type Config struct {
	// BaseURL is the scheme+host (+path prefix) requests are issued against.
	BaseURL string
	// API labels errors produced by this client, e.g. "mindshare".
	API string
	// APIKey is sent as an x-api-key header when set.
	APIKey string
	// BearerToken is sent as an Authorization bearer header when set.
	BearerToken string
	// HTTPClient optionally replaces the underlying http.Client, e.g. an
	// oauth1-signing client. The per-request timeout is applied to it.
	HTTPClient *http.Client
	// MaxAttempts is the total number of tries per request (default 3).
	MaxAttempts int
	// BaseDelay seeds the exponential backoff (default 500ms).
	BaseDelay time.Duration
	// Timeout is the per-request timeout (default 30s).
	Timeout time.Duration
	// Logger enables structured debug logging of each request when set.
	Logger *zap.Logger
}

// Client executes requests with retry and classifies failures.
type Client struct {
	rc      *retryablehttp.Client
	baseURL string
	api     string
	apiKey  string
	bearer  string
	log     *zap.Logger
}

// New builds a Client from cfg, filling defaults for zero fields.
func New(cfg Config) *Client {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = defaultMaxAttempts
	}
	baseDelay := cfg.BaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.RetryMax = attempts - 1
	rc.RetryWaitMin = baseDelay
	rc.RetryWaitMax = maxBackoff
	rc.CheckRetry = checkRetry
	rc.Backoff = exponentialBackoff
	// Keep the final response so it can be classified after retries run out.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if cfg.HTTPClient != nil {
		rc.HTTPClient = cfg.HTTPClient
	}
	rc.HTTPClient.Timeout = timeout

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		rc:      rc,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		api:     cfg.API,
		apiKey:  cfg.APIKey,
		bearer:  cfg.BearerToken,
		log:     log,
	}
}

// checkRetry retries network failures, 429s and 5xx responses only. All
// other outcomes are final.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return true, nil
	}
	return false, nil
}

// exponentialBackoff waits min * 2^attempt, capped at max.
func exponentialBackoff(min, max time.Duration, attemptNum int, _ *http.Response) time.Duration {
	d := min << uint(attemptNum)
	if d > max || d <= 0 {
		return max
	}
	return d
}

// Get issues a GET for path with the given query and decodes a 2xx JSON
// body into out (skipped when out is nil).
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Do executes one request. Non-2xx outcomes are classified into the
// apierror taxonomy; retries for transient failures happen inside.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &apierror.TransportError{API: c.api, Err: fmt.Errorf("encode request body: %w", err)}
		}
		payload = bytes.NewReader(b)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return &apierror.TransportError{API: c.api, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	switch {
	case c.apiKey != "":
		req.Header.Set("x-api-key", c.apiKey)
	case c.bearer != "":
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	reqID := uuid.NewString()
	start := time.Now()
	c.log.Debug("request",
		zap.String("api", c.api),
		zap.String("request_id", reqID),
		zap.String("method", method),
		zap.String("url", c.baseURL+path),
		zap.String("params", query.Encode()),
	)

	resp, err := c.rc.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("api", c.api),
			zap.String("request_id", reqID),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return &apierror.TransportError{API: c.api, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apierror.TransportError{API: c.api, Err: fmt.Errorf("read response body: %w", err)}
	}

	c.log.Debug("response",
		zap.String("api", c.api),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("body", truncate(string(raw), maxLoggedBody)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.classify(resp, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &apierror.TransportError{API: c.api, Err: fmt.Errorf("decode response body: %w", err)}
		}
	}
	return nil
}

// classify maps a non-2xx response to a typed error.
func (c *Client) classify(resp *http.Response, raw []byte) error {
	msg := bodyMessage(raw)
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &apierror.AuthenticationError{API: c.api, Message: msg}
	case http.StatusTooManyRequests:
		return &apierror.RateLimitError{API: c.api, Message: msg, ResetAt: parseReset(resp.Header)}
	default:
		return &apierror.APIError{API: c.api, StatusCode: resp.StatusCode, Message: msg}
	}
}

// parseReset reads the rate-limit reset hint: x-rate-limit-reset carries
// epoch seconds, retry-after carries a delta in seconds.
func parseReset(h http.Header) time.Time {
	if v := h.Get("x-rate-limit-reset"); v != "" {
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Unix(epoch, 0)
		}
	}
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Now().Add(time.Duration(secs) * time.Second)
		}
	}
	return time.Time{}
}

// bodyMessage extracts a human-readable error string from a response body.
func bodyMessage(raw []byte) string {
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return truncate(strings.TrimSpace(string(raw)), 256)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
