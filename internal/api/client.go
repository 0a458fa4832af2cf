// Package api is the HTTP client for the MarkUp backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/markup/internal/errors"
	"github.com/felixgeelhaar/markup/internal/log"
)

// DefaultTimeout bounds a single request. AI-backed endpoints can be slow.
const DefaultTimeout = 2 * time.Minute

// Client is the MarkUp backend API client.
// It holds no session state; protected calls take the bearer token explicitly.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string

	logger *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.HTTPClient.Timeout = d }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.UserAgent = ua }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a new API client. baseURL is the backend origin; the /api
// prefix is appended when missing.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL: normalizeBaseURL(baseURL),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		UserAgent: "markup-cli",
		logger:    log.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func normalizeBaseURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if !strings.HasSuffix(base, "/api") {
		base += "/api"
	}
	return base
}

// doRequest performs an HTTP request, attaching the bearer token when set.
// Transport failures are returned as network errors.
func (c *Client) doRequest(ctx context.Context, method, path, token string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileMarshal, "failed to marshal request body", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetworkUnreachable, "failed to create request", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, transportError(ctx, method+" "+path, err)
	}

	c.logger.Debug("request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	return resp, nil
}

func transportError(ctx context.Context, op string, err error) error {
	switch {
	case stderrors.Is(err, context.Canceled) || stderrors.Is(ctx.Err(), context.Canceled):
		return errors.Wrap(errors.ErrCodeNetworkCanceled, op+": request canceled", err)
	case stderrors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		return errors.Wrap(errors.ErrCodeNetworkTimeout, op+": request timed out", err).
			WithSuggestion("Increase api.timeout with 'markup config set api.timeout 5m'")
	default:
		return errors.NewNetworkError(op, err)
	}
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return stderrors.As(err, &te) && te.Timeout()
}

// parseResponse parses the response body into the target struct.
// Non-2xx responses become typed errors carrying the backend message.
func parseResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return responseError(resp.StatusCode, body)
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return errors.Wrap(errors.ErrCodeServerDecode,
				fmt.Sprintf("failed to decode response (status %d)", resp.StatusCode), err).
				WithStatus(resp.StatusCode)
		}
	}

	return nil
}

// call is doRequest followed by parseResponse.
func (c *Client) call(ctx context.Context, method, path, token string, body, target interface{}) error {
	resp, err := c.doRequest(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	return parseResponse(resp, target)
}
