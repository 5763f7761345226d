// Package api is the client for the club backend's painting endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultBaseURL is used when neither config nor environment name one.
	DefaultBaseURL = "http://localhost:8787/api"

	defaultTimeout    = 10 * time.Second
	defaultAttempts   = 3
	defaultRetryDelay = 500 * time.Millisecond
)

// Client talks to the backend REST API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	headers map[string]string
	logger  *log.Logger

	attempts   int
	retryDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithHeader adds a header sent with every request, e.g. a session cookie.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// WithRetry sets the attempt budget and initial backoff for idempotent
// requests.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.retryDelay = delay
	}
}

// NewClient creates a client for baseURL. An empty baseURL selects
// DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: defaultTimeout},
		headers:    map[string]string{},
		logger:     log.New(io.Discard),
		attempts:   defaultAttempts,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string { return c.baseURL }

// do sends one request and decodes a 2xx body into v. GET, PUT and DELETE
// are retried on transport errors and 5xx responses.
func (c *Client) do(ctx context.Context, method, path string, body, v any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	attempts := c.attempts
	if method == http.MethodPost {
		attempts = 1
	}

	return Retry(ctx, attempts, c.retryDelay, func() error {
		start := time.Now()
		err := c.send(ctx, method, path, payload, v)
		c.logger.Debug("api request", "method", method, "path", path, "took", time.Since(start), "err", err)
		return err
	})
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, v any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, val := range c.headers {
		req.Header.Set(k, val)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp)
		if resp.StatusCode >= 500 {
			return &RetryableError{Err: apiErr}
		}
		return apiErr
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// errorBody accepts both {"error": "..."} and {"message": "..."} shapes.
type errorBody struct {
	Error   any    `json:"error"`
	Message any    `json:"message"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
}

func decodeError(resp *http.Response) *Error {
	e := &Error{Message: "Network error", Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return e
	}
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return e
	}

	switch {
	case isString(body.Error):
		e.Message = body.Error.(string)
	case isString(body.Message):
		e.Message = body.Message.(string)
	default:
		e.Message = "Request failed"
	}
	if body.Status != 0 {
		e.Status = body.Status
	}
	e.Code = body.Code
	return e
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}
