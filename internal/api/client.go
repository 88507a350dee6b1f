package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Credentials supplies bearer tokens for authorized requests and knows how
// to obtain a fresh one when the current token is rejected. Implemented by
// the session manager; concurrent Refresh calls are expected to coalesce so
// N requests failing with 401 at the same time issue a single refresh.
type Credentials interface {
	AccessToken() string
	Refresh(ctx context.Context) error
}

// Client is an HTTP client for the mars4 backend API
type Client struct {
	baseURL    string
	prefix     string
	httpClient *http.Client
	creds      Credentials
	log        zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithPrefix overrides the API version prefix (default /api/v1)
func WithPrefix(prefix string) Option {
	return func(c *Client) { c.prefix = strings.TrimRight(prefix, "/") }
}

// WithLogger sets the client logger
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a new API client
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		prefix:  "/api/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetCredentials attaches a token source used for authorized requests
func (c *Client) SetCredentials(creds Credentials) {
	c.creds = creds
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

func (c *Client) url(endpoint string, query url.Values) string {
	u := c.baseURL + c.prefix + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// request describes a single API exchange
type request struct {
	method      string
	endpoint    string
	query       url.Values
	body        any    // JSON-encoded when non-nil
	rawBody     []byte // pre-encoded body (multipart uploads)
	contentType string
	authorized  bool
	noRetry     bool // suppress the 401 refresh-and-retry (refresh/logout calls)
}

// do performs the request and decodes a JSON response into out (when non-nil).
// Authorized requests that come back 401 trigger exactly one credential
// refresh and one retry with the new token; a failed refresh propagates the
// original 401 as ErrUnauthenticated. At most one retry ever happens per
// request, so refresh loops are impossible.
func (c *Client) do(ctx context.Context, r request, out any) error {
	var payload []byte
	switch {
	case r.body != nil:
		encoded, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		payload = encoded
		if r.contentType == "" {
			r.contentType = "application/json"
		}
	case r.rawBody != nil:
		payload = r.rawBody
	}

	status, body, err := c.send(ctx, r, payload)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && r.authorized && !r.noRetry && c.creds != nil {
		if refreshErr := c.creds.Refresh(ctx); refreshErr != nil {
			c.log.Debug().Err(refreshErr).Str("endpoint", r.endpoint).Msg("token refresh failed, propagating 401")
			return fmt.Errorf("%w: %w", ErrUnauthenticated, &StatusError{Code: status, Message: errorMessage(body)})
		}
		c.log.Debug().Str("endpoint", r.endpoint).Msg("retrying request with refreshed token")
		status, body, err = c.send(ctx, r, payload)
		if err != nil {
			return err
		}
	}

	if status < 200 || status > 299 {
		return c.statusError(status, body)
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// send performs one HTTP exchange and reads the full body
func (c *Client) send(ctx context.Context, r request, payload []byte) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.url(r.endpoint, r.query), reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.authorized && c.creds != nil {
		if token := c.creds.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, nil, fmt.Errorf("request timed out: %w", err)
		}
		return 0, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// statusError maps a non-2xx response to the error taxonomy
func (c *Client) statusError(status int, body []byte) error {
	msg := errorMessage(body)
	se := &StatusError{Code: status, Message: msg}
	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", ErrUnauthenticated, se)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrForbidden, se)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, se)
	default:
		return se
	}
}

// errorMessage extracts a human-readable message from an error payload
func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, endpoint: endpoint, query: query, authorized: true}, out)
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, request{method: http.MethodPost, endpoint: endpoint, body: body, authorized: true}, out)
}

func (c *Client) put(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, request{method: http.MethodPut, endpoint: endpoint, body: body, authorized: true}, out)
}

func (c *Client) patch(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, request{method: http.MethodPatch, endpoint: endpoint, body: body, authorized: true}, out)
}

func (c *Client) delete(ctx context.Context, endpoint string) error {
	return c.do(ctx, request{method: http.MethodDelete, endpoint: endpoint, authorized: true}, nil)
}
