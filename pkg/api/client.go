package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Duc13022005/Web-Shop/pkg/config"
	pkgerrors "github.com/Duc13022005/Web-Shop/pkg/errors"
	"github.com/Duc13022005/Web-Shop/pkg/logger"
	"github.com/Duc13022005/Web-Shop/pkg/metrics"
)

const errorBodyReadLimit int64 = 4096

var (
	errBaseURLRequired = errors.New("api base url is required")
	errLoggerRequired  = errors.New("api logger is required")
)

// TokenSource yields the persisted bearer token, or "" when no session is
// active. It is consulted before every request; returning "" is a valid
// state and produces an anonymous request.
type TokenSource func() string

// UnauthorizedHook is invoked whenever the backend answers 401. The error
// is still returned to the caller; the hook only centralizes session
// invalidation policy.
type UnauthorizedHook func(ctx context.Context)

// Client is the single point of outbound communication with the storefront
// backend: it decorates every request with the bearer token and unwraps
// every response body into the caller's typed shape.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	tokens         TokenSource
	logg           *logger.Logger
	requests       *metrics.RequestMetrics
	onUnauthorized UnauthorizedHook
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRequestMetrics records per-endpoint request metrics.
func WithRequestMetrics(requests *metrics.RequestMetrics) Option {
	return func(c *Client) {
		c.requests = requests
	}
}

// WithUnauthorizedHook installs the 401 observer.
func WithUnauthorizedHook(hook UnauthorizedHook) Option {
	return func(c *Client) {
		c.onUnauthorized = hook
	}
}

// New builds the backend client from configuration.
func New(cfg config.APIConfig, tokens TokenSource, logg *logger.Logger, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	if logg == nil {
		return nil, errLoggerRequired
	}
	if tokens == nil {
		tokens = func() string { return "" }
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		tokens:     tokens,
		logg:       logg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}
	return client, nil
}

// Get issues a GET and decodes the payload into out (out may be nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body and decodes the payload into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with a JSON body and decodes the payload into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE and decodes the payload into out (out may be nil).
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

// Ping probes backend reachability with an anonymous request.
func (c *Client) Ping(ctx context.Context) error {
	return c.Get(ctx, EndpointCategories, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "api client not configured")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if method != http.MethodGet {
		// The backend treats repeated mutations with the same key as one.
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}
	authorize(req, c.tokens())

	endpoint := trimQuery(path)
	ctx = c.logg.WithRequestID(ctx, requestID)
	ctx = c.logg.WithEndpoint(ctx, endpoint)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	c.requests.ObserveDuration(method, endpoint, time.Since(started))
	if err != nil {
		c.requests.IncFailure(method, endpoint)
		c.logg.Error(ctx, "backend request failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	if err := unwrap(resp, out); err != nil {
		c.requests.IncFailure(method, endpoint)
		if pkgerrors.IsUnauthorized(err) && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		c.logg.Warn(ctx, fmt.Sprintf("backend rejected request: %v", err))
		return err
	}

	c.requests.IncSuccess(method, endpoint)
	c.logg.Debug(ctx, "backend request completed")
	return nil
}

// authorize attaches the bearer credential when a token is held. An empty
// token leaves the request anonymous; this step never fails the request.
func authorize(req *http.Request, token string) {
	if token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

// unwrap maps the transport response to either the decoded payload or a
// coded error. Callers never see the status line or headers.
func unwrap(resp *http.Response, out any) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response body")
		}
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	message := strings.TrimSpace(string(raw))
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &detail); err == nil && strings.TrimSpace(detail.Detail) != "" {
		message = strings.TrimSpace(detail.Detail)
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	code := pkgerrors.FromStatus(resp.StatusCode)
	return pkgerrors.Wrap(code, fmt.Errorf("status %d", resp.StatusCode), message)
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
}

func trimQuery(path string) string {
	if idx := strings.IndexByte(path, '?'); idx >= 0 {
		return path[:idx]
	}
	return path
}
