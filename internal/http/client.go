// Package http implements the Trapper transport: one authenticated call per
// request, with response normalization and error mapping.
package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/wildintel/trapper-client/internal/auth"
	"github.com/wildintel/trapper-client/internal/constants"
	"github.com/wildintel/trapper-client/internal/normalize"
	"github.com/wildintel/trapper-client/pkg/trapper"
)

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
	http.MethodPut:    true,
}

// Client is the HTTP transport shared by every resource client. It holds no
// mutable state besides the connection pool, the rate limiter and metrics,
// and is safe for concurrent use.
type Client struct {
	baseURL       string
	authenticator auth.Authenticator
	httpClient    *retryablehttp.Client
	logger        trapper.Logger
	debug         bool
	userAgent     string
	limiter       *rate.Limiter

	timeout       time.Duration
	skipTLSVerify bool
	retryMax      int
	retryWaitMin  time.Duration
	retryWaitMax  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger trapper.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithTimeout bounds every HTTP attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRetryConfig enables retries of connection errors, 429 and 5xx
// responses. 4xx responses are never retried.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryMax = retryMax
		c.retryWaitMin = waitMin
		c.retryWaitMax = waitMax
	}
}

// WithRateLimit bounds the request rate of the client. A non-positive rps
// disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil

			return
		}

		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithSkipTLSVerify disables server certificate verification.
func WithSkipTLSVerify(skip bool) Option {
	return func(c *Client) {
		c.skipTLSVerify = skip
	}
}

// NewClient creates a transport for baseURL. A nil authenticator fails every
// call with trapper.ErrNoCredentials.
func NewClient(baseURL string, authenticator auth.Authenticator, opts ...Option) *Client {
	if authenticator == nil {
		authenticator = auth.MissingCredentials{}
	}

	client := &Client{
		baseURL:       baseURL,
		authenticator: authenticator,
		userAgent:     constants.UserAgentPrefix + constants.Version,
		timeout:       constants.DefaultHTTPTimeout,
		retryMax:      constants.DefaultRetryMax,
		retryWaitMin:  constants.DefaultRetryWaitMin,
		retryWaitMax:  constants.DefaultRetryWaitMax,
	}

	for _, opt := range opts {
		opt(client)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = client.retryMax
	retryClient.RetryWaitMin = client.retryWaitMin
	retryClient.RetryWaitMax = client.retryWaitMax
	retryClient.CheckRetry = client.checkRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient.Timeout = client.timeout
	retryClient.Logger = nil

	if client.logger != nil && client.retryMax > 0 {
		retryClient.Logger = &leveledLogger{logger: client.logger}
	}

	if client.skipTLSVerify {
		if transport, ok := retryClient.HTTPClient.Transport.(*http.Transport); ok {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-hosted servers
		}
	}

	client.httpClient = retryClient

	return client
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if c.retryMax <= 0 {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}

		return false, nil
	}

	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// Do performs one call.
//
// On 2xx the body is normalized unless req.Raw is set. On non-2xx an
// *trapper.APIError is returned together with the response, unless
// req.RawOnError is set, in which case only the response is returned.
func (c *Client) Do(ctx context.Context, req *trapper.Request) (*trapper.Response, error) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}

	if !allowedMethods[method] {
		return nil, fmt.Errorf("%w: %q", trapper.ErrInvalidMethod, req.Method)
	}

	httpReq, err := c.buildRequest(ctx, method, req)
	if err != nil {
		return nil, err
	}

	if err := c.authenticator.Authenticate(ctx, httpReq.Request); err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": method,
			"url":    httpReq.URL.String(),
			"auth":   c.authenticator.Scheme(),
		})
	}

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)

	RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())

	if err != nil {
		RequestsTotal.WithLabelValues(method, "error").Inc()

		return nil, fmt.Errorf("executing %s %s: %w", method, req.Endpoint, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	RequestsTotal.WithLabelValues(method, strconv.Itoa(httpResp.StatusCode)).Inc()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &trapper.Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status":       httpResp.StatusCode,
			"content_type": resp.ContentType(),
			"bytes":        len(body),
			"duration":     time.Since(start).String(),
		})
	}

	if !resp.IsSuccess() {
		if req.RawOnError {
			return resp, nil
		}

		return resp, trapper.NewAPIError(resp.StatusCode, body)
	}

	if req.Raw {
		return resp, nil
	}

	env, err := normalize.Normalize(resp.ContentType(), body)
	if err != nil {
		return resp, err
	}

	resp.Envelope = env

	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, query trapper.Query) (*trapper.Response, error) {
	return c.Do(ctx, &trapper.Request{Method: http.MethodGet, Endpoint: endpoint, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body any) (*trapper.Response, error) {
	return c.Do(ctx, &trapper.Request{Method: http.MethodPost, Endpoint: endpoint, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body any) (*trapper.Response, error) {
	return c.Do(ctx, &trapper.Request{Method: http.MethodPut, Endpoint: endpoint, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, endpoint string, body any) (*trapper.Response, error) {
	return c.Do(ctx, &trapper.Request{Method: http.MethodPatch, Endpoint: endpoint, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string) (*trapper.Response, error) {
	return c.Do(ctx, &trapper.Request{Method: http.MethodDelete, Endpoint: endpoint})
}

func (c *Client) buildRequest(ctx context.Context, method string, req *trapper.Request) (*retryablehttp.Request, error) {
	target := JoinURL(c.baseURL, req.Endpoint)

	if values := req.Query.Values(); len(values) > 0 {
		separator := "?"
		if strings.Contains(target, "?") {
			separator = "&"
		}

		target += separator + values.Encode()
	}

	body, isJSON, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", constants.AcceptHeader)
	httpReq.Header.Set("User-Agent", c.userAgent)

	if isJSON {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return httpReq, nil
}

// JoinURL joins base and endpoint with exactly one slash, trimming one
// trailing slash from base and one leading slash from endpoint.
func JoinURL(base, endpoint string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(endpoint, "/")
}

func encodeBody(body any) (any, bool, error) {
	switch typed := body.(type) {
	case nil:
		return nil, false, nil
	case []byte:
		return typed, false, nil
	case io.Reader:
		return typed, false, nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, false, fmt.Errorf("encoding request body: %w", err)
	}

	return bytes.NewReader(data), true, nil
}

// leveledLogger routes retryablehttp logs to a trapper.Logger.
type leveledLogger struct {
	logger trapper.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, fields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, fields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, fields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, fields(keysAndValues))
}

func fields(keysAndValues []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return out
}
