// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aurorax provides the HTTP client shared by the AuroraX search
// packages: request execution, rate limiting, API error mapping, and
// endpoint construction. Search-kind behavior lives in the search,
// requests, and sources subpackages; this package only moves JSON.
package aurorax

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production AuroraX API.
const DefaultBaseURL = "https://api.aurorax.space"

const (
	defaultTimeout   = 10 * time.Second
	defaultRate      = 10.0 // requests per second
	defaultUserAgent = "go-aurorax/1.0"

	apiKeyHeader = "x-aurorax-api-key"
)

// Config holds client construction parameters. Zero values fall back to
// package defaults, so Config{} yields a working anonymous client against
// the production API.
type Config struct {
	// BaseURL overrides the production API endpoint.
	BaseURL string
	// APIKey is sent on every request when set. Most search operations
	// work anonymously.
	APIKey string
	// Timeout bounds each HTTP exchange.
	Timeout time.Duration
	// RequestsPerSecond throttles outgoing requests.
	RequestsPerSecond float64
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// Logger receives transport diagnostics. Nil disables them.
	Logger *zerolog.Logger
}

// Client is a rate-limited AuroraX API client, safe for concurrent use.
// All search packages share one Client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	log        zerolog.Logger
}

// New builds a Client from cfg.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	perSec := cfg.RequestsPerSecond
	if perSec <= 0 {
		perSec = defaultRate
	}
	burst := int(perSec)
	if burst < 1 {
		burst = 1
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter:   rate.NewLimiter(rate.Limit(perSec), burst),
		userAgent: userAgent,
		log:       log,
	}
}

// BaseURL returns the API base the client was built with, without a
// trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Logger returns the client's diagnostic logger.
func (c *Client) Logger() zerolog.Logger { return c.log }

// Response captures one API exchange: the status code, response headers,
// and the raw JSON body (nil when the server sent none).
type Response struct {
	StatusCode int
	Header     http.Header
	Body       json.RawMessage
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("%w: empty response body", ErrUnexpectedContentType)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedContentType, err)
	}
	return nil
}

// Do executes one API request. A non-nil body is JSON-encoded. Non-2xx
// statuses are mapped onto the package error taxonomy; a 2xx body that is
// not valid JSON fails with ErrUnexpectedContentType. Each invocation is
// single-shot: the client never retries.
func (c *Client) Do(ctx context.Context, method, url string, body any) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	c.log.Debug().Str("method", method).Str("url", url).
		Str("api_key", redactKey(c.apiKey)).Msg("aurorax request")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aurorax API request: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	c.log.Debug().Int("status", res.StatusCode).Int("bytes", len(raw)).Msg("aurorax response")

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, translateStatus(res.StatusCode, raw)
	}

	resp := &Response{StatusCode: res.StatusCode, Header: res.Header}
	if len(raw) > 0 {
		if !json.Valid(raw) {
			return nil, fmt.Errorf("%w: response body is not JSON", ErrUnexpectedContentType)
		}
		resp.Body = raw
	}
	return resp, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, url string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, url, body)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, url, nil)
}

// translateStatus maps a non-2xx status onto the error taxonomy, keeping
// the server-supplied message when one is present.
func translateStatus(code int, body []byte) error {
	var kind error
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = ErrUnauthorized
	case http.StatusNotFound:
		kind = ErrNotFound
	default:
		kind = ErrRequestFailed
	}
	if msg := serverMessage(body); msg != "" {
		return fmt.Errorf("%w: HTTP %d: %s", kind, code, msg)
	}
	return fmt.Errorf("%w: HTTP %d", kind, code)
}

// serverMessage extracts the human-readable description from an API error
// body. The API is not consistent about the field name.
func serverMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		ErrorMessage string `json:"error_message"`
		Message      string `json:"message"`
		Detail       string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, msg := range []string{payload.ErrorMessage, payload.Message, payload.Detail} {
		if msg != "" {
			return msg
		}
	}
	return ""
}

func redactKey(key string) string {
	if key == "" {
		return "(none)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
