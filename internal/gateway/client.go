// Package gateway is the typed client for the marketplace REST API. Every
// view goes through it; it owns the response envelope, the bearer header and
// the error taxonomy, so no view re-implements transport concerns.
package gateway

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

	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var (
	// ErrUnauthorized marks a bearer token the gateway rejected. Views treat
	// it like an anonymous session for that request; they must not clear the
	// token store over it.
	ErrUnauthorized = errors.New("gateway rejected credentials")
	// ErrNotFound marks a resource id that did not resolve.
	ErrNotFound = errors.New("not found")
)

// Error is a gateway-level failure: the request completed but the envelope
// carried success=false.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("gateway error (status %d): %s", e.StatusCode, e.Message)
}

// Pagination is the paging block some listing endpoints return.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
}

// envelope is the gateway's uniform response shape. Only success and data are
// load-bearing; token and isEnrolled are endpoint-specific top-level extras.
type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Token      string          `json:"token"`
	IsEnrolled *bool           `json:"isEnrolled"`
	Pagination *Pagination     `json:"pagination"`
}

// TokenSource yields the raw bearer token for protected calls. The session
// manager satisfies it by re-reading the token store.
type TokenSource interface {
	Token() (string, bool)
}

// Client talks to the gateway.
type Client struct {
	base    *url.URL
	http    *http.Client
	tokens  TokenSource
	log     *zap.Logger
	limiter *limiter.Limiter
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests use this).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRateLimit paces outgoing requests, e.g. "10-S" for ten per second.
// Invalid formats are reported by NewClient.
func WithRateLimit(formatted string) Option {
	return func(c *Client) {
		rate, err := limiter.NewRateFromFormatted(formatted)
		if err != nil {
			c.limiter = nil
			c.log.Warn("invalid rate limit format, pacing disabled", zap.String("rate", formatted), zap.Error(err))
			return
		}
		c.limiter = limiter.New(memorystore.NewStore(), rate)
	}
}

// NewClient builds a gateway client for the given base URL. tokens may be nil
// for a purely anonymous client.
func NewClient(baseURL string, tokens TokenSource, log *zap.Logger, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing gateway URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("gateway URL must be http(s), got %q", baseURL)
	}

	c := &Client{
		base:   base,
		tokens: tokens,
		log:    log,
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: newLoggingTransport(http.DefaultTransport, log),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do performs one gateway round trip and decodes the envelope. out may be nil
// when the caller only cares about success. The bearer token is attached when
// one is stored; a protected endpoint called without a token simply gets the
// gateway's 401, mapped to ErrUnauthorized.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (*envelope, error) {
	if err := c.pace(ctx); err != nil {
		return nil, err
	}

	tracer := otel.Tracer("coursedeck/gateway")
	ctx, span := tracer.Start(ctx, method+" "+path)
	defer span.End()

	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if tok, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, "transport failure")
		span.RecordError(err)
		return nil, fmt.Errorf("calling gateway: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Debug("closing response body", zap.Error(err))
		}
	}()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 400 {
			return nil, fmt.Errorf("decoding response envelope: %w", err)
		}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		span.SetStatus(codes.Error, "unauthorized")
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, envMessage(env, resp.StatusCode))
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, envMessage(env, resp.StatusCode))
	case resp.StatusCode >= 400 || !env.Success:
		span.SetStatus(codes.Error, "gateway error")
		return nil, &Error{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decoding response data: %w", err)
		}
	}
	return &env, nil
}

// pace blocks until the client-side rate limit admits another request.
func (c *Client) pace(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	for {
		lctx, err := c.limiter.Get(ctx, "gateway")
		if err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		if !lctx.Reached {
			return nil
		}
		wait := time.Until(time.Unix(lctx.Reset, 0))
		if wait <= 0 {
			wait = 50 * time.Millisecond
		}
		c.log.Debug("client rate limit reached, waiting", zap.Duration("wait", wait))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func envMessage(env envelope, status int) string {
	if env.Message != "" {
		return env.Message
	}
	return http.StatusText(status)
}
