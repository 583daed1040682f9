package client

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

	"github.com/dmitrijs2005/petadopt/internal/common"
	"github.com/dmitrijs2005/petadopt/internal/logging"
	"github.com/google/uuid"
)

const (
	DefaultTimeout = 15 * time.Second
	maxBodyBytes   = 1 << 20

	reasonExpired  = "Session expired, please login"
	reasonRequired = "Please login to continue"
)

// Credentials is the view of the session the gateway needs.
type Credentials interface {
	Token() string
	// InvalidateToken drops the session from memory and durable storage
	// if token is still the current one, and reports whether it was.
	InvalidateToken(ctx context.Context, token string) bool
}

// Navigator sends the user to the login entry point.
type Navigator interface {
	ToLogin(ctx context.Context, reason string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, reason string)

func (f NavigatorFunc) ToLogin(ctx context.Context, reason string) { f(ctx, reason) }

type Gateway struct {
	http    *http.Client
	baseURL string
	creds   Credentials
	nav     Navigator
	log     logging.Logger
	newID   func() string
}

type GatewayOption func(*Gateway)

// WithHTTPClient replaces the underlying *http.Client, e.g. with the one of
// an httptest.Server.
func WithHTTPClient(c *http.Client) GatewayOption {
	return func(g *Gateway) { g.http = c }
}

// WithRequestIDs overrides X-Request-ID generation.
func WithRequestIDs(fn func() string) GatewayOption {
	return func(g *Gateway) { g.newID = fn }
}

// NewGateway validates baseURL and builds a Gateway. nav may be nil, in
// which case 401 replies only invalidate the session.
func NewGateway(baseURL string, timeout time.Duration, creds Credentials, nav Navigator, log logging.Logger, opts ...GatewayOption) (*Gateway, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if nav == nil {
		nav = NavigatorFunc(func(context.Context, string) {})
	}
	if log == nil {
		log = logging.Nop()
	}

	g := &Gateway{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		nav:     nav,
		log:     log.With("component", "gateway"),
		newID:   func() string { return uuid.NewString() },
	}
	for _, o := range opts {
		o(g)
	}
	return g, nil
}

// Send issues one JSON request. in is marshalled as the body when non-nil;
// a 2xx body is decoded into out when out is non-nil.
func (g *Gateway) Send(ctx context.Context, method, path string, in, out any) error {
	return g.send(ctx, method, path, in, out, false)
}

// SendQuiet is Send for background calls: a 401 reply is returned as an
// *APIError and neither touches the session nor navigates.
func (g *Gateway) SendQuiet(ctx context.Context, method, path string, in, out any) error {
	return g.send(ctx, method, path, in, out, true)
}

func (g *Gateway) send(ctx context.Context, method, path string, in, out any, quiet bool) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.resolve(path), body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	reqID := g.newID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.RequestIDHeader, reqID)

	token := g.token()
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	log := g.log.With("request_id", reqID, "method", method, "path", path)
	started := time.Now()

	resp, err := g.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn(ctx, "request failed", "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	log.Debug(ctx, "response received", "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
		if resp.StatusCode == http.StatusUnauthorized && !quiet {
			g.unauthorized(ctx, token)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func (g *Gateway) token() string {
	if g.creds == nil {
		return ""
	}
	return g.creds.Token()
}

// unauthorized handles a 401 to a request sent with token. A reply that
// arrives after the session moved on to another token is ignored.
func (g *Gateway) unauthorized(ctx context.Context, token string) {
	if g.creds != nil && !g.creds.InvalidateToken(ctx, token) {
		g.log.Debug(ctx, "ignoring 401 for a replaced session")
		return
	}
	reason := reasonRequired
	if token != "" {
		reason = reasonExpired
	}
	g.log.Info(ctx, "unauthorized, redirecting to login", "had_token", token != "")
	g.nav.ToLogin(ctx, reason)
}

func (g *Gateway) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return g.baseURL + path
}

// errorMessage extracts "message" (or "error") from a JSON error payload.
func errorMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

// IsUnauthorized reports whether err came from a 401 reply.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
