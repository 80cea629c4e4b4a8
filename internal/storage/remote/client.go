// Package remote talks to the REST booking service.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/julianstephens/weekslot/internal/constants"
	"github.com/julianstephens/weekslot/internal/errors"
	"github.com/julianstephens/weekslot/internal/logger"
	"github.com/julianstephens/weekslot/internal/models"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Client is the REST authority. It is safe for concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter

	mu     sync.RWMutex
	tokens models.TokenPair
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLimiter replaces the shared request limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithTokens sets the credentials sent with every request.
func WithTokens(t models.TokenPair) Option {
	return func(c *Client) { c.tokens = t }
}

// New creates a client for the service rooted at baseURL, e.g.
// https://book.example.com/api.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid service URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid service URL %q: expected http(s)://host/path", baseURL)
	}

	c := &Client{
		base:    u,
		http:    &http.Client{Timeout: constants.DefaultRequestTimeout},
		limiter: rate.NewLimiter(rate.Limit(constants.DefaultRequestsPerSec), constants.DefaultRequestBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string { return c.base.String() }

// SetTokens replaces the credentials, e.g. after login.
func (c *Client) SetTokens(t models.TokenPair) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = t
}

// Tokens returns the current credentials.
func (c *Client) Tokens() models.TokenPair {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends one request and decodes a 2xx body into out. Failures are
// classified: no answer or 5xx is a TransportFailure, any other non-2xx is a
// Rejection carrying the server's message.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Transport(op, err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Tokens().Access; tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	log := logger.With("op", op, "method", method, "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		if log != nil {
			log.Warn("request failed", "error", err)
		}
		return errors.Transport(op, err)
	}
	defer resp.Body.Close()

	if log != nil {
		log.Debug("response", "status", resp.StatusCode)
	}

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if resp.StatusCode >= 500 {
			return errors.Transport(op, fmt.Errorf("server returned %d", resp.StatusCode))
		}
		return errors.Reject(op, resp.StatusCode, errorMessage(resp.StatusCode, raw))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}
