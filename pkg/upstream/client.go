package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/shoppingcart/pkg/errors"
)

const (
	defaultTimeout             = 5 * time.Second
	errorBodyReadLimit   int64 = 1024
	responseBodyMaxBytes int64 = 4 << 20
)

var (
	// ErrPartialContent marks a 206 answer: the peer could not produce the
	// complete resource and the caller must treat the data as unusable.
	ErrPartialContent = errors.New("upstream returned partial content")
	// ErrNotFound marks a 404 answer.
	ErrNotFound = errors.New("upstream resource not found")

	errBaseURLRequired = errors.New("upstream base url is required")
)

// Client performs JSON GET requests against one peer service.
type Client struct {
	name       string
	httpClient *http.Client
	baseURL    string
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

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout, Transport: c.httpClient.Transport}
		}
	}
}

// New builds a client for the named peer service rooted at baseURL.
func New(name, baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("%s: %w", name, errBaseURLRequired)
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return nil, fmt.Errorf("%s: parse base url: %w", name, err)
	}

	client := &Client{
		name:       name,
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Name identifies the peer service in logs and metrics.
func (c *Client) Name() string {
	return c.name
}

// GetJSON issues GET baseURL+path?query, forwarding the caller's bearer token,
// and decodes a 200 body into out. A 206 yields ErrPartialContent, a 404
// ErrNotFound. Transport failures and any other status are CodeDependency.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "upstream client not configured")
	}

	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("build %s request", c.name))
	}
	req.Header.Set("Accept", "application/json")
	if token := BearerTokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("execute %s request", c.name))
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusPartialContent:
		return fmt.Errorf("%s %s: %w", c.name, path, ErrPartialContent)
	case http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", c.name, path, ErrNotFound)
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), fmt.Sprintf("%s request failed", c.name))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseBodyMaxBytes)).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode %s response", c.name))
	}
	return nil
}

// JoinIDs renders ids as the comma separated list the peer services accept.
func JoinIDs(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	return strings.Join(parts, ",")
}
