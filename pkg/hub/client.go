// Package hub provides the HTTP client for fetching template definitions
// from a prompt registry. The default registry is served as raw files, so a
// fetch is a single GET against a ref-addressed path.
//
// Fetches are not retried. A failed fetch surfaces immediately and callers
// decide whether to try again.
package hub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the public registry. The {ref} token is replaced
	// with the revision each fetch addresses.
	DefaultBaseURL = "https://raw.githubusercontent.com/killallgit/prompthub-registry/{ref}/"

	// DefaultRef is the revision used when a fetch does not pin one.
	DefaultRef = "main"

	// DefaultTimeout bounds each fetch.
	DefaultTimeout = 30 * time.Second

	refToken  = "{ref}"
	userAgent = "prompthub-go/0.1"

	// maxBodySnippet caps how much of an error response is kept for
	// diagnostics.
	maxBodySnippet = 200
)

// Client fetches template content from a registry over HTTP.
type Client struct {
	baseURL    string
	ref        string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the registry address. A {ref} token in the address
// is replaced with the revision each fetch addresses.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithRef sets the default revision for fetches that do not pin one.
func WithRef(ref string) Option {
	return func(c *Client) {
		c.ref = ref
	}
}

// WithAPIKey sends an Authorization bearer token with every fetch.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithTimeout bounds each fetch.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger attaches a logger for fetch diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the public registry. Apply options to point it
// elsewhere or to authenticate.
func New(opts ...Option) *Client {
	client := &Client{
		baseURL:    DefaultBaseURL,
		ref:        DefaultRef,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Fetch retrieves the raw content at the logical path under the given
// revision. An empty ref uses the client default. The returned bytes are
// the file exactly as the registry serves it.
func (c *Client) Fetch(ctx context.Context, ref, path string) ([]byte, error) {
	url := c.fetchURL(ref, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/x-yaml, application/json, text/plain")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Debug().Str("url", url).Msg("fetching template")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug().Str("url", url).Int("status", resp.StatusCode).Msg("fetch failed")
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Body: bodySnippet(body)}
	}

	return body, nil
}

// fetchURL joins the registry address, revision, and logical path.
func (c *Client) fetchURL(ref, path string) string {
	if ref == "" {
		ref = c.ref
	}
	base := strings.ReplaceAll(c.baseURL, refToken, ref)
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}

func bodySnippet(body []byte) string {
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > maxBodySnippet {
		snippet = snippet[:maxBodySnippet] + "..."
	}
	return snippet
}
