package frontend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-content-blocks/internal/logging"
	"github.com/goliatone/go-content-blocks/pkg/interfaces"
)

// DefaultRenderingApp receives traffic when the content store names no
// application.
const DefaultRenderingApp = "frontend"

// DefaultFetchTimeout bounds a single page fetch.
const DefaultFetchTimeout = 10 * time.Second

// renderingAppAliases remaps rendering application names whose hostnames
// differ from the name the content store reports.
var renderingAppAliases = map[string]string{
	"smartanswers": "smart-answers",
}

// Config drives origin resolution for page fetches.
type Config struct {
	// WebsiteRoot is the public website origin used in production-like
	// environments, for example https://www.gov.uk.
	WebsiteRoot string
	// Development switches to per-application origin resolution through the
	// content-metadata service.
	Development bool
	// AppOriginPattern expands a rendering application name into its
	// external origin in development, for example http://%s.dev.gov.uk.
	AppOriginPattern string
	// FetchTimeout bounds a single page fetch. Zero means
	// DefaultFetchTimeout.
	FetchTimeout time.Duration
}

// Client fetches pages from the external rendering applications.
type Client struct {
	config   Config
	metadata interfaces.ContentMetadataClient
	http     *http.Client
	logger   interfaces.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithMetadataClient supplies the content-metadata lookup used in
// development.
func WithMetadataClient(metadata interfaces.ContentMetadataClient) Option {
	return func(c *Client) {
		c.metadata = metadata
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithLogger overrides the client logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New constructs a frontend client.
func New(config Config, opts ...Option) *Client {
	timeout := config.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	c := &Client{
		config: config,
		http:   &http.Client{Timeout: timeout},
		logger: logging.NoOp(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ResolveOrigin determines the origin to fetch a piece of hosted content
// from. Production-like environments always use the public website root. In
// development the content store's designated rendering application picks the
// origin, falling back to the default application when the lookup fails or
// names nothing.
func (c *Client) ResolveOrigin(ctx context.Context, contentID string) string {
	if !c.config.Development {
		return strings.TrimRight(c.config.WebsiteRoot, "/")
	}

	app := DefaultRenderingApp
	if c.metadata != nil {
		meta, err := c.metadata.GetContent(ctx, contentID)
		if err != nil {
			c.logger.Warn("content metadata lookup failed", "content_id", contentID, "error", err)
		} else if meta.RenderingApp != "" {
			app = meta.RenderingApp
		}
	}

	if alias, ok := renderingAppAliases[app]; ok {
		app = alias
	}

	return fmt.Sprintf(c.config.AppOriginPattern, app)
}

// FetchPage retrieves the page body at origin+basePath. Non-2xx responses
// are returned as errors so callers can fall back uniformly.
func (c *Client) FetchPage(ctx context.Context, origin, basePath string) (string, error) {
	url := strings.TrimRight(origin, "/") + basePath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("frontend: build request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("frontend: fetch %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("frontend: fetch %s: unexpected status %d", url, res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("frontend: read %s: %w", url, err)
	}

	return string(body), nil
}
