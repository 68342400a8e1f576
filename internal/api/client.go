package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rickgao/market-risk-monitor/internal/version"
)

// Client provides access to the CoinGecko REST API.
type Client struct {
	baseURL      string
	apiKey       string
	apiKeyHeader string
	userAgent    string
	httpClient   *http.Client
	logger       *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      baseURL,
		apiKeyHeader: "x-cg-demo-api-key",
		userAgent:    version.UserAgent(),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithAPIKey sends key in the given header. An empty header keeps the default.
func WithAPIKey(header, key string) ClientOption {
	return func(c *Client) {
		if header != "" {
			c.apiKeyHeader = header
		}
		c.apiKey = key
	}
}

// WithUserAgent overrides the User-Agent header. Empty values are ignored.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}
