package platforms

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/mselser95/predictmarket-mcp/internal/ratelimit"
	"github.com/mselser95/predictmarket-mcp/pkg/types"
	"go.uber.org/zap"
)

// client is the HTTP requester shared by all adapters. Every request
// acquires a rate-limit token first; every failure surfaces as a
// PlatformError carrying the platform tag.
type client struct {
	platform   string
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	logger     *zap.Logger
	authToken  string
}

func newClient(platform string, cfg Config) *client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &client{
		platform: platform,
		baseURL:  cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter:   cfg.Limiter,
		logger:    cfg.Logger,
		authToken: cfg.APIKey,
	}
}

// getJSON performs a rate-limited GET against baseURL+path and decodes the
// response body into out.
func (c *client) getJSON(ctx context.Context, operation string, path string, params url.Values, out any) error {
	if c.limiter != nil {
		err := c.limiter.Wait(ctx, c.platform)
		if err != nil {
			return types.WrapPlatformError(c.platform, err)
		}
	}

	requestURL := c.baseURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return types.WrapPlatformError(c.platform, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "predictmarket-mcp/1.0")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	c.logger.Debug("platform-request",
		zap.String("platform", c.platform),
		zap.String("operation", operation),
		zap.String("url", requestURL))

	RequestsTotal.WithLabelValues(c.platform, operation).Inc()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	RequestDurationSeconds.WithLabelValues(c.platform).Observe(time.Since(start).Seconds())

	if err != nil {
		ErrorsTotal.WithLabelValues(c.platform, operation).Inc()
		return types.WrapPlatformError(c.platform, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		ErrorsTotal.WithLabelValues(c.platform, operation).Inc()
		return types.NewPlatformError(c.platform, "unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		ErrorsTotal.WithLabelValues(c.platform, operation).Inc()
		return types.WrapPlatformError(c.platform, err)
	}

	err = json.Unmarshal(body, out)
	if err != nil {
		ErrorsTotal.WithLabelValues(c.platform, operation).Inc()
		return types.NewPlatformError(c.platform, "decode response: %v", err)
	}

	return nil
}

func (c *client) close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
