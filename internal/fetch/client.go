// Package fetch implements the shared HTTP retrieval pipeline: cache
// lookup first, then a GET with a rotating user agent (and optionally a
// rotating proxy), retried a fixed number of times before the failure
// propagates as a transport error.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/maisonnat/GauchoAPI/internal/cache"
	"github.com/maisonnat/GauchoAPI/internal/config"
	"github.com/maisonnat/GauchoAPI/internal/metrics"
	"github.com/maisonnat/GauchoAPI/internal/ratelimit"
	"github.com/maisonnat/GauchoAPI/internal/scraper"
)

type Client struct {
	httpClient  *http.Client
	store       cache.Store
	ttl         time.Duration
	userAgents  []string
	maxAttempts int
	retryDelay  time.Duration
	limiter     ratelimit.Limiter
	logger      *slog.Logger
}

func New(store cache.Store, cfg config.ScraperConfig, ttl time.Duration, logger *slog.Logger) *Client {
	transport := &http.Transport{
		MaxIdleConns:    10,
		IdleConnTimeout: 90 * time.Second,
	}

	if len(cfg.Proxies) > 0 {
		proxies := cfg.Proxies
		transport.Proxy = func(*http.Request) (*url.URL, error) {
			return url.Parse(proxies[rand.Intn(len(proxies))])
		}
	}

	return NewWithHTTPClient(&http.Client{
		Transport: transport,
		Timeout:   30 * time.Second,
	}, store, cfg, ttl, logger)
}

// NewWithHTTPClient wires an explicit http.Client, which tests use to
// install a mock transport.
func NewWithHTTPClient(httpClient *http.Client, store cache.Store, cfg config.ScraperConfig, ttl time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient:  httpClient,
		store:       store,
		ttl:         ttl,
		userAgents:  cfg.UserAgents,
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
		limiter:     ratelimit.NewSimple(0, 0),
		logger:      logger.With("component", "fetch"),
	}
}

// SetLimiter replaces the politeness limiter applied before each
// network attempt. Cache hits are never limited.
func (c *Client) SetLimiter(l ratelimit.Limiter) {
	c.limiter = l
}

// Fetch returns the raw body for url, serving from cache when a fresh
// entry exists. A network or HTTP failure is retried with a fixed delay
// until the attempt budget runs out, then surfaces as *TransportError.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	if body, err := c.store.Get(ctx, rawURL); err == nil {
		c.logger.Info("cache hit", "url", rawURL)
		metrics.CacheHits.Inc()
		return body, nil
	}
	metrics.CacheMisses.Inc()

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", &scraper.TransportError{URL: rawURL, Err: ctx.Err()}
			case <-time.After(c.retryDelay):
			}
		}

		body, err := c.doRequest(ctx, rawURL)
		if err == nil {
			if err := c.store.Set(ctx, rawURL, body, c.ttl); err != nil {
				c.logger.Warn("failed to cache response", "url", rawURL, "error", err)
			}
			return body, nil
		}

		lastErr = err
		c.logger.Error("fetch attempt failed", "url", rawURL, "attempt", attempt, "error", err)
	}

	return "", &scraper.TransportError{URL: rawURL, Err: fmt.Errorf("failed after %d attempts: %w", c.maxAttempts, lastErr)}
}

func (c *Client) doRequest(ctx context.Context, rawURL string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.randomUserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}

	return string(body), nil
}

func (c *Client) randomUserAgent() string {
	if len(c.userAgents) == 0 {
		return "Mozilla/5.0 (compatible; GauchoAPI/1.0)"
	}
	return c.userAgents[rand.Intn(len(c.userAgents))]
}
