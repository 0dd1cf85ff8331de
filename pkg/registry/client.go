// Package registry provides shared HTTP functionality for registry API
// clients: status-to-error mapping, JSON decoding, and response caching.
//
// Lookups are deliberately single-attempt. A failed request surfaces as an
// error for that package alone; callers treat it as a per-item failure, not
// a reason to retry or abort.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/skoenig/depup/pkg/cache"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a package doesn't exist in the registry.
	ErrNotFound = errors.New("package not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
	// non-success statuses, malformed bodies).
	ErrNetwork = errors.New("network error")
)

// Client performs GET requests against a registry with response caching.
type Client struct {
	http  *http.Client
	cache cache.Cache
	ttl   time.Duration
}

// NewClient creates a Client backed by the given cache. Pass nil to disable
// caching. ttl bounds how long responses are reused across runs.
func NewClient(c cache.Cache, ttl time.Duration) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:  &http.Client{Timeout: httpTimeout},
		cache: c,
		ttl:   ttl,
	}
}

// GetJSON fetches url and decodes the response body into v.
//
// When cacheKey is non-empty the response body is served from and stored in
// the cache; refresh bypasses the cache for this call (the fresh body is
// still stored). Each call makes at most one request attempt.
func (c *Client) GetJSON(ctx context.Context, url, cacheKey string, refresh bool, v any) error {
	if cacheKey != "" && !refresh {
		if data, hit, _ := c.cache.Get(ctx, cacheKey); hit {
			if json.Unmarshal(data, v) == nil {
				return nil
			}
			// Corrupt entry: drop it and fall through to a live request.
			_ = c.cache.Delete(ctx, cacheKey)
		}
	}

	data, err := c.fetch(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrNetwork, url, err)
	}
	if cacheKey != "" {
		_ = c.cache.Set(ctx, cacheKey, data, c.ttl)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
