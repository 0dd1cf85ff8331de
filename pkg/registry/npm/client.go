// Package npm implements latest-version lookups against an npm-compatible
// registry.
package npm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/skoenig/depup/pkg/registry"
)

// DefaultRegistry is the public npm registry base URL.
const DefaultRegistry = "https://registry.npmjs.org"

// Client looks up package versions from a single registry.
type Client struct {
	client  *registry.Client
	baseURL string
}

// NewClient creates a Client against baseURL (DefaultRegistry when empty).
func NewClient(baseURL string, rc *registry.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultRegistry
	}
	return &Client{
		client:  rc,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Latest returns the latest published version of pkg from
// <base>/<pkg>/latest. refresh bypasses the response cache.
func (c *Client) Latest(ctx context.Context, pkg string, refresh bool) (string, error) {
	pkg = strings.TrimSpace(pkg)

	var dist distInfo
	endpoint := c.baseURL + "/" + escapeName(pkg) + "/latest"
	key := "npm:latest:" + pkg
	if err := c.client.GetJSON(ctx, endpoint, key, refresh, &dist); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return "", fmt.Errorf("%w: npm package %s", err, pkg)
		}
		return "", err
	}
	if dist.Version == "" {
		return "", fmt.Errorf("%w: no version in response for %s", registry.ErrNetwork, pkg)
	}
	return dist.Version, nil
}

type distInfo struct {
	Version string `json:"version"`
}

// escapeName percent-encodes a package name for use as a single path
// segment. The scope separator of scoped packages must itself be encoded:
// the registry expects "@scope%2Fname".
func escapeName(name string) string {
	if strings.HasPrefix(name, "@") {
		if i := strings.IndexByte(name, '/'); i >= 0 {
			return url.PathEscape(name[:i]) + "%2F" + url.PathEscape(name[i+1:])
		}
	}
	return url.PathEscape(name)
}
