package pypi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/stackprov/pkg/cache"
	"github.com/matzehuels/stackprov/pkg/integrations"
)

// DefaultBaseURL is the PyPI JSON API root.
const DefaultBaseURL = "https://pypi.org/pypi"

// Client provides access to the PyPI JSON API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a PyPI client. An empty baseURL selects pypi.org.
func NewClient(c cache.Cache, ttl time.Duration, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(c, "pypi", ttl, nil),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// FetchRelease returns the raw JSON document of one release from
// /pypi/<name>/<version>/json. The name is normalized per PEP 503 first.
//
// Returns [integrations.ErrNotFound] if the project or release does not exist.
func (c *Client) FetchRelease(ctx context.Context, name, version string, refresh bool) ([]byte, error) {
	name = integrations.NormalizePkgName(name)
	url := fmt.Sprintf("%s/%s/%s/json", c.baseURL, name, integrations.PathEscape(version))

	data, err := c.CachedBytes(ctx, name+"@"+version, refresh, func() ([]byte, error) {
		return c.GetBytes(ctx, url)
	})
	if err != nil {
		return nil, fmt.Errorf("pypi release %s==%s: %w", name, version, err)
	}
	return data, nil
}
