// Package nuget provides an HTTP client for the NuGet flat container API.
//
// The flat container serves the .nuspec manifest of every published
// version at a predictable path:
//
//	https://api.nuget.org/v3-flatcontainer/<id>/<version>/<id>.nuspec
//
// Both the id and the version must be lower-cased in the path.
package nuget

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/stackprov/pkg/cache"
	"github.com/matzehuels/stackprov/pkg/integrations"
)

// DefaultBaseURL is the nuget.org flat container root.
const DefaultBaseURL = "https://api.nuget.org/v3-flatcontainer"

// Client fetches nuspec manifests.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a NuGet client. An empty baseURL selects nuget.org.
func NewClient(c cache.Cache, ttl time.Duration, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(c, "nuget", ttl, nil),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// FetchNuspec returns the raw nuspec XML of one package version.
func (c *Client) FetchNuspec(ctx context.Context, id, version string, refresh bool) ([]byte, error) {
	lid, lver := strings.ToLower(id), strings.ToLower(version)
	url := fmt.Sprintf("%s/%s/%s/%s.nuspec", c.baseURL,
		integrations.PathEscape(lid), integrations.PathEscape(lver), integrations.PathEscape(lid))

	data, err := c.CachedBytes(ctx, lid+"@"+lver, refresh, func() ([]byte, error) {
		return c.GetBytes(ctx, url)
	})
	if err != nil {
		return nil, fmt.Errorf("nuget package %s %s: %w", id, version, err)
	}
	return data, nil
}
