package maven

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/stackprov/pkg/cache"
	"github.com/matzehuels/stackprov/pkg/integrations"
)

// DefaultBaseURL is the Maven Central repository root.
const DefaultBaseURL = "https://repo1.maven.org/maven2"

// Client fetches POM documents from a Maven repository layout.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Maven client. An empty baseURL selects Maven Central;
// any repository that serves the standard layout (a mirror or proxy) works.
func NewClient(c cache.Cache, ttl time.Duration, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(c, "maven", ttl, nil),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// FetchPOM returns the raw POM XML for coordinate ("groupId:artifactId") at
// an exact version.
//
// Returns [integrations.ErrNotFound] if the repository has no such POM and
// [integrations.ErrNetwork] for transport failures.
func (c *Client) FetchPOM(ctx context.Context, coordinate, version string, refresh bool) ([]byte, error) {
	groupID, artifactID, err := parseCoordinate(coordinate)
	if err != nil {
		return nil, err
	}

	url := c.POMURL(groupID, artifactID, version)
	data, err := c.CachedBytes(ctx, coordinate+"@"+version, refresh, func() ([]byte, error) {
		return c.GetBytes(ctx, url)
	})
	if err != nil {
		return nil, fmt.Errorf("maven pom %s:%s: %w", coordinate, version, err)
	}
	return data, nil
}

// POMURL returns the repository URL of a POM file.
func (c *Client) POMURL(groupID, artifactID, version string) string {
	groupPath := strings.ReplaceAll(groupID, ".", "/")
	return fmt.Sprintf("%s/%s/%s/%s/%s-%s.pom",
		c.baseURL, groupPath, artifactID, version, artifactID, version)
}

func parseCoordinate(coord string) (groupID, artifactID string, err error) {
	parts := strings.Split(coord, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid maven coordinate %q (expected groupId:artifactId)", coord)
	}
	return parts[0], parts[1], nil
}
