package npm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/stackprov/pkg/cache"
	"github.com/matzehuels/stackprov/pkg/errors"
	"github.com/matzehuels/stackprov/pkg/integrations"
)

// DefaultBaseURL is the public npm registry.
const DefaultBaseURL = "https://registry.npmjs.org"

// Client fetches version documents from an npm registry.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates an npm client. An empty baseURL selects the public registry.
func NewClient(c cache.Cache, ttl time.Duration, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(c, "npm", ttl, nil),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// FetchVersion returns the raw JSON document of one published version, the
// same object that appears under "versions" in the full packument.
//
// Unscoped packages use the /<name>/<version> endpoint. Scoped packages
// are read from the full packument because the registry does not serve
// per-version documents for them.
func (c *Client) FetchVersion(ctx context.Context, name, version string, refresh bool) ([]byte, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	data, err := c.CachedBytes(ctx, name+"@"+version, refresh, func() ([]byte, error) {
		if strings.HasPrefix(name, "@") {
			return c.fetchFromPackument(ctx, name, version)
		}
		return c.GetBytes(ctx, c.baseURL+"/"+name+"/"+integrations.PathEscape(version))
	})
	if err != nil {
		return nil, fmt.Errorf("npm package %s@%s: %w", name, version, err)
	}
	return data, nil
}

func (c *Client) fetchFromPackument(ctx context.Context, name, version string) ([]byte, error) {
	var doc struct {
		Versions map[string]json.RawMessage `json:"versions"`
	}
	if err := c.Get(ctx, c.baseURL+"/"+escapeScoped(name), &doc); err != nil {
		return nil, err
	}
	v, ok := doc.Versions[version]
	if !ok {
		return nil, fmt.Errorf("%w: version %s not published", integrations.ErrNotFound, version)
	}
	if len(v) == 0 || string(v) == "null" {
		return nil, errors.New(errors.ErrCodeMalformedDocument, "empty version document")
	}
	return v, nil
}

// escapeScoped encodes the slash of a scoped name ("@scope/pkg" becomes
// "@scope%2fpkg"), the form the registry expects for packument requests.
func escapeScoped(name string) string {
	return strings.Replace(name, "/", "%2f", 1)
}
