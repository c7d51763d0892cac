// Package clearlydefined provides an HTTP client for the ClearlyDefined
// definitions API (https://api.clearlydefined.io), a curated license
// clearinghouse for open source components.
//
// Components are addressed by five-part coordinates:
//
//	type/provider/namespace/name/revision
//	maven/mavencentral/org.apache.commons/commons-lang3/3.14.0
//	npm/npmjs/@babel/core/7.23.0
//	pypi/pypi/-/requests/2.31.0
//	nuget/nuget/-/Newtonsoft.Json/13.0.3
//
// A "-" namespace means the ecosystem has none.
package clearlydefined

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/stackprov/pkg/cache"
	"github.com/matzehuels/stackprov/pkg/integrations"
)

// DefaultBaseURL is the public ClearlyDefined API.
const DefaultBaseURL = "https://api.clearlydefined.io"

// Coordinates identify a component in ClearlyDefined.
type Coordinates struct {
	Type      string // maven, npm, pypi, nuget
	Provider  string // mavencentral, npmjs, pypi, nuget
	Namespace string // groupId or npm scope; "-" when absent
	Name      string
	Revision  string
}

// String returns the slash-separated coordinate path.
func (c Coordinates) String() string {
	ns := c.Namespace
	if ns == "" {
		ns = "-"
	}
	return strings.Join([]string{c.Type, c.Provider, ns, c.Name, c.Revision}, "/")
}

// Definition holds the license parts of a ClearlyDefined definition.
type Definition struct {
	// Declared is the license the package itself declares, as curated.
	Declared string `json:"declared,omitempty"`

	// Discovered lists the SPDX expressions found by scanning the core
	// facet of the component's files.
	Discovered []string `json:"discovered,omitempty"`
}

// Client fetches definitions.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a ClearlyDefined client. An empty baseURL selects the
// public API.
func NewClient(c cache.Cache, ttl time.Duration, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(c, "clearlydefined", ttl, nil),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Definition fetches the license data for coord. ClearlyDefined answers
// unknown components with an empty definition rather than a 404, so an
// empty result is not an error.
func (c *Client) Definition(ctx context.Context, coord Coordinates, refresh bool) (*Definition, error) {
	if coord.Type == "" || coord.Provider == "" || coord.Name == "" || coord.Revision == "" {
		return nil, fmt.Errorf("incomplete coordinates %q", coord.String())
	}

	path := strings.Join([]string{
		integrations.PathEscape(coord.Type),
		integrations.PathEscape(coord.Provider),
		integrations.PathEscape(nonEmpty(coord.Namespace)),
		integrations.PathEscape(coord.Name),
		integrations.PathEscape(coord.Revision),
	}, "/")

	var def Definition
	err := c.Cached(ctx, coord.String(), refresh, &def, func() error {
		var resp definitionResponse
		if err := c.Get(ctx, c.baseURL+"/definitions/"+path, &resp); err != nil {
			return err
		}
		def = Definition{
			Declared:   resp.Licensed.Declared,
			Discovered: resp.Licensed.Facets.Core.Discovered.Expressions,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("clearlydefined %s: %w", coord, err)
	}
	return &def, nil
}

func nonEmpty(ns string) string {
	if ns == "" {
		return "-"
	}
	return ns
}

type definitionResponse struct {
	Licensed struct {
		Declared string `json:"declared"`
		Facets   struct {
			Core struct {
				Discovered struct {
					Expressions []string `json:"expressions"`
				} `json:"discovered"`
			} `json:"core"`
		} `json:"facets"`
	} `json:"licensed"`
}
