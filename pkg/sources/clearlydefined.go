package sources

import (
	"context"
	"strings"

	"github.com/matzehuels/stackprov/pkg/errors"
	"github.com/matzehuels/stackprov/pkg/integrations/clearlydefined"
	"github.com/matzehuels/stackprov/pkg/provenance"
)

// ClearlyDefined queries the ClearlyDefined clearinghouse.
type ClearlyDefined struct {
	Client  *clearlydefined.Client
	Refresh bool
}

// Licenses implements provenance.Clearinghouse. Discovered expressions are
// returned when present, the curated declared license otherwise.
// NOASSERTION entries are dropped.
func (c *ClearlyDefined) Licenses(ctx context.Context, id provenance.PackageIdentity) ([]string, error) {
	coord, err := Coordinates(id)
	if err != nil {
		return nil, err
	}
	def, err := c.Client.Definition(ctx, coord, c.Refresh)
	if err != nil {
		return nil, classify(err, "clearlydefined %s", coord)
	}

	out := assertions(def.Discovered)
	if len(out) == 0 {
		out = assertions([]string{def.Declared})
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no license data for %s", coord)
	}
	return out, nil
}

// Coordinates maps a package identity to ClearlyDefined coordinates.
func Coordinates(id provenance.PackageIdentity) (clearlydefined.Coordinates, error) {
	c := clearlydefined.Coordinates{Name: id.Name, Revision: id.Version}
	switch id.Ecosystem {
	case provenance.Maven:
		group, artifact, ok := strings.Cut(id.Name, ":")
		if !ok {
			return c, errors.New(errors.ErrCodeInvalidPackage, "maven coordinate must be groupId:artifactId: %q", id.Name)
		}
		c.Type, c.Provider, c.Namespace, c.Name = "maven", "mavencentral", group, artifact
	case provenance.NPM:
		c.Type, c.Provider = "npm", "npmjs"
		if scope, name, ok := strings.Cut(id.Name, "/"); ok && strings.HasPrefix(scope, "@") {
			c.Namespace, c.Name = scope, name
		}
	case provenance.PyPI:
		c.Type, c.Provider = "pypi", "pypi"
	case provenance.NuGet:
		c.Type, c.Provider = "nuget", "nuget"
	default:
		return c, errors.New(errors.ErrCodeUnsupported, "no clearinghouse coordinates for %s", id.Ecosystem)
	}
	return c, nil
}

func assertions(exprs []string) []string {
	var out []string
	for _, e := range exprs {
		e = strings.TrimSpace(e)
		if e != "" && !strings.EqualFold(e, noAssertion) {
			out = append(out, e)
		}
	}
	return out
}

var _ provenance.Clearinghouse = (*ClearlyDefined)(nil)
