package sources

import (
	"context"

	"github.com/matzehuels/stackprov/pkg/errors"
	"github.com/matzehuels/stackprov/pkg/integrations/maven"
	"github.com/matzehuels/stackprov/pkg/integrations/npm"
	"github.com/matzehuels/stackprov/pkg/integrations/nuget"
	"github.com/matzehuels/stackprov/pkg/integrations/pypi"
	"github.com/matzehuels/stackprov/pkg/provenance"
)

// Registry fetches registry metadata documents. A nil client makes its
// ecosystem unsupported.
type Registry struct {
	Maven *maven.Client
	NPM   *npm.Client
	PyPI  *pypi.Client
	NuGet *nuget.Client

	// Refresh bypasses the HTTP cache.
	Refresh bool
}

// FetchMetadata implements provenance.RegistryFetcher.
func (r *Registry) FetchMetadata(ctx context.Context, id provenance.PackageIdentity) (provenance.RawDocument, error) {
	var (
		body   []byte
		err    error
		format = provenance.FormatJSON
	)
	switch {
	case id.Ecosystem == provenance.Maven && r.Maven != nil:
		format = provenance.FormatXML
		body, err = r.Maven.FetchPOM(ctx, id.Name, id.Version, r.Refresh)
	case id.Ecosystem == provenance.NPM && r.NPM != nil:
		body, err = r.NPM.FetchVersion(ctx, id.Name, id.Version, r.Refresh)
	case id.Ecosystem == provenance.PyPI && r.PyPI != nil:
		body, err = r.PyPI.FetchRelease(ctx, id.Name, id.Version, r.Refresh)
	case id.Ecosystem == provenance.NuGet && r.NuGet != nil:
		format = provenance.FormatXML
		body, err = r.NuGet.FetchNuspec(ctx, id.Name, id.Version, r.Refresh)
	default:
		return provenance.RawDocument{}, errors.New(errors.ErrCodeUnsupported, "no registry client for %s", id.Ecosystem)
	}
	if err != nil {
		return provenance.RawDocument{}, classify(err, "registry %s", id)
	}
	return provenance.RawDocument{Format: format, Body: body}, nil
}

var _ provenance.RegistryFetcher = (*Registry)(nil)
