// Package metadata converts raw registry documents into
// [provenance.NormalizedMetadata].
//
// Each ecosystem has its own [Normalizer]. Malformed or unexpected input
// never fails: the affected fields are simply left empty, so a broken
// document degrades to "no registry license, no repository hint" and the
// rest of the resolution chain still runs.
package metadata

import (
	"strings"

	"github.com/matzehuels/stackprov/pkg/provenance"
)

// Normalizer reads one ecosystem's registry document format.
type Normalizer interface {
	Normalize(doc provenance.RawDocument) provenance.NormalizedMetadata
}

var normalizers = map[provenance.Ecosystem]Normalizer{
	provenance.Maven: POM{},
	provenance.NPM:   NPMManifest{},
	provenance.PyPI:  PyPIRelease{},
	provenance.NuGet: Nuspec{},
}

// For returns the normalizer for eco, or nil if none is registered.
func For(eco provenance.Ecosystem) Normalizer {
	return normalizers[eco]
}

// Normalize dispatches doc to the ecosystem's normalizer. Unknown
// ecosystems yield an empty result.
func Normalize(eco provenance.Ecosystem, doc provenance.RawDocument) provenance.NormalizedMetadata {
	n := For(eco)
	if n == nil {
		return provenance.NormalizedMetadata{}
	}
	return n.Normalize(doc)
}

func joinLicenses(names []string) string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return strings.Join(out, " AND ")
}
