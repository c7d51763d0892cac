package metadata

import (
	"encoding/xml"
	"net/url"
	"strings"

	"github.com/matzehuels/stackprov/pkg/provenance"
)

// Nuspec reads NuGet package manifests. The nuspec namespace differs
// between schema versions, so elements are matched by local name only.
type Nuspec struct{}

type nuspecDoc struct {
	Metadata struct {
		License struct {
			Type  string `xml:"type,attr"`
			Value string `xml:",chardata"`
		} `xml:"license"`
		LicenseURL string `xml:"licenseUrl"`
		ProjectURL string `xml:"projectUrl"`
		Repository struct {
			Type string `xml:"type,attr"`
			URL  string `xml:"url,attr"`
		} `xml:"repository"`
	} `xml:"metadata"`
}

const nugetLicenseHost = "licenses.nuget.org"

func (Nuspec) Normalize(doc provenance.RawDocument) provenance.NormalizedMetadata {
	var n nuspecDoc
	if err := xml.Unmarshal(doc.Body, &n); err != nil {
		return provenance.NormalizedMetadata{}
	}
	m := n.Metadata

	var out provenance.NormalizedMetadata
	value := strings.TrimSpace(m.License.Value)
	switch strings.ToLower(m.License.Type) {
	case "expression":
		out.DeclaredLicense = value
	case "file":
		out.LicenseFile = value
	default:
		out.DeclaredLicense = licenseFromURL(m.LicenseURL)
	}

	out.RepositoryHint = provenance.CanonicalRepoURL(m.Repository.URL)
	if out.RepositoryHint == "" {
		out.RepositoryHint = provenance.CanonicalRepoURL(m.ProjectURL)
	}
	return out
}

// licenseFromURL recovers the expression from the legacy
// https://licenses.nuget.org/<expression> form. Other license URLs point at
// free text and are ignored.
func licenseFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !strings.EqualFold(u.Host, nugetLicenseHost) {
		return ""
	}
	expr, err := url.PathUnescape(strings.Trim(u.Path, "/"))
	if err != nil {
		return ""
	}
	return expr
}
