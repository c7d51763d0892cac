package metadata

import (
	"encoding/xml"

	"github.com/matzehuels/stackprov/pkg/provenance"
)

// POM reads Maven project object model documents.
type POM struct{}

type pomDoc struct {
	URL      string `xml:"url"`
	Licenses []struct {
		Name string `xml:"name"`
	} `xml:"licenses>license"`
	SCM struct {
		URL        string `xml:"url"`
		Connection string `xml:"connection"`
	} `xml:"scm"`
}

func (POM) Normalize(doc provenance.RawDocument) provenance.NormalizedMetadata {
	var p pomDoc
	if err := xml.Unmarshal(doc.Body, &p); err != nil {
		return provenance.NormalizedMetadata{}
	}

	names := make([]string, 0, len(p.Licenses))
	for _, l := range p.Licenses {
		names = append(names, l.Name)
	}

	hint := provenance.CanonicalRepoURL(p.SCM.URL)
	if hint == "" {
		hint = provenance.CanonicalRepoURL(p.URL)
	}
	if hint == "" {
		hint = provenance.CanonicalRepoURL(p.SCM.Connection)
	}
	return provenance.NormalizedMetadata{
		RepositoryHint:  hint,
		DeclaredLicense: joinLicenses(names),
	}
}
