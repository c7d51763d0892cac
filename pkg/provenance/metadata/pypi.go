package metadata

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/matzehuels/stackprov/pkg/provenance"
)

// PyPIRelease reads the JSON API document for one PyPI release.
type PyPIRelease struct{}

type pypiDoc struct {
	Info struct {
		License           string            `json:"license"`
		LicenseExpression string            `json:"license_expression"`
		Classifiers       []string          `json:"classifiers"`
		HomePage          string            `json:"home_page"`
		ProjectURL        string            `json:"project_url"`
		ProjectURLs       map[string]string `json:"project_urls"`
	} `json:"info"`
}

// projectURLKeys are tried first, in order, before the remaining
// project_urls keys in sorted order.
var projectURLKeys = []string{"Source", "Repository", "Code", "Source Code", "Homepage"}

var vcsHosts = []string{"github.com", "gitlab.com", "bitbucket.org", "codeberg.org"}

func (PyPIRelease) Normalize(doc provenance.RawDocument) provenance.NormalizedMetadata {
	var d pypiDoc
	if err := json.Unmarshal(doc.Body, &d); err != nil {
		return provenance.NormalizedMetadata{}
	}
	return provenance.NormalizedMetadata{
		RepositoryHint:  pypiRepository(&d),
		DeclaredLicense: pypiLicense(&d),
	}
}

func pypiLicense(d *pypiDoc) string {
	if expr := strings.TrimSpace(d.Info.LicenseExpression); expr != "" {
		return expr
	}
	// Free text. Projects that paste the whole license file here get its
	// first non-blank line.
	if lic := firstLine(d.Info.License); lic != "" && !strings.EqualFold(lic, "UNKNOWN") {
		return lic
	}
	var names []string
	for _, c := range d.Info.Classifiers {
		parts := strings.Split(c, "::")
		if len(parts) < 2 || strings.TrimSpace(parts[0]) != "License" {
			continue
		}
		name := strings.TrimSpace(parts[len(parts)-1])
		if name != "OSI Approved" {
			names = append(names, name)
		}
	}
	return joinLicenses(names)
}

func firstLine(s string) string {
	for line := range strings.Lines(s) {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func pypiRepository(d *pypiDoc) string {
	urls := d.Info.ProjectURLs
	var rest []string
	for k := range urls {
		if !slices.Contains(projectURLKeys, k) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)

	var candidates []string
	for _, k := range append(slices.Clone(projectURLKeys), rest...) {
		if u, ok := urls[k]; ok {
			candidates = append(candidates, u)
		}
	}
	candidates = append(candidates, d.Info.HomePage, d.Info.ProjectURL)

	for _, c := range candidates {
		if !onVCSHost(c) {
			continue
		}
		if u := provenance.CanonicalRepoURL(c); u != "" {
			return u
		}
	}
	return ""
}

func onVCSHost(u string) bool {
	u = strings.ToLower(u)
	for _, h := range vcsHosts {
		if strings.Contains(u, h) {
			return true
		}
	}
	return false
}
