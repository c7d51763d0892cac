package metadata

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/stackprov/pkg/provenance"
)

// NPMManifest reads the version document served by the npm registry
// (the package.json of one published version).
type NPMManifest struct{}

type npmDoc struct {
	License    json.RawMessage `json:"license"`
	Licenses   json.RawMessage `json:"licenses"`
	Repository json.RawMessage `json:"repository"`
	Homepage   string          `json:"homepage"`
}

type npmTyped struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

func (NPMManifest) Normalize(doc provenance.RawDocument) provenance.NormalizedMetadata {
	var d npmDoc
	if err := json.Unmarshal(doc.Body, &d); err != nil {
		return provenance.NormalizedMetadata{}
	}

	license := npmLicense(d.License)
	if license == "" {
		var list []json.RawMessage
		if json.Unmarshal(d.Licenses, &list) == nil {
			names := make([]string, 0, len(list))
			for _, l := range list {
				names = append(names, npmLicense(l))
			}
			license = joinLicenses(names)
		}
	}

	hint := npmRepository(d.Repository)
	if hint == "" {
		hint = provenance.CanonicalRepoURL(d.Homepage)
	}
	return provenance.NormalizedMetadata{RepositoryHint: hint, DeclaredLicense: license}
}

// npmLicense accepts "MIT" or the legacy {"type": "MIT", "url": ...} form.
func npmLicense(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	var t npmTyped
	if json.Unmarshal(raw, &t) == nil {
		return strings.TrimSpace(t.Type)
	}
	return ""
}

var npmHostShorthands = map[string]string{
	"github":    "github.com",
	"gitlab":    "gitlab.com",
	"bitbucket": "bitbucket.org",
}

// npmRepository accepts a URL string, "host:owner/repo", bare "owner/repo"
// (GitHub) or {"type": "git", "url": ...}.
func npmRepository(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		var t npmTyped
		if json.Unmarshal(raw, &t) != nil {
			return ""
		}
		s = t.URL
	}
	s = strings.TrimSpace(s)

	if host, path, ok := strings.Cut(s, ":"); ok {
		if full, known := npmHostShorthands[host]; known {
			return provenance.CanonicalRepoURL("https://" + full + "/" + path)
		}
	}
	if isOwnerRepo(s) {
		return provenance.CanonicalRepoURL("https://github.com/" + s)
	}
	return provenance.CanonicalRepoURL(s)
}

func isOwnerRepo(s string) bool {
	owner, repo, ok := strings.Cut(s, "/")
	return ok && owner != "" && repo != "" &&
		!strings.ContainsAny(s, ":@ ") && !strings.Contains(repo, "/") && !strings.Contains(owner, ".")
}
