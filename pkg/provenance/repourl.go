package provenance

import (
	"regexp"
	"strings"
)

var (
	scpLike    = regexp.MustCompile(`^(?:[\w.-]+@)?([\w.-]+\.[a-z]{2,}):(?:\d+/)?([^/].*)$`)
	schemeLike = regexp.MustCompile(`^[a-z][a-z0-9+.-]*://`)
	subPath    = regexp.MustCompile(`/(?:tree|blob|src|-/tree)/.*$`)

	flatHosts = map[string]bool{"github.com": true, "bitbucket.org": true, "codeberg.org": true}
)

// CanonicalRepoURL rewrites the many spellings of a repository URL found in
// registry metadata into https://host/path form. It returns "" for input
// that does not look like a repository URL.
//
//	git+https://github.com/o/r.git       -> https://github.com/o/r
//	git@github.com:o/r.git               -> https://github.com/o/r
//	git://github.com/o/r                 -> https://github.com/o/r
//	https://github.com/o/r/tree/main/sub -> https://github.com/o/r
func CanonicalRepoURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	u = strings.TrimPrefix(u, "git+")
	u = strings.TrimPrefix(u, "scm:git:")
	u = strings.TrimPrefix(u, "scm:")

	if !schemeLike.MatchString(u) {
		if m := scpLike.FindStringSubmatch(u); m != nil {
			u = "https://" + m[1] + "/" + m[2]
		} else if strings.HasPrefix(u, "github.com/") || strings.HasPrefix(u, "www.github.com/") {
			u = "https://" + u
		} else {
			return ""
		}
	}

	i := strings.Index(u, "://")
	rest := u[i+3:]
	if at := strings.Index(rest, "@"); at >= 0 && at < strings.Index(rest+"/", "/") {
		rest = rest[at+1:]
	}
	rest = strings.SplitN(rest, "#", 2)[0]
	rest = strings.SplitN(rest, "?", 2)[0]
	rest = subPath.ReplaceAllString(rest, "")
	rest = strings.TrimRight(rest, "/")
	rest = strings.TrimSuffix(rest, ".git")
	rest = strings.TrimPrefix(rest, "www.")
	parts := strings.Split(rest, "/")
	if len(parts) < 2 || parts[1] == "" {
		return ""
	}
	parts[0] = strings.ToLower(parts[0])
	// Hosts without nested groups address a repository by owner/name.
	if flatHosts[parts[0]] && len(parts) > 3 {
		parts = parts[:3]
	}
	return "https://" + strings.TrimSuffix(strings.Join(parts, "/"), ".git")
}
