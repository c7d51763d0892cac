package provenance

import (
	"strings"

	"github.com/matzehuels/stackprov/pkg/errors"
)

// Ecosystem names a package registry family.
type Ecosystem string

const (
	Maven Ecosystem = "maven"
	NPM   Ecosystem = "npm"
	PyPI  Ecosystem = "pypi"
	NuGet Ecosystem = "nuget"
)

// Ecosystems lists every supported ecosystem in display order.
var Ecosystems = []Ecosystem{Maven, NPM, PyPI, NuGet}

var ecosystemAliases = map[string]Ecosystem{
	"maven": Maven,
	"java":  Maven,
	"npm":   NPM,
	"node":  NPM,
	"pypi":  PyPI,
	"pip":   PyPI,
	"nuget": NuGet,
}

// ParseEcosystem resolves an ecosystem name or alias, case-insensitively.
func ParseEcosystem(s string) (Ecosystem, error) {
	if e, ok := ecosystemAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return e, nil
	}
	return "", errors.New(errors.ErrCodeInvalidEcosystem, "unsupported ecosystem %q (want maven, npm, pypi or nuget)", s)
}

// PackageIdentity is the immutable (ecosystem, name, version) triple being
// resolved. Maven names are "groupId:artifactId".
type PackageIdentity struct {
	Ecosystem Ecosystem `json:"ecosystem" bson:"ecosystem"`
	Name      string    `json:"name" bson:"name"`
	Version   string    `json:"version" bson:"version"`
}

// NewIdentity validates and builds a PackageIdentity.
func NewIdentity(ecosystem, name, version string) (PackageIdentity, error) {
	eco, err := ParseEcosystem(ecosystem)
	if err != nil {
		return PackageIdentity{}, err
	}
	name = strings.TrimSpace(name)
	version = strings.TrimSpace(version)

	switch eco {
	case Maven:
		err = errors.ValidateMavenCoordinate(name)
	case NPM:
		err = errors.ValidateNpmPackageName(strings.ToLower(name))
	case PyPI:
		err = errors.ValidatePythonPackageName(name)
	case NuGet:
		err = errors.ValidateNuGetID(name)
	}
	if err != nil {
		return PackageIdentity{}, err
	}
	if err := errors.ValidateVersion(version); err != nil {
		return PackageIdentity{}, err
	}
	return PackageIdentity{Ecosystem: eco, Name: name, Version: version}, nil
}

// String returns "ecosystem:name@version".
func (id PackageIdentity) String() string {
	return string(id.Ecosystem) + ":" + id.Name + "@" + id.Version
}

// DocumentFormat is the serialization of a registry document.
type DocumentFormat string

const (
	FormatXML  DocumentFormat = "xml"
	FormatJSON DocumentFormat = "json"
)

// RawDocument is an uninterpreted registry response.
type RawDocument struct {
	Format DocumentFormat
	Body   []byte
}

// NormalizedMetadata is the ecosystem-independent view of a registry
// document. Empty strings mean absent.
type NormalizedMetadata struct {
	RepositoryHint  string `json:"repository_hint,omitempty"`
	DeclaredLicense string `json:"declared_license,omitempty"`

	// LicenseFile is set when the package points at a license file instead
	// of declaring an expression (NuGet <license type="file">).
	LicenseFile string `json:"license_file,omitempty"`
}

// TagRecord is a VCS tag and the commit it references.
type TagRecord struct {
	Name      string `json:"name" bson:"name"`
	CommitSHA string `json:"commit_sha" bson:"commit_sha"`
}

// TagConvention describes how a repository spells versions in tag names,
// for example {"v", ".", ""} for v1.2.3 or {"release-", "_", "-final"} for
// release-1_2_3-final.
type TagConvention struct {
	Prefix    string `json:"prefix"`
	Separator string `json:"separator"`
	Suffix    string `json:"suffix"`
}

// IdentityConvention is used when no tag has a recognizable version shape.
var IdentityConvention = TagConvention{Prefix: "", Separator: ".", Suffix: ""}

// Apply renders version in this convention.
func (c TagConvention) Apply(version string) string {
	return c.Prefix + strings.ReplaceAll(version, ".", c.Separator) + c.Suffix
}

// Confidence grades how a tag was matched to a version.
type Confidence string

const (
	ConfidenceExact      Confidence = "exact"
	ConfidenceConvention Confidence = "convention-normalized"
	ConfidenceNone       Confidence = "none"
)

// ResolvedTag is the outcome of matching a version against a tag set.
// Tag is nil exactly when Confidence is ConfidenceNone.
type ResolvedTag struct {
	Tag        *TagRecord `json:"tag,omitempty" bson:"tag,omitempty"`
	Confidence Confidence `json:"confidence" bson:"confidence"`

	// Ambiguous is set when the exact pass matched several distinct tags.
	Ambiguous bool `json:"ambiguous,omitempty" bson:"ambiguous,omitempty"`
}

// Matched reports whether a tag was found.
func (r ResolvedTag) Matched() bool {
	return r.Tag != nil && r.Confidence != ConfidenceNone
}

// TagName returns the matched tag name or "".
func (r ResolvedTag) TagName() string {
	if r.Tag == nil {
		return ""
	}
	return r.Tag.Name
}

// LicenseSource names where a license candidate came from. The numeric
// value is the source's rank: lower ranks win.
type LicenseSource int

const (
	SourceRegistry LicenseSource = iota
	SourceVCS
	SourceClearinghouse
)

var sourceNames = [...]string{"registry", "vcs", "clearinghouse"}

// String returns the lower-case source name.
func (s LicenseSource) String() string {
	if s < 0 || int(s) >= len(sourceNames) {
		return "unknown"
	}
	return sourceNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s LicenseSource) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *LicenseSource) UnmarshalText(b []byte) error {
	for i, n := range sourceNames {
		if n == string(b) {
			*s = LicenseSource(i)
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown license source %q", b)
}

// LicenseCandidate is one license claim with its provenance.
type LicenseCandidate struct {
	Source         LicenseSource `json:"source" bson:"source"`
	FilePath       string        `json:"file_path,omitempty" bson:"file_path,omitempty"`
	SPDXExpression string        `json:"spdx_expression" bson:"spdx_expression"`

	// Confidence is the ordinal rank of Source.
	Confidence int `json:"confidence" bson:"confidence"`
}

// NewCandidate builds a candidate whose confidence matches its source rank.
func NewCandidate(src LicenseSource, path, expr string) LicenseCandidate {
	return LicenseCandidate{Source: src, FilePath: path, SPDXExpression: expr, Confidence: int(src)}
}
