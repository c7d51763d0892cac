package provenance

import "time"

// Diagnostic records what happened in one stage, or to one file within a
// stage, so a record can be audited without logs.
type Diagnostic struct {
	Stage    Stage         `json:"stage" bson:"stage"`
	Outcome  Outcome       `json:"outcome" bson:"outcome"`
	Detail   string        `json:"detail,omitempty" bson:"detail,omitempty"`
	Duration time.Duration `json:"duration_ns,omitempty" bson:"duration_ns,omitempty"`
}

// ProvenanceRecord is the reconciled result for one package.
type ProvenanceRecord struct {
	Identity      PackageIdentity `json:"identity" bson:"identity"`
	RepositoryURL string          `json:"repository_url,omitempty" bson:"repository_url,omitempty"`
	ResolvedTag   ResolvedTag     `json:"resolved_tag" bson:"resolved_tag"`

	// License is the highest-priority candidate, nil when none was found.
	License *LicenseCandidate `json:"license,omitempty" bson:"license,omitempty"`

	// LicenseAlternatives holds every candidate in the order it was found.
	LicenseAlternatives []LicenseCandidate `json:"license_alternatives" bson:"license_alternatives"`

	Diagnostics []Diagnostic `json:"diagnostics,omitempty" bson:"diagnostics,omitempty"`
}

// Row is the flat tabular form of a record.
type Row struct {
	Ecosystem     string `json:"ecosystem"`
	Name          string `json:"name"`
	Version       string `json:"version"`
	RepositoryURL string `json:"repository_url"`
	ResolvedTag   string `json:"resolved_tag"`
	TagConfidence string `json:"tag_confidence"`
	License       string `json:"license"`
	LicenseSource string `json:"license_source"`
}

// RowHeader lists Row's columns in order.
var RowHeader = []string{
	"ecosystem", "name", "version", "repository_url",
	"resolved_tag", "tag_confidence", "license", "license_source",
}

// Row flattens the record.
func (r *ProvenanceRecord) Row() Row {
	row := Row{
		Ecosystem:     string(r.Identity.Ecosystem),
		Name:          r.Identity.Name,
		Version:       r.Identity.Version,
		RepositoryURL: r.RepositoryURL,
		ResolvedTag:   r.ResolvedTag.TagName(),
		TagConfidence: string(r.ResolvedTag.Confidence),
	}
	if row.TagConfidence == "" {
		row.TagConfidence = string(ConfidenceNone)
	}
	if r.License != nil {
		row.License = r.License.SPDXExpression
		row.LicenseSource = r.License.Source.String()
	}
	return row
}

// Values returns the row's fields in RowHeader order.
func (r Row) Values() []string {
	return []string{
		r.Ecosystem, r.Name, r.Version, r.RepositoryURL,
		r.ResolvedTag, r.TagConfidence, r.License, r.LicenseSource,
	}
}
