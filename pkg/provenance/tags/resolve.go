package tags

import (
	"strings"

	"github.com/matzehuels/stackprov/pkg/provenance"
)

var separatorStripper = strings.NewReplacer(".", "", "_", "", "-", "")

// Resolve finds the tag for version.
//
// The exact pass compares version and tag names with ".", "_" and "-"
// removed. One distinct match is [provenance.ConfidenceExact]. Several
// distinct matches ("1.2.3" and "1-2-3") are reported as ambiguous with
// no tag, and the convention pass is not attempted.
//
// Otherwise the convention inferred from tags is applied to version and
// compared verbatim; a hit is [provenance.ConfidenceConvention].
//
// Tags sharing a name are considered once, first record first. The result
// does not depend on anything but the inputs.
func Resolve(version string, tags []provenance.TagRecord) provenance.ResolvedTag {
	tags = dedupe(tags)

	want := separatorStripper.Replace(version)
	var matches []int
	for i, t := range tags {
		if separatorStripper.Replace(t.Name) == want {
			matches = append(matches, i)
		}
	}
	switch len(matches) {
	case 0:
	case 1:
		tag := tags[matches[0]]
		return provenance.ResolvedTag{Tag: &tag, Confidence: provenance.ConfidenceExact}
	default:
		return provenance.ResolvedTag{Confidence: provenance.ConfidenceNone, Ambiguous: true}
	}

	name := InferConvention(tags).Apply(version)
	for _, t := range tags {
		if t.Name == name {
			tag := t
			return provenance.ResolvedTag{Tag: &tag, Confidence: provenance.ConfidenceConvention}
		}
	}
	return provenance.ResolvedTag{Confidence: provenance.ConfidenceNone}
}

func dedupe(tags []provenance.TagRecord) []provenance.TagRecord {
	seen := make(map[string]bool, len(tags))
	out := make([]provenance.TagRecord, 0, len(tags))
	for _, t := range tags {
		if seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		out = append(out, t)
	}
	return out
}
