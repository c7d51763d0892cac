// Package license extracts license expressions from the files of a tagged
// source tree.
//
// Every tree entry whose path contains "license" (case-insensitive) is a
// candidate, so dual-licensed layouts such as LICENSE-MIT plus
// LICENSE-APACHE produce one candidate each. File content is read for an
// SPDX-License-Identifier line; failing that, the first non-blank line is
// taken as a best-effort license name.
package license

import (
	"bytes"
	"context"
	"strings"

	"github.com/matzehuels/stackprov/pkg/errors"
	"github.com/matzehuels/stackprov/pkg/provenance"
)

const spdxMarker = "SPDX-License-Identifier:"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReportFunc receives per-file and per-tree failures. Extraction itself
// never fails.
type ReportFunc func(d provenance.Diagnostic)

// Extractor reads license files through a VCS collaborator.
type Extractor struct {
	VCS    provenance.VCS
	Report ReportFunc
}

// Extract returns one VCS-sourced candidate per license file readable at
// the resolved tag's commit, in tree order. An unmatched tag or a failed
// tree listing yields nil; a failed blob only drops that file.
func (e *Extractor) Extract(ctx context.Context, repoURL string, tag provenance.ResolvedTag) []provenance.LicenseCandidate {
	if !tag.Matched() {
		return nil
	}
	tree, err := e.VCS.Tree(ctx, repoURL, tag.Tag.CommitSHA)
	if err != nil {
		e.report(outcomeOf(err), "tree "+tag.Tag.CommitSHA+": "+err.Error())
		return nil
	}
	if tree.Truncated {
		e.report(provenance.OutcomeTruncated, "tree "+tag.Tag.CommitSHA+": listing truncated, license files may be missing")
	}

	var out []provenance.LicenseCandidate
	for _, entry := range Select(tree.Entries) {
		if err := ctx.Err(); err != nil {
			e.report(provenance.OutcomeUnreachable, err.Error())
			break
		}
		content, err := e.VCS.Blob(ctx, entry.BlobURL)
		if err != nil {
			e.report(outcomeOf(err), entry.Path+": "+err.Error())
			continue
		}
		expr := ExtractExpression(content)
		if expr == "" {
			e.report(provenance.OutcomeEmpty, entry.Path+": no license text")
			continue
		}
		out = append(out, provenance.NewCandidate(provenance.SourceVCS, entry.Path, expr))
	}
	return out
}

func (e *Extractor) report(o provenance.Outcome, detail string) {
	if e.Report != nil {
		e.Report(provenance.Diagnostic{Stage: provenance.StageVCSExtraction, Outcome: o, Detail: detail})
	}
}

// Select returns the file entries whose path mentions "license".
func Select(entries []provenance.TreeEntry) []provenance.TreeEntry {
	var out []provenance.TreeEntry
	for _, e := range entries {
		if e.Kind == "tree" {
			continue
		}
		if strings.Contains(strings.ToLower(e.Path), "license") {
			out = append(out, e)
		}
	}
	return out
}

// ExtractExpression returns the value of the first SPDX-License-Identifier
// line in content, or else its first non-blank line, trimmed. It returns
// "" for blank content.
func ExtractExpression(content []byte) string {
	var first string
	content = bytes.TrimPrefix(content, utf8BOM)
	for line := range strings.Lines(string(content)) {
		if _, after, ok := strings.Cut(line, spdxMarker); ok {
			return trimComment(after)
		}
		if first == "" {
			first = strings.TrimSpace(line)
		}
	}
	return first
}

func trimComment(s string) string {
	s = strings.TrimSpace(s)
	for _, closer := range []string{"*/", "-->", "#}"} {
		s = strings.TrimSpace(strings.TrimSuffix(s, closer))
	}
	return s
}

func outcomeOf(err error) provenance.Outcome {
	switch errors.Classify(err) {
	case errors.ErrCodeNotFound:
		return provenance.OutcomeNotFound
	case errors.ErrCodeMalformedDocument:
		return provenance.OutcomeMalformed
	default:
		return provenance.OutcomeUnreachable
	}
}
