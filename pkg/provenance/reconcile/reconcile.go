// Package reconcile runs the provenance resolution chain for one package.
//
// Stages run strictly in order with no backtracking:
//
//	registry_lookup -> tag_resolution -> vcs_extraction -> clearinghouse_fallback
//
// A failing stage never aborts the chain. Its outcome is recorded as a
// [provenance.Diagnostic] on the record and passed to the resolution hooks,
// and the next stage runs with whatever is known so far.
package reconcile

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/stackprov/pkg/errors"
	"github.com/matzehuels/stackprov/pkg/provenance"
	"github.com/matzehuels/stackprov/pkg/provenance/license"
	"github.com/matzehuels/stackprov/pkg/provenance/metadata"
	"github.com/matzehuels/stackprov/pkg/provenance/tags"
)

// Reconciler resolves package provenance from its collaborators. A nil VCS
// or Clearinghouse disables the corresponding stages.
//
// A Reconciler holds no mutable state and is safe for concurrent use.
type Reconciler struct {
	Registry      provenance.RegistryFetcher
	VCS           provenance.VCS
	Clearinghouse provenance.Clearinghouse
	Options       Options
}

// New creates a Reconciler.
func New(registry provenance.RegistryFetcher, vcs provenance.VCS, ch provenance.Clearinghouse, opts Options) *Reconciler {
	return &Reconciler{Registry: registry, VCS: vcs, Clearinghouse: ch, Options: opts.withDefaults()}
}

// run carries the state of one resolution.
type run struct {
	r    *Reconciler
	opts Options
	id   provenance.PackageIdentity
	rec  *provenance.ProvenanceRecord
}

// Reconcile resolves id. It always returns a record; fields that could not
// be determined are left empty and explained in Diagnostics.
func (r *Reconciler) Reconcile(ctx context.Context, id provenance.PackageIdentity) *provenance.ProvenanceRecord {
	ru := &run{
		r:    r,
		opts: r.Options.withDefaults(),
		id:   id,
		rec: &provenance.ProvenanceRecord{
			Identity:            id,
			ResolvedTag:         provenance.ResolvedTag{Confidence: provenance.ConfidenceNone},
			LicenseAlternatives: []provenance.LicenseCandidate{},
		},
	}

	meta := ru.registryLookup(ctx)
	ru.rec.RepositoryURL = meta.RepositoryHint

	reachable := ru.tagResolution(ctx)
	if ru.rec.ResolvedTag.Matched() {
		ru.vcsExtraction(ctx)
	}
	if reachable && ru.opts.RepoLicenseFallback && !ru.has(provenance.SourceVCS) {
		ru.repoLicense(ctx)
	}
	ru.clearinghouse(ctx)

	ru.rec.License = Select(ru.rec.LicenseAlternatives)
	return ru.rec
}

// Select returns the candidate with the lowest source rank, the earliest
// on a tie, or nil for no candidates.
func Select(candidates []provenance.LicenseCandidate) *provenance.LicenseCandidate {
	var best *provenance.LicenseCandidate
	for i := range candidates {
		if best == nil || candidates[i].Confidence < best.Confidence {
			best = &candidates[i]
		}
	}
	if best == nil {
		return nil
	}
	c := *best
	return &c
}

func (ru *run) registryLookup(ctx context.Context) provenance.NormalizedMetadata {
	done := ru.begin(ctx, provenance.StageRegistryLookup)
	if ru.r.Registry == nil {
		done(provenance.OutcomeSkipped, "no registry configured", nil)
		return provenance.NormalizedMetadata{}
	}

	doc, err := ru.r.Registry.FetchMetadata(ctx, ru.id)
	if err != nil {
		done(outcomeOf(err), err.Error(), err)
		return provenance.NormalizedMetadata{}
	}

	meta := metadata.Normalize(ru.id.Ecosystem, doc)
	if meta.DeclaredLicense != "" {
		ru.add(provenance.NewCandidate(provenance.SourceRegistry, "", meta.DeclaredLicense))
	}

	var detail []string
	if meta.RepositoryHint == "" {
		detail = append(detail, "no repository hint")
	}
	if meta.DeclaredLicense == "" {
		detail = append(detail, "no declared license")
	}
	if meta.LicenseFile != "" {
		detail = append(detail, "license file "+meta.LicenseFile)
	}
	outcome := provenance.OutcomeOK
	if meta.RepositoryHint == "" && meta.DeclaredLicense == "" {
		outcome = provenance.OutcomeEmpty
	}
	done(outcome, strings.Join(detail, "; "), nil)
	return meta
}

// tagResolution reports whether the repository could be queried.
func (ru *run) tagResolution(ctx context.Context) bool {
	done := ru.begin(ctx, provenance.StageTagResolution)
	repo := ru.rec.RepositoryURL
	switch {
	case repo == "":
		done(provenance.OutcomeSkipped, "no repository hint", nil)
		return false
	case ru.r.VCS == nil:
		done(provenance.OutcomeSkipped, "no VCS configured", nil)
		return false
	}

	list, err := ru.r.VCS.Tags(ctx, repo)
	if err != nil {
		if errors.GetCode(err) == errors.ErrCodeUnsupported {
			done(provenance.OutcomeSkipped, err.Error(), nil)
		} else {
			done(outcomeOf(err), err.Error(), err)
		}
		return false
	}

	res := tags.Resolve(ru.id.Version, list)
	ru.rec.ResolvedTag = res
	switch {
	case res.Ambiguous:
		err := errors.New(errors.ErrCodeAmbiguousTagMatch, "several tags match version %s", ru.id.Version)
		done(provenance.OutcomeAmbiguous, err.Error(), err)
	case !res.Matched():
		done(provenance.OutcomeNotFound, "no tag for version "+ru.id.Version, nil)
	default:
		done(provenance.OutcomeOK, res.Tag.Name+" ("+string(res.Confidence)+")", nil)
	}
	return true
}

func (ru *run) vcsExtraction(ctx context.Context) {
	done := ru.begin(ctx, provenance.StageVCSExtraction)
	ex := &license.Extractor{VCS: ru.r.VCS, Report: ru.note}
	found := ex.Extract(ctx, ru.rec.RepositoryURL, ru.rec.ResolvedTag)
	for _, c := range found {
		ru.add(c)
	}
	if len(found) == 0 {
		done(provenance.OutcomeEmpty, "no license files at "+ru.rec.ResolvedTag.TagName(), nil)
		return
	}
	done(provenance.OutcomeOK, "", nil)
}

func (ru *run) repoLicense(ctx context.Context) {
	rl, ok := ru.r.VCS.(provenance.RepoLicenser)
	if !ok {
		return
	}
	done := ru.begin(ctx, provenance.StageRepoLicense)
	path, spdx, err := rl.RepoLicense(ctx, ru.rec.RepositoryURL)
	switch {
	case err != nil:
		done(outcomeOf(err), err.Error(), err)
	case spdx == "":
		done(provenance.OutcomeEmpty, "host detected no license", nil)
	default:
		ru.add(provenance.NewCandidate(provenance.SourceVCS, path, spdx))
		done(provenance.OutcomeOK, path, nil)
	}
}

func (ru *run) clearinghouse(ctx context.Context) {
	done := ru.begin(ctx, provenance.StageClearinghouseFallback)
	switch {
	case ru.r.Clearinghouse == nil || ru.opts.Clearinghouse == ClearinghouseNever:
		done(provenance.OutcomeSkipped, "clearinghouse disabled", nil)
		return
	case ru.opts.Clearinghouse == ClearinghouseFallback && len(ru.rec.LicenseAlternatives) > 0:
		done(provenance.OutcomeSkipped, "license already found", nil)
		return
	}

	exprs, err := ru.r.Clearinghouse.Licenses(ctx, ru.id)
	if err != nil {
		done(outcomeOf(err), err.Error(), err)
		return
	}
	joined := joinExpressions(exprs)
	if joined == "" {
		done(provenance.OutcomeEmpty, "no expressions", nil)
		return
	}
	ru.add(provenance.NewCandidate(provenance.SourceClearinghouse, "", joined))
	done(provenance.OutcomeOK, "", nil)
}

// joinExpressions combines expressions conjunctively, dropping blanks and
// repeats. AND is assumed correct for every combination; no disjunction
// analysis is attempted.
func joinExpressions(exprs []string) string {
	seen := make(map[string]bool, len(exprs))
	var out []string
	for _, e := range exprs {
		e = strings.TrimSpace(e)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return strings.Join(out, " AND ")
}

func (ru *run) add(c provenance.LicenseCandidate) {
	ru.rec.LicenseAlternatives = append(ru.rec.LicenseAlternatives, c)
}

// note records a sub-stage diagnostic without hook events.
func (ru *run) note(d provenance.Diagnostic) {
	ru.rec.Diagnostics = append(ru.rec.Diagnostics, d)
}

type doneFunc func(outcome provenance.Outcome, detail string, err error)

func (ru *run) begin(ctx context.Context, stage provenance.Stage) doneFunc {
	eco := string(ru.id.Ecosystem)
	ru.opts.Hooks.OnStageStart(ctx, eco, string(stage))
	start := time.Now()
	return func(outcome provenance.Outcome, detail string, err error) {
		d := time.Since(start)
		ru.note(provenance.Diagnostic{Stage: stage, Outcome: outcome, Detail: detail, Duration: d})
		ru.opts.Hooks.OnStageComplete(ctx, eco, string(stage), string(outcome), d, err)
	}
}

func (ru *run) has(src provenance.LicenseSource) bool {
	for _, c := range ru.rec.LicenseAlternatives {
		if c.Source == src {
			return true
		}
	}
	return false
}

func outcomeOf(err error) provenance.Outcome {
	switch errors.Classify(err) {
	case errors.ErrCodeNotFound:
		return provenance.OutcomeNotFound
	case errors.ErrCodeMalformedDocument:
		return provenance.OutcomeMalformed
	case errors.ErrCodeAmbiguousTagMatch:
		return provenance.OutcomeAmbiguous
	default:
		return provenance.OutcomeUnreachable
	}
}
