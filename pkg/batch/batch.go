// Package batch resolves many packages concurrently.
//
// Resolutions are independent, so [Run] fans them out over a bounded
// worker pool and writes each record back into its input slot. A failed
// package yields an incomplete record; it never stops the batch. Only
// context cancellation ends a run early.
package batch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stackprov/pkg/provenance"
	"github.com/matzehuels/stackprov/pkg/store"
)

// DefaultWorkers is used when Options.Workers is not positive.
const DefaultWorkers = 8

// Resolver is satisfied by *reconcile.Reconciler.
type Resolver interface {
	Reconcile(ctx context.Context, id provenance.PackageIdentity) *provenance.ProvenanceRecord
}

// Event reports one finished package.
type Event struct {
	Index  int
	Record *provenance.ProvenanceRecord
	Err    error // set when the sink rejected the record
}

// Options tunes a run.
type Options struct {
	Workers int

	// Timeout bounds each package; zero means no per-package limit.
	Timeout time.Duration

	// Sink, if set, receives every record. Sink failures are reported on
	// the event and do not stop the run.
	Sink store.Sink

	// OnResult is called from worker goroutines as packages finish.
	OnResult func(Event)
}

// Result is the outcome of a run.
type Result struct {
	RunID    string
	Records  []*provenance.ProvenanceRecord
	Duration time.Duration
}

// Run resolves ids and returns records in input order. The returned error
// is non-nil only if ctx was cancelled; Records then holds what finished.
func Run(ctx context.Context, r Resolver, ids []provenance.PackageIdentity, opts Options) (*Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	res := &Result{
		RunID:   uuid.NewString(),
		Records: make([]*provenance.ProvenanceRecord, len(ids)),
	}
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, id := range ids {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec := resolveOne(gctx, r, id, opts.Timeout)
			res.Records[i] = rec

			ev := Event{Index: i, Record: rec}
			if opts.Sink != nil {
				ev.Err = opts.Sink.Put(gctx, res.RunID, rec)
			}
			if opts.OnResult != nil {
				opts.OnResult(ev)
			}
			return nil
		})
	}
	err := g.Wait()
	res.Duration = time.Since(start)
	if err == nil {
		err = ctx.Err()
	}
	return res, err
}

func resolveOne(ctx context.Context, r Resolver, id provenance.PackageIdentity, timeout time.Duration) *provenance.ProvenanceRecord {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return r.Reconcile(ctx, id)
}

// Completed returns the records that finished, skipping nil slots left by
// a cancelled run.
func (r *Result) Completed() []*provenance.ProvenanceRecord {
	out := make([]*provenance.ProvenanceRecord, 0, len(r.Records))
	for _, rec := range r.Records {
		if rec != nil {
			out = append(out, rec)
		}
	}
	return out
}

// Summary counts license and tag coverage.
type Summary struct {
	Total      int
	Licensed   int
	Tagged     int
	BySource   map[string]int
	Unresolved int
}

// Summarize counts coverage over the completed records.
func (r *Result) Summarize() Summary {
	s := Summary{BySource: map[string]int{}}
	for _, rec := range r.Completed() {
		s.Total++
		if rec.ResolvedTag.Matched() {
			s.Tagged++
		}
		if rec.License != nil {
			s.Licensed++
			s.BySource[rec.License.Source.String()]++
		} else {
			s.Unresolved++
		}
	}
	return s
}
