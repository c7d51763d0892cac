// Package store persists provenance records.
//
// [MongoSink] upserts one document per package identity into a MongoDB
// collection, so re-running a batch replaces earlier results instead of
// duplicating them. Each document carries the run id of the batch that
// last wrote it.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/stackprov/pkg/provenance"
)

// Sink receives resolved records.
type Sink interface {
	Put(ctx context.Context, runID string, rec *provenance.ProvenanceRecord) error
	Close(ctx context.Context) error
}

// Document is the stored form of a record.
type Document struct {
	ID       string                      `bson:"_id" json:"id"`
	RunID    string                      `bson:"run_id" json:"run_id"`
	StoredAt time.Time                   `bson:"stored_at" json:"stored_at"`
	Record   provenance.ProvenanceRecord `bson:"record" json:"record"`
}

// DocumentID is the stable key of a package identity.
func DocumentID(id provenance.PackageIdentity) string {
	return id.String()
}
