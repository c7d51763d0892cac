//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/stackprov/pkg/provenance"
)

func TestMongoSinkIntegration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sink, err := NewMongoSink(ctx, MongoConfig{URI: uri, Database: "stackprov_test", Collection: "records_" + uuid.NewString()[:8]})
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close(ctx)

	id := provenance.PackageIdentity{Ecosystem: provenance.NPM, Name: "lodash", Version: "4.17.21"}
	if err := sink.Put(ctx, "it", &provenance.ProvenanceRecord{Identity: id}); err != nil {
		t.Fatal(err)
	}
	doc, err := sink.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Record.Identity != id {
		t.Errorf("identity = %+v", doc.Record.Identity)
	}
}
