package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/stackprov/pkg/errors"
	"github.com/matzehuels/stackprov/pkg/provenance"
)

// MongoConfig holds connection settings.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// collection is the subset of *mongo.Collection the sink uses.
type collection interface {
	ReplaceOne(ctx context.Context, filter, replacement any, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
}

// MongoSink stores records in a MongoDB collection.
type MongoSink struct {
	client *mongo.Client
	coll   collection
	now    func() time.Time
}

// NewMongoSink connects to MongoDB and verifies the connection.
func NewMongoSink(ctx context.Context, cfg MongoConfig) (*MongoSink, error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "store.mongo_uri is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnreachable, err, "connect mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeUnreachable, err, "ping mongodb")
	}
	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	return &MongoSink{client: client, coll: coll, now: time.Now}, nil
}

// Put upserts rec under its identity.
func (s *MongoSink) Put(ctx context.Context, runID string, rec *provenance.ProvenanceRecord) error {
	doc := Document{
		ID:       DocumentID(rec.Identity),
		RunID:    runID,
		StoredAt: s.now().UTC(),
		Record:   *rec,
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnreachable, err, "store %s", doc.ID)
	}
	return nil
}

// Get loads the stored document for id.
func (s *MongoSink) Get(ctx context.Context, id provenance.PackageIdentity) (*Document, error) {
	var doc Document
	err := s.coll.FindOne(ctx, bson.M{"_id": DocumentID(id)}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeNotFound, "no stored record for %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnreachable, err, "load %s", id)
	}
	return &doc, nil
}

// Close disconnects the client.
func (s *MongoSink) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

var _ Sink = (*MongoSink)(nil)
