package snapshot

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mnemonic-no/act-utils/pkg/datamodel"
	errs "github.com/mnemonic-no/act-utils/pkg/errors"
)

// Defaults for MongoOptions.
const (
	DefaultMongoDatabase   = "act"
	DefaultMongoCollection = "datamodel_snapshots"
	DefaultMongoKey        = "act-datamodel"
)

// MongoDocuments stores one encoded snapshot per id. *MongoCollection
// implements it on top of the driver.
type MongoDocuments interface {
	Find(ctx context.Context, id string) (payload []byte, found bool, err error)
	Replace(ctx context.Context, id string, payload []byte) error
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// MongoOptions configures NewMongoStore.
type MongoOptions struct {
	URI        string // mongodb://[user:pass@]host:port
	Database   string
	Collection string
	Key        string // document _id
}

// MongoStore keeps the snapshot as a single document.
type MongoStore struct {
	docs     MongoDocuments
	key      string
	location string
	now      func() time.Time
}

// NewMongoStore creates a client for opts.URI. The driver connects in the
// background; the first Load or Save reports an unreachable server.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.Database == "" {
		opts.Database = DefaultMongoDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultMongoCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "mongo connect")
	}
	coll := &MongoCollection{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
	}
	s := NewMongoStoreWithDocuments(coll, opts.Key)
	s.location = "mongodb " + opts.Database + "." + opts.Collection + " " + s.key
	return s, nil
}

// NewMongoStoreWithDocuments wraps an existing document store.
func NewMongoStoreWithDocuments(docs MongoDocuments, key string) *MongoStore {
	if key == "" {
		key = DefaultMongoKey
	}
	return &MongoStore{docs: docs, key: key, location: "mongodb " + key, now: time.Now}
}

// Load reads the snapshot document.
func (s *MongoStore) Load(ctx context.Context) (*Record, error) {
	payload, found, err := s.docs.Find(ctx, s.key)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeSnapshot, err, "mongo find %s", s.key)
	}
	if !found {
		return nil, ErrNotFound
	}
	return Decode(payload)
}

// Save upserts the snapshot document.
func (s *MongoStore) Save(ctx context.Context, snap datamodel.Snapshot) error {
	data, err := Encode(snap, s.now())
	if err != nil {
		return err
	}
	if err := s.docs.Replace(ctx, s.key, data); err != nil {
		return errs.Wrap(errs.ErrCodeSnapshot, err, "mongo replace %s", s.key)
	}
	return nil
}

// Clear deletes the snapshot document.
func (s *MongoStore) Clear(ctx context.Context) error {
	if err := s.docs.Delete(ctx, s.key); err != nil {
		return errs.Wrap(errs.ErrCodeSnapshot, err, "mongo delete %s", s.key)
	}
	return nil
}

// Location returns the collection and document id.
func (s *MongoStore) Location() string { return s.location }

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.docs.Close(ctx)
}

var _ Store = (*MongoStore)(nil)

// =============================================================================
// Driver adapter
// =============================================================================

// snapshotDocument is the stored shape. The payload is the same versioned
// JSON envelope the file and Redis stores write.
type snapshotDocument struct {
	ID      string `bson:"_id"`
	Payload string `bson:"payload"`
}

// MongoCollection adapts a driver collection to MongoDocuments.
type MongoCollection struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Find returns the payload stored under id.
func (c *MongoCollection) Find(ctx context.Context, id string) ([]byte, bool, error) {
	var doc snapshotDocument
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(doc.Payload), true, nil
}

// Replace upserts the payload under id.
func (c *MongoCollection) Replace(ctx context.Context, id string, payload []byte) error {
	_, err := c.coll.ReplaceOne(ctx,
		bson.M{"_id": id},
		snapshotDocument{ID: id, Payload: string(payload)},
		options.Replace().SetUpsert(true))
	return err
}

// Delete removes the document under id. A missing document is not an error.
func (c *MongoCollection) Delete(ctx context.Context, id string) error {
	_, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Close disconnects the client.
func (c *MongoCollection) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
