// Package store archives served exports in MongoDB.
//
// The archive is an optional feature of `opdot serve`: every successful
// export is recorded with its DOT text and enough metadata to re-render it
// later. The CLI never touches the store.
package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Export is one archived export document.
type Export struct {
	Module    string    `bson:"module"`
	Format    string    `bson:"format"`
	DOT       string    `bson:"dot"`
	Bytes     int       `bson:"bytes"`
	CreatedAt time.Time `bson:"created_at"`
}

// Store persists export documents.
type Store interface {
	Save(ctx context.Context, e Export) error
	Recent(ctx context.Context, limit int) ([]Export, error)
	Close(ctx context.Context) error
}

// Mongo is a MongoDB-backed Store.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Default database and collection names.
const (
	DatabaseName   = "opdot"
	CollectionName = "exports"
)

// NewMongo connects to MongoDB at uri and verifies the connection.
func NewMongo(ctx context.Context, uri string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &Mongo{
		client: client,
		coll:   client.Database(DatabaseName).Collection(CollectionName),
	}, nil
}

// Save archives one export. CreatedAt is stamped here if unset.
func (m *Mongo) Save(ctx context.Context, e Export) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := m.coll.InsertOne(ctx, e)
	return err
}

// Recent returns the most recently archived exports, newest first.
func (m *Mongo) Recent(ctx context.Context, limit int) ([]Export, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := m.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Export
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Ensure Mongo implements Store.
var _ Store = (*Mongo)(nil)
