package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/domain"
)

// MongoStore is the default backend. Collections map 1:1 to MongoDB collections.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to uri. Server selection and each operation are
// bounded by timeout so an unreachable server fails fast instead of hanging.
func NewMongoStore(ctx context.Context, uri, database string, timeout time.Duration) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout).
		SetTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

func toBSON(f domain.Filter) bson.D {
	d := bson.D{}
	for _, k := range filterKeys(f) {
		d = append(d, bson.E{Key: k, Value: f[k]})
	}
	return d
}

func (s *MongoStore) Find(ctx context.Context, collection string, filter domain.Filter, out any) error {
	cur, err := s.db.Collection(collection).Find(ctx, toBSON(filter))
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", collection, err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", collection, err)
	}
	return nil
}

func (s *MongoStore) Insert(ctx context.Context, collection string, docs ...any) error {
	if len(docs) == 0 {
		return nil
	}
	if _, err := s.db.Collection(collection).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", collection, err)
	}
	return nil
}

func (s *MongoStore) DeleteMany(ctx context.Context, collection string, filter domain.Filter) error {
	if _, err := s.db.Collection(collection).DeleteMany(ctx, toBSON(filter)); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", collection, err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
