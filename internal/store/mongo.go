package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBackend keeps the serialized document as one record of the
// "documents" collection, keyed by name.
type MongoBackend struct {
	col  *mongo.Collection
	name string
}

type mongoDocument struct {
	Name      string    `bson:"_id"`
	Body      string    `bson:"body"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func NewMongoBackend(db *mongo.Database, name string) *MongoBackend {
	return &MongoBackend{col: db.Collection("documents"), name: name}
}

func (b *MongoBackend) Read(ctx context.Context) ([]byte, error) {
	var rec mongoDocument
	err := b.col.FindOne(ctx, bson.M{"_id": b.name}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	return []byte(rec.Body), nil
}

func (b *MongoBackend) Write(ctx context.Context, data []byte) error {
	rec := mongoDocument{Name: b.name, Body: string(data), UpdatedAt: time.Now()}
	_, err := b.col.ReplaceOne(ctx, bson.M{"_id": b.name}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo replace: %w", err)
	}
	return nil
}
