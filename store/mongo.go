package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoKV persists keys as documents in a single "kv" collection, keyed by
// _id with the serialized value in a "value" field. Selected with
// STORAGE_BACKEND=mongo.
type MongoKV struct {
	collection *mongo.Collection
}

type kvDocument struct {
	ID    string `bson:"_id"`
	Value []byte `bson:"value"`
}

// NewMongoKV wraps a connected database.
func NewMongoKV(db *mongo.Database) *MongoKV {
	return &MongoKV{collection: db.Collection("kv")}
}

func (m *MongoKV) Get(ctx context.Context, key string) ([]byte, error) {
	var doc kvDocument
	err := m.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.Value, nil
}

func (m *MongoKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := m.collection.ReplaceOne(ctx,
		bson.M{"_id": key},
		kvDocument{ID: key, Value: value},
		options.Replace().SetUpsert(true),
	)
	return err
}
