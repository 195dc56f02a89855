package dbmongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mirror writes codex projections into the document store. Documents are
// addressed by collection name plus external key and written with
// overwrite semantics; the store is a derived read-side copy, never the
// source of truth.
type Mirror struct {
	mongoClient  *MongoClient
	writeTimeout time.Duration
}

func NewMirror(mongoClient *MongoClient, writeTimeout time.Duration) *Mirror {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &Mirror{
		mongoClient:  mongoClient,
		writeTimeout: writeTimeout,
	}
}

// Upsert replaces the document with the given id, creating it if absent
func (m *Mirror) Upsert(ctx context.Context, collection, docID string, doc map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, m.writeTimeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	_, err := m.mongoClient.Database.Collection(collection).
		ReplaceOne(ctx, bson.M{"_id": docID}, bson.M(doc), opts)
	if err != nil {
		return fmt.Errorf("mirror upsert %s/%s failed: %w", collection, docID, err)
	}
	return nil
}

// Delete removes the document with the given id; a missing document is
// not an error
func (m *Mirror) Delete(ctx context.Context, collection, docID string) error {
	ctx, cancel := context.WithTimeout(ctx, m.writeTimeout)
	defer cancel()

	_, err := m.mongoClient.Database.Collection(collection).
		DeleteOne(ctx, bson.M{"_id": docID})
	if err != nil {
		return fmt.Errorf("mirror delete %s/%s failed: %w", collection, docID, err)
	}
	return nil
}
