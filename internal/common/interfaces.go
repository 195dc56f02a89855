package common

import (
	"context"
)

// NotificationRepository is the storage contract for the per-user
// notification queue
type NotificationRepository interface {
	Create(ctx context.Context, userID int64, message string) error
	ByUserID(ctx context.Context, userID int64, limit int) ([]interface{}, error)
	MarkAllRead(ctx context.Context, userID int64) error
	UnreadCount(ctx context.Context, userID int64) (int64, error)
}

// DocumentStore is the external mirror the codex projections are
// written to, keyed by collection and document id
type DocumentStore interface {
	Upsert(ctx context.Context, collection, docID string, doc map[string]interface{}) error
	Delete(ctx context.Context, collection, docID string) error
}
