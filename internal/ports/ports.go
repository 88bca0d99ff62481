package ports

import (
	"context"
	"errors"
)

// ErrCollectionNotFound is returned by a RecordStore when a collection has
// never been saved.
var ErrCollectionNotFound = errors.New("collection not found")

// HealthChecker is used to probe dependencies.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// RecordStore persists whole collections as JSON documents. Load and Save
// always move the complete collection.
type RecordStore interface {
	Load(ctx context.Context, collection string) ([]byte, error)
	Save(ctx context.Context, collection string, data []byte) error
}
