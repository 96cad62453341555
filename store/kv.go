package store

import (
	"context"
	"errors"
)

// Persisted keys. The whole application state lives under exactly two keys:
// the current user and the full issue collection.
const (
	KeyIssues = "myvoice:issues"
	KeyUser   = "myvoice:user"
)

// SchemaVersion is written into the issues envelope so a future release can
// migrate old payloads instead of guessing at their shape.
const SchemaVersion = 1

// ErrKeyNotFound is returned by KV.Get when the key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// KV is the durable key-value contract shared by all storage backends.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
