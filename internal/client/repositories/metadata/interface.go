// Package metadata persists small key/value records in the local SQLite
// database. The session credential lives here between runs.
package metadata

import (
	"context"
	"time"
)

// Record is one stored value with the time it was last written.
type Record struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

// Repository stores records under dotted keys such as "session.token".
// Keys sharing a prefix are read and removed together.
type Repository interface {
	// Get reports ok=false for an absent key.
	Get(ctx context.Context, key string) (rec Record, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Scan returns the records whose key starts with prefix, ordered by key.
	Scan(ctx context.Context, prefix string) ([]Record, error)
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
}
