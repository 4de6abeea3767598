package shared

import (
	"context"
	"time"
)

// IdempotencyStore reserves request keys so a replayed create is rejected
// instead of producing a second record.
type IdempotencyStore interface {
	// Reserve marks key as in use for ttl.
	// Returns true if the key was newly reserved, false if it was already taken.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees a key so the client may retry after a failed request.
	Release(ctx context.Context, key string) error

	// IsReserved reports whether key is currently reserved.
	IsReserved(ctx context.Context, key string) (bool, error)

	Close() error
}
