package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMiss reports that a key is absent from the store.
	ErrMiss = errors.New("cache: key not found")

	// ErrUnavailable reports that the backing store could not be reached at
	// startup. Readers treat it like any other store failure and fall back
	// to direct computation.
	ErrUnavailable = errors.New("cache: store unavailable")
)

// Store is the small key/value surface the read and invalidation paths need.
// Client implements it over Redis; MemoryStore implements it in process.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	Ping(ctx context.Context) error
}
