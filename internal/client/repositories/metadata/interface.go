// Package metadata persists the small key/value records that make up the
// cached session ("user" and "token") in the local SQLite database.
package metadata

import (
	"context"
)

// Repository is a byte-oriented key/value store. Get returns (nil, nil) for
// a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
