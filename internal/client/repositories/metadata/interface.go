// Package metadata is a small key/value store in the client's SQLite
// database. The session store keeps the bearer token, the cached identity
// and the logout marker here.
package metadata

import (
	"context"
)

// Repository reads and writes raw values by key. Get returns (nil, nil)
// for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
