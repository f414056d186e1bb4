// Package kv is the SQLite-backed key/value table behind the token store.
package kv

import (
	"context"
)

// Repository stores opaque byte values by key. Get returns (nil, nil) for a
// missing key; Delete of a missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
