// Package store is the key/value data access layer. Every record the server keeps is
// addressed by a string key; the engine behind the KV interface is swappable.
package store

import (
	"context"

	apperrors "github.com/jrsteele09/go-hostel-server/internal/errors"
)

// ErrNotFound is returned by Get and Delete when the key does not exist.
var ErrNotFound = apperrors.ErrNotFound

type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// List returns the values of all keys starting with prefix, ordered by key.
	List(ctx context.Context, prefix string) ([][]byte, error)
}
