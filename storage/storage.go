// Package storage provides the key-value substrate the invoice collection is persisted in.
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: key not found")

// Storage stores opaque values under string keys. Implementations return ErrNotFound from Get
// when the key has never been written or was deleted.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
