// Package storage defines the key-value persistence surface used for
// session-scoped client state such as carts.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("storage: key not found")

// KV is a minimal durable key-value store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Pinger exposes the readiness surface of drivers backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}
