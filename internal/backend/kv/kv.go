// Package kv provides flat string-keyed stores used as the fallback backend.
package kv

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("kv store closed")

// Store is a flat key-value store holding JSON-encoded values.
type Store interface {
	// Name identifies the driver in logs and health output.
	Name() string

	// Get returns the value under key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Removing a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Scan returns every value whose key starts with prefix.
	Scan(ctx context.Context, prefix string) (map[string][]byte, error)

	// Close releases any resources held by the store.
	Close() error
}
