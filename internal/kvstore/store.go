// Package kvstore provides the namespaced key-value store the persistence
// service is built on. Values are opaque strings, in practice JSON documents.
package kvstore

import (
	"context"
)

// Store is a durable string key-value store. Each call is a whole-value
// read or write; callers serialise their own documents.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set creates or replaces the value for key.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists the keys starting with prefix, in ascending order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
