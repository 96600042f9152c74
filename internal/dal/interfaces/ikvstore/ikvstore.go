package ikvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("key not found")

// Entry is a key/value pair returned by a prefix scan.
type Entry struct {
	Key   string
	Value []byte
}

// IKVStore is the key-value persistence primitive. Values are JSON documents.
type IKVStore interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// ScanPrefix returns every entry whose key starts with prefix, ordered by key.
	ScanPrefix(ctx context.Context, prefix string) ([]Entry, error)
}
