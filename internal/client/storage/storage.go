package storage

import (
	"context"
	"time"
)

//go:generate moq -out storage_mock.go . Storage

// Key identifies one logical piece of persisted client state
type Key string

// Persisted keys. Each key holds one JSON document (the catalog backup is compressed).
const (
	KeyDarkMode      Key = "dark_mode"
	KeyVisibility    Key = "visibility"
	KeyFavorites     Key = "favorites"
	KeySolved        Key = "solved"
	KeyCurrentUser   Key = "current_user"
	KeyProblemsCache Key = "problems_cache"
)

// Keys returns all known keys
func Keys() []Key {
	return []Key{KeyDarkMode, KeyVisibility, KeyFavorites, KeySolved, KeyCurrentUser, KeyProblemsCache}
}

// Valid reports whether k is a known key
func (k Key) Valid() bool {
	for _, known := range Keys() {
		if k == known {
			return true
		}
	}
	return false
}

// Storage defines the raw key/value persistence used by the preference store.
// This is the lowest storage layer - it works with opaque bytes and doesn't
// perform any serialization itself.
type Storage interface {
	// Get returns the value stored under key.
	// Returns ErrNotFound if nothing is stored.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Put stores value under key, replacing any previous value
	Put(ctx context.Context, key Key, value []byte) error

	// Delete removes the value under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key Key) error

	// Close releases the underlying database
	Close() error
}

// Timestamped is implemented by engines that record when each key was last written
type Timestamped interface {
	// UpdatedAt returns the last write time of key.
	// Returns ErrNotFound if nothing is stored.
	UpdatedAt(ctx context.Context, key Key) (time.Time, error)
}
