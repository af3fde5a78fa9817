// Package store provides whole-value string key/value storage backed by SQLite.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Storage keys shared with earlier versions of the journal. Do not rename.
const (
	NotesKey          = "captains_log_notes"
	TranscriptionsKey = "captains_log_transcriptions"
)

// Storage is a string-valued key/value store with whole-value reads and writes.
type Storage interface {
	// GetItem returns the value stored under key. ok is false when the key is absent.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)

	// SetItem replaces the value stored under key.
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error

	// Close closes the store.
	Close() error
}

// PersistenceError reports a failed write to durable storage.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
