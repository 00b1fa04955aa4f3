package storage

import "errors"

// ErrQuotaExceeded is returned by backends that refuse a write for size reasons
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Backend is a durable per-user key/value store holding raw JSON values
type Backend interface {
	// Read returns the value for key; ok is false when the key is absent or removed
	Read(key string) (value []byte, ok bool, err error)
	// Write stores value synchronously and returns the revision assigned to it
	Write(key string, value []byte) (rev int64, err error)
	// Delete removes key and returns the revision of the removal
	Delete(key string) (rev int64, err error)
	Close() error
}

// Record is one row of a change feed
type Record struct {
	Key     string
	Value   []byte // nil when Removed
	Removed bool
	Rev     int64
}

// ChangeFeed is implemented by backends that other processes can write to
type ChangeFeed interface {
	// Changes lists records with a revision greater than sinceRev, oldest first
	Changes(sinceRev int64) ([]Record, error)
	// Revision returns the newest revision in the store
	Revision() (int64, error)
}
