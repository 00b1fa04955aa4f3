package storage

import (
	"bytes"
	"encoding/json"
	"log"
	"sync"

	"mixdeck/internal/eventbus"
)

// Change describes a new value for a key
type Change struct {
	Key      string
	Value    []byte // raw JSON, nil when Removed
	Removed  bool
	External bool // written by another process
}

// Decode unmarshals the change value into out; false when removed or malformed
func (c Change) Decode(out any) bool {
	if c.Removed || c.Value == nil {
		return false
	}
	return json.Unmarshal(c.Value, out) == nil
}

type observer struct {
	id uint64
	fn func(Change)
}

// Store wraps a Backend with JSON encoding and change notification.
// Write failures are logged and swallowed: the cached value still updates so
// reads in this process see it, but observers are only told about writes
// that reached the backend.
type Store struct {
	backend Backend
	bus     eventbus.EventBus

	mu        sync.Mutex
	cache     map[string][]byte
	pending   map[string]bool // keys whose last write failed
	observers map[string][]observer
	nextID    uint64
	lastRev   int64
	ownRevs   map[int64]struct{}
}

// NewStore creates an adapter over backend. bus may be nil.
func NewStore(backend Backend, bus eventbus.EventBus) *Store {
	s := &Store{
		backend:   backend,
		bus:       bus,
		cache:     make(map[string][]byte),
		pending:   make(map[string]bool),
		observers: make(map[string][]observer),
		ownRevs:   make(map[int64]struct{}),
	}
	if feed, ok := backend.(ChangeFeed); ok {
		if rev, err := feed.Revision(); err == nil {
			s.lastRev = rev
		} else {
			log.Printf("Storage: reading revision failed: %v", err)
		}
	}
	return s
}

// Backend returns the underlying backend
func (s *Store) Backend() Backend {
	return s.backend
}

// Get decodes the value for key into out. It returns false when the key is
// absent, unreadable or not valid JSON for out; out is then left untouched.
func (s *Store) Get(key string, out any) bool {
	raw, ok := s.raw(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("Storage: ignoring malformed value for %q: %v", key, err)
		return false
	}
	return true
}

// GetOr returns the decoded value for key, or fallback
func GetOr[T any](s *Store, key string, fallback T) T {
	var v T
	if s.Get(key, &v) {
		return v
	}
	return fallback
}

func (s *Store) raw(key string) ([]byte, bool) {
	s.mu.Lock()
	if s.pending[key] {
		v := s.cache[key]
		s.mu.Unlock()
		return v, v != nil
	}
	s.mu.Unlock()

	value, ok, err := s.backend.Read(key)
	if err != nil {
		log.Printf("Storage: read %q failed: %v", key, err)
		s.mu.Lock()
		defer s.mu.Unlock()
		v := s.cache[key]
		return v, v != nil
	}
	return value, ok
}

// Set encodes value as JSON and writes it through to the backend
func (s *Store) Set(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("Storage: cannot encode value for %q: %v", key, err)
		return
	}

	rev, err := s.backend.Write(key, data)

	s.mu.Lock()
	s.cache[key] = data
	if err != nil {
		s.pending[key] = true
		s.mu.Unlock()
		log.Printf("Storage: write %q failed: %v", key, err)
		return
	}
	delete(s.pending, key)
	s.ownRevs[rev] = struct{}{}
	s.mu.Unlock()

	s.notify(Change{Key: key, Value: data})
}

// Remove deletes key and notifies observers with a removal
func (s *Store) Remove(key string) {
	rev, err := s.backend.Delete(key)

	s.mu.Lock()
	s.cache[key] = nil
	if err != nil {
		s.pending[key] = true
		s.mu.Unlock()
		log.Printf("Storage: remove %q failed: %v", key, err)
		return
	}
	delete(s.pending, key)
	s.ownRevs[rev] = struct{}{}
	s.mu.Unlock()

	s.notify(Change{Key: key, Removed: true})
}

// Subscribe registers fn for changes to key. Returns an unsubscribe function.
func (s *Store) Subscribe(key string, fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.observers[key] = append(s.observers[key], observer{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			obs := s.observers[key]
			next := make([]observer, 0, len(obs))
			for _, o := range obs {
				if o.id != id {
					next = append(next, o)
				}
			}
			s.observers[key] = next
		})
	}
}

// Sync pulls writes made by other processes and notifies observers of each
// changed key. It is a no-op for backends without a change feed.
func (s *Store) Sync() {
	feed, ok := s.backend.(ChangeFeed)
	if !ok {
		return
	}

	s.mu.Lock()
	since := s.lastRev
	s.mu.Unlock()

	records, err := feed.Changes(since)
	if err != nil {
		log.Printf("Storage: sync failed: %v", err)
		return
	}

	var changes []Change
	s.mu.Lock()
	for _, rec := range records {
		if rec.Rev > s.lastRev {
			s.lastRev = rec.Rev
		}
		if _, own := s.ownRevs[rec.Rev]; own {
			delete(s.ownRevs, rec.Rev)
			continue
		}
		if !rec.Removed && bytes.Equal(s.cache[rec.Key], rec.Value) {
			continue
		}
		if rec.Removed {
			s.cache[rec.Key] = nil
		} else {
			s.cache[rec.Key] = rec.Value
		}
		delete(s.pending, rec.Key)
		changes = append(changes, Change{Key: rec.Key, Value: rec.Value, Removed: rec.Removed, External: true})
	}
	for rev := range s.ownRevs {
		if rev <= s.lastRev {
			delete(s.ownRevs, rev)
		}
	}
	s.mu.Unlock()

	for _, c := range changes {
		s.notify(c)
	}
}

func (s *Store) notify(c Change) {
	s.mu.Lock()
	obs := make([]observer, len(s.observers[c.Key]))
	copy(obs, s.observers[c.Key])
	s.mu.Unlock()

	for _, o := range obs {
		o.fn(c)
	}

	if s.bus != nil {
		s.bus.Publish(eventbus.StorageChangedEvent{
			Key:      c.Key,
			NewValue: c.Value,
			Removed:  c.Removed,
			External: c.External,
		})
	}
}

// Close closes the backend
func (s *Store) Close() error {
	return s.backend.Close()
}
