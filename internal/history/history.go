// Package history keeps the most-recent-first list of submitted search queries.
package history

import (
	"log"
	"sort"
	"strings"
	"sync"

	"mixdeck/internal/eventbus"
	"mixdeck/internal/storage"
)

const (
	// StorageKey is where the list lives in the persistent store
	StorageKey = "music-app-search-history"
	// DefaultSize is the number of entries kept
	DefaultSize = 5
)

// Manager owns the search history. The persisted list is the source of truth;
// the in-memory copy follows it through store notifications.
type Manager struct {
	store *storage.Store
	bus   eventbus.EventBus
	size  int

	writeMu   sync.Mutex // serializes read-modify-write of the list
	mu        sync.RWMutex
	entries   []string
	echoed    bool // the last own write came back from the store
	listeners map[uint64]func([]string)
	nextID    uint64

	unsubscribe func()
}

// NewManager loads the persisted history and starts following changes to it.
// bus may be nil.
func NewManager(store *storage.Store, bus eventbus.EventBus, size int) *Manager {
	if size <= 0 {
		size = DefaultSize
	}
	m := &Manager{
		store:     store,
		bus:       bus,
		size:      size,
		listeners: make(map[uint64]func([]string)),
	}
	m.entries = m.load()
	m.unsubscribe = store.Subscribe(StorageKey, m.handleChange)
	return m
}

// Close stops following the store
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m *Manager) load() []string {
	entries := storage.GetOr[[]string](m.store, StorageKey, nil)
	return sanitize(entries, m.size)
}

// Add records query as the most recent entry. Blank queries are ignored.
func (m *Manager) Add(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	current := m.List()
	next := make([]string, 0, m.size)
	next = append(next, query)
	for _, e := range current {
		if e != query && len(next) < m.size {
			next = append(next, e)
		}
	}
	m.persist(next)
}

// List returns the current history, most recent first
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.entries))
	copy(out, m.entries)
	return out
}

// Clear empties the history
func (m *Manager) Clear() {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	m.persist([]string{})
}

// persist writes next through the store. A successful write comes back
// through handleChange; a failed one is silent, so listeners are told here.
func (m *Manager) persist(next []string) {
	m.mu.Lock()
	m.entries = next
	m.echoed = false
	m.mu.Unlock()

	m.store.Set(StorageKey, next)

	m.mu.RLock()
	echoed := m.echoed
	m.mu.RUnlock()
	if !echoed {
		m.emit(next)
	}
}

// OnChange registers fn to receive the list after every change.
// Returns an unsubscribe function.
func (m *Manager) OnChange(fn func([]string)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.listeners[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// handleChange applies a change to the persisted list, whichever process made it
func (m *Manager) handleChange(c storage.Change) {
	var entries []string
	if !c.Decode(&entries) {
		if !c.Removed {
			log.Printf("History: ignoring malformed stored history")
		}
		entries = nil
	}
	entries = sanitize(entries, m.size)

	m.mu.Lock()
	m.entries = entries
	m.echoed = true
	m.mu.Unlock()

	m.emit(entries)
}

func (m *Manager) emit(entries []string) {
	m.mu.RLock()
	ids := make([]uint64, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func([]string), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m.listeners[id])
	}
	m.mu.RUnlock()

	for _, fn := range fns {
		fn(append([]string{}, entries...))
	}
	if m.bus != nil {
		m.bus.Publish(eventbus.HistoryChangedEvent{Entries: append([]string{}, entries...)})
	}
}

// sanitize trims entries, drops blanks and duplicates, keeps at most size,
// and never returns nil
func sanitize(entries []string, size int) []string {
	out := make([]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
		if len(out) == size {
			break
		}
	}
	return out
}
