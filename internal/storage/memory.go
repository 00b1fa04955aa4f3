package storage

import (
	"sort"
	"sync"
)

// MemoryBackend is an in-memory implementation of Backend.
// Several Stores may share one MemoryBackend to behave like separate processes.
type MemoryBackend struct {
	mu         sync.RWMutex
	records    map[string]Record
	rev        int64
	failWrites bool
}

// NewMemoryBackend creates a new memory-based backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		records: make(map[string]Record),
	}
}

// SetFailWrites makes every subsequent Write and Delete fail with ErrQuotaExceeded
func (b *MemoryBackend) SetFailWrites(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failWrites = fail
}

// Corrupt stores raw bytes without any encoding, for exercising decode failures
func (b *MemoryBackend) Corrupt(key string, raw []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rev++
	b.records[key] = Record{Key: key, Value: append([]byte(nil), raw...), Rev: b.rev}
}

func (b *MemoryBackend) Read(key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	rec, ok := b.records[key]
	if !ok || rec.Removed {
		return nil, false, nil
	}
	// Return a copy to prevent external modification
	return append([]byte(nil), rec.Value...), true, nil
}

func (b *MemoryBackend) Write(key string, value []byte) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWrites {
		return 0, ErrQuotaExceeded
	}
	b.rev++
	b.records[key] = Record{Key: key, Value: append([]byte(nil), value...), Rev: b.rev}
	return b.rev, nil
}

func (b *MemoryBackend) Delete(key string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWrites {
		return 0, ErrQuotaExceeded
	}
	b.rev++
	b.records[key] = Record{Key: key, Removed: true, Rev: b.rev}
	return b.rev, nil
}

func (b *MemoryBackend) Changes(sinceRev int64) ([]Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []Record
	for _, rec := range b.records {
		if rec.Rev > sinceRev {
			rec.Value = append([]byte(nil), rec.Value...)
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rev < out[j].Rev })
	return out, nil
}

func (b *MemoryBackend) Revision() (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rev, nil
}

func (b *MemoryBackend) Close() error {
	return nil
}
