package storage

import (
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last file event before syncing
const DefaultDebounce = 150 * time.Millisecond

// Watcher syncs a Store whenever another process writes to its SQLite file
type Watcher struct {
	store    *Store
	path     string
	debounce time.Duration

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	syncing sync.WaitGroup
	done    chan struct{}
}

// NewWatcher creates a watcher for the database file at dbPath
func NewWatcher(store *Store, dbPath string) *Watcher {
	return &Watcher{
		store:    store,
		path:     dbPath,
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}
}

// SetDebounce changes the debounce delay. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start begins watching the database directory
func (w *Watcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory: SQLite replaces and truncates the -wal file
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return err
	}
	w.watcher = fw

	log.Printf("Storage: watching %s for external changes", w.path)
	go w.processEvents()
	return nil
}

// Stop stops watching. Safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	// A sync that already fired must finish before the store can be closed
	w.syncing.Wait()

	close(w.done)
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Storage: watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	if !w.isRelevantFile(event.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.sync)
}

func (w *Watcher) sync() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.syncing.Add(1)
	w.mu.Unlock()
	defer w.syncing.Done()

	w.store.Sync()
}

// isRelevantFile matches the database file and its -wal / -journal siblings
func (w *Watcher) isRelevantFile(name string) bool {
	base := filepath.Base(w.path)
	got := filepath.Base(name)
	return got == base || strings.HasPrefix(got, base+"-")
}
