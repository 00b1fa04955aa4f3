package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mixdeck/internal/eventbus"
	"mixdeck/internal/storage"
)

func newManager(t *testing.T) (*Manager, *storage.MemoryBackend) {
	t.Helper()
	backend := storage.NewMemoryBackend()
	m := NewManager(storage.NewStore(backend, nil), nil, DefaultSize)
	t.Cleanup(m.Close)
	return m, backend
}

func TestStartsEmpty(t *testing.T) {
	m, _ := newManager(t)
	assert.Equal(t, []string{}, m.List())
}

func TestAddDeduplicatesAndMovesToFront(t *testing.T) {
	m, _ := newManager(t)

	m.Add("x")
	m.Add("y")
	m.Add("x")

	assert.Equal(t, []string{"x", "y"}, m.List())
}

func TestAddCapsAtSize(t *testing.T) {
	m, backend := newManager(t)

	for _, q := range []string{"q1", "q2", "q3", "q4", "q5", "q6"} {
		m.Add(q)
	}

	assert.Equal(t, []string{"q6", "q5", "q4", "q3", "q2"}, m.List())

	raw, ok, err := backend.Read(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["q6","q5","q4","q3","q2"]`, string(raw))
}

func TestAddTrimsAndIgnoresBlank(t *testing.T) {
	m, _ := newManager(t)

	m.Add("  deep house  ")
	m.Add("   ")
	m.Add("")

	assert.Equal(t, []string{"deep house"}, m.List())
}

func TestClear(t *testing.T) {
	m, backend := newManager(t)
	m.Add("a")
	m.Add("b")

	m.Clear()

	assert.Empty(t, m.List())
	raw, _, err := backend.Read(StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestMalformedStoredHistoryReadsAsEmpty(t *testing.T) {
	backend := storage.NewMemoryBackend()
	backend.Corrupt(StorageKey, []byte(`{"oops":true}`))

	m := NewManager(storage.NewStore(backend, nil), nil, DefaultSize)
	defer m.Close()

	assert.Equal(t, []string{}, m.List())

	m.Add("fresh")
	assert.Equal(t, []string{"fresh"}, m.List())
}

func TestPersistedHistoryIsLoaded(t *testing.T) {
	backend := storage.NewMemoryBackend()
	storage.NewStore(backend, nil).Set(StorageKey, []string{"a", "b"})

	m := NewManager(storage.NewStore(backend, nil), nil, DefaultSize)
	defer m.Close()
	assert.Equal(t, []string{"a", "b"}, m.List())
}

func TestOnChangeAndBusEvents(t *testing.T) {
	bus := eventbus.New()
	m := NewManager(storage.NewStore(storage.NewMemoryBackend(), nil), bus, DefaultSize)
	defer m.Close()

	var seen [][]string
	unsubscribe := m.OnChange(func(entries []string) { seen = append(seen, entries) })

	var published [][]string
	bus.Subscribe(eventbus.EventHistoryChanged, func(e eventbus.DomainEvent) {
		published = append(published, e.(eventbus.HistoryChangedEvent).Entries)
	})

	m.Add("a")
	m.Add("b")
	unsubscribe()
	m.Add("c")

	assert.Equal(t, [][]string{{"a"}, {"b", "a"}}, seen)
	assert.Len(t, published, 3)
}

func TestFailedWriteStillUpdatesListAndListeners(t *testing.T) {
	m, backend := newManager(t)
	m.Add("saved")

	var last []string
	m.OnChange(func(entries []string) { last = entries })

	backend.SetFailWrites(true)
	m.Add("unsaved")

	assert.Equal(t, []string{"unsaved", "saved"}, m.List())
	assert.Equal(t, []string{"unsaved", "saved"}, last)

	raw, _, err := backend.Read(StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["saved"]`, string(raw))
}

func TestFollowsOtherProcesses(t *testing.T) {
	shared := storage.NewMemoryBackend()
	storeA := storage.NewStore(shared, nil)
	storeB := storage.NewStore(shared, nil)
	a := NewManager(storeA, nil, DefaultSize)
	b := NewManager(storeB, nil, DefaultSize)
	defer a.Close()
	defer b.Close()

	a.Add("from a")
	assert.Empty(t, b.List())

	storeB.Sync()
	assert.Equal(t, []string{"from a"}, b.List())

	b.Clear()
	storeA.Sync()
	assert.Empty(t, a.List())
}

func TestRemovedKeyReadsAsEmpty(t *testing.T) {
	backend := storage.NewMemoryBackend()
	store := storage.NewStore(backend, nil)
	m := NewManager(store, nil, DefaultSize)
	defer m.Close()

	m.Add("a")
	store.Remove(StorageKey)

	assert.Equal(t, []string{}, m.List())
}

func TestLoadCapsOversizedStoredHistory(t *testing.T) {
	backend := storage.NewMemoryBackend()
	_, err := backend.Write(StorageKey, []byte(`["a","b","c","d","e","f","g"]`))
	require.NoError(t, err)

	m := NewManager(storage.NewStore(backend, nil), nil, DefaultSize)
	defer m.Close()

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, m.List())
}

func TestStoreChangeCapsOversizedHistory(t *testing.T) {
	store := storage.NewStore(storage.NewMemoryBackend(), nil)
	m := NewManager(store, nil, 3)
	defer m.Close()

	var seen []string
	unsubscribe := m.OnChange(func(entries []string) { seen = entries })
	defer unsubscribe()

	store.Set(StorageKey, []string{"a", "b", "c", "d", "e", "f", "g"})

	assert.Equal(t, []string{"a", "b", "c"}, m.List())
	assert.Equal(t, []string{"a", "b", "c"}, seen)
}
