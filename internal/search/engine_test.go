package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mixdeck/internal/domain"
	"mixdeck/internal/eventbus"
	"mixdeck/internal/mixcloud"
)

type call struct {
	Query  string
	Offset int
	Limit  int
}

// fakeSearcher answers from a queue of canned responses
type fakeSearcher struct {
	mu        sync.Mutex
	calls     []call
	responses []fakeResponse
}

type fakeResponse struct {
	page mixcloud.Page
	err  error
	// hold blocks the response until closed
	hold chan struct{}
}

func (f *fakeSearcher) push(r fakeResponse) *fakeSearcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, r)
	return f
}

func (f *fakeSearcher) Search(ctx context.Context, query string, offset, limit int) (mixcloud.Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{query, offset, limit})
	var r fakeResponse
	if len(f.responses) > 0 {
		r = f.responses[0]
		f.responses = f.responses[1:]
	}
	f.mu.Unlock()
	if r.hold != nil {
		<-r.hold
	}
	return r.page, r.err
}

func (f *fakeSearcher) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func results(n int) []domain.SearchResult {
	out := make([]domain.SearchResult, n)
	for i := range out {
		out[i] = domain.SearchResult{ID: string(rune('a' + i)), Title: "mix"}
	}
	return out
}

func TestBlankQueryIsNoOp(t *testing.T) {
	fake := &fakeSearcher{}
	e := NewEngine(fake, DefaultPageSize, nil)

	var transitions int
	e.Observe(func(Session) { transitions++ })

	assert.False(t, e.Search(context.Background(), "", 0))
	assert.False(t, e.Search(context.Background(), "   ", 0))

	assert.Empty(t, fake.Calls())
	assert.Equal(t, 0, transitions)
	assert.Equal(t, StatusIdle, e.Snapshot().Status())
}

func TestBlankQueryKeepsExistingResults(t *testing.T) {
	fake := (&fakeSearcher{}).push(fakeResponse{page: mixcloud.Page{Results: results(6), Next: "n"}})
	e := NewEngine(fake, DefaultPageSize, nil)
	require.True(t, e.Search(context.Background(), "jazz", 0))
	before := e.Snapshot()

	var transitions int
	e.Observe(func(Session) { transitions++ })

	assert.False(t, e.Search(context.Background(), "   ", 0))

	after := e.Snapshot()
	assert.Equal(t, before.Results, after.Results)
	assert.Equal(t, "jazz", after.Query)
	assert.True(t, after.HasNextPage)
	assert.Equal(t, before.NextOffset, after.NextOffset)
	assert.Equal(t, StatusSuccess, after.Status())
	assert.Len(t, fake.Calls(), 1)
	assert.Equal(t, 0, transitions)
}

func TestLoadingTogglesOncePerSearch(t *testing.T) {
	for name, resp := range map[string]fakeResponse{
		"success": {page: mixcloud.Page{Results: results(1)}},
		"empty":   {page: mixcloud.Page{}},
		"error":   {err: &mixcloud.APIError{StatusCode: 500, Kind: mixcloud.KindUnavailable}},
	} {
		t.Run(name, func(t *testing.T) {
			e := NewEngine((&fakeSearcher{}).push(resp), DefaultPageSize, nil)

			var loading []bool
			e.Observe(func(s Session) { loading = append(loading, s.IsLoading) })

			e.Search(context.Background(), "techno", 0)
			assert.Equal(t, []bool{true, false}, loading)
			assert.False(t, e.Snapshot().IsLoading)
		})
	}
}

func TestJazzScenario(t *testing.T) {
	fake := (&fakeSearcher{}).push(fakeResponse{page: mixcloud.Page{Results: results(2), Next: "https://api.mixcloud.com/search/?offset=6"}})
	e := NewEngine(fake, DefaultPageSize, nil)

	require.True(t, e.Search(context.Background(), "jazz", 0))

	s := e.Snapshot()
	assert.Len(t, s.Results, 2)
	assert.False(t, s.NotFound)
	assert.True(t, s.HasNextPage)
	assert.Equal(t, 6, s.NextOffset)
	assert.Empty(t, s.Error)
	assert.Equal(t, StatusSuccess, s.Status())
	assert.Equal(t, []call{{"jazz", 0, 6}}, fake.Calls())
}

func TestNoResultsScenario(t *testing.T) {
	e := NewEngine((&fakeSearcher{}).push(fakeResponse{}), DefaultPageSize, nil)

	require.True(t, e.Search(context.Background(), "zzzznoresults", 0), "empty result is still an HTTP success")

	s := e.Snapshot()
	assert.True(t, s.NotFound)
	assert.NotNil(t, s.Results)
	assert.Empty(t, s.Results)
	assert.Empty(t, s.Error)
	assert.False(t, s.HasNextPage)
	assert.Equal(t, StatusEmpty, s.Status())
}

func TestRateLimitedScenario(t *testing.T) {
	fake := (&fakeSearcher{}).
		push(fakeResponse{page: mixcloud.Page{Results: results(3), Next: "next"}}).
		push(fakeResponse{err: &mixcloud.APIError{StatusCode: 429, Kind: mixcloud.KindRateLimited}})
	e := NewEngine(fake, DefaultPageSize, nil)

	require.True(t, e.Search(context.Background(), "house", 0))
	require.False(t, e.Search(context.Background(), "house", 6))

	s := e.Snapshot()
	assert.Contains(t, s.Error, "Too many requests")
	assert.Empty(t, s.Results)
	assert.False(t, s.HasNextPage)
	assert.False(t, s.NotFound)
	assert.Equal(t, StatusError, s.Status())
}

func TestNewSearchClearsPreviousError(t *testing.T) {
	fake := (&fakeSearcher{}).
		push(fakeResponse{err: &mixcloud.NetworkError{}}).
		push(fakeResponse{page: mixcloud.Page{Results: results(1)}})
	e := NewEngine(fake, DefaultPageSize, nil)

	var sawLoadingWithError bool
	e.Observe(func(s Session) {
		if s.IsLoading && s.Error != "" {
			sawLoadingWithError = true
		}
	})

	e.Search(context.Background(), "a", 0)
	assert.Equal(t, mixcloud.MsgNetwork, e.Snapshot().Error)

	e.Search(context.Background(), "a", 0)
	assert.False(t, sawLoadingWithError)
	assert.Empty(t, e.Snapshot().Error)
}

func TestNextOffsetFollowsPriorOffset(t *testing.T) {
	fake := (&fakeSearcher{}).
		push(fakeResponse{page: mixcloud.Page{Results: results(6), Next: "n"}}).
		push(fakeResponse{page: mixcloud.Page{Results: results(6), Next: "n"}}).
		push(fakeResponse{page: mixcloud.Page{Results: results(2)}})
	e := NewEngine(fake, DefaultPageSize, nil)
	ctx := context.Background()

	require.True(t, e.Search(ctx, "ambient", 0))
	require.True(t, e.NextPage(ctx))
	assert.Equal(t, 12, e.Snapshot().NextOffset)
	require.True(t, e.NextPage(ctx))

	s := e.Snapshot()
	assert.False(t, s.HasNextPage)
	assert.Equal(t, 12, s.Offset)
	assert.False(t, e.NextPage(ctx), "no next page")

	assert.Equal(t, []call{{"ambient", 0, 6}, {"ambient", 6, 6}, {"ambient", 12, 6}}, fake.Calls())
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	hold := make(chan struct{})
	fake := (&fakeSearcher{}).
		push(fakeResponse{page: mixcloud.Page{Results: results(1)}, hold: hold}).
		push(fakeResponse{page: mixcloud.Page{Results: results(4)}})
	e := NewEngine(fake, DefaultPageSize, nil)

	done := make(chan bool)
	go func() { done <- e.Search(context.Background(), "slow", 0) }()

	require.Eventually(t, func() bool { return len(fake.Calls()) == 1 }, time.Second, time.Millisecond)
	require.True(t, e.Search(context.Background(), "fast", 0))

	close(hold)
	assert.True(t, <-done, "a stale request still reports its HTTP outcome")

	s := e.Snapshot()
	assert.Equal(t, "fast", s.Query)
	assert.Len(t, s.Results, 4)
	assert.False(t, s.IsLoading)
}

func TestResetDiscardsInFlightResponse(t *testing.T) {
	hold := make(chan struct{})
	fake := (&fakeSearcher{}).push(fakeResponse{page: mixcloud.Page{Results: results(2)}, hold: hold})
	e := NewEngine(fake, DefaultPageSize, nil)

	done := make(chan struct{})
	go func() {
		e.Search(context.Background(), "x", 0)
		close(done)
	}()
	require.Eventually(t, func() bool { return len(fake.Calls()) == 1 }, time.Second, time.Millisecond)

	e.Reset()
	close(hold)
	<-done

	assert.Equal(t, Session{}, e.Snapshot())
}

func TestEngineAgainstHTTPServer(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"key": "/a/one/", "name": "One"},
				{"key": "/a/two/", "name": "Two"},
			},
			"paging": map[string]any{"next": "https://api.mixcloud.com/search/?offset=6"},
		})
	}))
	defer server.Close()

	client, err := mixcloud.New(mixcloud.Config{BaseURL: server.URL})
	require.NoError(t, err)

	bus := eventbus.New()
	var completed []eventbus.SearchCompletedEvent
	bus.Subscribe(eventbus.EventSearchCompleted, func(e eventbus.DomainEvent) {
		completed = append(completed, e.(eventbus.SearchCompletedEvent))
	})

	e := NewEngine(client, DefaultPageSize, bus)
	require.True(t, e.Search(context.Background(), " jazz ", 0))

	assert.Equal(t, "jazz", gotQuery)
	require.Len(t, completed, 1)
	assert.Equal(t, 2, completed[0].Count)
	assert.True(t, completed[0].HasNextPage)
	assert.NoError(t, completed[0].Err)
}

func TestObserveUnsubscribe(t *testing.T) {
	e := NewEngine((&fakeSearcher{}).push(fakeResponse{}).push(fakeResponse{}), DefaultPageSize, nil)
	count := 0
	unsubscribe := e.Observe(func(Session) { count++ })

	e.Search(context.Background(), "a", 0)
	unsubscribe()
	unsubscribe()
	e.Search(context.Background(), "b", 0)

	assert.Equal(t, 2, count)
}
