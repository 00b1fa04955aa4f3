// Package search runs Mixcloud queries and tracks the state of the Search pane.
package search

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"mixdeck/internal/domain"
	"mixdeck/internal/eventbus"
	"mixdeck/internal/mixcloud"
)

// DefaultPageSize is the number of results requested per page
const DefaultPageSize = 6

// Searcher fetches one page of results. *mixcloud.Client implements it.
type Searcher interface {
	Search(ctx context.Context, query string, offset, limit int) (mixcloud.Page, error)
}

// Status is the derived display state of a session
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusEmpty
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusEmpty:
		return "empty"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Session is a snapshot of the search state
type Session struct {
	Query       string
	Offset      int // offset of the page currently shown or loading
	Results     []domain.SearchResult
	NextOffset  int
	HasNextPage bool
	IsLoading   bool
	NotFound    bool
	Error       string // user-facing message, empty when none
}

// Status derives the display state. Loading wins over whatever is still shown.
func (s Session) Status() Status {
	switch {
	case s.IsLoading:
		return StatusLoading
	case s.Error != "":
		return StatusError
	case s.NotFound:
		return StatusEmpty
	case len(s.Results) > 0:
		return StatusSuccess
	default:
		return StatusIdle
	}
}

func (s Session) clone() Session {
	if s.Results != nil {
		s.Results = append([]domain.SearchResult{}, s.Results...)
	}
	return s
}

// Engine holds one search session. Each request takes a generation number and
// only the newest generation may change the session, so a slow response can
// never overwrite a later one.
type Engine struct {
	searcher Searcher
	pageSize int
	bus      eventbus.EventBus

	mu         sync.Mutex
	session    Session
	generation uint64
	observers  []sessionObserver
	nextID     uint64
}

type sessionObserver struct {
	id uint64
	fn func(Session)
}

// NewEngine creates an engine. bus may be nil.
func NewEngine(searcher Searcher, pageSize int, bus eventbus.EventBus) *Engine {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Engine{searcher: searcher, pageSize: pageSize, bus: bus}
}

// PageSize returns the number of results requested per page
func (e *Engine) PageSize() int {
	return e.pageSize
}

// Snapshot returns a copy of the current session
func (e *Engine) Snapshot() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.clone()
}

// Search fetches the page of query starting at offset. It returns true when
// the request completed with an HTTP success, including the zero-result case.
// A blank query is ignored and returns false.
func (e *Engine) Search(ctx context.Context, query string, offset int) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return false
	}
	if offset < 0 {
		offset = 0
	}

	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.session.Query = query
	e.session.Offset = offset
	e.session.IsLoading = true
	e.session.Error = ""
	e.session.NotFound = false
	started := e.session.clone()
	e.mu.Unlock()

	requestID := uuid.NewString()
	log.Printf("Search: [%s] q=%q offset=%d limit=%d", requestID, query, offset, e.pageSize)
	e.notify(started)
	e.publish(eventbus.SearchStartedEvent{Query: query, Offset: offset})

	page, err := e.searcher.Search(ctx, query, offset, e.pageSize)
	if err != nil {
		log.Printf("Search: [%s] failed: %v", requestID, err)
	} else {
		log.Printf("Search: [%s] %d result(s), next=%t", requestID, len(page.Results), page.HasNext())
	}

	e.complete(gen, requestID, query, offset, page, err)
	return err == nil
}

// complete applies a response if it still belongs to the newest request
func (e *Engine) complete(gen uint64, requestID, query string, offset int, page mixcloud.Page, err error) {
	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		log.Printf("Search: [%s] discarding stale response", requestID)
		return
	}

	s := &e.session
	s.IsLoading = false
	if err != nil {
		s.Results = []domain.SearchResult{}
		s.NotFound = false
		s.HasNextPage = false
		s.Error = mixcloud.UserMessage(err)
	} else {
		s.Results = page.Results
		if s.Results == nil {
			s.Results = []domain.SearchResult{}
		}
		s.NotFound = len(s.Results) == 0
		s.Error = ""
		if page.HasNext() {
			s.HasNextPage = true
			s.NextOffset = offset + e.pageSize
		} else {
			s.HasNextPage = false
		}
	}
	done := s.clone()
	e.mu.Unlock()

	e.notify(done)
	e.publish(eventbus.SearchCompletedEvent{
		Query:       query,
		Offset:      offset,
		Count:       len(done.Results),
		HasNextPage: done.HasNextPage,
		Err:         err,
	})
}

// NextPage fetches the page after the one shown. It does nothing and returns
// false when there is no next page. NextOffset is read before the request starts.
func (e *Engine) NextPage(ctx context.Context) bool {
	e.mu.Lock()
	query, next, ok := e.session.Query, e.session.NextOffset, e.session.HasNextPage
	e.mu.Unlock()
	if !ok {
		return false
	}
	return e.Search(ctx, query, next)
}

// Reset returns to the idle state. A request still in flight is discarded.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.generation++
	e.session = Session{}
	e.mu.Unlock()
	e.notify(Session{})
}

// Observe registers fn to receive a snapshot after every transition.
// Returns an unsubscribe function.
func (e *Engine) Observe(fn func(Session)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	e.observers = append(e.observers, sessionObserver{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			next := make([]sessionObserver, 0, len(e.observers))
			for _, o := range e.observers {
				if o.id != id {
					next = append(next, o)
				}
			}
			e.observers = next
		})
	}
}

func (e *Engine) notify(s Session) {
	e.mu.Lock()
	obs := make([]sessionObserver, len(e.observers))
	copy(obs, e.observers)
	e.mu.Unlock()
	for _, o := range obs {
		o.fn(s.clone())
	}
}

func (e *Engine) publish(event eventbus.DomainEvent) {
	if e.bus != nil {
		e.bus.Publish(event)
	}
}
