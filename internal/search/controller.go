package search

import (
	"context"
	"log"
	"strings"
	"sync"

	"mixdeck/internal/eventbus"
	"mixdeck/internal/history"
)

// Runner executes a blocking search. The TUI hands it to a goroutine;
// tests run it inline.
type Runner func(task func())

// Inline runs the task on the calling goroutine
func Inline(task func()) { task() }

// Controller coordinates the query field, the engine and the history.
// Only submitted searches are recorded; recalls, pagination and retries are not.
type Controller struct {
	engine  *Engine
	history *history.Manager
	bus     eventbus.EventBus
	run     Runner

	mu          sync.Mutex
	query       string
	ctx         context.Context
	unsubscribe func()
	onQuery     []func(string)
}

// NewController creates a controller. run may be nil to search inline.
func NewController(engine *Engine, hist *history.Manager, bus eventbus.EventBus, run Runner) *Controller {
	if run == nil {
		run = Inline
	}
	return &Controller{
		engine:  engine,
		history: hist,
		bus:     bus,
		run:     run,
		ctx:     context.Background(),
	}
}

// Engine returns the underlying engine
func (c *Controller) Engine() *Engine {
	return c.engine
}

// Query returns the visible query field value
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// SetQuery updates the query field as the user types
func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	c.query = q
	c.mu.Unlock()
}

// OnQueryChange registers fn for query field changes made by a recall
func (c *Controller) OnQueryChange(fn func(string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onQuery = append(c.onQuery, fn)
}

// Submit searches query from the first page and records it in the history
// when the request succeeds.
func (c *Controller) Submit(ctx context.Context, query string) bool {
	c.SetQuery(query)
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return false
	}
	ok := c.engine.Search(ctx, trimmed, 0)
	if ok && c.history != nil {
		c.history.Add(trimmed)
	}
	return ok
}

// NextPage fetches the following page without touching the history
func (c *Controller) NextPage(ctx context.Context) bool {
	return c.engine.NextPage(ctx)
}

// Recall shows query in the field and searches it from the first page.
// The history is left alone. A blank query changes nothing.
func (c *Controller) Recall(ctx context.Context, query string) bool {
	if strings.TrimSpace(query) == "" {
		return false
	}

	c.mu.Lock()
	c.query = query
	listeners := append([]func(string){}, c.onQuery...)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(query)
	}

	c.engine.Reset()
	return c.engine.Search(ctx, query, 0)
}

// Retry repeats the last request at the same offset
func (c *Controller) Retry(ctx context.Context) bool {
	s := c.engine.Snapshot()
	if s.Query == "" {
		return false
	}
	return c.engine.Search(ctx, s.Query, s.Offset)
}

// Attach starts listening for recall requests on the bus. ctx bounds the
// searches those requests start. Attaching twice keeps one subscription.
func (c *Controller) Attach(ctx context.Context) {
	if c.bus == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctx = ctx
	if c.unsubscribe != nil {
		return
	}
	c.unsubscribe = eventbus.SubscribeRecall(c.bus, func(query string) {
		c.mu.Lock()
		runCtx := c.ctx
		c.mu.Unlock()
		log.Printf("Search: recall %q", query)
		c.run(func() { c.Recall(runCtx, query) })
	})
}

// Detach stops listening for recall requests
func (c *Controller) Detach() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}
