package input

import (
	"mixdeck/internal/search"
	"mixdeck/internal/ui/state"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	State *state.AppState
}

func (c *ModelContext) FocusedPane() state.Pane {
	return c.State.Focus
}

func (c *ModelContext) CurrentIndex() int {
	return c.State.CurrentIndex()
}

func (c *ModelContext) TotalItems() int {
	return c.State.TotalItems()
}

func (c *ModelContext) Query() string {
	return c.State.Query
}

func (c *ModelContext) HasNextPage() bool {
	return c.State.Session.HasNextPage
}

func (c *ModelContext) IsLoading() bool {
	return c.State.Session.IsLoading
}

// HasError is true when the last search failed and can be retried
func (c *ModelContext) HasError() bool {
	return c.State.Session.Status() == search.StatusError
}

func (c *ModelContext) HasSelection() bool {
	return c.State.Selected != nil
}

func (c *ModelContext) HistoryCount() int {
	return len(c.State.History)
}
