package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mixdeck/internal/domain"
	"mixdeck/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// forwardedMsg carries a message posted from outside the update loop
type forwardedMsg struct {
	msg tea.Msg
}

// frameMsg advances the selection fly-over
type frameMsg time.Time

// sessionChangedMsg signals that the search engine has a new snapshot
type sessionChangedMsg struct{}

// historyChangedMsg signals that the recent list changed
type historyChangedMsg struct{}

// queryChangedMsg carries a query set by a recall
type queryChangedMsg struct {
	query string
}

// viewModeChangedMsg carries a view mode written by another process
type viewModeChangedMsg struct {
	mode domain.ViewMode
}

// selectionMsg starts the fly-over for a selection
type selectionMsg struct {
	image  domain.SelectedImage
	origin domain.Rect
}

// searchDoneMsg reports the outcome of a search run from the UI
type searchDoneMsg struct {
	query string
	ok    bool
	paged bool
}

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	err error
}

// playerExitMsg contains the result of a player command
type playerExitMsg struct {
	url string
	err error
}

// clearStatusMsg clears the footer status
type clearStatusMsg struct{}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
