package state

import (
	"mixdeck/internal/animation"
	"mixdeck/internal/domain"
	"mixdeck/internal/search"
)

// Pane identifies one of the three panes
type Pane int

const (
	PaneSearch Pane = iota
	PanePlayer
	PaneRecent
	paneCount
)

func (p Pane) String() string {
	switch p {
	case PanePlayer:
		return "player"
	case PaneRecent:
		return "recent"
	default:
		return "search"
	}
}

// AppState contains all the application state
type AppState struct {
	// Focus and cursors
	Focus       Pane
	ResultIndex int // cursor in the result list
	RecentIndex int // cursor in the recent list

	// Search pane
	Query    string
	Session  search.Session
	ViewMode domain.ViewMode

	// Recent pane
	History []string

	// Player pane
	Selected       *domain.SelectedImage
	SelectedResult *domain.SearchResult // details of the selection, nil when unknown

	// Selection fly-over
	Animating    bool
	Flight       animation.Frame
	FlightSource int // result index the flight started from

	// UI state
	StatusMessage string
	StatusIsError bool
}

// NewAppState creates a new application state
func NewAppState(viewMode domain.ViewMode) *AppState {
	return &AppState{
		ViewMode: viewMode,
		History:  make([]string, 0),
	}
}

// CycleFocus moves focus by delta panes, wrapping around
func (s *AppState) CycleFocus(delta int) {
	n := int(paneCount)
	s.Focus = Pane(((int(s.Focus)+delta)%n + n) % n)
}

// SetSession applies a new search snapshot. The result cursor returns to the
// top whenever a different page is shown.
func (s *AppState) SetSession(next search.Session) {
	if next.Query != s.Session.Query || next.Offset != s.Session.Offset {
		s.ResultIndex = 0
	}
	s.Session = next
	s.ResultIndex = clamp(s.ResultIndex, len(next.Results))
}

// SetHistory replaces the recent list and keeps the cursor in range
func (s *AppState) SetHistory(entries []string) {
	s.History = append(make([]string, 0, len(entries)), entries...)
	s.RecentIndex = clamp(s.RecentIndex, len(s.History))
}

// ResultAt returns the result at index
func (s *AppState) ResultAt(index int) (domain.SearchResult, bool) {
	if index < 0 || index >= len(s.Session.Results) {
		return domain.SearchResult{}, false
	}
	return s.Session.Results[index], true
}

// RecentAt returns the history entry at index
func (s *AppState) RecentAt(index int) (string, bool) {
	if index < 0 || index >= len(s.History) {
		return "", false
	}
	return s.History[index], true
}

// CurrentIndex returns the cursor of the focused pane
func (s *AppState) CurrentIndex() int {
	switch s.Focus {
	case PaneSearch:
		return s.ResultIndex
	case PaneRecent:
		return s.RecentIndex
	default:
		return 0
	}
}

// TotalItems returns the number of items in the focused pane
func (s *AppState) TotalItems() int {
	switch s.Focus {
	case PaneSearch:
		return len(s.Session.Results)
	case PaneRecent:
		return len(s.History)
	default:
		if s.Selected != nil {
			return 1
		}
		return 0
	}
}

// MoveCursor moves the focused pane's cursor by delta, clamped to the list
func (s *AppState) MoveCursor(delta int) {
	switch s.Focus {
	case PaneSearch:
		s.ResultIndex = clamp(s.ResultIndex+delta, len(s.Session.Results))
	case PaneRecent:
		s.RecentIndex = clamp(s.RecentIndex+delta, len(s.History))
	}
}

// SetCursor puts the focused pane's cursor at index, clamped to the list
func (s *AppState) SetCursor(index int) {
	switch s.Focus {
	case PaneSearch:
		s.ResultIndex = clamp(index, len(s.Session.Results))
	case PaneRecent:
		s.RecentIndex = clamp(index, len(s.History))
	}
}

// SelectedTitle returns the name of the mix in the player, empty when none
func (s *AppState) SelectedTitle() string {
	if s.Selected == nil {
		return ""
	}
	return s.Selected.AltText
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
