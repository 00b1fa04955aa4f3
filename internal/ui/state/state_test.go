package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mixdeck/internal/domain"
	"mixdeck/internal/search"
)

func page(query string, offset, n int) search.Session {
	results := make([]domain.SearchResult, n)
	for i := range results {
		results[i] = domain.SearchResult{ID: string(rune('a' + i))}
	}
	return search.Session{Query: query, Offset: offset, Results: results}
}

func TestCycleFocusWraps(t *testing.T) {
	s := NewAppState(domain.ViewModeList)
	assert.Equal(t, PaneSearch, s.Focus)

	s.CycleFocus(1)
	assert.Equal(t, PanePlayer, s.Focus)
	s.CycleFocus(1)
	assert.Equal(t, PaneRecent, s.Focus)
	s.CycleFocus(1)
	assert.Equal(t, PaneSearch, s.Focus)
	s.CycleFocus(-1)
	assert.Equal(t, PaneRecent, s.Focus)
	assert.Equal(t, "recent", s.Focus.String())
}

func TestSetSessionResetsCursorOnNewPage(t *testing.T) {
	s := NewAppState(domain.ViewModeList)
	s.SetSession(page("jazz", 0, 6))
	s.MoveCursor(4)
	assert.Equal(t, 4, s.ResultIndex)

	// Same page refreshed, e.g. loading flag flipped
	s.SetSession(page("jazz", 0, 6))
	assert.Equal(t, 4, s.ResultIndex)

	s.SetSession(page("jazz", 6, 2))
	assert.Equal(t, 0, s.ResultIndex)

	s.MoveCursor(5)
	assert.Equal(t, 1, s.ResultIndex, "clamped to the last result")

	s.SetSession(page("house", 0, 0))
	assert.Equal(t, 0, s.ResultIndex)
}

func TestCursorFollowsFocusedPane(t *testing.T) {
	s := NewAppState(domain.ViewModeList)
	s.SetSession(page("q", 0, 3))
	s.SetHistory([]string{"a", "b", "c", "d"})

	s.Focus = PaneRecent
	assert.Equal(t, 4, s.TotalItems())
	s.SetCursor(10)
	assert.Equal(t, 3, s.RecentIndex)
	assert.Equal(t, 0, s.ResultIndex)

	entry, ok := s.RecentAt(s.CurrentIndex())
	assert.True(t, ok)
	assert.Equal(t, "d", entry)

	s.SetHistory([]string{"a"})
	assert.Equal(t, 0, s.RecentIndex)

	s.Focus = PanePlayer
	assert.Equal(t, 0, s.TotalItems())
	s.Selected = &domain.SelectedImage{AltText: "Mix"}
	assert.Equal(t, 1, s.TotalItems())
	assert.Equal(t, "Mix", s.SelectedTitle())
}

func TestLookupsOutOfRange(t *testing.T) {
	s := NewAppState(domain.ViewModeTile)
	_, ok := s.ResultAt(0)
	assert.False(t, ok)
	_, ok = s.RecentAt(-1)
	assert.False(t, ok)
	assert.Empty(t, s.SelectedTitle())
}

func TestSetHistoryCopies(t *testing.T) {
	s := NewAppState(domain.ViewModeList)
	entries := []string{"a", "b"}
	s.SetHistory(entries)
	entries[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, s.History)
}
