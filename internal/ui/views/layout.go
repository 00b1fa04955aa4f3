package views

import (
	"mixdeck/internal/domain"
)

const (
	headerHeight = 1
	footerHeight = 2
	minBodyH     = 8

	// Lines above the first result: pane title, query, status
	searchHeaderLines = 3
	listRowHeight     = 2
	tileWidth         = 26
	tileHeight        = 4
)

// Layout is the screen split into the header, the three panes and the footer.
// Pane rects include their borders.
type Layout struct {
	Width  int
	Height int
	Header domain.Rect
	Search domain.Rect
	Player domain.Rect
	Recent domain.Rect
	Footer domain.Rect
}

// NewLayout splits a width x height screen. Search takes the left three fifths,
// Player and Recent share the right column.
func NewLayout(width, height int) Layout {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	bodyH := max(height-headerHeight-footerHeight, minBodyH)
	leftW := width * 3 / 5
	rightW := width - leftW
	playerH := bodyH * 3 / 5
	bodyY := headerHeight

	return Layout{
		Width:  width,
		Height: height,
		Header: domain.Rect{X: 0, Y: 0, W: width, H: headerHeight},
		Search: domain.Rect{X: 0, Y: bodyY, W: leftW, H: bodyH},
		Player: domain.Rect{X: leftW, Y: bodyY, W: rightW, H: playerH},
		Recent: domain.Rect{X: leftW, Y: bodyY + playerH, W: rightW, H: bodyH - playerH},
		Footer: domain.Rect{X: 0, Y: bodyY + bodyH, W: width, H: footerHeight},
	}
}

// Inner returns the content area of a pane, inside its border and padding
func Inner(r domain.Rect) domain.Rect {
	return domain.Rect{X: r.X + 2, Y: r.Y + 1, W: max(r.W-4, 0), H: max(r.H-2, 0)}
}

// TileColumns returns how many tiles fit across the search pane
func (l Layout) TileColumns() int {
	return max(Inner(l.Search).W/tileWidth, 1)
}

// ResultRect returns where result index is drawn in the search pane
func (l Layout) ResultRect(mode domain.ViewMode, index int) domain.Rect {
	inner := Inner(l.Search)
	top := inner.Y + searchHeaderLines
	if mode == domain.ViewModeTile {
		cols := l.TileColumns()
		return domain.Rect{
			X: inner.X + (index%cols)*tileWidth,
			Y: top + (index/cols)*tileHeight,
			W: tileWidth - 2,
			H: tileHeight - 1,
		}
	}
	return domain.Rect{X: inner.X, Y: top + index*listRowHeight, W: inner.W, H: listRowHeight}
}
