package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"mixdeck/internal/domain"
)

// ResultRenderer draws search results as list rows or tiles
type ResultRenderer struct {
	styles *Styles
}

// NewResultRenderer creates a new result renderer
func NewResultRenderer(styles *Styles) *ResultRenderer {
	return &ResultRenderer{styles: styles}
}

// RenderList renders one result per two-line row
func (r *ResultRenderer) RenderList(results []domain.SearchResult, cursor int, focused bool, dimmed int, query string, width int) []string {
	lines := make([]string, 0, len(results)*listRowHeight)
	for i, res := range results {
		selected := focused && i == cursor
		marker := "  "
		if selected {
			marker = r.styles.Cursor.Render("▸ ")
		}
		title := r.highlightMatch(truncate(res.Title, width-2), query, r.styles.Highlight, lipgloss.NewStyle())
		meta := r.styles.Label.Render("  " + truncate(r.counts(res)+"  "+res.ID, width-2))
		if i == dimmed {
			title = r.styles.Dim.Render(truncate(res.Title, width-2))
			meta = r.styles.Dim.Render("  " + truncate(r.counts(res), width-2))
		}
		if selected {
			title = r.styles.SelectionBg.Render(title)
		}
		lines = append(lines, marker+title, meta)
	}
	return lines
}

// RenderTiles renders results in a grid of cols tiles per row
func (r *ResultRenderer) RenderTiles(results []domain.SearchResult, cursor int, focused bool, dimmed int, query string, cols int) []string {
	var lines []string
	inner := tileWidth - 2
	for start := 0; start < len(results); start += cols {
		end := min(start+cols, len(results))
		rows := make([][]string, tileHeight-1)
		for i := start; i < end; i++ {
			res := results[i]
			style := r.styles.Tile
			border := "┃"
			if focused && i == cursor {
				style = r.styles.Cursor
				border = r.styles.Cursor.Render("┃")
			}
			if i == dimmed {
				style = r.styles.Dim
			}
			cells := []string{
				style.Render(pad(truncate(res.Title, inner), inner)),
				r.styles.Label.Render(pad(truncate(r.counts(res), inner), inner)),
				r.styles.Dim.Render(pad(truncate(res.Images.Pick(domain.ImageThumbnail), inner), inner)),
			}
			for row := range rows {
				rows[row] = append(rows[row], border+cells[row]+" ")
			}
		}
		for _, row := range rows {
			lines = append(lines, strings.Join(row, ""))
		}
		lines = append(lines, "")
	}
	return lines
}

func (r *ResultRenderer) counts(res domain.SearchResult) string {
	return fmt.Sprintf("▶ %s  ♥ %s", humanize.Comma(int64(res.PlayCount)), humanize.Comma(int64(res.FavoriteCount)))
}

// highlightMatch highlights matching text within a string
func (r *ResultRenderer) highlightMatch(text, query string, highlightStyle, normalStyle lipgloss.Style) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return normalStyle.Render(text)
	}
	lowerText := strings.ToLower(text)
	lowerQuery := strings.ToLower(query)

	index := strings.Index(lowerText, lowerQuery)
	// Lowercasing can change byte lengths; fall back to plain text then
	if index == -1 || len(lowerText) != len(text) {
		return normalStyle.Render(text)
	}

	before := text[:index]
	match := text[index : index+len(query)]
	after := text[index+len(query):]

	var result []string
	if before != "" {
		result = append(result, normalStyle.Render(before))
	}
	result = append(result, highlightStyle.Render(match))
	if after != "" {
		result = append(result, normalStyle.Render(after))
	}

	return strings.Join(result, "")
}

// truncate shortens s to width cells, adding an ellipsis when cut
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// pad fills s with spaces up to width cells
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}
