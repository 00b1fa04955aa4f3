package views

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"mixdeck/internal/domain"
	"mixdeck/internal/mixcloud"
	"mixdeck/internal/ui/state"
)

func (r *Renderer) renderPlayer(vs ViewState, width int) []string {
	lines := []string{r.styles.PaneTitle.Render("Player"), ""}
	if vs.Selected == nil {
		return append(lines, r.styles.Dim.Render("Pick a search result to show its artwork, then press enter here to play it"))
	}
	img := vs.Selected

	lines = append(lines, r.styles.Confirm.Render(truncate(img.AltText, width)), "")
	artwork := img.LargeSrc
	if artwork == "" {
		artwork = img.ThumbnailSrc
	}
	lines = append(lines, r.field("Artwork", artwork, width))
	if res := vs.SelectedResult; res != nil {
		lines = append(lines,
			r.field("Plays", humanize.Comma(int64(res.PlayCount)), width),
			r.field("Favorites", humanize.Comma(int64(res.FavoriteCount)), width),
		)
	}
	lines = append(lines, "")

	if !img.Playable() {
		return append(lines, r.styles.Dim.Render("No playable link for this mix"))
	}
	lines = append(lines,
		r.field("Track", img.TrackURL, width),
		r.field("Widget", mixcloud.EmbedURL(img.TrackURL), width),
		"",
		r.styles.Highlight.Render("enter/p play")+r.styles.Dim.Render("  i details"),
	)
	return lines
}

func (r *Renderer) field(label, value string, width int) string {
	prefix := fmt.Sprintf("%-10s", label)
	return r.styles.Label.Render(prefix) + truncate(value, width-len(prefix))
}

func (r *Renderer) renderRecent(vs ViewState, width int) []string {
	lines := []string{r.styles.PaneTitle.Render("Recent"), ""}
	if len(vs.History) == 0 {
		return append(lines, r.styles.Dim.Render("No recent searches"))
	}
	focused := vs.Focus == state.PaneRecent
	for i, entry := range vs.History {
		text := truncate(entry, width-2)
		if focused && i == vs.RecentIndex {
			lines = append(lines, r.styles.Cursor.Render("▸ ")+r.styles.SelectionBg.Render(text))
			continue
		}
		lines = append(lines, "  "+text)
	}
	return lines
}

func (r *Renderer) renderSearch(vs ViewState, layout Layout) []string {
	inner := Inner(layout.Search)
	lines := []string{r.styles.PaneTitle.Render("Search")}

	queryLine := vs.QueryLine
	if queryLine == "" {
		if vs.Query == "" {
			queryLine = r.styles.Dim.Render("Search music... (/ to type)")
		} else {
			queryLine = truncate(vs.Query, inner.W-2)
		}
	}
	lines = append(lines, r.styles.Cursor.Render("› ")+queryLine)
	lines = append(lines, r.searchStatus(vs, inner.W))

	s := vs.Session
	focused := vs.Focus == state.PaneSearch
	dimmed := -1
	if vs.Flight != nil {
		dimmed = vs.FlightSource
	}
	if len(s.Results) > 0 {
		if vs.ViewMode == domain.ViewModeTile {
			lines = append(lines, r.resultRender.RenderTiles(s.Results, vs.ResultIndex, focused, dimmed, s.Query, layout.TileColumns())...)
		} else {
			lines = append(lines, r.resultRender.RenderList(s.Results, vs.ResultIndex, focused, dimmed, s.Query, inner.W)...)
		}
	}
	if s.HasNextPage {
		if s.IsLoading {
			lines = append(lines, r.styles.StatusLoading.Render("Loading..."))
		} else {
			lines = append(lines, r.styles.Highlight.Render("n")+r.styles.Dim.Render(" next page ›"))
		}
	}
	return lines
}

func (r *Renderer) searchStatus(vs ViewState, width int) string {
	s := vs.Session
	switch {
	case s.IsLoading:
		return r.styles.StatusLoading.Render(vs.Spinner + " Searching...")
	case s.Error != "":
		return r.styles.StatusError.Render(truncate(s.Error, width-14)) + r.styles.Dim.Render("  r to retry")
	case s.NotFound:
		return r.styles.StatusWarning.Render("No results found")
	case len(s.Results) > 0:
		return r.styles.Dim.Render(fmt.Sprintf("Results %d-%d", s.Offset+1, s.Offset+len(s.Results)))
	default:
		return ""
	}
}
