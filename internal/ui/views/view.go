package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"mixdeck/internal/animation"
	"mixdeck/internal/domain"
	"mixdeck/internal/search"
	"mixdeck/internal/ui/state"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width          int
	Height         int
	Title          string
	Focus          state.Pane
	InputMode      string // "normal", "query" or "clear-confirm"
	QueryLine      string // rendered text input while the query is edited
	Query          string
	Session        search.Session
	ResultIndex    int
	RecentIndex    int
	ViewMode       domain.ViewMode
	History        []string
	Selected       *domain.SelectedImage
	SelectedResult *domain.SearchResult
	Spinner        string
	StatusMessage  string
	StatusIsError  bool
	HelpModel      help.Model
	Keys           help.KeyMap
	Flight         *animation.Frame // nil when nothing is in flight
	FlightSource   int
}

// Renderer handles all view rendering
type Renderer struct {
	styles       *Styles
	resultRender *ResultRenderer
	popupRender  *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:       styles,
		resultRender: NewResultRenderer(styles),
		popupRender:  NewPopupRenderer(styles),
	}
}

// Render produces the complete view
func (r *Renderer) Render(vs ViewState) string {
	layout := NewLayout(vs.Width, vs.Height)

	searchPane := r.renderPane(r.renderSearch(vs, layout), layout.Search, vs.Focus == state.PaneSearch)
	playerPane := r.renderPane(r.renderPlayer(vs, Inner(layout.Player).W), layout.Player, vs.Focus == state.PanePlayer)
	recentPane := r.renderPane(r.renderRecent(vs, Inner(layout.Recent).W), layout.Recent, vs.Focus == state.PaneRecent)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		searchPane,
		lipgloss.JoinVertical(lipgloss.Left, playerPane, recentPane),
	)
	screen := strings.Join([]string{r.renderHeader(vs, layout), body, r.renderFooter(vs, layout)}, "\n")

	if vs.Flight != nil {
		screen = r.popupRender.RenderFlight(screen, *vs.Flight)
	}
	if vs.InputMode == "clear-confirm" {
		prompt := r.styles.Confirm.Render("Clear recent searches? (y/n)")
		screen = r.popupRender.RenderPopupOverlay(screen, prompt, layout.Height, layout.Width, r.styles.ConfirmBox)
	}
	return screen
}

// renderPane boxes content lines into rect, cutting what does not fit
func (r *Renderer) renderPane(lines []string, rect domain.Rect, focused bool) string {
	inner := Inner(rect)
	if len(lines) > inner.H {
		lines = lines[:inner.H]
	}
	style := r.styles.Pane
	if focused {
		style = r.styles.PaneFocused
	}
	return style.
		Width(max(rect.W-2, 0)).
		Height(inner.H).
		MaxWidth(rect.W).
		Render(strings.Join(lines, "\n"))
}

func (r *Renderer) renderHeader(vs ViewState, layout Layout) string {
	logo := r.styles.Title.Render("♫ " + vs.Title)
	right := r.styles.Dim.Render("[" + string(vs.ViewMode) + "]")
	gap := layout.Width - lipgloss.Width(logo) - lipgloss.Width(right)
	if gap < 1 {
		return logo
	}
	return logo + strings.Repeat(" ", gap) + right
}

func (r *Renderer) renderFooter(vs ViewState, layout Layout) string {
	status := ""
	if vs.StatusMessage != "" {
		style := r.styles.StatusSuccess
		if vs.StatusIsError {
			style = r.styles.StatusError
		}
		status = style.Render(truncate(vs.StatusMessage, layout.Width))
	}

	helpText := r.styles.Help.Render("Press ? for help")
	if vs.Keys != nil {
		hm := vs.HelpModel
		hm.Width = layout.Width
		helpText = hm.View(vs.Keys)
	}
	return status + "\n" + helpText
}
