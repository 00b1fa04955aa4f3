package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"mixdeck/internal/ui/input/types"
	"mixdeck/internal/ui/state"
)

type NormalMode struct{}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyEsc:
		return nil, false

	case tea.KeyTab:
		return []types.Action{types.FocusAction{Delta: 1}}, true

	case tea.KeyShiftTab:
		return []types.Action{types.FocusAction{Delta: -1}}, true

	case tea.KeyUp:
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case tea.KeyDown:
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case tea.KeyLeft:
		return []types.Action{types.NavigateAction{Direction: "left"}}, true

	case tea.KeyRight:
		return []types.Action{types.NavigateAction{Direction: "right"}}, true

	case tea.KeyHome:
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case tea.KeyEnd:
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case tea.KeyEnter:
		return m.activate(ctx)
	}

	switch msg.String() {
	case "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case "h":
		return []types.Action{types.NavigateAction{Direction: "left"}}, true

	case "l":
		return []types.Action{types.NavigateAction{Direction: "right"}}, true

	case "g":
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case "G":
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case "/":
		return []types.Action{
			types.FocusPaneAction{Pane: state.PaneSearch},
			types.ChangeModeAction{Mode: types.ModeQuery},
		}, true

	case "n":
		if ctx.HasNextPage() && !ctx.IsLoading() {
			return []types.Action{types.NextPageAction{}}, true
		}
		return nil, true

	case "r":
		if ctx.HasError() && !ctx.IsLoading() {
			return []types.Action{types.RetryAction{}}, true
		}
		return nil, true

	case "v":
		return []types.Action{types.ToggleViewModeAction{}}, true

	case "p":
		if ctx.HasSelection() {
			return []types.Action{types.PlayAction{}}, true
		}
		return nil, true

	case "i":
		if ctx.HasSelection() {
			return []types.Action{types.ShowDetailsAction{}}, true
		}
		return nil, true

	case "c":
		if ctx.HistoryCount() > 0 {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeClearConfirm}}, true
		}
		return nil, true

	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true

	case "q":
		return []types.Action{types.QuitAction{Force: false}}, true
	}

	return nil, false
}

// activate is enter: its meaning depends on the focused pane
func (m *NormalMode) activate(ctx types.Context) ([]types.Action, bool) {
	switch ctx.FocusedPane() {
	case state.PaneSearch:
		if ctx.TotalItems() == 0 {
			// Nothing listed yet: start typing a query
			return []types.Action{types.ChangeModeAction{Mode: types.ModeQuery}}, true
		}
		return []types.Action{types.SelectResultAction{Index: ctx.CurrentIndex()}}, true
	case state.PanePlayer:
		if ctx.HasSelection() {
			return []types.Action{types.PlayAction{}}, true
		}
	case state.PaneRecent:
		if ctx.TotalItems() > 0 {
			return []types.Action{types.RecallAction{Index: ctx.CurrentIndex()}}, true
		}
	}
	return nil, true
}
