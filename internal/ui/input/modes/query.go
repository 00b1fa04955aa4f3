package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"mixdeck/internal/ui/input/types"
)

// QueryMode edits the search query. The field starts from the current query
// rather than empty.
type QueryMode struct {
	TextInputMode
}

func NewQueryMode(ti *textinput.Model) *QueryMode {
	return &QueryMode{
		TextInputMode: NewTextInputMode(types.ModeQuery, "query", ti),
	}
}

func (m *QueryMode) Enter(ctx types.Context) []types.Action {
	actions := m.TextInputMode.Enter(ctx)
	if m.textInput != nil {
		m.textInput.SetValue(ctx.Query())
		m.textInput.CursorEnd()
	}
	return actions
}
