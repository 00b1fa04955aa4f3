package types

import "mixdeck/internal/ui/state"

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "left", "right", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// FocusAction cycles focus by Delta panes
type FocusAction struct {
	Delta int
}

func (a FocusAction) Type() string { return "focus" }

// FocusPaneAction focuses one pane directly
type FocusPaneAction struct {
	Pane state.Pane
}

func (a FocusPaneAction) Type() string { return "focus_pane" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Search pane actions
type SelectResultAction struct {
	Index int
}

func (a SelectResultAction) Type() string { return "select_result" }

type NextPageAction struct{}

func (a NextPageAction) Type() string { return "next_page" }

type RetryAction struct{}

func (a RetryAction) Type() string { return "retry" }

type ToggleViewModeAction struct{}

func (a ToggleViewModeAction) Type() string { return "toggle_view_mode" }

// Recent pane actions
type RecallAction struct {
	Index int
}

func (a RecallAction) Type() string { return "recall" }

type ClearHistoryAction struct{}

func (a ClearHistoryAction) Type() string { return "clear_history" }

// Player pane actions
type PlayAction struct{}

func (a PlayAction) Type() string { return "play" }

type ShowDetailsAction struct{}

func (a ShowDetailsAction) Type() string { return "show_details" }

// Other actions
type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
