package ui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"mixdeck/internal/animation"
	"mixdeck/internal/config"
	"mixdeck/internal/domain"
	"mixdeck/internal/eventbus"
	"mixdeck/internal/history"
	"mixdeck/internal/mixcloud"
	"mixdeck/internal/search"
	"mixdeck/internal/storage"
	"mixdeck/internal/ui/input"
	inputtypes "mixdeck/internal/ui/input/types"
	"mixdeck/internal/ui/state"
	"mixdeck/internal/ui/views"
)

// ViewModeKey is the storage key of the list/tile preference
const ViewModeKey = "music-app-view-mode"

const (
	frameInterval = 33 * time.Millisecond
	statusTimeout = 3 * time.Second
	eventBuffer   = 100
)

// pendingSelection remembers which result a published selection came from
type pendingSelection struct {
	index  int
	result domain.SearchResult
}

// Model represents the UI state
type Model struct {
	ctx     context.Context
	bus     eventbus.EventBus
	config  *config.Config
	state   *state.AppState // centralized state
	ctrl    *search.Controller
	history *history.Manager
	store   *storage.Store

	// UI-specific state not in AppState
	width       int
	height      int
	help        help.Model
	keys        keyMap
	queryKeys   queryKeyMap
	spinner     spinner.Model
	spinning    bool
	inPagerMode bool // tracks if we're currently in pager mode
	windowTitle string

	renderer     *views.Renderer
	inputHandler *input.Handler
	helpRenderer *HelpRenderer
	pager        *PagerOps
	player       *PlayerOps
	animator     *animation.Animator
	pending      *pendingSelection

	// Messages posted by engine, history and bus callbacks
	events        chan tea.Msg
	unsubscribers []func()

	// Program reference for terminal management
	program *tea.Program
	now     func() time.Time
}

// NewModel creates a new UI model. Searches started from the UI run under ctx.
func NewModel(ctx context.Context, cfg *config.Config, bus eventbus.EventBus, ctrl *search.Controller, hist *history.Manager, store *storage.Store) *Model {
	viewMode := domain.ParseViewMode(storage.GetOr(store, ViewModeKey, cfg.UISettings.ViewModeDefault))
	appState := state.NewAppState(viewMode)
	appState.FlightSource = -1

	m := &Model{
		ctx:          ctx,
		bus:          bus,
		config:       cfg,
		state:        appState,
		ctrl:         ctrl,
		history:      hist,
		store:        store,
		help:         help.New(),
		keys:         newKeyMap(),
		queryKeys:    newQueryKeyMap(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		renderer:     views.NewRenderer(),
		inputHandler: input.New(),
		helpRenderer: NewHelpRenderer(),
		pager:        NewPagerOps(),
		player:       NewPlayerOps(cfg.PlayerCommand),
		animator:     &animation.Animator{},
		events:       make(chan tea.Msg, eventBuffer),
		now:          time.Now,
	}

	appState.Query = ctrl.Query()
	appState.SetSession(ctrl.Engine().Snapshot())
	appState.SetHistory(hist.List())
	m.windowTitle = WindowTitle(cfg.UISettings.BaseTitle, "")

	m.subscribe()
	return m
}

// subscribe routes engine, history, controller and bus callbacks into the update loop
func (m *Model) subscribe() {
	m.unsubscribers = append(m.unsubscribers,
		m.ctrl.Engine().Observe(func(search.Session) {
			m.forward(sessionChangedMsg{})
		}),
		m.history.OnChange(func([]string) {
			m.forward(historyChangedMsg{})
		}),
		m.store.Subscribe(ViewModeKey, func(c storage.Change) {
			var raw string
			if c.External && c.Decode(&raw) {
				m.forward(viewModeChangedMsg{mode: domain.ParseViewMode(raw)})
			}
		}),
		eventbus.SubscribeSelection(m.bus, func(image domain.SelectedImage, origin domain.Rect) {
			m.forward(selectionMsg{image: image, origin: origin})
		}),
		m.bus.Subscribe(eventbus.EventSearchCompleted, func(e eventbus.DomainEvent) {
			m.forward(EventMsg{Event: e})
		}),
	)
	m.ctrl.OnQueryChange(func(q string) {
		m.forward(queryChangedMsg{query: q})
	})
}

// forward posts msg without blocking the caller
func (m *Model) forward(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
		log.Printf("UI: event channel full, dropping %T", msg)
	}
}

// listen waits for the next forwarded message
func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		return forwardedMsg{msg: <-m.events}
	}
}

// Close stops all subscriptions
func (m *Model) Close() {
	for _, unsubscribe := range m.unsubscribers {
		unsubscribe()
	}
	m.unsubscribers = nil
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager.SetProgram(p)
	m.player.SetProgram(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.listen(), tea.SetWindowTitle(m.windowTitle))
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.inputHandler.SetWidth(views.Inner(views.NewLayout(m.width, m.height).Search).W - 4)
		return m, nil

	case tea.KeyMsg:
		ctx := &input.ModelContext{State: m.state}
		actions, cmd := m.inputHandler.HandleKey(msg, ctx)

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		return m, tea.Batch(cmds...)

	default:
		// Cursor blink while the query is edited
		if cmd := m.inputHandler.Update(msg); cmd != nil {
			return m, cmd
		}
		return m.handleNonKeyboardMsg(msg)
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	vs := views.ViewState{
		Width:          m.width,
		Height:         m.height,
		Title:          m.windowTitle,
		Focus:          m.state.Focus,
		InputMode:      m.inputHandler.ModeName(),
		Query:          m.state.Query,
		Session:        m.state.Session,
		ResultIndex:    m.state.ResultIndex,
		RecentIndex:    m.state.RecentIndex,
		ViewMode:       m.state.ViewMode,
		History:        m.state.History,
		Selected:       m.state.Selected,
		SelectedResult: m.state.SelectedResult,
		Spinner:        m.spinner.View(),
		StatusMessage:  m.state.StatusMessage,
		StatusIsError:  m.state.StatusIsError,
		HelpModel:      m.help,
		Keys:           m.keys,
		FlightSource:   m.state.FlightSource,
	}
	if ti := m.inputHandler.TextInput(); ti != nil {
		vs.QueryLine = ti.View()
		vs.Keys = m.queryKeys
	}
	if m.state.Animating {
		frame := m.state.Flight
		vs.Flight = &frame
	}
	return m.renderer.Render(vs)
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.navigate(a.Direction)

	case inputtypes.FocusAction:
		m.state.CycleFocus(a.Delta)

	case inputtypes.FocusPaneAction:
		m.state.Focus = a.Pane

	case inputtypes.UpdateTextAction:
		m.state.Query = a.Text
		m.ctrl.SetQuery(a.Text)

	case inputtypes.SubmitTextAction:
		m.state.Query = a.Text
		return m.submit(a.Text)

	case inputtypes.CancelTextAction:
		// The edited text stays in the field

	case inputtypes.SelectResultAction:
		m.selectResult(a.Index)

	case inputtypes.NextPageAction:
		ctx := m.ctx
		query := m.state.Session.Query
		return func() tea.Msg {
			return searchDoneMsg{query: query, ok: m.ctrl.NextPage(ctx), paged: true}
		}

	case inputtypes.RetryAction:
		ctx := m.ctx
		query := m.state.Session.Query
		return func() tea.Msg {
			return searchDoneMsg{query: query, ok: m.ctrl.Retry(ctx)}
		}

	case inputtypes.ToggleViewModeAction:
		m.state.ViewMode = m.state.ViewMode.Toggle()
		m.store.Set(ViewModeKey, string(m.state.ViewMode))

	case inputtypes.RecallAction:
		if query, ok := m.state.RecentAt(a.Index); ok {
			m.state.Focus = state.PaneSearch
			eventbus.PublishRecall(m.bus, query)
		}

	case inputtypes.ClearHistoryAction:
		m.history.Clear()
		return m.setStatus("Recent searches cleared", false)

	case inputtypes.PlayAction:
		return m.play()

	case inputtypes.ShowDetailsAction:
		if m.state.Selected != nil {
			return m.showPager(trackDetails(*m.state.Selected, m.state.SelectedResult))
		}

	case inputtypes.ToggleHelpAction:
		return m.showPager(m.helpRenderer.RenderHelpContent(m.config.UISettings.BaseTitle))

	case inputtypes.QuitAction:
		return tea.Quit
	}

	return nil
}

func (m *Model) navigate(direction string) {
	step := 1
	tiles := m.state.Focus == state.PaneSearch && m.state.ViewMode == domain.ViewModeTile
	if tiles {
		step = views.NewLayout(m.width, m.height).TileColumns()
	}

	switch direction {
	case "up":
		m.state.MoveCursor(-step)
	case "down":
		m.state.MoveCursor(step)
	case "left":
		if tiles {
			m.state.MoveCursor(-1)
		}
	case "right":
		if tiles {
			m.state.MoveCursor(1)
		}
	case "home":
		m.state.SetCursor(0)
	case "end":
		m.state.SetCursor(m.state.TotalItems() - 1)
	}
}

// submit runs a query from the first page. Blank queries never leave the UI.
func (m *Model) submit(query string) tea.Cmd {
	m.ctrl.SetQuery(query)
	if strings.TrimSpace(query) == "" {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return searchDoneMsg{query: query, ok: m.ctrl.Submit(ctx, query)}
	}
}

// selectResult publishes the result under the cursor. A selection made while
// the previous one is still flying is ignored.
func (m *Model) selectResult(index int) {
	if m.animator.Active() {
		return
	}
	res, ok := m.state.ResultAt(index)
	if !ok {
		return
	}
	origin := views.NewLayout(m.width, m.height).ResultRect(m.state.ViewMode, index)
	m.pending = &pendingSelection{index: index, result: res}
	eventbus.PublishSelection(m.bus, domain.NewSelectedImage(res), origin)
}

// startFlight begins the fly-over from origin to the player pane
func (m *Model) startFlight(image domain.SelectedImage, origin domain.Rect) tea.Cmd {
	player := views.NewLayout(m.width, m.height).Player
	intent := animation.NewSelectionIntent(origin, player, m.config.AnimationDuration())
	if !m.animator.Start(intent, image, m.now()) {
		log.Printf("UI: selection of %q ignored, animation running", image.AltText)
		return nil
	}

	m.state.Animating = true
	m.state.FlightSource = -1
	if p := m.pending; p != nil && matches(p.result, image) {
		m.state.FlightSource = p.index
	}
	return m.advanceFlight(m.now())
}

// advanceFlight moves the fly-over to now and lands it when done
func (m *Model) advanceFlight(now time.Time) tea.Cmd {
	frame, ok := m.animator.Frame(now)
	if !ok {
		return nil
	}
	if frame.Done || m.inPagerMode {
		return m.finishFlight()
	}
	m.state.Flight = frame
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// finishFlight shows the carried image in the player
func (m *Model) finishFlight() tea.Cmd {
	image, ok := m.animator.Finish()
	m.state.Animating = false
	m.state.Flight = animation.Frame{}
	m.state.FlightSource = -1
	if !ok {
		return nil
	}

	m.state.Selected = &image
	m.state.SelectedResult = nil
	if p := m.pending; p != nil && matches(p.result, image) {
		res := p.result
		m.state.SelectedResult = &res
	}
	m.pending = nil

	m.windowTitle = WindowTitle(m.config.UISettings.BaseTitle, image.AltText)
	return tea.SetWindowTitle(m.windowTitle)
}

func matches(res domain.SearchResult, image domain.SelectedImage) bool {
	return res.Title == image.AltText && res.SourceURL == image.TrackURL
}

// play launches the widget URL of the selection
func (m *Model) play() tea.Cmd {
	img := m.state.Selected
	if img == nil {
		return nil
	}
	if !img.Playable() {
		return m.setStatus("This mix has no playable link", true)
	}

	url := mixcloud.EmbedURL(img.TrackURL)
	m.bus.Publish(eventbus.PlaybackRequestedEvent{TrackURL: img.TrackURL, EmbedURL: url})
	log.Printf("UI: playing %s", img.TrackURL)

	program := m.program
	return func() tea.Msg {
		if program != nil {
			program.Send(pauseRenderingMsg{})
		}
		err := m.player.Play(url)
		if program != nil {
			program.Send(resumeRenderingMsg{})
		}
		return playerExitMsg{url: url, err: err}
	}
}

// showPager returns a command that shows content using the ov pager
func (m *Model) showPager(content string) tea.Cmd {
	program := m.program
	return func() tea.Msg {
		if program != nil {
			program.Send(pauseRenderingMsg{})
		}
		err := m.pager.Show(content)
		if program != nil {
			program.Send(resumeRenderingMsg{})
		}
		return pagerMsg{err: err}
	}
}

func (m *Model) setStatus(text string, isError bool) tea.Cmd {
	m.state.StatusMessage = text
	m.state.StatusIsError = isError
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// handleNonKeyboardMsg handles non-keyboard messages
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case forwardedMsg:
		_, cmd := m.handleNonKeyboardMsg(msg.msg)
		return m, tea.Batch(cmd, m.listen())

	case sessionChangedMsg:
		s := m.ctrl.Engine().Snapshot()
		m.state.SetSession(s)
		if s.IsLoading && !m.spinning {
			m.spinning = true
			return m, m.spinner.Tick
		}
		return m, nil

	case spinner.TickMsg:
		if !m.state.Session.IsLoading {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case historyChangedMsg:
		m.state.SetHistory(m.history.List())
		return m, nil

	case queryChangedMsg:
		m.state.Query = msg.query
		if m.inputHandler.TextInput() != nil {
			m.inputHandler.SetText(msg.query)
		}
		return m, nil

	case viewModeChangedMsg:
		m.state.ViewMode = msg.mode
		return m, nil

	case selectionMsg:
		return m, m.startFlight(msg.image, msg.origin)

	case frameMsg:
		return m, m.advanceFlight(time.Time(msg))

	case EventMsg:
		if e, ok := msg.Event.(eventbus.SearchCompletedEvent); ok && e.Err == nil && e.Count > 0 {
			return m, m.setStatus(fmt.Sprintf("%d mixes for %q", e.Count, e.Query), false)
		}
		return m, nil

	case searchDoneMsg:
		if !msg.ok {
			log.Printf("UI: search %q did not succeed", msg.query)
		}
		return m, nil

	case pagerMsg:
		if msg.err != nil {
			// Pager failed: log only; do not surface in status bar
			log.Printf("Pager failed: %v", msg.err)
		}
		return m, nil

	case playerExitMsg:
		if msg.err != nil {
			log.Printf("Player failed for %s: %v", msg.url, msg.err)
			return m, m.setStatus(fmt.Sprintf("Failed to start player: %v", msg.err), true)
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case clearStatusMsg:
		m.state.StatusMessage = ""
		m.state.StatusIsError = false
		return m, nil

	default:
		return m, nil
	}
}
