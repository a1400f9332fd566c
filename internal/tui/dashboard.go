package tui

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"casedesk/internal/controller"
	"casedesk/internal/model"
	"casedesk/internal/store"
	"casedesk/internal/view"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

type promptKind int

const (
	promptNone promptKind = iota
	promptCaseID
	promptBarNumber
	promptDiscoveryType
)

func (k promptKind) label() string {
	switch k {
	case promptCaseID:
		return "Case id: "
	case promptBarNumber:
		return "Bar number: "
	case promptDiscoveryType:
		return "Discovery type: "
	default:
		return ""
	}
}

// opResultMsg reports a finished controller call.
type opResultMsg struct {
	status  string
	options []model.TemplateEntry
	// keepOptions leaves the listed options in place (text lookups for them).
	keepOptions bool
	detail      string
	err         error
}

type dashboard struct {
	ctx    context.Context
	ctrl   *controller.Controller
	app    *view.App
	engine *paneEngine
	nav    *navigator
	store  store.Store
	state  *store.TUIState
	logger *slog.Logger

	width  int
	height int

	prompt promptKind
	input  textinput.Model

	busy    bool
	status  string
	err     error
	options list.Model
	detail  string
}

func newDashboard(ctx context.Context, opts Options) (dashboard, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := view.DefaultConfig()
	if opts.Handler != nil {
		cfg.Handler = opts.Handler
	}
	nav := &navigator{state: opts.State, remote: opts.Remote}
	ctrl := controller.New(controller.Deps{
		Remote: opts.Remote,
		State:  opts.State,
		Nav:    nav,
		Logger: logger,
	})
	engine := newPaneEngine(opts.State)
	app := view.NewApp(engine, view.Models{Data: opts.State, Controller: ctrl}, cfg)
	nav.mu.Lock()
	nav.app = app
	nav.mu.Unlock()
	if err := app.OnReady(); err != nil {
		return dashboard{}, err
	}

	st, err := opts.Store.LoadTUIState()
	if err != nil {
		logger.Warn("load tui state", slog.String("error", err.Error()))
		st = &store.TUIState{Version: 1}
	}

	in := textinput.New()
	in.CharLimit = 128

	return dashboard{
		ctx:     ctx,
		ctrl:    ctrl,
		app:     app,
		engine:  engine,
		nav:     nav,
		store:   opts.Store,
		state:   st,
		logger:  logger.With(slog.String("component", "tui")),
		input:   in,
		options: newOptionList(),
		status:  "Ready.",
	}, nil
}

func (m dashboard) Init() tea.Cmd { return nil }

func (m dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		sizeOptionList(&m.options, m.paneWidth()-2)
		return m, nil

	case opResultMsg:
		m.busy = false
		m.err = msg.err
		if msg.err != nil {
			m.status = "Failed."
			return m, nil
		}
		m.status = msg.status
		if !msg.keepOptions {
			m.options.SetItems(optionItems(m.app.Config(), msg.options))
			m.options.Select(0)
			sizeOptionList(&m.options, m.paneWidth()-2)
		}
		m.detail = msg.detail
		return m, nil

	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.updatePrompt(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m dashboard) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}

	switch msg.String() {
	case "s":
		prefill := ""
		if len(m.state.RecentCaseIDs) > 0 {
			prefill = m.state.RecentCaseIDs[0]
		}
		return m.openPrompt(promptCaseID, prefill)
	case "a":
		return m.openPrompt(promptBarNumber, m.state.LastBarNumber)
	case "o":
		return m.openPrompt(promptDiscoveryType, m.state.LastDiscoveryType)
	case "c":
		return m.run(m.clearCase())
	case "i":
		return m.run(m.showCaseItems())
	case "r":
		return m.run(m.reload())
	case "t":
		labels := chosenLabels(m.options)
		if len(labels) == 0 {
			m.status = "No objection options listed (press o)."
			return m, nil
		}
		return m.run(m.objectionText(labels))
	case " ":
		toggleOption(&m.options)
		return m, nil
	}
	if len(m.options.Items()) > 0 {
		var cmd tea.Cmd
		m.options, cmd = m.options.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m dashboard) openPrompt(k promptKind, prefill string) (tea.Model, tea.Cmd) {
	m.prompt = k
	m.input.Prompt = k.label()
	m.input.SetValue(prefill)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m dashboard) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.prompt = promptNone
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		k := m.prompt
		v := strings.TrimSpace(m.input.Value())
		m.prompt = promptNone
		m.input.Blur()
		return m.submit(k, v)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m dashboard) submit(k promptKind, v string) (tea.Model, tea.Cmd) {
	switch k {
	case promptCaseID:
		if v == "" {
			m.status = "No case id entered."
			return m, nil
		}
		m.state.TouchCase(v)
		m.saveState()
		return m.run(m.setCase(v))
	case promptBarNumber:
		m.state.LastBarNumber = v
		m.saveState()
		return m.run(m.lookupAttorney(v))
	case promptDiscoveryType:
		m.state.LastDiscoveryType = v
		m.saveState()
		return m.run(m.objectionOptions(v))
	}
	return m, nil
}

func (m dashboard) run(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.busy = true
	m.err = nil
	m.status = "Working..."
	return m, cmd
}

func (m dashboard) saveState() {
	if err := m.store.SaveTUIState(m.state); err != nil {
		m.logger.Warn("save tui state", slog.String("error", err.Error()))
	}
}

// invoke runs a bound event through the view's configured handler.
func (m dashboard) invoke(ev controller.Event, t controller.Target) func() error {
	ctx, app := m.ctx, m.app
	return func() error {
		return app.Config().Invoke(ctx, ev, t, app.Models())
	}
}

func (m dashboard) setCase(id string) tea.Cmd {
	fire := m.invoke(controller.EventSetCase, controller.Target{controller.AttrID: id})
	return func() tea.Msg {
		return opResultMsg{status: "Case " + id + " selected.", err: fire()}
	}
}

func (m dashboard) clearCase() tea.Cmd {
	fire := m.invoke(controller.EventSetCase, controller.Target{controller.AttrID: ""})
	return func() tea.Msg {
		return opResultMsg{status: "Case cleared.", err: fire()}
	}
}

func (m dashboard) showCaseItems() tea.Cmd {
	fire, nav := m.invoke(controller.EventShowCaseItems, nil), m.nav
	return func() tea.Msg {
		if err := fire(); err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{status: "Case items: " + nav.Location()}
	}
}

func (m dashboard) reload() tea.Cmd {
	ctx, nav := m.ctx, m.nav
	return func() tea.Msg {
		return opResultMsg{status: "Reloaded.", err: nav.Reload(ctx)}
	}
}

func (m dashboard) lookupAttorney(bar string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		a, err := ctrl.LookupAttorney(ctx, bar, nil)
		if err != nil {
			return opResultMsg{err: err}
		}
		if a == nil {
			return opResultMsg{status: "No bar number entered."}
		}
		return opResultMsg{status: "Attorney " + bar + ".", detail: formatAttorney(a)}
	}
}

func (m dashboard) objectionOptions(discoveryType string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		entries, err := ctrl.ObjectionOptions(ctx, discoveryType, nil)
		if err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{
			status:  fmt.Sprintf("%d objection option(s) for %s. Press t for their text.", len(entries), discoveryType),
			options: entries,
		}
	}
}

func (m dashboard) objectionText(labels []string) tea.Cmd {
	ctx, ctrl, width := m.ctx, m.ctrl, m.paneWidth()
	n := ctrl.State().Snapshot().DiscoveryRequestNumber
	return func() tea.Msg {
		lk, err := ctrl.ObjectionText(ctx, labels, n, nil)
		if err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{
			status:      lk.Message,
			keepOptions: true,
			detail:      RenderMarkdown(TemplateMarkdown(lk.Entries), width),
		}
	}
}

// formatAttorney lists the attorney record one "key: value" per line, keys sorted.
func formatAttorney(a model.Attorney) string {
	keys := make([]string, 0, len(a))
	for k := range a {
		if k == "success" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %v\n", k, a[k])
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m dashboard) paneWidth() int {
	w := m.width - 4
	if w < 20 {
		w = 76
	}
	return w
}

func (m dashboard) View() string {
	w := m.paneWidth()

	caseText, _, err := m.engine.Text(view.RootCaseInformation)
	if err != nil {
		caseText = styleError().Render(err.Error())
	}
	header := stylePane(false).Width(w).Render(truncateLines(caseText, w-2))

	var body []string
	appText, _, err := m.engine.Text(view.RootApp)
	if err != nil {
		appText = styleError().Render(err.Error())
	}
	body = append(body, appText)

	status := m.status
	if m.err != nil {
		status = styleError().Render(m.err.Error())
	}
	body = append(body, "", status)

	if len(m.options.Items()) > 0 {
		body = append(body, "", m.options.View())
	}
	if m.detail != "" {
		body = append(body, "", m.detail)
	}
	if m.prompt != promptNone {
		body = append(body, "", m.input.View())
	}
	pane := stylePane(true).Width(w).Render(truncateLines(strings.Join(body, "\n"), w-2))

	title := styleTitle().Render("casedesk")
	help := styleMuted().Render("s set case · c clear · a attorney · o objections · space pick · t text · i items · r reload · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, title, header, pane, help)
}

func truncateLines(s string, width int) string {
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = ansi.Truncate(ln, width, "…")
	}
	return strings.Join(lines, "\n")
}
