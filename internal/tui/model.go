// Package tui implements the interactive catalog browser.
package tui

import (
	"context"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/mort/internal/core/browse"
	"github.com/colonyops/mort/internal/core/catalog"
	"github.com/colonyops/mort/internal/core/detail"
	"github.com/colonyops/mort/internal/core/export"
	"github.com/colonyops/mort/internal/core/styles"
)

// CatalogSource lists the catalog. Sources that also report scan warnings
// implement Warnings.
type CatalogSource interface {
	ListCatalog(ctx context.Context) ([]catalog.TableSummary, error)
}

type warner interface {
	Warnings() []string
}

// Deps are the services the TUI drives.
type Deps struct {
	Catalog  CatalogSource
	Store    *detail.Store
	Exporter *export.Exporter
}

// Options tunes the list.
type Options struct {
	Threshold       float64
	Batch           int
	ScrollThreshold int
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx  context.Context
	deps Deps
	ctrl *browse.Controller
	keys KeyMap

	search    textinput.Model
	searching bool
	spinner   spinner.Model
	help      help.Model
	status    *StatusController
	modal     *DetailModal

	width  int
	height int
}

// New creates the TUI model.
func New(ctx context.Context, deps Deps, opts Options) Model {
	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "Table name, provider, keywords…"
	inputStyles := textinput.DefaultStyles(true)
	inputStyles.Focused.Prompt = styles.LabelStyle
	inputStyles.Blurred.Prompt = styles.MutedStyle
	inputStyles.Cursor.Color = styles.CurrentPalette.Primary
	input.SetStyles(inputStyles)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.BusyStyle

	h := help.New()
	h.Styles.ShortKey = styles.MutedStyle
	h.Styles.ShortDesc = styles.MutedStyle
	h.Styles.ShortSeparator = styles.MutedStyle
	h.ShortSeparator = " • "

	return Model{
		ctx:  ctx,
		deps: deps,
		ctrl: browse.New(deps.Store, browse.Options{
			Threshold:       opts.Threshold,
			Batch:           opts.Batch,
			ScrollThreshold: opts.ScrollThreshold,
		}),
		keys:    DefaultKeyMap(),
		search:  input,
		spinner: s,
		help:    h,
		status:  NewStatusController(),
	}
}

// Controller exposes the browsing state, mostly for tests.
func (m Model) Controller() *browse.Controller {
	return m.ctrl
}

// Init loads the catalog and starts the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCatalog(), m.spinner.Tick)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.SetWidth(max(10, msg.Width-4))
		if m.modal != nil {
			m.modal.SetSize(msg.Width, msg.Height)
		}
		return m.dispatch(browse.Resized{Rows: m.listRows()})
	case browse.Event:
		return m.dispatch(msg)
	case statusTickMsg:
		m.status.Tick(statusTickInterval)
		if _, ok := m.status.Current(); ok {
			return m, scheduleStatusTick()
		}
		m.status.SetTicking(false)
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.modal != nil {
		return m.handleDetailKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleSearchKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "down":
		m.searching = false
		m.search.Blur()
		return m.dispatch(browse.CursorMoved{Delta: 1})
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	next, dcmd := m.dispatch(browse.QueryChanged{Query: m.search.Value()})
	return next, tea.Batch(cmd, dcmd)
}

func (m Model) handleListKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, k.Up):
		return m.dispatch(browse.CursorMoved{Delta: -1})
	case key.Matches(msg, k.Down):
		return m.dispatch(browse.CursorMoved{Delta: 1})
	case key.Matches(msg, k.PageUp):
		return m.dispatch(browse.CursorMoved{Delta: -m.ctrl.Rows()})
	case key.Matches(msg, k.PageDown):
		return m.dispatch(browse.CursorMoved{Delta: m.ctrl.Rows()})
	case key.Matches(msg, k.Top):
		return m.dispatch(browse.CursorJumped{})
	case key.Matches(msg, k.Bottom):
		return m.dispatch(browse.CursorJumped{End: true})
	case key.Matches(msg, k.ToggleRange):
		return m.dispatch(browse.RowToggled{Shift: true})
	case key.Matches(msg, k.Toggle):
		return m.dispatch(browse.RowToggled{})
	case key.Matches(msg, k.ToggleAll):
		return m.dispatch(browse.AllToggled{})
	case key.Matches(msg, k.Clear):
		return m.dispatch(browse.SelectionCleared{})
	case key.Matches(msg, k.Open):
		return m.dispatch(browse.RowOpened{})
	case key.Matches(msg, k.RowJSON):
		return m.dispatch(browse.ExportRequested{Op: browse.OpRowJSON})
	case key.Matches(msg, k.RowCSV):
		return m.dispatch(browse.ExportRequested{Op: browse.OpRowCSV})
	case key.Matches(msg, k.BulkJSON):
		return m.dispatch(browse.ExportRequested{Op: browse.OpBulk, Kind: export.JSON})
	case key.Matches(msg, k.BulkCSV):
		return m.dispatch(browse.ExportRequested{Op: browse.OpBulk, Kind: export.CSV})
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Close):
		return m.dispatch(browse.DetailClosed{})
	case key.Matches(msg, k.NextTab):
		return m.dispatch(browse.TabCycled{Delta: 1})
	case key.Matches(msg, k.PrevTab):
		return m.dispatch(browse.TabCycled{Delta: -1})
	case key.Matches(msg, k.Tab1):
		return m.dispatch(browse.TabSelected{Tab: browse.TabClassification})
	case key.Matches(msg, k.Tab2):
		return m.dispatch(browse.TabSelected{Tab: browse.TabMetadata})
	case key.Matches(msg, k.Tab3):
		return m.dispatch(browse.TabSelected{Tab: browse.TabRates})
	case key.Matches(msg, k.PrevTable):
		return m.dispatch(browse.PayloadPaged{Delta: -1})
	case key.Matches(msg, k.NextTable):
		return m.dispatch(browse.PayloadPaged{Delta: 1})
	case key.Matches(msg, k.Matrix):
		return m.dispatch(browse.RateViewToggled{})
	case key.Matches(msg, k.DetailJSON):
		return m.dispatch(browse.ExportRequested{Op: browse.OpDetailJSON})
	case key.Matches(msg, k.DetailCSV):
		return m.dispatch(browse.ExportRequested{Op: browse.OpDetailCSV})
	case key.Matches(msg, k.Up):
		m.modal.ScrollUp()
	case key.Matches(msg, k.Down):
		m.modal.ScrollDown()
	case key.Matches(msg, k.PageUp):
		m.modal.PageUp()
	case key.Matches(msg, k.PageDown):
		m.modal.PageDown()
	case key.Matches(msg, k.ScrollLeft):
		m.modal.ScrollLeft()
	case key.Matches(msg, k.ScrollRight):
		m.modal.ScrollRight()
	}
	return m, nil
}

// dispatch feeds ev to the controller and turns the resulting effects
// into commands.
func (m Model) dispatch(ev browse.Event) (Model, tea.Cmd) {
	cmds := m.perform(m.ctrl.Dispatch(ev))

	if rows := m.listRows(); rows != m.ctrl.Rows() {
		m.ctrl.Dispatch(browse.Resized{Rows: rows})
	}
	m.syncModal()

	return m, tea.Batch(cmds...)
}

func (m *Model) perform(effects []browse.Effect) []tea.Cmd {
	var cmds []tea.Cmd
	for _, eff := range effects {
		switch e := eff.(type) {
		case browse.LoadDetail:
			cmds = append(cmds, m.loadDetail(e.Ticket))
		case browse.RunExport:
			cmds = append(cmds, m.runExport(e))
		case browse.Notify:
			m.status.Push(e)
			cmds = append(cmds, m.ensureStatusTick())
		case browse.ScrollToTop:
			// the controller already reset cursor and offset
		}
	}
	return cmds
}

func (m *Model) syncModal() {
	if !m.ctrl.ModalOpen() {
		m.modal = nil
		return
	}
	if m.modal == nil {
		m.modal = NewDetailModal(m.width, m.height)
	}
	m.modal.Sync(m.ctrl)
}

func (m *Model) ensureStatusTick() tea.Cmd {
	if m.status.Ticking() {
		return nil
	}
	m.status.SetTicking(true)
	return scheduleStatusTick()
}

func scheduleStatusTick() tea.Cmd {
	return tea.Tick(statusTickInterval, func(time.Time) tea.Msg {
		return statusTickMsg{}
	})
}

// View renders the list with the detail modal on top when open.
func (m Model) View() tea.View {
	if m.width == 0 || m.height == 0 {
		return tea.NewView("")
	}
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	content := m.renderList()
	if m.modal != nil {
		box := m.modal.View(m.ctrl, m.spinner.View(), m.help.ShortHelpView(m.keys.DetailHelp()))
		content = m.modal.Overlay(content, box)
	}
	return content
}
