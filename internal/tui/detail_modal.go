package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/mort/internal/core/browse"
	"github.com/colonyops/mort/internal/core/catalog"
	"github.com/colonyops/mort/internal/core/styles"
)

const (
	detailModalMaxWidth = 120
	detailModalMargin   = 4
	// border, padding, header, tabs, footer and help around the viewport
	detailModalChrome  = 14
	detailModalPadding = 6
	horizontalStep     = 8
)

// contentKey captures the controller state the modal body depends on.
type contentKey struct {
	doc     *catalog.ConvertedTable
	state   browse.DetailState
	tab     browse.Tab
	payload int
	view    browse.RateView
	width   int
}

// DetailModal shows one table's classification, metadata, and rates in a
// scrollable viewport over the list.
type DetailModal struct {
	viewport viewport.Model
	width    int
	height   int
	key      contentKey
	synced   bool
}

// NewDetailModal creates a modal sized for a width x height screen.
func NewDetailModal(width, height int) *DetailModal {
	m := &DetailModal{}
	m.viewport = viewport.New()
	m.SetSize(width, height)
	return m
}

// SetSize resizes the modal for a new screen size.
func (m *DetailModal) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.SetWidth(m.innerWidth())
	m.viewport.SetHeight(max(3, m.modalHeight()-detailModalChrome))
}

func (m *DetailModal) modalWidth() int {
	return max(20, min(m.width-detailModalMargin, detailModalMaxWidth))
}

func (m *DetailModal) modalHeight() int {
	return max(detailModalChrome+3, m.height-detailModalMargin/2)
}

func (m *DetailModal) innerWidth() int {
	return m.modalWidth() - detailModalPadding
}

// Sync rebuilds the body when the controller state it shows has changed.
// Switching tab, payload, or view scrolls back to the top.
func (m *DetailModal) Sync(ctrl *browse.Controller) {
	k := contentKey{
		doc:     ctrl.Detail(),
		state:   ctrl.DetailState(),
		tab:     ctrl.Tab(),
		payload: ctrl.Payload(),
		view:    ctrl.RateView(),
		width:   m.innerWidth(),
	}
	if m.synced && k == m.key {
		return
	}

	m.viewport.SetContent(m.body(ctrl))
	if !m.synced || k.doc != m.key.doc || k.tab != m.key.tab || k.payload != m.key.payload || k.view != m.key.view {
		m.viewport.GotoTop()
	}
	m.key = k
	m.synced = true
}

func (m *DetailModal) body(ctrl *browse.Controller) string {
	doc := ctrl.Detail()
	if doc == nil {
		return ""
	}
	width := m.innerWidth()
	switch ctrl.Tab() {
	case browse.TabMetadata:
		return renderMetadata(doc, ctrl.Payload(), width)
	case browse.TabRates:
		return rateViewBar(ctrl.RateView(), ctrl.CanUseMatrix()) + "\n\n" +
			renderRates(doc, ctrl.Payload(), ctrl.RateView())
	default:
		return renderClassification(doc, width)
	}
}

// ScrollUp scrolls the body up one line.
func (m *DetailModal) ScrollUp() { m.viewport.ScrollUp(1) }

// ScrollDown scrolls the body down one line.
func (m *DetailModal) ScrollDown() { m.viewport.ScrollDown(1) }

// PageUp scrolls the body up one page.
func (m *DetailModal) PageUp() { m.viewport.PageUp() }

// PageDown scrolls the body down one page.
func (m *DetailModal) PageDown() { m.viewport.PageDown() }

// ScrollLeft pans wide tables left.
func (m *DetailModal) ScrollLeft() { m.viewport.ScrollLeft(horizontalStep) }

// ScrollRight pans wide tables right.
func (m *DetailModal) ScrollRight() { m.viewport.ScrollRight(horizontalStep) }

// Content returns the body as last rendered.
func (m *DetailModal) Content() string {
	return m.viewport.GetContent()
}

// View renders the modal box.
func (m *DetailModal) View(ctrl *browse.Controller, spin, help string) string {
	open := ctrl.Open()
	if open == nil {
		return ""
	}
	doc := ctrl.Detail()

	provider := open.Provider
	if doc != nil && doc.Classification != nil && doc.Classification.ProviderName != nil {
		provider = *doc.Classification.ProviderName
	}

	width := m.innerWidth()
	lines := []string{
		styles.EyebrowStyle.Render("Table " + open.TableIdentity),
		styles.ModalTitleStyle.Render(truncate(open.Name, width)),
		styles.MutedStyle.Render(provider),
		"",
	}

	switch {
	case ctrl.DetailState() == browse.DetailLoading:
		lines = append(lines, spin+" Loading detail…")
	case ctrl.DetailState() == browse.DetailFailed:
		lines = append(lines, styles.StatusErrorStyle.Render("Unable to load detail."))
	case doc != nil:
		scroll := ""
		if m.viewport.TotalLineCount() > m.viewport.VisibleLineCount() {
			scroll = styles.MutedStyle.Render(fmt.Sprintf("  %.0f%%", m.viewport.ScrollPercent()*100))
		}
		lines = append(lines,
			tabBar(ctrl.Tab())+scroll,
			"",
			m.viewport.View(),
			"",
			m.footer(ctrl),
		)
	}

	lines = append(lines, styles.ModalHelpStyle.Render(help))

	return styles.ModalStyle.
		Width(m.modalWidth()).
		Render(strings.Join(lines, "\n"))
}

func (m *DetailModal) footer(ctrl *browse.Controller) string {
	n := ctrl.PayloadCount()
	pos := ctrl.Payload()

	label := "No rate tables"
	if n > 0 {
		label = fmt.Sprintf("Table %d of %d", pos+1, n)
	}

	prev := button("‹ Prev Table", n > 0 && pos > 0)
	next := button("Next Table ›", n > 0 && pos < n-1)
	jsonBtn := button("[d] JSON", ctrl.Open() != nil)
	csvBtn := button("[c] CSV", ctrl.CanExportDetailCSV())

	return prev + " " + styles.MutedStyle.Render(label) + " " + next + "   " + jsonBtn + " " + csvBtn
}

func button(label string, enabled bool) string {
	if enabled {
		return styles.ButtonStyle.Render(label)
	}
	return styles.ButtonDisabledStyle.Render(label)
}

// Overlay renders the modal centered over the background.
func (m *DetailModal) Overlay(background, modal string) string {
	bgLayer := lipgloss.NewLayer(background)
	modalLayer := lipgloss.NewLayer(modal)

	centerX := max(0, (m.width-lipgloss.Width(modal))/2)
	centerY := max(0, (m.height-lipgloss.Height(modal))/2)
	modalLayer.X(centerX).Y(centerY).Z(1)

	return lipgloss.NewCompositor(bgLayer, modalLayer).Render()
}
