package tui

import (
	"fmt"
	"strings"

	"github.com/colonyops/mort/internal/core/browse"
	"github.com/colonyops/mort/internal/core/catalog"
	"github.com/colonyops/mort/internal/core/export"
	"github.com/colonyops/mort/internal/core/selection"
	"github.com/colonyops/mort/internal/core/styles"
)

const (
	identityWidth = 12
	providerWidth = 18
	// cursor, checkbox, and the spaces between columns
	rowGutter = 9
	// rows used by title, search, toolbar, header, more line, status and help
	listChrome = 7
	// warnings shown before collapsing the rest into "+N more"
	shownWarnings = 3
)

func headerIcon(h selection.HeaderState) string {
	switch h {
	case selection.Checked:
		return styles.IconChecked
	case selection.Indeterminate:
		return styles.IconIndeterminate
	default:
		return styles.IconUnchecked
	}
}

// warningLines returns the warning panel rows.
func warningLines(warnings []string) []string {
	if len(warnings) == 0 {
		return nil
	}
	start := max(0, len(warnings)-shownWarnings)
	lines := make([]string, 0, shownWarnings+1)
	for _, w := range warnings[start:] {
		lines = append(lines, styles.IconWarning+" "+w)
	}
	if start > 0 {
		lines = append(lines, fmt.Sprintf("+%d more", start))
	}
	return lines
}

// listRows returns how many table rows fit on screen.
func (m Model) listRows() int {
	return max(1, m.height-listChrome-len(warningLines(m.ctrl.Warnings())))
}

func (m Model) renderList() string {
	var b strings.Builder
	width := max(40, m.width)

	count := fmt.Sprintf("%d tables", len(m.ctrl.Filtered()))
	b.WriteString(styles.TitleStyle.Render("MORT") + " " +
		styles.ModalTitleStyle.Render("Mortality Tables") + " " +
		styles.MutedStyle.Render("Search and inspect converted XTbML data • "+count))
	b.WriteString("\n")

	b.WriteString(m.search.View())
	b.WriteString("\n")

	b.WriteString(m.renderToolbar())
	b.WriteString("\n")

	nameWidth := max(10, width-identityWidth-providerWidth-rowGutter)
	b.WriteString(m.renderHeader(nameWidth))
	b.WriteString("\n")

	rows := m.ctrl.Rows()
	rendered := 0
	switch {
	case m.ctrl.CatalogErr() != nil:
		b.WriteString(styles.StatusErrorStyle.Render("  Unable to load catalog: " + m.ctrl.CatalogErr().Error()))
		b.WriteString("\n")
		rendered++
	case !m.ctrl.Loaded():
		b.WriteString("  " + m.spinner.View() + " Loading catalog…")
		b.WriteString("\n")
		rendered++
	case len(m.ctrl.Visible()) == 0:
		b.WriteString(styles.MutedStyle.Render("  No tables match “" + m.ctrl.Query() + "”."))
		b.WriteString("\n")
		rendered++
	default:
		visible := m.ctrl.Visible()
		end := min(len(visible), m.ctrl.Offset()+rows)
		for i := m.ctrl.Offset(); i < end; i++ {
			b.WriteString(m.renderRow(visible[i], i == m.ctrl.Cursor(), nameWidth))
			b.WriteString("\n")
			rendered++
		}
	}
	for ; rendered < rows; rendered++ {
		b.WriteString("\n")
	}

	if m.ctrl.HasMore() {
		b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("  Showing %d of %d • scroll for more",
			len(m.ctrl.Visible()), len(m.ctrl.Filtered()))))
	}
	b.WriteString("\n")

	for _, w := range warningLines(m.ctrl.Warnings()) {
		b.WriteString(styles.WarningStyle.Render("  " + truncate(w, width-2)))
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ListHelp()))

	return b.String()
}

func (m Model) renderHeader(nameWidth int) string {
	header := headerIcon(m.ctrl.HeaderState()) + " " +
		truncate("ID", identityWidth) + " " +
		truncate("Name", nameWidth) + " " +
		truncate("Provider", providerWidth)
	return "  " + styles.HeaderRowStyle.Render(header)
}

func (m Model) renderRow(s catalog.TableSummary, cursor bool, nameWidth int) string {
	icon := styles.IconUnchecked
	if m.ctrl.IsSelected(s.DetailPath) {
		icon = styles.IconChecked
	}

	name := s.Name
	if s.Summary != "" {
		name += "  " + styles.SummaryStyle.Render(s.Summary)
	}

	provider := s.Provider
	if m.ctrl.RowBusy(s.DetailPath) {
		provider = styles.BusyStyle.Render("CSV…")
	}

	line := icon + " " +
		styles.IdentityStyle.Render(truncate(s.TableIdentity, identityWidth)) + " " +
		truncate(name, nameWidth) + " " +
		truncate(provider, providerWidth)

	switch {
	case cursor:
		return styles.RowCursorStyle.Render(styles.IconCursor + " " + line)
	case m.ctrl.IsSelected(s.DetailPath):
		return "  " + styles.RowSelectedStyle.Render(line)
	default:
		return "  " + styles.RowStyle.Render(line)
	}
}

func (m Model) renderToolbar() string {
	selected := fmt.Sprintf("%d selected", m.ctrl.SelectedCount())
	enabled := m.ctrl.CanBulk()

	jsonLabel, csvLabel := "[J] JSON Zip", "[C] CSV Zip"
	switch m.ctrl.BulkRunning() {
	case export.JSON:
		jsonLabel = m.spinner.View() + " JSON Zip…"
	case export.CSV:
		csvLabel = m.spinner.View() + " CSV Zip…"
	}

	return styles.ToolbarStyle.Render(selected) + "  " +
		button(jsonLabel, enabled) + " " +
		button(csvLabel, enabled) + " " +
		button("[x] Clear", m.ctrl.SelectedCount() > 0)
}

func (m Model) renderStatus() string {
	n, ok := m.status.Current()
	if !ok {
		return ""
	}
	if n.Level == browse.LevelError {
		return styles.StatusErrorStyle.Render(n.Message)
	}
	return styles.StatusInfoStyle.Render(n.Message)
}
