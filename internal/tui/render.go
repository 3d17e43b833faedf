package tui

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/mort/internal/core/browse"
	"github.com/colonyops/mort/internal/core/catalog"
	"github.com/colonyops/mort/internal/core/ratematrix"
	"github.com/colonyops/mort/internal/core/styles"
)

const dash = ratematrix.Placeholder

// field is one key/value line of a definition list. Markdown values are
// rendered through glamour.
type field struct {
	key      string
	value    string
	markdown bool
}

func orDash(s *string) string {
	if s == nil {
		return dash
	}
	return *s
}

func classified(v *catalog.ClassifiedValue) string {
	if v == nil {
		return dash
	}
	return v.Label + " (" + v.Code + ")"
}

func classificationFields(c *catalog.Classification) []field {
	provider := "Unknown"
	if c.ProviderName != nil {
		provider = *c.ProviderName
	}
	fields := []field{
		{key: "Table Identity", value: orDash(c.TableIdentity)},
		{key: "Provider", value: provider},
		{key: "Domain", value: orDash(c.ProviderDomain)},
		{key: "Reference", value: orDash(c.TableReference)},
		{key: "Content Type", value: classified(c.ContentType)},
		{key: "Description", value: orDash(c.TableDescription), markdown: c.TableDescription != nil},
	}
	if c.Comments != nil && *c.Comments != "" {
		fields = append(fields, field{key: "Comments", value: *c.Comments, markdown: true})
	}
	if len(c.Keywords) > 0 {
		fields = append(fields, field{key: "Keywords", value: strings.Join(c.Keywords, ", ")})
	}
	return fields
}

func metadataFields(m *catalog.TableMeta) []field {
	fields := []field{
		{key: "Scaling Factor", value: orDash(m.ScalingFactor)},
		{key: "Data Type", value: classified(m.DataType)},
		{key: "Nation", value: classified(m.Nation)},
		{key: "Description", value: orDash(m.TableDescription)},
	}
	if len(m.Axes) > 0 {
		lines := make([]string, len(m.Axes))
		for i, a := range m.Axes {
			lines[i] = "• " + a.AxisName + " (" + a.ID + ") — " + a.MinValue + " to " + a.MaxValue +
				" step " + a.Increment + " (" + a.ScaleType.Label + ")"
		}
		fields = append(fields, field{key: "Axes", value: strings.Join(lines, "\n")})
	}
	return fields
}

// renderClassification renders the Classification tab.
func renderClassification(doc *catalog.ConvertedTable, width int) string {
	if doc.Classification == nil {
		return styles.MutedStyle.Render("No classification data.")
	}
	return renderFields(classificationFields(doc.Classification), width)
}

// renderMetadata renders the Metadata tab for the payload at pos.
func renderMetadata(doc *catalog.ConvertedTable, pos, width int) string {
	p := doc.Payload(pos)
	if p == nil || p.Metadata == nil {
		return styles.MutedStyle.Render("No metadata attached to this table.")
	}
	return renderFields(metadataFields(p.Metadata), width)
}

func renderFields(fields []field, width int) string {
	keyWidth := styles.KeyStyle.GetWidth()
	valueWidth := max(10, width-keyWidth)

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("\n")
		}
		value := f.value
		if f.markdown {
			value = renderMarkdown(value, valueWidth)
		} else {
			value = ansi.Wrap(value, valueWidth, " ")
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, styles.KeyStyle.Render(f.key), value))
	}
	return b.String()
}

// renderMarkdown renders text with the theme's glamour style, falling back
// to the raw text when rendering fails.
func renderMarkdown(text string, width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw content")
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render markdown, showing raw content")
		return text
	}
	return strings.Trim(out, "\n")
}

// renderRates renders the Rates tab body for the payload at pos.
func renderRates(doc *catalog.ConvertedTable, pos int, view browse.RateView) string {
	p := doc.Payload(pos)
	if p == nil || len(p.Rates) == 0 {
		return styles.MutedStyle.Render("No rates found for this table.")
	}
	if view == browse.ViewMatrix {
		m, ok := ratematrix.Build(p.Rates)
		if !ok {
			return styles.MutedStyle.Render("Matrix view is available only when durations are present.") +
				"\n" + rateList(p)
		}
		return rateTable(m.Header(), m.Rows())
	}
	return rateList(p)
}

func rateList(p *catalog.TablePayload) string {
	hasDuration := ratematrix.HasDuration(p)

	headers := []string{"Age"}
	if hasDuration {
		headers = append(headers, "Duration")
	}
	headers = append(headers, "Rate")

	rows := make([][]string, len(p.Rates))
	for i, r := range p.Rates {
		row := []string{ratematrix.FormatNumber(r.Age)}
		if hasDuration {
			d := dash
			if r.Duration != nil {
				d = ratematrix.FormatNumber(*r.Duration)
			}
			row = append(row, d)
		}
		rows[i] = append(row, ratematrix.FormatRate(r.Rate))
	}
	return rateTable(headers, rows)
}

func rateTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.TableBorderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TableHeaderStyle
			}
			if row >= 0 && col < len(rows[row]) && rows[row][col] == dash {
				return styles.PlaceholderStyle
			}
			return styles.TableCellStyle
		}).
		String()
}

// rateViewBar renders the list/matrix switch shown above the rates.
func rateViewBar(view browse.RateView, canMatrix bool) string {
	list := styles.TabInactiveStyle.Render("List")
	matrix := styles.TabInactiveStyle.Render("Matrix")
	switch {
	case view == browse.ViewList:
		list = styles.TabActiveStyle.Render("List")
	case view == browse.ViewMatrix:
		matrix = styles.TabActiveStyle.Render("Matrix")
	}
	if !canMatrix {
		matrix = styles.ButtonDisabledStyle.Render("Matrix")
	}
	return styles.LabelStyle.Render("Rates View") + "  " + list + " " + matrix
}

// tabBar renders the detail tabs with the active one highlighted.
func tabBar(active browse.Tab) string {
	parts := make([]string, len(browse.Tabs))
	for i, t := range browse.Tabs {
		label := t.String()
		if t == active {
			parts[i] = styles.TabActiveStyle.Render(label)
		} else {
			parts[i] = styles.TabInactiveStyle.Render(label)
		}
	}
	return strings.Join(parts, " ")
}

// truncate shortens s to width cells and pads it to exactly width.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "…")
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// RenderDocument renders the classification, the metadata of the payload
// at pos, and its rates one after another, for output outside the browser.
func RenderDocument(doc *catalog.ConvertedTable, pos int, view browse.RateView, width int) string {
	sections := []struct {
		title string
		body  string
	}{
		{"Classification", renderClassification(doc, width)},
		{"Metadata", renderMetadata(doc, pos, width)},
		{"Rates", renderRates(doc, pos, view)},
	}

	parts := make([]string, len(sections))
	for i, s := range sections {
		parts[i] = styles.CommandHeaderStyle.Render(s.title) + "\n" + s.body
	}
	return strings.Join(parts, "\n\n")
}
