package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/lucasb-eyer/go-colorful"
)

// Glyphs used in list rows and the toolbar.
var (
	IconChecked       = "[x]"
	IconUnchecked     = "[ ]"
	IconIndeterminate = "[-]"
	IconCursor        = "▌"
	IconWarning       = "!"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports. Rebuilt by SetTheme.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style
	LabelStyle         lipgloss.Style

	// Catalog list.
	TitleStyle       lipgloss.Style
	SearchStyle      lipgloss.Style
	HeaderRowStyle   lipgloss.Style
	RowStyle         lipgloss.Style
	RowCursorStyle   lipgloss.Style
	RowSelectedStyle lipgloss.Style
	IdentityStyle    lipgloss.Style
	SummaryStyle     lipgloss.Style
	MutedStyle       lipgloss.Style
	BusyStyle        lipgloss.Style

	// Toolbar and status line.
	ToolbarStyle        lipgloss.Style
	ButtonStyle         lipgloss.Style
	ButtonDisabledStyle lipgloss.Style
	StatusInfoStyle     lipgloss.Style
	StatusErrorStyle    lipgloss.Style
	WarningStyle        lipgloss.Style

	// Detail modal.
	ModalStyle       lipgloss.Style
	ModalTitleStyle  lipgloss.Style
	ModalHelpStyle   lipgloss.Style
	EyebrowStyle     lipgloss.Style
	TabActiveStyle   lipgloss.Style
	TabInactiveStyle lipgloss.Style
	KeyStyle         lipgloss.Style
	TableHeaderStyle lipgloss.Style
	TableCellStyle   lipgloss.Style
	TableBorderStyle lipgloss.Style
	PlaceholderStyle lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	CommandHeaderStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	DividerStyle = lipgloss.NewStyle().Foreground(p.Muted)
	LabelStyle = lipgloss.NewStyle().Foreground(p.Secondary).Bold(true)

	TitleStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	SearchStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Surface).
		Padding(0, 1)
	HeaderRowStyle = lipgloss.NewStyle().Foreground(p.Muted).Bold(true)
	RowStyle = lipgloss.NewStyle().Foreground(p.Foreground)
	RowCursorStyle = lipgloss.NewStyle().Foreground(p.Foreground).Background(p.Surface)
	RowSelectedStyle = lipgloss.NewStyle().Foreground(p.Success)
	IdentityStyle = lipgloss.NewStyle().Foreground(p.Secondary)
	SummaryStyle = lipgloss.NewStyle().Foreground(p.Muted)
	MutedStyle = lipgloss.NewStyle().Foreground(p.Muted)
	BusyStyle = lipgloss.NewStyle().Foreground(p.Warning)

	ToolbarStyle = lipgloss.NewStyle().Foreground(p.Foreground)
	ButtonStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(p.Primary).
		Foreground(p.Background).
		Bold(true)
	ButtonDisabledStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(p.Surface).
		Foreground(p.Muted)
	StatusInfoStyle = lipgloss.NewStyle().Foreground(p.Success)
	StatusErrorStyle = lipgloss.NewStyle().Foreground(p.Error)
	WarningStyle = lipgloss.NewStyle().Foreground(p.Warning)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Foreground)
	ModalHelpStyle = lipgloss.NewStyle().Foreground(p.Muted).MarginTop(1)
	EyebrowStyle = lipgloss.NewStyle().Foreground(p.Muted).Italic(true)
	TabActiveStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(p.Background).
		Background(p.Primary).
		Bold(true)
	TabInactiveStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(p.Muted)
	KeyStyle = lipgloss.NewStyle().Foreground(p.Secondary).Width(16)
	TableHeaderStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true).Padding(0, 1)
	TableCellStyle = lipgloss.NewStyle().Foreground(p.Foreground).Padding(0, 1)
	TableBorderStyle = lipgloss.NewStyle().Foreground(p.Surface)
	PlaceholderStyle = lipgloss.NewStyle().Foreground(p.Muted).Padding(0, 1)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

func colorHexPtr(c color.Color) *string {
	if c == nil {
		return nil
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return nil
	}
	hex := cc.Hex()
	return &hex
}

// GlamourStyle returns a Glamour style config derived from the active theme.
// It is used to render classification descriptions and comments.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig
	p := CurrentPalette

	fg := colorHexPtr(p.Foreground)
	primary := colorHexPtr(p.Primary)
	secondary := colorHexPtr(p.Secondary)
	muted := colorHexPtr(p.Muted)

	cfg.Document.Color = fg
	cfg.Document.Margin = nil
	cfg.Paragraph.Color = fg
	cfg.Heading.Color = primary
	cfg.H1.Color = primary
	cfg.H1.BackgroundColor = nil
	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted
	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary
	cfg.Code.Color = secondary
	cfg.CodeBlock.Color = muted
	cfg.Table.Color = fg

	return cfg
}
