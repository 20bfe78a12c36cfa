// Package styles holds the paperink TUI palette and the lipgloss styles
// the views render with.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/paperink/internal/core/domain"
)

// Theme is the colour palette. The defaults borrow from a ruled page
// written in blue ink.
type Theme struct {
	// Primary marks titles and the selected menu entry or history row.
	Primary lipgloss.Color

	// Secondary marks section headings such as "Outputs:" and table headers.
	Secondary lipgloss.Color

	// Foreground is body text.
	Foreground lipgloss.Color

	// Muted is for hints, paths and key help.
	Muted lipgloss.Color

	// Success, Warning and Error colour conversion outcomes and messages.
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	// Border frames the path input.
	Border lipgloss.Color

	// Bar is the status bar background.
	Bar lipgloss.Color
}

// DefaultTheme returns the ink on paper palette.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#3949AB"), // ink blue
		Secondary:  lipgloss.Color("#90CAF9"), // ruling blue
		Foreground: lipgloss.Color("#E8EAF6"), // paper
		Muted:      lipgloss.Color("#7986CB"), // faded ink
		Success:    lipgloss.Color("#A5D6A7"),
		Warning:    lipgloss.Color("#FFE082"),
		Error:      lipgloss.Color("#EF9A9A"),
		Border:     lipgloss.Color("#3F4463"),
		Bar:        lipgloss.Color("#16161E"),
	}
}

// Styles are the rendered styles shared by every view.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style

	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style

	// InputField frames the capture path on the convert view.
	InputField lipgloss.Style

	StatusBar lipgloss.Style
	Help      lipgloss.Style

	// TableHeader and TableSelected style the history table.
	TableHeader   lipgloss.Style
	TableSelected lipgloss.Style
}

// NewStyles builds styles from theme, or from DefaultTheme when nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	selected := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Foreground).
		Background(theme.Primary)

	return &Styles{
		theme: theme,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary),
		Normal:   lipgloss.NewStyle().Foreground(theme.Foreground),
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Selected: selected,

		Error:   lipgloss.NewStyle().Foreground(theme.Error),
		Success: lipgloss.NewStyle().Foreground(theme.Success),
		Warning: lipgloss.NewStyle().Foreground(theme.Warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),
		Help: lipgloss.NewStyle().Foreground(theme.Muted),

		TableHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(theme.Border).
			Padding(0, 1),
		TableSelected: selected,
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Status returns the style for a recorded conversion outcome.
func (s *Styles) Status(status domain.ConversionStatus) lipgloss.Style {
	switch status {
	case domain.ConversionSucceeded:
		return s.Success
	case domain.ConversionFailed:
		return s.Error
	default:
		return s.Muted
	}
}
