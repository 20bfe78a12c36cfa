// Package settings provides the settings editor view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/paperink/internal/core/domain"
	"github.com/custodia-labs/paperink/internal/core/ports/driving"
)

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionLayout
)

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
	keyLeft  = "left"
	keyRight = "right"
)

// dpiStep is the template DPI change per key press.
const dpiStep = 24

var errNoSettingsService = errors.New("settings service not available")

// item is one editable setting.
type item struct {
	label string
	value func(s *domain.AppSettings) string
	// change applies a step in direction dir (+1 or -1).
	change func(s *domain.AppSettings, dir int)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func items() []item {
	return []item{
		{
			label:  "Crop ink",
			value:  func(s *domain.AppSettings) string { return yesNo(s.Parser.CroppingInk) },
			change: func(s *domain.AppSettings, _ int) { s.Parser.CroppingInk = !s.Parser.CroppingInk },
		},
		{
			label: "Crop offset",
			value: func(s *domain.AppSettings) string { return fmt.Sprintf("%d DIP", s.Parser.CroppingOffset) },
			change: func(s *domain.AppSettings, dir int) {
				s.Parser.CroppingOffset = max(s.Parser.CroppingOffset+dir, 0)
			},
		},
		{
			label: "Template DPI",
			value: func(s *domain.AppSettings) string { return fmt.Sprintf("%d", s.Parser.TemplateDPI) },
			change: func(s *domain.AppSettings, dir int) {
				dpi := s.Parser.TemplateDPI + dir*dpiStep
				s.Parser.TemplateDPI = min(max(dpi, domain.MinTemplateDPI), domain.MaxTemplateDPI)
			},
		},
		{
			label: "Compression",
			value: func(s *domain.AppSettings) string { return s.Encoder.Compression.Description() },
			change: func(s *domain.AppSettings, dir int) {
				s.Encoder.Compression = cycle(domain.AllCompressions(), s.Encoder.Compression, dir)
			},
		},
		{
			label:  "CSV export",
			value:  func(s *domain.AppSettings) string { return yesNo(s.Export.CSV) },
			change: func(s *domain.AppSettings, _ int) { s.Export.CSV = !s.Export.CSV },
		},
		{
			label:  "JSON export",
			value:  func(s *domain.AppSettings) string { return yesNo(s.Export.JSON) },
			change: func(s *domain.AppSettings, _ int) { s.Export.JSON = !s.Export.JSON },
		},
		{
			label:  "Overlay ink",
			value:  func(s *domain.AppSettings) string { return yesNo(s.Export.OverlayInk) },
			change: func(s *domain.AppSettings, _ int) { s.Export.OverlayInk = !s.Export.OverlayInk },
		},
		{
			label:  "History",
			value:  func(s *domain.AppSettings) string { return yesNo(s.History.Enabled) },
			change: func(s *domain.AppSettings, _ int) { s.History.Enabled = !s.History.Enabled },
		},
		{
			label: "CSV layout",
			value: func(s *domain.AppSettings) string { return joinLayout(s.Export.CSVLayout) },
		},
	}
}

// layoutItem is the index of the CSV layout item, edited in its own section.
const layoutItem = 8

func cycle(all []domain.Compression, current domain.Compression, dir int) domain.Compression {
	for i, c := range all {
		if c == current {
			return all[(i+dir+len(all))%len(all)]
		}
	}
	return all[0]
}

func joinLayout(layout []domain.StrokeAttribute) string {
	return strings.Join(domain.LayoutNames(layout), ",")
}

// View is the settings editor view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService
	items           []item

	settings *domain.AppSettings
	err      error

	section  Section
	selected int

	layoutInput textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	layoutInput := textinput.New()
	layoutInput.Placeholder = joinLayout(domain.DefaultCSVLayout())
	layoutInput.CharLimit = 256
	layoutInput.Width = 60

	return &View{
		styles:          s,
		settingsService: settingsService,
		items:           items(),
		section:         SectionOverview,
		layoutInput:     layoutInput,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: errNoSettingsService}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// save persists s and reports the outcome.
func (v *View) save(s domain.AppSettings) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: errNoSettingsService}
		}
		return messages.SettingsSaved{Err: v.settingsService.Save(&s)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		if v.section == SectionLayout {
			v.section = SectionOverview
			v.layoutInput.Blur()
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.section == SectionLayout {
		return v.handleLayoutKeys(msg)
	}
	return v.handleOverviewKeys(msg)
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(v.items)-1 {
			v.selected++
		}
	case keyEnter, " ", keyRight, "l":
		return v, v.apply(+1)
	case keyLeft, "h":
		return v, v.apply(-1)
	case "d":
		if v.settingsService != nil {
			return v, v.save(v.settingsService.GetDefaults())
		}
	}
	return v, nil
}

// apply changes the selected setting and saves the result.
func (v *View) apply(dir int) tea.Cmd {
	if v.settings == nil {
		return nil
	}
	if v.selected == layoutItem {
		v.section = SectionLayout
		v.layoutInput.SetValue(joinLayout(v.settings.Export.CSVLayout))
		return v.layoutInput.Focus()
	}

	updated := *v.settings
	updated.Export.CSVLayout = append([]domain.StrokeAttribute(nil), v.settings.Export.CSVLayout...)
	v.items[v.selected].change(&updated, dir)
	return v.save(updated)
}

func (v *View) handleLayoutKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() != keyEnter {
		var cmd tea.Cmd
		v.layoutInput, cmd = v.layoutInput.Update(msg)
		return v, cmd
	}

	layout, err := domain.ParseStrokeLayout(strings.Split(v.layoutInput.Value(), ","))
	if err != nil {
		v.err = err
		return v, nil
	}

	updated := *v.settings
	updated.Export.CSVLayout = layout
	v.section = SectionOverview
	v.layoutInput.Blur()
	return v, v.save(updated)
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionLayout:
		b.WriteString(v.renderLayout())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder

	for i, it := range v.items {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}
		line := fmt.Sprintf("%s%-14s %s", indicator, it.label+":", it.value(v.settings))
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if err := v.settings.Validate(); err != nil {
		b.WriteString(v.styles.Warning.Render("Warning: " + err.Error()))
	} else {
		b.WriteString(v.styles.Success.Render("Configuration is valid"))
	}
	b.WriteString("\n")
	return b.String()
}

func (v *View) renderLayout() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("CSV column layout"))
	b.WriteString("\n\n")
	b.WriteString(v.layoutInput.View())
	b.WriteString("\n\n")

	names := domain.LayoutNames(domain.AllStrokeAttributes())
	b.WriteString(v.styles.Muted.Render("Attributes: " + strings.Join(names, ", ")))
	b.WriteString("\n")
	return b.String()
}

func (v *View) renderHelp() string {
	if v.section == SectionLayout {
		return v.styles.Help.Render("[enter] save  [esc] cancel")
	}
	return v.styles.Help.Render("[j/k] navigate  [enter/→] change  [←] back a step  [d] defaults  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.section = SectionOverview
	v.selected = 0
	v.err = nil
	v.layoutInput.SetValue("")
	v.layoutInput.Blur()
}
