// Package convert provides the single capture conversion view for the TUI.
package convert

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/paperink/internal/core/domain"
	"github.com/custodia-labs/paperink/internal/core/ports/driving"
	"github.com/custodia-labs/paperink/internal/core/services"
)

// View is the conversion view: a path input, the last result and a status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.PathInput
	statusbar *status.Bar

	conversion driving.ConversionService
	settings   driving.SettingsService
	ctx        context.Context

	result     *domain.ConversionResult
	err        error
	converting bool
	focusInput bool

	width  int
	height int
	ready  bool
}

// NewView creates a new convert view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	conversion driving.ConversionService,
	settings driving.SettingsService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewPathInput(s),
		statusbar:  status.NewBar(s, km),
		conversion: conversion,
		settings:   settings,
		ctx:        context.Background(),
		focusInput: true,
		width:      80,
		height:     24,
	}
}

// WithContext sets the context conversions run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the convert view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ConversionCompleted:
		v.handleConversionCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.converting {
		return v, nil
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			path := v.input.Path()
			v.converting = true
			v.focusInput = false
			v.input.Blur()
			v.err = nil
			v.statusbar.SetState(status.StateConverting)
			return v, v.performConversion(path)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	if keymap.Matches(msg.String(), v.keymap.NewConversion) {
		v.Reset()
		return v, v.input.Focus()
	}
	return v, nil
}

// performConversion converts path with the saved settings.
func (v *View) performConversion(path string) tea.Cmd {
	return func() tea.Msg {
		if v.conversion == nil {
			return messages.ConversionCompleted{Input: path, Err: ErrNoConversionService}
		}
		if v.settings == nil {
			return messages.ConversionCompleted{Input: path, Err: ErrNoSettingsService}
		}

		settings, err := v.settings.Get()
		if err != nil {
			return messages.ConversionCompleted{Input: path, Err: fmt.Errorf("loading settings: %w", err)}
		}

		result, err := v.conversion.Convert(v.ctx, services.RequestFromSettings(path, *settings))
		return messages.ConversionCompleted{Input: path, Result: result, Err: err}
	}
}

func (v *View) handleConversionCompleted(msg messages.ConversionCompleted) {
	v.converting = false
	if msg.Err != nil {
		v.err = msg.Err
		v.result = nil
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.result = msg.Result
	v.statusbar.SetMessage("")
	v.statusbar.SetResult(msg.Result)
}

// View renders the convert view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("Convert"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}
	if v.result != nil {
		sections = append(sections, v.renderResult(), "")
	}

	sections = append(sections, v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderResult() string {
	r := v.result
	lines := []string{
		v.field("Model", r.ModelID),
		v.field("Strokes", fmt.Sprintf("%d (%d points)", r.StrokeCount, r.PointCount)),
		v.field("Ink", fmt.Sprintf("%s (%d bytes)", r.Outputs.Ink, r.InkBytes)),
		v.field("Template", fmt.Sprintf("%s (%dx%d)", r.Outputs.Template, r.TemplateWidth, r.TemplateHeight)),
	}
	if r.Outputs.CSV != "" {
		lines = append(lines, v.field("CSV", r.Outputs.CSV))
	}
	if r.Outputs.JSON != "" {
		lines = append(lines, v.field("JSON", r.Outputs.JSON))
	}
	if r.Cropped {
		lines = append(lines, v.styles.Muted.Render("Cropped to ink bounds"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *View) field(label, value string) string {
	return v.styles.Subtitle.Render(fmt.Sprintf("%-10s", label+":")) + v.styles.Normal.Render(value)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Result returns the last successful conversion.
func (v *View) Result() *domain.ConversionResult {
	return v.result
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Converting reports whether a conversion is running.
func (v *View) Converting() bool {
	return v.converting
}

// InputFocused returns whether the path input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// SetPath sets the path input value.
func (v *View) SetPath(path string) {
	v.input.SetValue(path)
}

// Reset returns the view to input mode.
func (v *View) Reset() {
	v.focusInput = true
	v.converting = false
	v.input.Focus()
	v.input.SetValue("")
	v.result = nil
	v.err = nil
	v.statusbar.Clear()
}
