package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/views/convert"
	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/views/record"
	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/views/settings"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context service calls run under.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	menuView     *menu.View
	convertView  *convert.View
	historyView  *history.View
	recordView   *record.View
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		menuView:     menu.NewView(s),
		convertView:  convert.NewView(s, km, ports.Conversion, ports.Settings),
		historyView:  history.NewView(s, km, ports.History),
		recordView:   record.NewView(s, ports.Inspect),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.convertView.WithContext(ctx)
	a.historyView.WithContext(ctx)
	a.recordView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("paperink"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}
		return a, a.forward(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewConvert:
			a.convertView.Reset()
			return a, a.convertView.Init()
		case messages.ViewHistory:
			return a, a.historyView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewRecord, messages.ViewHelp:
		}
		return a, nil

	case messages.RecordSelected:
		a.recordView.SetRecord(msg.Record)
		a.currentView = messages.ViewRecord
		return a, a.recordView.Init()

	case messages.ConversionCompleted:
		a.err = msg.Err
		a.convertView, cmd = a.convertView.Update(msg)
		return a, cmd

	case messages.HistoryLoaded, messages.HistoryCleared:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.InkInspected:
		a.recordView, cmd = a.recordView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewConvert {
			a.convertView, cmd = a.convertView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

// forward passes msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewConvert:
		a.convertView, cmd = a.convertView.Update(msg)
	case messages.ViewHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case messages.ViewRecord:
		a.recordView, cmd = a.recordView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewConvert:
		return a.convertView.View()
	case messages.ViewHistory:
		return a.historyView.View()
	case messages.ViewRecord:
		return a.recordView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Convert:
  (type)      Path to a .paper file
  enter       Convert
  n           New conversion

History:
  j/k, ↑/↓    Navigate records
  enter       Record details
  r           Reload
  c           Clear history

Record:
  i           Inspect the written ink file

Settings:
  enter/→     Change setting
  ←           Step back
  d           Restore defaults

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.convertView.SetDimensions(width, height)
	a.historyView.SetDimensions(width, height)
	a.recordView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
