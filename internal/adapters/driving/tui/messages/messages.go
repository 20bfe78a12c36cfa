// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/paperink/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewConvert converts a single paper capture.
	ViewConvert
	// ViewHistory lists recorded conversions.
	ViewHistory
	// ViewRecord shows one recorded conversion.
	ViewRecord
	// ViewSettings is the settings editor.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewConvert:
		return "convert"
	case ViewHistory:
		return "history"
	case ViewRecord:
		return "record"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// ConversionCompleted carries the outcome of a conversion.
type ConversionCompleted struct {
	Input  string
	Result *domain.ConversionResult
	Err    error
}

// HistoryLoaded carries recorded conversions, newest first.
type HistoryLoaded struct {
	Records []domain.ConversionRecord
	Err     error
}

// HistoryCleared signals the history was cleared.
type HistoryCleared struct {
	Removed int
	Err     error
}

// RecordSelected signals a history record was chosen for the detail view.
type RecordSelected struct {
	Record domain.ConversionRecord
}

// InkInspected carries the summary of a written ink container.
type InkInspected struct {
	Path    string
	Summary *domain.InkSummary
	Err     error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
