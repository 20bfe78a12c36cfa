// Package tui provides an interactive terminal user interface for paperink.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/paperink/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
type Ports struct {
	// Conversion runs paper to ink conversions.
	Conversion driving.ConversionService

	// History lists and clears recorded conversions.
	History driving.HistoryService

	// Settings reads and saves conversion settings.
	Settings driving.SettingsService

	// Inspect summarises written ink containers. Optional.
	Inspect driving.InspectService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Conversion == nil {
		return ErrMissingConversionService
	}
	if p.History == nil {
		return ErrMissingHistoryService
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
