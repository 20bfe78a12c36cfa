package mcp

import (
	"github.com/custodia-labs/paperink/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Conversion runs paper to ink conversions.
	Conversion driving.ConversionService

	// Settings supplies defaults for tool arguments that are omitted.
	Settings driving.SettingsService

	// Inspect reads ink containers back.
	Inspect driving.InspectService

	// History exposes recorded conversions. Optional.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Conversion == nil {
		return ErrMissingConversionService
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	if p.Inspect == nil {
		return ErrMissingInspectService
	}
	return nil
}
