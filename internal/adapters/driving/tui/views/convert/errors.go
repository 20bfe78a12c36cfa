package convert

import "errors"

// Error definitions for the convert view.
var (
	// ErrNoConversionService indicates that no conversion service was provided.
	ErrNoConversionService = errors.New("conversion service is required")

	// ErrNoSettingsService indicates that no settings service was provided.
	ErrNoSettingsService = errors.New("settings service is required")
)
