package services

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/paperink/internal/core/domain"
	"github.com/custodia-labs/paperink/internal/core/ports/driven"
	"github.com/custodia-labs/paperink/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyCroppingInk    = "parser.cropping_ink"
	keyCroppingOffset = "parser.cropping_offset"
	keyTemplateDPI    = "parser.template_dpi"
	keyCompression    = "encoder.compression"
	keyExportCSV      = "export.csv"
	keyExportJSON     = "export.json"
	keyCSVLayout      = "export.csv_layout"
	keyOverlayInk     = "export.overlay_ink"
	keyOutputDir      = "output.dir"
	keyInkFile        = "output.ink_file"
	keyTemplateFile   = "output.template_file"
	keyCSVFile        = "output.csv_file"
	keyJSONFile       = "output.json_file"
	keyHistory        = "history.enabled"
	keyWatchInterval  = "watch.min_interval"
)

// settingKind is the value type of a config key.
type settingKind int

const (
	kindBool settingKind = iota
	kindInt
	kindString
	kindCompression
	kindLayout
	kindDuration
)

// settingKinds lists every recognised key.
var settingKinds = map[string]settingKind{
	keyCroppingInk:    kindBool,
	keyCroppingOffset: kindInt,
	keyTemplateDPI:    kindInt,
	keyCompression:    kindCompression,
	keyExportCSV:      kindBool,
	keyExportJSON:     kindBool,
	keyCSVLayout:      kindLayout,
	keyOverlayInk:     kindBool,
	keyOutputDir:      kindString,
	keyInkFile:        kindString,
	keyTemplateFile:   kindString,
	keyCSVFile:        kindString,
	keyJSONFile:       kindString,
	keyHistory:        kindBool,
	keyWatchInterval:  kindDuration,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings. Missing or malformed
// values fall back to their defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Parser: domain.ParserSettings{
			CroppingInk:    s.getBool(keyCroppingInk, defaults.Parser.CroppingInk),
			CroppingOffset: s.getInt(keyCroppingOffset, defaults.Parser.CroppingOffset),
			TemplateDPI:    s.getInt(keyTemplateDPI, defaults.Parser.TemplateDPI),
		},
		Encoder: domain.EncoderSettings{
			Compression: s.getCompression(defaults.Encoder.Compression),
		},
		Export: domain.ExportSettings{
			CSV:        s.getBool(keyExportCSV, defaults.Export.CSV),
			JSON:       s.getBool(keyExportJSON, defaults.Export.JSON),
			CSVLayout:  s.getLayout(defaults.Export.CSVLayout),
			OverlayInk: s.getBool(keyOverlayInk, defaults.Export.OverlayInk),
		},
		Output: domain.OutputSettings{
			Dir:          s.getString(keyOutputDir, defaults.Output.Dir),
			InkFile:      s.getString(keyInkFile, defaults.Output.InkFile),
			TemplateFile: s.getString(keyTemplateFile, defaults.Output.TemplateFile),
			CSVFile:      s.getString(keyCSVFile, defaults.Output.CSVFile),
			JSONFile:     s.getString(keyJSONFile, defaults.Output.JSONFile),
		},
		History: domain.HistorySettings{
			Enabled: s.getBool(keyHistory, defaults.History.Enabled),
		},
		Watch: domain.WatchSettings{
			MinInterval: s.getDuration(keyWatchInterval, defaults.Watch.MinInterval),
		},
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keyCroppingInk, settings.Parser.CroppingInk},
		{keyCroppingOffset, settings.Parser.CroppingOffset},
		{keyTemplateDPI, settings.Parser.TemplateDPI},
		{keyCompression, settings.Encoder.Compression.String()},
		{keyExportCSV, settings.Export.CSV},
		{keyExportJSON, settings.Export.JSON},
		{keyCSVLayout, domain.LayoutNames(settings.Export.CSVLayout)},
		{keyOverlayInk, settings.Export.OverlayInk},
		{keyOutputDir, settings.Output.Dir},
		{keyInkFile, settings.Output.InkFile},
		{keyTemplateFile, settings.Output.TemplateFile},
		{keyCSVFile, settings.Output.CSVFile},
		{keyJSONFile, settings.Output.JSONFile},
		{keyHistory, settings.History.Enabled},
		{keyWatchInterval, settings.Watch.MinInterval.String()},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses value for key, checks the resulting settings and stores it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrNotFound)
	}

	typed, err := parseSetting(kind, value)
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	// Validate against the full settings before persisting.
	settings, err := s.Get()
	if err != nil {
		return err
	}
	apply(settings, key, typed)
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Reset removes a stored setting so its default applies again.
func (s *SettingsService) Reset(key string) error {
	if _, ok := settingKinds[key]; !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrNotFound)
	}
	return s.configStore.Delete(key)
}

// Keys returns all recognised config keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// parseSetting converts a command line value into the stored type.
func parseSetting(kind settingKind, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch kind {
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean: %w", value, domain.ErrInvalidInput)
		}
		return b, nil
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer: %w", value, domain.ErrInvalidInput)
		}
		return n, nil
	case kindCompression:
		c := domain.Compression(strings.ToLower(value))
		if !c.IsValid() {
			return nil, fmt.Errorf("compression %q: %w", value, domain.ErrUnsupportedType)
		}
		return c.String(), nil
	case kindLayout:
		if value == "" {
			return nil, domain.ErrEmptyLayout
		}
		layout, err := domain.ParseStrokeLayout(strings.Split(value, ","))
		if err != nil {
			return nil, err
		}
		return domain.LayoutNames(layout), nil
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("%q is not a duration: %w", value, domain.ErrInvalidInput)
		}
		return d.String(), nil
	default:
		return value, nil
	}
}

// apply sets one typed value on settings.
func apply(settings *domain.AppSettings, key string, value any) {
	switch key {
	case keyCroppingInk:
		settings.Parser.CroppingInk = value.(bool)
	case keyCroppingOffset:
		settings.Parser.CroppingOffset = value.(int)
	case keyTemplateDPI:
		settings.Parser.TemplateDPI = value.(int)
	case keyCompression:
		settings.Encoder.Compression = domain.Compression(value.(string))
	case keyExportCSV:
		settings.Export.CSV = value.(bool)
	case keyExportJSON:
		settings.Export.JSON = value.(bool)
	case keyCSVLayout:
		// Names were produced by ParseStrokeLayout.
		layout, _ := domain.ParseStrokeLayout(value.([]string))
		settings.Export.CSVLayout = layout
	case keyOverlayInk:
		settings.Export.OverlayInk = value.(bool)
	case keyOutputDir:
		settings.Output.Dir = value.(string)
	case keyInkFile:
		settings.Output.InkFile = value.(string)
	case keyTemplateFile:
		settings.Output.TemplateFile = value.(string)
	case keyCSVFile:
		settings.Output.CSVFile = value.(string)
	case keyJSONFile:
		settings.Output.JSONFile = value.(string)
	case keyHistory:
		settings.History.Enabled = value.(bool)
	case keyWatchInterval:
		d, _ := time.ParseDuration(value.(string))
		settings.Watch.MinInterval = d
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getInt treats a stored zero as a real value; cropping_offset may be 0.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getCompression(defaultVal domain.Compression) domain.Compression {
	val := s.configStore.GetString(keyCompression)
	if val == "" {
		return defaultVal
	}
	c := domain.Compression(val)
	if !c.IsValid() {
		return defaultVal
	}
	return c
}

func (s *SettingsService) getLayout(defaultVal []domain.StrokeAttribute) []domain.StrokeAttribute {
	names := s.configStore.GetStringSlice(keyCSVLayout)
	if len(names) == 0 {
		return defaultVal
	}
	layout, err := domain.ParseStrokeLayout(names)
	if err != nil {
		return defaultVal
	}
	return layout
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}
