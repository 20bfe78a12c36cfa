package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// Compression selects how ink container chunks are compressed.
type Compression string

// Available chunk compressions.
const (
	// CompressionNone stores chunk payloads as-is.
	CompressionNone Compression = "none"

	// CompressionZip stores chunk payloads as raw deflate streams.
	CompressionZip Compression = "zip"

	// CompressionLZ4 stores chunk payloads as LZ4 blocks.
	CompressionLZ4 Compression = "lz4"
)

// IsValid returns true if the compression is recognised.
func (c Compression) IsValid() bool {
	switch c {
	case CompressionNone, CompressionZip, CompressionLZ4:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c Compression) String() string {
	return string(c)
}

// Description returns a human-readable description of the compression.
func (c Compression) Description() string {
	switch c {
	case CompressionNone:
		return "None (fastest, largest files)"
	case CompressionZip:
		return "Zip (deflate, smallest files)"
	case CompressionLZ4:
		return "LZ4 (fast, moderate size)"
	default:
		return unknownDescription
	}
}

// AllCompressions returns all chunk compressions.
func AllCompressions() []Compression {
	return []Compression{CompressionNone, CompressionZip, CompressionLZ4}
}

// Template DPI limits.
const (
	MinTemplateDPI = 24
	MaxTemplateDPI = 1200
)

// ParserOptions configures a paper parser.
type ParserOptions struct {
	// CropInk crops ink and template to the ink bounds.
	CropInk bool

	// CropOffset is the margin in DIP kept around the ink when cropping.
	// It has no effect when CropInk is false.
	CropOffset int

	// TemplateDPI is the resolution of the rendered template image.
	TemplateDPI int
}

// ParserSettings holds parser configuration.
type ParserSettings struct {
	CroppingInk    bool
	CroppingOffset int
	TemplateDPI    int
}

// Options converts the settings into parser options.
func (p ParserSettings) Options() ParserOptions {
	return ParserOptions{
		CropInk:     p.CroppingInk,
		CropOffset:  p.CroppingOffset,
		TemplateDPI: p.TemplateDPI,
	}
}

// EncoderSettings holds ink container encoder configuration.
type EncoderSettings struct {
	Compression Compression
}

// ExportSettings holds optional export configuration.
type ExportSettings struct {
	// CSV enables the sensor-sample CSV export.
	CSV bool

	// JSON enables the JSON model export.
	JSON bool

	// CSVLayout is the attribute column order for CSV export.
	CSVLayout []StrokeAttribute

	// OverlayInk draws the strokes onto the saved template image.
	OverlayInk bool
}

// OutputSettings names the output files.
type OutputSettings struct {
	Dir          string
	InkFile      string
	TemplateFile string
	CSVFile      string
	JSONFile     string
}

// HistorySettings configures the conversion history.
type HistorySettings struct {
	Enabled bool
}

// WatchSettings configures directory watching.
type WatchSettings struct {
	// MinInterval is the minimum time between two conversions of the same file.
	MinInterval time.Duration
}

// AppSettings holds all application settings.
type AppSettings struct {
	Parser  ParserSettings
	Encoder EncoderSettings
	Export  ExportSettings
	Output  OutputSettings
	History HistorySettings
	Watch   WatchSettings
}

// DefaultAppSettings returns settings matching the reference conversion:
// no cropping, a cropping margin of 10, CSV and JSON exports enabled.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Parser: ParserSettings{
			CroppingInk:    false,
			CroppingOffset: 10,
			TemplateDPI:    96,
		},
		Encoder: EncoderSettings{
			Compression: CompressionNone,
		},
		Export: ExportSettings{
			CSV:       true,
			JSON:      true,
			CSVLayout: DefaultCSVLayout(),
		},
		Output: OutputSettings{
			Dir:          ".",
			InkFile:      "iot.uim",
			TemplateFile: "template.png",
			CSVFile:      "iot.csv",
			JSONFile:     "iot.json",
		},
		History: HistorySettings{
			Enabled: true,
		},
		Watch: WatchSettings{
			MinInterval: time.Second,
		},
	}
}

// Validate checks the settings for values the pipeline cannot use.
func (s AppSettings) Validate() error {
	if s.Parser.CroppingInk && s.Parser.CroppingOffset < 0 {
		return fmt.Errorf("cropping offset %d must not be negative: %w", s.Parser.CroppingOffset, ErrInvalidInput)
	}
	if s.Parser.TemplateDPI < MinTemplateDPI || s.Parser.TemplateDPI > MaxTemplateDPI {
		return fmt.Errorf("template dpi %d outside [%d,%d]: %w",
			s.Parser.TemplateDPI, MinTemplateDPI, MaxTemplateDPI, ErrInvalidInput)
	}
	if !s.Encoder.Compression.IsValid() {
		return fmt.Errorf("compression %q: %w", s.Encoder.Compression, ErrUnsupportedType)
	}
	if len(s.Export.CSVLayout) == 0 {
		return ErrEmptyLayout
	}
	for _, a := range s.Export.CSVLayout {
		if !a.IsValid() {
			return fmt.Errorf("stroke attribute %q: %w", a, ErrUnsupportedType)
		}
	}
	if s.Output.InkFile == "" || s.Output.TemplateFile == "" {
		return fmt.Errorf("ink and template file names are required: %w", ErrInvalidInput)
	}
	if s.Export.CSV && s.Output.CSVFile == "" {
		return fmt.Errorf("csv export enabled without a file name: %w", ErrInvalidInput)
	}
	if s.Export.JSON && s.Output.JSONFile == "" {
		return fmt.Errorf("json export enabled without a file name: %w", ErrInvalidInput)
	}
	if s.Watch.MinInterval < 0 {
		return fmt.Errorf("watch interval must not be negative: %w", ErrInvalidInput)
	}
	return nil
}
