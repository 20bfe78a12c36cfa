package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// DefaultPaperFile is the input used when no path is given.
var DefaultPaperFile = filepath.Join("ink", "iot", "HelloInk.paper")

// PaperExtension is the file extension of paper captures.
const PaperExtension = ".paper"

// OutputPaths holds the destination of every conversion output.
// Empty CSV or JSON paths disable that export.
type OutputPaths struct {
	Ink      string
	Template string
	CSV      string
	JSON     string
}

// OutputsFromSettings builds the fixed output paths from settings.
func OutputsFromSettings(s AppSettings) OutputPaths {
	dir := s.Output.Dir
	out := OutputPaths{
		Ink:      filepath.Join(dir, s.Output.InkFile),
		Template: filepath.Join(dir, s.Output.TemplateFile),
	}
	if s.Export.CSV {
		out.CSV = filepath.Join(dir, s.Output.CSVFile)
	}
	if s.Export.JSON {
		out.JSON = filepath.Join(dir, s.Output.JSONFile)
	}
	return out
}

// OutputsForInput derives output paths from the input file stem, so that
// several captures can be converted into the same directory.
func OutputsForInput(input, dir string, export ExportSettings) OutputPaths {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	out := OutputPaths{
		Ink:      filepath.Join(dir, stem+".uim"),
		Template: filepath.Join(dir, stem+".png"),
	}
	if export.CSV {
		out.CSV = filepath.Join(dir, stem+".csv")
	}
	if export.JSON {
		out.JSON = filepath.Join(dir, stem+".json")
	}
	return out
}

// All returns the non-empty output paths in write order.
func (o OutputPaths) All() []string {
	paths := []string{o.Ink, o.Template}
	if o.CSV != "" {
		paths = append(paths, o.CSV)
	}
	if o.JSON != "" {
		paths = append(paths, o.JSON)
	}
	return paths
}

// ConversionRequest describes one paper-to-ink conversion.
type ConversionRequest struct {
	// Input is the paper file path.
	Input string

	// Outputs are the destination paths.
	Outputs OutputPaths

	// Parser configures parsing and cropping.
	Parser ParserOptions

	// Compression selects ink container chunk compression.
	Compression Compression

	// CSVLayout is the attribute column order of the CSV export.
	CSVLayout []StrokeAttribute

	// OverlayInk draws the strokes onto the saved template.
	OverlayInk bool
}

// ConversionResult summarises a successful conversion.
type ConversionResult struct {
	// ID is the history record identifier.
	ID string

	Input   string
	Outputs OutputPaths

	// ModelID is the identifier of the produced ink model.
	ModelID string

	StrokeCount int
	PointCount  int

	// InkBytes is the size of the encoded ink container.
	InkBytes int

	// TemplateWidth and TemplateHeight are the saved image dimensions.
	TemplateWidth  int
	TemplateHeight int

	// Cropped reports whether cropping was applied.
	Cropped bool

	Duration time.Duration
}

// ConversionStatus is the outcome of a recorded conversion.
type ConversionStatus string

// Conversion statuses.
const (
	ConversionSucceeded ConversionStatus = "succeeded"
	ConversionFailed    ConversionStatus = "failed"
)

// ConversionRecord is a persisted history entry.
type ConversionRecord struct {
	ID          string
	Input       string
	InputDigest string
	Outputs     OutputPaths
	Status      ConversionStatus
	Error       string
	StrokeCount int
	PointCount  int
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Duration returns how long the conversion took.
func (r ConversionRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// ChunkInfo describes one chunk of a decoded ink container.
type ChunkInfo struct {
	ID          string
	Size        int
	Compression Compression
}

// InkSummary describes a decoded ink container.
type InkSummary struct {
	Path        string
	Version     string
	ModelID     string
	Device      Device
	StrokeCount int
	PointCount  int
	Bounds      Rect
	Properties  []Property
	Channels    []ChannelType
	Chunks      []ChunkInfo
}
