package driven

import (
	"context"
	"image"
	"io"

	"github.com/custodia-labs/paperink/internal/core/domain"
)

// ExportOptions carries per-request export settings.
type ExportOptions struct {
	// Layout is the attribute column order for tabular exports.
	Layout []domain.StrokeAttribute
}

// ModelExporter writes a textual representation of an ink model.
type ModelExporter interface {
	// Name returns the exporter name for logging and configuration.
	Name() string

	// Export writes the model to w.
	Export(ctx context.Context, model *domain.InkModel, opts ExportOptions, w io.Writer) error
}

// ExporterRegistry looks up exporters by name.
type ExporterRegistry interface {
	// Get returns the exporter registered under name.
	Get(name string) (ModelExporter, bool)

	// Names returns all registered exporter names.
	Names() []string
}

// TemplateWriter writes template images.
type TemplateWriter interface {
	// WriteTemplate encodes img to w.
	WriteTemplate(img image.Image, w io.Writer) error

	// Overlay returns a copy of img with the model strokes drawn on it.
	// scale is image pixels per DIP.
	Overlay(img image.Image, model *domain.InkModel, scale float64) (image.Image, error)
}
