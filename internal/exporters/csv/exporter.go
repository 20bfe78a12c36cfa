// Package csv exports per-sample stroke values as comma separated rows.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/custodia-labs/paperink/internal/core/domain"
	"github.com/custodia-labs/paperink/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.ModelExporter = (*Exporter)(nil)

// Fixed leading columns.
const (
	ColumnStrokeID   = "stroke_id"
	ColumnPointIndex = "point_index"
)

// Exporter writes one row per sample with the columns
// stroke_id, point_index and the layout attributes in order.
type Exporter struct {
	precision int
	delimiter rune
}

// Option configures the exporter.
type Option func(*Exporter)

// WithPrecision sets a fixed number of decimal places.
// A negative value writes the shortest exact form.
func WithPrecision(p int) Option {
	return func(e *Exporter) {
		e.precision = p
	}
}

// WithDelimiter sets the field separator.
func WithDelimiter(r rune) Option {
	return func(e *Exporter) {
		if r != 0 && r != '"' && r != '\r' && r != '\n' {
			e.delimiter = r
		}
	}
}

// New creates a CSV exporter.
func New(opts ...Option) *Exporter {
	e := &Exporter{precision: -1, delimiter: ','}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the exporter name.
func (e *Exporter) Name() string {
	return "csv"
}

// Export writes the sample table. An empty layout is an error.
func (e *Exporter) Export(ctx context.Context, model *domain.InkModel, opts driven.ExportOptions, w io.Writer) error {
	if len(opts.Layout) == 0 {
		return domain.ErrEmptyLayout
	}
	for _, a := range opts.Layout {
		if !a.IsValid() {
			return fmt.Errorf("layout attribute %q: %w", a, domain.ErrUnsupportedType)
		}
	}
	if model == nil {
		return fmt.Errorf("nil model: %w", domain.ErrInvalidInput)
	}

	cw := csv.NewWriter(w)
	cw.Comma = e.delimiter

	header := append([]string{ColumnStrokeID, ColumnPointIndex}, domain.LayoutNames(opts.Layout)...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(header))
	for si := range model.Strokes {
		if err := ctx.Err(); err != nil {
			return err
		}
		s := &model.Strokes[si]
		row[0] = s.ID
		for i := range s.Len() {
			row[1] = strconv.Itoa(i)
			for c, a := range opts.Layout {
				v, err := s.Value(a, i)
				if err != nil {
					return fmt.Errorf("stroke %s sample %d: %w", s.ID, i, err)
				}
				row[2+c] = e.format(a, v)
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// format renders v. Timestamps keep full precision; the remaining
// attributes are single precision in the model.
func (e *Exporter) format(a domain.StrokeAttribute, v float64) string {
	bits := 32
	if a == domain.AttributeTimestamp {
		bits = 64
	}
	return strconv.FormatFloat(v, 'f', e.precision, bits)
}
