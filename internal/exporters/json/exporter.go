// Package json exports the whole ink model as indented JSON.
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/custodia-labs/paperink/internal/core/domain"
	"github.com/custodia-labs/paperink/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.ModelExporter = (*Exporter)(nil)

// DefaultIndent is the per-level indentation.
const DefaultIndent = "  "

// Exporter writes the model as a JSON document.
type Exporter struct {
	indent string
}

// Option configures the exporter.
type Option func(*Exporter)

// WithIndent sets the indentation. An empty indent writes compact JSON.
func WithIndent(indent string) Option {
	return func(e *Exporter) {
		e.indent = indent
	}
}

// New creates a JSON exporter.
func New(opts ...Option) *Exporter {
	e := &Exporter{indent: DefaultIndent}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the exporter name.
func (e *Exporter) Name() string {
	return "json"
}

// Export writes the model. The layout in opts is not used.
func (e *Exporter) Export(ctx context.Context, model *domain.InkModel, _ driven.ExportOptions, w io.Writer) error {
	if model == nil {
		return fmt.Errorf("nil model: %w", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	if e.indent != "" {
		enc.SetIndent("", e.indent)
	}
	if err := enc.Encode(toDocument(model)); err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	return nil
}

// Document is the JSON shape of an ink model.
type Document struct {
	ID         string     `json:"id"`
	Version    string     `json:"version"`
	Properties []Property `json:"properties"`
	Input      Input      `json:"input"`
	Brushes    []Brush    `json:"brushes"`
	Bounds     Rect       `json:"bounds"`
	Strokes    []Stroke   `json:"strokes"`
}

// Property is the JSON shape of a model property. Properties keep the
// model's order.
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Input is the JSON shape of the input context.
type Input struct {
	Device   Device    `json:"device"`
	Channels []Channel `json:"channels"`
}

// Device is the JSON shape of the capturing device.
type Device struct {
	Name   string `json:"name,omitempty"`
	Serial string `json:"serial,omitempty"`
	Model  string `json:"model,omitempty"`
}

// Channel is the JSON shape of a sensor channel.
type Channel struct {
	Type       string  `json:"type"`
	Metric     string  `json:"metric"`
	Resolution float64 `json:"resolution"`
	Min        float32 `json:"min"`
	Max        float32 `json:"max"`
}

// Brush is the JSON shape of a brush.
type Brush struct {
	Name    string  `json:"name"`
	Shape   string  `json:"shape"`
	Spacing float32 `json:"spacing"`
}

// Rect is the JSON shape of a rectangle.
type Rect struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

// Stroke is the JSON shape of a stroke.
type Stroke struct {
	ID         string    `json:"id"`
	StartParam float32   `json:"start_param"`
	EndParam   float32   `json:"end_param"`
	Color      string    `json:"color"`
	Width      float32   `json:"width"`
	Brush      string    `json:"brush,omitempty"`
	X          []float32 `json:"x"`
	Y          []float32 `json:"y"`
	Timestamps []float64 `json:"timestamps"`
	Pressure   []float32 `json:"pressure"`
	Altitude   []float32 `json:"altitude"`
	Azimuth    []float32 `json:"azimuth"`
}

func toDocument(m *domain.InkModel) Document {
	doc := Document{
		ID:         m.ID,
		Version:    m.Version,
		Properties: make([]Property, 0, len(m.Properties)),
		Input: Input{
			Device: Device{
				Name:   m.Input.Device.Name,
				Serial: m.Input.Device.Serial,
				Model:  m.Input.Device.Model,
			},
			Channels: make([]Channel, 0, len(m.Input.Channels)),
		},
		Brushes: make([]Brush, 0, len(m.Brushes)),
		Bounds:  Rect(m.Bounds),
		Strokes: make([]Stroke, 0, len(m.Strokes)),
	}
	for _, p := range m.Properties {
		doc.Properties = append(doc.Properties, Property(p))
	}
	for _, c := range m.Input.Channels {
		doc.Input.Channels = append(doc.Input.Channels, Channel{
			Type:       string(c.Type),
			Metric:     string(c.Metric),
			Resolution: c.Resolution,
			Min:        c.Min,
			Max:        c.Max,
		})
	}
	for _, b := range m.Brushes {
		doc.Brushes = append(doc.Brushes, Brush{Name: b.Name, Shape: string(b.Shape), Spacing: b.Spacing})
	}
	for i := range m.Strokes {
		s := &m.Strokes[i]
		doc.Strokes = append(doc.Strokes, Stroke{
			ID:         s.ID,
			StartParam: s.StartParam,
			EndParam:   s.EndParam,
			Color:      fmt.Sprintf("#%08x", s.Style.Color.Uint32()),
			Width:      s.Style.Width,
			Brush:      s.Style.Brush,
			X:          s.Spline.X,
			Y:          s.Spline.Y,
			Timestamps: s.Sensor.Timestamps,
			Pressure:   s.Sensor.Pressure,
			Altitude:   s.Sensor.Altitude,
			Azimuth:    s.Sensor.Azimuth,
		})
	}
	return doc
}
