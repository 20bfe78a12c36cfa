package paper

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/paperink/internal/core/domain"
	"github.com/custodia-labs/paperink/internal/core/ports/driven"
	"github.com/custodia-labs/paperink/internal/logger"
)

// Ensure Parser implements the interface.
var _ driven.PaperParser = (*Parser)(nil)

// dip is the device independent pixel density of the ink model.
const dip = 96.0

// Generator is written to the generator property of every model.
const Generator = "paperink"

// PenBrush is the brush referenced by every parsed stroke.
const PenBrush = "paperink://brush/pen"

// defaultStrokeColor is used when a stroke carries no colour.
const defaultStrokeColor = 0x000000FF

// Parser decodes paper captures into ink models and templates.
type Parser struct {
	mu   sync.RWMutex
	opts domain.ParserOptions
}

// New creates a parser with default options: no cropping, a cropping
// offset of 10 and 96 DPI templates.
func New() *Parser {
	return &Parser{
		opts: domain.DefaultAppSettings().Parser.Options(),
	}
}

// Configure sets cropping and template options. The cropping offset is
// only checked when cropping is enabled.
func (p *Parser) Configure(opts domain.ParserOptions) error {
	if opts.CropInk && opts.CropOffset < 0 {
		return fmt.Errorf("cropping offset %d: %w", opts.CropOffset, domain.ErrInvalidInput)
	}
	if opts.TemplateDPI == 0 {
		opts.TemplateDPI = int(dip)
	}
	if opts.TemplateDPI < domain.MinTemplateDPI || opts.TemplateDPI > domain.MaxTemplateDPI {
		return fmt.Errorf("template dpi %d: %w", opts.TemplateDPI, domain.ErrInvalidInput)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.opts = opts
	return nil
}

// Options returns the current options.
func (p *Parser) Options() domain.ParserOptions {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.opts
}

// Parse decodes the capture at path into an ink model.
func (p *Parser) Parse(ctx context.Context, path string) (*domain.InkModel, error) {
	doc, err := load(ctx, path)
	if err != nil {
		return nil, err
	}

	model := BuildModel(doc)
	model.SetProperty(domain.PropertySourceFile, filepath.Base(path))

	opts := p.Options()
	if rect, ok := cropRect(doc, model, opts); ok {
		model.Translate(-rect.X, -rect.Y)
		model.SetProperty(domain.PropertyCropRect, formatRect(rect))
		logger.Debug("cropped ink to %s", formatRect(rect))
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}

// ParseTemplate renders the page template of the capture at path.
func (p *Parser) ParseTemplate(ctx context.Context, path string) (image.Image, error) {
	doc, err := load(ctx, path)
	if err != nil {
		return nil, err
	}

	opts := p.Options()
	page, err := renderTemplate(doc, opts.TemplateDPI)
	if err != nil {
		return nil, err
	}

	if rect, ok := cropRect(doc, BuildModel(doc), opts); ok {
		return cropImage(page, rect, float64(opts.TemplateDPI)/dip), nil
	}
	return page, nil
}

func load(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading paper file: %w", err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// BuildModel converts a decoded capture into an uncropped ink model.
func BuildModel(doc *Document) *domain.InkModel {
	h := doc.Header
	scale := float32(dip / float64(h.Page.Resolution))
	maxPressure := float32(h.MaxPressure)

	model := &domain.InkModel{
		ID:      uuid.NewString(),
		Version: domain.InkModelVersion,
		Input: domain.InputContext{
			Device: domain.Device{
				Name:   h.Device.Name,
				Serial: h.Device.Serial,
				Model:  h.Device.Model,
			},
			Channels: sensorChannels(h),
		},
		Brushes: []domain.Brush{
			{Name: PenBrush, Shape: domain.BrushShapeCircle, Spacing: 0.15},
		},
		Strokes: make([]domain.Stroke, 0, len(doc.Strokes)),
	}

	model.SetProperty(domain.PropertyDeviceName, h.Device.Name)
	model.SetProperty(domain.PropertyDeviceSerial, h.Device.Serial)
	model.SetProperty(domain.PropertyCaptureTime, time.UnixMilli(h.Created).UTC().Format(time.RFC3339Nano))
	model.SetProperty(domain.PropertyGenerator, Generator)

	for i := range doc.Strokes {
		ps := &doc.Strokes[i]
		if len(ps.Samples) == 0 {
			logger.Warn("skipping stroke %d without samples", i)
			continue
		}
		model.Strokes = append(model.Strokes, buildStroke(ps, scale, maxPressure))
	}

	model.ComputeBounds()
	return model
}

func buildStroke(ps *PenStroke, scale, maxPressure float32) domain.Stroke {
	n := len(ps.Samples)
	s := domain.Stroke{
		ID:         uuid.NewString(),
		StartParam: 0,
		EndParam:   1,
		Spline: domain.Spline{
			X: make([]float32, n),
			Y: make([]float32, n),
		},
		Sensor: domain.SensorData{
			Timestamps: make([]float64, n),
			Pressure:   make([]float32, n),
			Altitude:   make([]float32, n),
			Azimuth:    make([]float32, n),
		},
		Style: domain.Style{
			Color: domain.ColorFromUint32(ps.Color),
			Width: float32(ps.Width) * scale,
			Brush: PenBrush,
		},
	}
	if ps.Color == 0 {
		s.Style.Color = domain.ColorFromUint32(defaultStrokeColor)
	}
	if s.Style.Width <= 0 {
		s.Style.Width = 1
	}

	for j, sample := range ps.Samples {
		s.Spline.X[j] = float32(sample.X) * scale
		s.Spline.Y[j] = float32(sample.Y) * scale
		s.Sensor.Timestamps[j] = float64(ps.Start) + float64(sample.T)
		s.Sensor.Pressure[j] = clamp01(float32(sample.P) / maxPressure)
		s.Sensor.Altitude[j] = tenthDegreesToRadians(sample.Alt)
		s.Sensor.Azimuth[j] = tenthDegreesToRadians(sample.Az)
	}
	return s
}

func sensorChannels(h Header) []domain.SensorChannel {
	angleResolution := 1800 / math.Pi
	return []domain.SensorChannel{
		{Type: domain.ChannelX, Metric: domain.MetricLength, Resolution: float64(h.Page.Resolution), Max: float32(h.Page.Width)},
		{Type: domain.ChannelY, Metric: domain.MetricLength, Resolution: float64(h.Page.Resolution), Max: float32(h.Page.Height)},
		{Type: domain.ChannelTimestamp, Metric: domain.MetricTime, Resolution: 1000},
		{Type: domain.ChannelPressure, Metric: domain.MetricNormalized, Resolution: 1, Max: float32(h.MaxPressure)},
		{Type: domain.ChannelAltitude, Metric: domain.MetricAngle, Resolution: angleResolution, Max: 900},
		{Type: domain.ChannelAzimuth, Metric: domain.MetricAngle, Resolution: angleResolution, Max: 3600},
	}
}

// pageRect returns the page in DIP.
func pageRect(h Header) domain.Rect {
	scale := float32(dip / float64(h.Page.Resolution))
	return domain.Rect{
		Width:  float32(h.Page.Width) * scale,
		Height: float32(h.Page.Height) * scale,
	}
}

// cropRect returns the crop rectangle in DIP. It is only reported when
// cropping is enabled and the model has ink.
func cropRect(doc *Document, model *domain.InkModel, opts domain.ParserOptions) (domain.Rect, bool) {
	if !opts.CropInk || len(model.Strokes) == 0 {
		return domain.Rect{}, false
	}
	grown := model.Bounds.Inset(float32(opts.CropOffset))
	rect := grown.Intersect(pageRect(doc.Header))
	if rect.Empty() {
		// Ink recorded outside the page: keep the grown bounds.
		rect = grown
	}
	if rect.Empty() {
		return domain.Rect{}, false
	}
	return rect, true
}

func formatRect(r domain.Rect) string {
	f := func(v float32) string { return strconv.FormatFloat(float64(v), 'f', -1, 32) }
	return f(r.X) + "," + f(r.Y) + "," + f(r.Width) + "," + f(r.Height)
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

func tenthDegreesToRadians(v int16) float32 {
	return float32(float64(v) / 10 * math.Pi / 180)
}
