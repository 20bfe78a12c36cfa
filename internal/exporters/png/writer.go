// Package png writes template images and draws ink over them.
package png

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/custodia-labs/paperink/internal/core/domain"
	"github.com/custodia-labs/paperink/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.TemplateWriter = (*Writer)(nil)

// minWidthFactor keeps light strokes visible.
const minWidthFactor = 0.25

// Writer encodes PNG templates.
type Writer struct {
	encoder png.Encoder
}

// Option configures the writer.
type Option func(*Writer)

// WithCompressionLevel sets the PNG compression level.
func WithCompressionLevel(l png.CompressionLevel) Option {
	return func(w *Writer) {
		w.encoder.CompressionLevel = l
	}
}

// New creates a PNG writer.
func New(opts ...Option) *Writer {
	w := &Writer{encoder: png.Encoder{CompressionLevel: png.DefaultCompression}}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteTemplate encodes img as PNG.
func (w *Writer) WriteTemplate(img image.Image, out io.Writer) error {
	if img == nil {
		return fmt.Errorf("nil image: %w", domain.ErrInvalidInput)
	}
	if err := w.encoder.Encode(out, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// Overlay draws every stroke onto a copy of img. Stroke width is scaled
// by pressure and each sample gets a round-ish cap so joints stay closed.
func (w *Writer) Overlay(img image.Image, model *domain.InkModel, scale float64) (image.Image, error) {
	if img == nil || model == nil {
		return nil, fmt.Errorf("nil image or model: %w", domain.ErrInvalidInput)
	}
	if scale <= 0 {
		return nil, fmt.Errorf("scale %v: %w", scale, domain.ErrInvalidInput)
	}

	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, img, b.Min, draw.Src)

	for i := range model.Strokes {
		drawStroke(dst, &model.Strokes[i], scale)
	}
	return dst, nil
}

func drawStroke(dst *image.RGBA, s *domain.Stroke, scale float64) {
	c := s.Style.Color
	src := image.NewUniform(color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A})
	origin := dst.Bounds().Min

	radius := func(i int) float64 {
		p := 1.0
		if i < len(s.Sensor.Pressure) {
			p = max(float64(s.Sensor.Pressure[i]), minWidthFactor)
		}
		return max(float64(s.Style.Width)*scale*p/2, 0.5)
	}
	point := func(i int) (float64, float64) {
		return float64(origin.X) + float64(s.Spline.X[i])*scale,
			float64(origin.Y) + float64(s.Spline.Y[i])*scale
	}

	for i := range s.Len() {
		x, y := point(i)
		fillPolygon(dst, src, octagon(x, y, radius(i)))
		if i == 0 {
			continue
		}
		px, py := point(i - 1)
		if q := segment(px, py, radius(i-1), x, y, radius(i)); q != nil {
			fillPolygon(dst, src, q)
		}
	}
}

// octagon approximates a disc.
func octagon(cx, cy, r float64) [][2]float64 {
	pts := make([][2]float64, 8)
	for k := range pts {
		a := float64(k) * math.Pi / 4
		pts[k] = [2]float64{cx + r*math.Cos(a), cy + r*math.Sin(a)}
	}
	return pts
}

// segment returns the quad joining two discs, or nil for coincident points.
func segment(x0, y0, r0, x1, y1, r1 float64) [][2]float64 {
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l == 0 {
		return nil
	}
	nx, ny := -dy/l, dx/l
	return [][2]float64{
		{x0 + nx*r0, y0 + ny*r0},
		{x1 + nx*r1, y1 + ny*r1},
		{x1 - nx*r1, y1 - ny*r1},
		{x0 - nx*r0, y0 - ny*r0},
	}
}

// fillPolygon rasterises a convex polygon within its bounding box.
func fillPolygon(dst *image.RGBA, src image.Image, pts [][2]float64) {
	minX, minY := pts[0][0], pts[0][1]
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = min(minX, p[0]), max(maxX, p[0])
		minY, maxY = min(minY, p[1]), max(maxY, p[1])
	}
	box := image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	)
	clip := box.Intersect(dst.Bounds())
	if clip.Empty() {
		return
	}

	z := vector.NewRasterizer(box.Dx(), box.Dy())
	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	z.MoveTo(float32(pts[0][0]-ox), float32(pts[0][1]-oy))
	for _, p := range pts[1:] {
		z.LineTo(float32(p[0]-ox), float32(p[1]-oy))
	}
	z.ClosePath()

	// Draw the whole box into a scratch mask, then composite the clipped part.
	mask := image.NewAlpha(image.Rect(0, 0, box.Dx(), box.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(dst, clip, src, image.Point{}, mask, clip.Min.Sub(box.Min), draw.Over)
}
