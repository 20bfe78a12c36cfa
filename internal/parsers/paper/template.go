package paper

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"golang.org/x/image/draw"

	"github.com/custodia-labs/paperink/internal/core/domain"
)

var (
	paperColor  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	rulingColor = color.RGBA{R: 196, G: 216, B: 238, A: 255}
)

// MaxTemplatePixels caps the pixel count of a rendered or embedded
// template. An A4 page at the highest template DPI fits.
const MaxTemplatePixels = 150_000_000

// pagePixels returns the page size in pixels at dpi, unrounded.
func pagePixels(p Page, dpi int) (float64, float64) {
	scale := float64(dpi) / float64(p.Resolution)
	return float64(p.Width) * scale, float64(p.Height) * scale
}

// checkPixels rejects areas above MaxTemplatePixels.
func checkPixels(w, h float64, what string) error {
	if w*h > MaxTemplatePixels {
		return fmt.Errorf("%s of %.0fx%.0f pixels exceeds %d: %w",
			what, w, h, MaxTemplatePixels, domain.ErrInvalidPaper)
	}
	return nil
}

// templateSize returns the page size in pixels at dpi.
func templateSize(h Header, dpi int) (int, int) {
	w, hgt := pagePixels(h.Page, dpi)
	return max(int(math.Round(w)), 1), max(int(math.Round(hgt)), 1)
}

// renderTemplate draws the full page at dpi: the embedded template image
// scaled to the page, or a white page with optional ruling.
func renderTemplate(doc *Document, dpi int) (*image.RGBA, error) {
	h := doc.Header
	pw, ph := pagePixels(h.Page, dpi)
	if err := checkPixels(pw, ph, fmt.Sprintf("page at %d dpi", dpi)); err != nil {
		return nil, err
	}
	w, hgt := templateSize(h, dpi)
	page := image.NewRGBA(image.Rect(0, 0, w, hgt))
	draw.Draw(page, page.Bounds(), &image.Uniform{C: paperColor}, image.Point{}, draw.Src)

	if len(h.Template.Image) > 0 {
		cfg, err := png.DecodeConfig(bytes.NewReader(h.Template.Image))
		if err != nil {
			return nil, fmt.Errorf("template image: %v: %w", err, domain.ErrInvalidPaper)
		}
		if err := checkPixels(float64(cfg.Width), float64(cfg.Height), "template image"); err != nil {
			return nil, err
		}
		src, err := png.Decode(bytes.NewReader(h.Template.Image))
		if err != nil {
			return nil, fmt.Errorf("template image: %v: %w", err, domain.ErrInvalidPaper)
		}
		draw.CatmullRom.Scale(page, page.Bounds(), src, src.Bounds(), draw.Over, nil)
		return page, nil
	}

	if h.Template.Ruling > 0 {
		step := float64(h.Template.Ruling) / float64(h.Page.Resolution) * float64(dpi)
		if step >= 2 {
			line := image.NewUniform(rulingColor)
			for y := step; y < float64(hgt); y += step {
				row := int(math.Round(y))
				draw.Draw(page, image.Rect(0, row, w, row+1), line, image.Point{}, draw.Src)
			}
		}
	}
	return page, nil
}

// cropImage copies the DIP rectangle rect out of img into a new image
// whose bounds start at the origin. scale is pixels per DIP.
func cropImage(img *image.RGBA, rect domain.Rect, scale float64) *image.RGBA {
	px := image.Rect(
		int(math.Floor(float64(rect.X)*scale)),
		int(math.Floor(float64(rect.Y)*scale)),
		int(math.Ceil(float64(rect.MaxX())*scale)),
		int(math.Ceil(float64(rect.MaxY())*scale)),
	).Intersect(img.Bounds())
	if px.Empty() {
		out := image.NewRGBA(image.Rect(0, 0, 1, 1))
		out.SetRGBA(0, 0, paperColor)
		return out
	}

	out := image.NewRGBA(image.Rect(0, 0, px.Dx(), px.Dy()))
	draw.Draw(out, out.Bounds(), img, px.Min, draw.Src)
	return out
}
