package domain

import "fmt"

// Stroke is one pen-down to pen-up trace.
type Stroke struct {
	// ID is the unique identifier for the stroke.
	ID string

	// Spline holds the Catmull-Rom control points, one per pen sample.
	Spline Spline

	// StartParam and EndParam bound the rendered portion of the spline.
	StartParam float32
	EndParam   float32

	// Sensor holds the per-sample sensor values aligned with Spline.
	Sensor SensorData

	// Style is the rendering style.
	Style Style
}

// Spline is a Catmull-Rom control polygon in DIP.
type Spline struct {
	X []float32
	Y []float32
}

// SensorData holds per-sample sensor values.
type SensorData struct {
	// Timestamps are milliseconds since the Unix epoch.
	Timestamps []float64

	// Pressure is normalised to 0..1.
	Pressure []float32

	// Altitude is the pen tilt from the surface, in radians.
	Altitude []float32

	// Azimuth is the pen direction around the normal, in radians.
	Azimuth []float32
}

// Style is the visual style of a stroke.
type Style struct {
	Color Color
	Width float32
	Brush string
}

// Color is a straight-alpha RGBA colour.
type Color struct {
	R, G, B, A uint8
}

// ColorFromUint32 unpacks 0xRRGGBBAA.
func ColorFromUint32(v uint32) Color {
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}

// Uint32 packs the colour as 0xRRGGBBAA.
func (c Color) Uint32() uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// Len returns the number of samples.
func (s *Stroke) Len() int {
	return len(s.Spline.X)
}

// Validate checks that every channel is aligned with the spline.
func (s *Stroke) Validate() error {
	n := len(s.Spline.X)
	if n == 0 {
		return fmt.Errorf("stroke %s has no points: %w", s.ID, ErrInvalidInput)
	}
	channels := []struct {
		name string
		len  int
	}{
		{"spline y", len(s.Spline.Y)},
		{"timestamps", len(s.Sensor.Timestamps)},
		{"pressure", len(s.Sensor.Pressure)},
		{"altitude", len(s.Sensor.Altitude)},
		{"azimuth", len(s.Sensor.Azimuth)},
	}
	for _, c := range channels {
		if c.len != n {
			return fmt.Errorf("stroke %s: %s has %d values, spline has %d: %w",
				s.ID, c.name, c.len, n, ErrInvalidInput)
		}
	}
	return nil
}

// Bounds returns the bounding box of the control points.
// The second value is false for a stroke without points.
func (s *Stroke) Bounds() (Rect, bool) {
	if len(s.Spline.X) == 0 {
		return Rect{}, false
	}
	minX, maxX := s.Spline.X[0], s.Spline.X[0]
	minY, maxY := s.Spline.Y[0], s.Spline.Y[0]
	for i := 1; i < len(s.Spline.X); i++ {
		minX = min(minX, s.Spline.X[i])
		maxX = max(maxX, s.Spline.X[i])
		minY = min(minY, s.Spline.Y[i])
		maxY = max(maxY, s.Spline.Y[i])
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}
