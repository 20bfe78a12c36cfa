package domain

import (
	"fmt"
	"strings"
)

// StrokeAttribute selects one per-sample value of a stroke for tabular export.
type StrokeAttribute string

// Available stroke attributes.
const (
	AttributeSplineX    StrokeAttribute = "spline_x"
	AttributeSplineY    StrokeAttribute = "spline_y"
	AttributeSplineSize StrokeAttribute = "spline_size"
	AttributeTimestamp  StrokeAttribute = "timestamp"
	AttributePressure   StrokeAttribute = "pressure"
	AttributeAltitude   StrokeAttribute = "altitude"
	AttributeAzimuth    StrokeAttribute = "azimuth"
	AttributeRed        StrokeAttribute = "red"
	AttributeGreen      StrokeAttribute = "green"
	AttributeBlue       StrokeAttribute = "blue"
	AttributeAlpha      StrokeAttribute = "alpha"
)

// AllStrokeAttributes returns every known attribute.
func AllStrokeAttributes() []StrokeAttribute {
	return []StrokeAttribute{
		AttributeSplineX,
		AttributeSplineY,
		AttributeSplineSize,
		AttributeTimestamp,
		AttributePressure,
		AttributeAltitude,
		AttributeAzimuth,
		AttributeRed,
		AttributeGreen,
		AttributeBlue,
		AttributeAlpha,
	}
}

// DefaultCSVLayout returns the sensor export layout:
// spline X, spline Y, timestamp, pressure, altitude, azimuth.
// A new slice is returned on every call.
func DefaultCSVLayout() []StrokeAttribute {
	return []StrokeAttribute{
		AttributeSplineX,
		AttributeSplineY,
		AttributeTimestamp,
		AttributePressure,
		AttributeAltitude,
		AttributeAzimuth,
	}
}

// IsValid returns true if the attribute is recognised.
func (a StrokeAttribute) IsValid() bool {
	for _, known := range AllStrokeAttributes() {
		if a == known {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (a StrokeAttribute) String() string {
	return string(a)
}

// ParseStrokeAttribute parses an attribute name, case-insensitively.
func ParseStrokeAttribute(name string) (StrokeAttribute, error) {
	a := StrokeAttribute(strings.ToLower(strings.TrimSpace(name)))
	if !a.IsValid() {
		return "", fmt.Errorf("stroke attribute %q: %w", name, ErrUnsupportedType)
	}
	return a, nil
}

// ParseStrokeLayout parses a list of attribute names.
func ParseStrokeLayout(names []string) ([]StrokeAttribute, error) {
	if len(names) == 0 {
		return nil, ErrEmptyLayout
	}
	layout := make([]StrokeAttribute, 0, len(names))
	for _, name := range names {
		a, err := ParseStrokeAttribute(name)
		if err != nil {
			return nil, err
		}
		layout = append(layout, a)
	}
	return layout, nil
}

// LayoutNames converts a layout back to names.
func LayoutNames(layout []StrokeAttribute) []string {
	names := make([]string, len(layout))
	for i, a := range layout {
		names[i] = a.String()
	}
	return names
}

// Value returns the attribute value for sample i of the stroke.
// Colour components are normalised to 0..1.
func (s *Stroke) Value(a StrokeAttribute, i int) (float64, error) {
	if i < 0 || i >= s.Len() {
		return 0, fmt.Errorf("sample %d out of range [0,%d): %w", i, s.Len(), ErrInvalidInput)
	}
	switch a {
	case AttributeSplineX:
		return float64(s.Spline.X[i]), nil
	case AttributeSplineY:
		return float64(s.Spline.Y[i]), nil
	case AttributeSplineSize:
		return float64(s.Style.Width), nil
	case AttributeTimestamp:
		return s.Sensor.Timestamps[i], nil
	case AttributePressure:
		return float64(s.Sensor.Pressure[i]), nil
	case AttributeAltitude:
		return float64(s.Sensor.Altitude[i]), nil
	case AttributeAzimuth:
		return float64(s.Sensor.Azimuth[i]), nil
	case AttributeRed:
		return float64(s.Style.Color.R) / 255, nil
	case AttributeGreen:
		return float64(s.Style.Color.G) / 255, nil
	case AttributeBlue:
		return float64(s.Style.Color.B) / 255, nil
	case AttributeAlpha:
		return float64(s.Style.Color.A) / 255, nil
	default:
		return 0, fmt.Errorf("stroke attribute %q: %w", a, ErrUnsupportedType)
	}
}
