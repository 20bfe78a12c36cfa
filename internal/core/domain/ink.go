package domain

// InkModelVersion is the ink container version produced by the encoder.
const InkModelVersion = "3.1.0"

// Well-known model property names.
const (
	PropertyDeviceName   = "device.name"
	PropertyDeviceSerial = "device.serial"
	PropertyCaptureTime  = "capture.time"
	PropertyCropRect     = "crop.rect"
	PropertyGenerator    = "generator"
	PropertySourceFile   = "source.file"
)

// InkModel is the in-memory representation of a converted paper capture.
// Coordinates are device independent pixels (1/96 inch).
type InkModel struct {
	// ID is the unique identifier for the model.
	ID string

	// Version is the ink container version the model targets.
	Version string

	// Properties are ordered name/value pairs describing the capture.
	Properties []Property

	// Input describes the capturing device and its sensor channels.
	Input InputContext

	// Brushes are the brushes referenced by stroke styles.
	Brushes []Brush

	// Strokes are the pen traces in capture order.
	Strokes []Stroke

	// Bounds is the bounding box of all spline points.
	Bounds Rect
}

// Property is a single model-level metadata entry.
type Property struct {
	Name  string
	Value string
}

// Property returns the value of the named property.
func (m *InkModel) Property(name string) (string, bool) {
	for _, p := range m.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// SetProperty replaces the named property or appends it.
func (m *InkModel) SetProperty(name, value string) {
	for i := range m.Properties {
		if m.Properties[i].Name == name {
			m.Properties[i].Value = value
			return
		}
	}
	m.Properties = append(m.Properties, Property{Name: name, Value: value})
}

// PointCount returns the total number of samples across all strokes.
func (m *InkModel) PointCount() int {
	total := 0
	for i := range m.Strokes {
		total += m.Strokes[i].Len()
	}
	return total
}

// Brush returns the brush with the given name.
func (m *InkModel) Brush(name string) (*Brush, bool) {
	for i := range m.Brushes {
		if m.Brushes[i].Name == name {
			return &m.Brushes[i], true
		}
	}
	return nil, false
}

// Validate checks every stroke for consistent channel lengths.
func (m *InkModel) Validate() error {
	for i := range m.Strokes {
		if err := m.Strokes[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ComputeBounds recalculates Bounds from the stroke splines.
func (m *InkModel) ComputeBounds() Rect {
	var bounds Rect
	first := true
	for i := range m.Strokes {
		sb, ok := m.Strokes[i].Bounds()
		if !ok {
			continue
		}
		if first {
			bounds = sb
			first = false
			continue
		}
		bounds = bounds.Union(sb)
	}
	m.Bounds = bounds
	return bounds
}

// Translate shifts every spline point by dx, dy and updates Bounds.
func (m *InkModel) Translate(dx, dy float32) {
	for i := range m.Strokes {
		s := &m.Strokes[i]
		for j := range s.Spline.X {
			s.Spline.X[j] += dx
			s.Spline.Y[j] += dy
		}
	}
	m.ComputeBounds()
}

// InputContext describes where the ink came from.
type InputContext struct {
	Device   Device
	Channels []SensorChannel
}

// Channel returns the channel of the given type.
func (c InputContext) Channel(t ChannelType) (SensorChannel, bool) {
	for _, ch := range c.Channels {
		if ch.Type == t {
			return ch, true
		}
	}
	return SensorChannel{}, false
}

// Device identifies the capturing hardware.
type Device struct {
	Name   string
	Serial string
	Model  string
}

// ChannelType identifies a sensor channel.
type ChannelType string

// Sensor channel types recorded by paper devices.
const (
	ChannelX         ChannelType = "will://input/3.0/channel/X"
	ChannelY         ChannelType = "will://input/3.0/channel/Y"
	ChannelTimestamp ChannelType = "will://input/3.0/channel/Timestamp"
	ChannelPressure  ChannelType = "will://input/3.0/channel/Pressure"
	ChannelAltitude  ChannelType = "will://input/3.0/channel/Altitude"
	ChannelAzimuth   ChannelType = "will://input/3.0/channel/Azimuth"
)

// Metric is the physical unit of a sensor channel.
type Metric string

// Metrics used by sensor channels.
const (
	MetricLength     Metric = "length"
	MetricTime       Metric = "time"
	MetricForce      Metric = "force"
	MetricAngle      Metric = "angle"
	MetricNormalized Metric = "normalized"
)

// SensorChannel describes one recorded channel of the capturing device.
type SensorChannel struct {
	// Type is the channel identifier URI.
	Type ChannelType

	// Metric is the unit family of the raw values.
	Metric Metric

	// Resolution is raw units per metric unit (e.g. units per inch).
	Resolution float64

	// Min and Max bound the raw values.
	Min float32
	Max float32
}

// BrushShape is the tip shape of a vector brush.
type BrushShape string

// Brush shapes.
const (
	BrushShapeCircle BrushShape = "circle"
	BrushShapeSquare BrushShape = "square"
)

// Brush is a vector brush definition.
type Brush struct {
	Name    string
	Shape   BrushShape
	Spacing float32
}

// Rect is an axis-aligned rectangle in DIP.
type Rect struct {
	X      float32
	Y      float32
	Width  float32
	Height float32
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// MaxX returns the right edge.
func (r Rect) MaxX() float32 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float32 { return r.Y + r.Height }

// Union returns the smallest rectangle containing both.
func (r Rect) Union(o Rect) Rect {
	minX := min(r.X, o.X)
	minY := min(r.Y, o.Y)
	maxX := max(r.MaxX(), o.MaxX())
	maxY := max(r.MaxY(), o.MaxY())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Inset grows the rectangle by d on every side (shrinks for negative d).
func (r Rect) Inset(d float32) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// Intersect returns the overlap of both rectangles.
func (r Rect) Intersect(o Rect) Rect {
	minX := max(r.X, o.X)
	minY := max(r.Y, o.Y)
	maxX := min(r.MaxX(), o.MaxX())
	maxY := min(r.MaxY(), o.MaxY())
	if maxX <= minX || maxY <= minY {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
