package uim

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/custodia-labs/paperink/internal/core/domain"
)

// Field numbers of the chunk messages.
//
//	Properties   { 1 id; 2 repeated Property }
//	Property     { 1 name; 2 value }
//	Input        { 1 Device; 2 repeated Channel }
//	Device       { 1 name; 2 serial; 3 model }
//	Channel      { 1 type; 2 metric; 3 resolution double; 4 min float; 5 max float }
//	Brushes      { 1 repeated Brush }
//	Brush        { 1 name; 2 shape; 3 spacing float }
//	Strokes      { 1 repeated Stroke }
//	Stroke       { 1 id; 2 start float; 3 end float; 4 x packed; 5 y packed;
//	               6 timestamps packed double; 7 pressure; 8 altitude; 9 azimuth;
//	               10 color uint32; 11 width float; 12 brush }
//	Structure    { 1 repeated stroke id; 2 Rect bounds }
//	Rect         { 1 x; 2 y; 3 width; 4 height }
const (
	fieldID    protowire.Number = 1
	fieldProps protowire.Number = 2

	fieldName  protowire.Number = 1
	fieldValue protowire.Number = 2

	fieldDevice   protowire.Number = 1
	fieldChannels protowire.Number = 2

	fieldSerial protowire.Number = 2
	fieldModel  protowire.Number = 3

	fieldType       protowire.Number = 1
	fieldMetric     protowire.Number = 2
	fieldResolution protowire.Number = 3
	fieldMin        protowire.Number = 4
	fieldMax        protowire.Number = 5

	fieldItems protowire.Number = 1

	fieldShape   protowire.Number = 2
	fieldSpacing protowire.Number = 3

	fieldStart      protowire.Number = 2
	fieldEnd        protowire.Number = 3
	fieldX          protowire.Number = 4
	fieldY          protowire.Number = 5
	fieldTimestamps protowire.Number = 6
	fieldPressure   protowire.Number = 7
	fieldAltitude   protowire.Number = 8
	fieldAzimuth    protowire.Number = 9
	fieldColor      protowire.Number = 10
	fieldWidth      protowire.Number = 11
	fieldBrush      protowire.Number = 12

	fieldOrder  protowire.Number = 1
	fieldBounds protowire.Number = 2

	fieldRectX protowire.Number = 1
	fieldRectY protowire.Number = 2
	fieldRectW protowire.Number = 3
	fieldRectH protowire.Number = 4
)

// Encoding helpers.

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func appendFloat(b []byte, num protowire.Number, v float32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, math.Float32bits(v))
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendPackedFloats(b []byte, num protowire.Number, vs []float32) []byte {
	if len(vs) == 0 {
		return b
	}
	packed := make([]byte, 0, 4*len(vs))
	for _, v := range vs {
		packed = protowire.AppendFixed32(packed, math.Float32bits(v))
	}
	return appendMessage(b, num, packed)
}

func appendPackedDoubles(b []byte, num protowire.Number, vs []float64) []byte {
	if len(vs) == 0 {
		return b
	}
	packed := make([]byte, 0, 8*len(vs))
	for _, v := range vs {
		packed = protowire.AppendFixed64(packed, math.Float64bits(v))
	}
	return appendMessage(b, num, packed)
}

func appendRect(b []byte, num protowire.Number, r domain.Rect) []byte {
	var msg []byte
	msg = appendFloat(msg, fieldRectX, r.X)
	msg = appendFloat(msg, fieldRectY, r.Y)
	msg = appendFloat(msg, fieldRectW, r.Width)
	msg = appendFloat(msg, fieldRectH, r.Height)
	return appendMessage(b, num, msg)
}

func marshalProperties(m *domain.InkModel) []byte {
	b := appendString(nil, fieldID, m.ID)
	for _, p := range m.Properties {
		var msg []byte
		msg = appendString(msg, fieldName, p.Name)
		msg = appendString(msg, fieldValue, p.Value)
		b = appendMessage(b, fieldProps, msg)
	}
	return b
}

func marshalInput(in domain.InputContext) []byte {
	var dev []byte
	dev = appendString(dev, fieldName, in.Device.Name)
	dev = appendString(dev, fieldSerial, in.Device.Serial)
	dev = appendString(dev, fieldModel, in.Device.Model)
	b := appendMessage(nil, fieldDevice, dev)

	for _, c := range in.Channels {
		var msg []byte
		msg = appendString(msg, fieldType, string(c.Type))
		msg = appendString(msg, fieldMetric, string(c.Metric))
		msg = appendDouble(msg, fieldResolution, c.Resolution)
		msg = appendFloat(msg, fieldMin, c.Min)
		msg = appendFloat(msg, fieldMax, c.Max)
		b = appendMessage(b, fieldChannels, msg)
	}
	return b
}

func marshalBrushes(brushes []domain.Brush) []byte {
	var b []byte
	for _, br := range brushes {
		var msg []byte
		msg = appendString(msg, fieldName, br.Name)
		msg = appendString(msg, fieldShape, string(br.Shape))
		msg = appendFloat(msg, fieldSpacing, br.Spacing)
		b = appendMessage(b, fieldItems, msg)
	}
	return b
}

func marshalStrokes(strokes []domain.Stroke) []byte {
	var b []byte
	for i := range strokes {
		s := &strokes[i]
		var msg []byte
		msg = appendString(msg, fieldID, s.ID)
		msg = appendFloat(msg, fieldStart, s.StartParam)
		msg = appendFloat(msg, fieldEnd, s.EndParam)
		msg = appendPackedFloats(msg, fieldX, s.Spline.X)
		msg = appendPackedFloats(msg, fieldY, s.Spline.Y)
		msg = appendPackedDoubles(msg, fieldTimestamps, s.Sensor.Timestamps)
		msg = appendPackedFloats(msg, fieldPressure, s.Sensor.Pressure)
		msg = appendPackedFloats(msg, fieldAltitude, s.Sensor.Altitude)
		msg = appendPackedFloats(msg, fieldAzimuth, s.Sensor.Azimuth)
		msg = protowire.AppendTag(msg, fieldColor, protowire.VarintType)
		msg = protowire.AppendVarint(msg, uint64(s.Style.Color.Uint32()))
		msg = appendFloat(msg, fieldWidth, s.Style.Width)
		msg = appendString(msg, fieldBrush, s.Style.Brush)
		b = appendMessage(b, fieldItems, msg)
	}
	return b
}

func marshalStructure(m *domain.InkModel) []byte {
	var b []byte
	for i := range m.Strokes {
		b = appendString(b, fieldOrder, m.Strokes[i].ID)
	}
	return appendRect(b, fieldBounds, m.Bounds)
}

// Decoding.

// field is one decoded wire field. Exactly one of bytes, fixed or varint
// is meaningful depending on typ.
type field struct {
	num    protowire.Number
	typ    protowire.Type
	bytes  []byte
	fixed  uint64
	varint uint64
}

// walk calls fn for each field in b.
func walk(b []byte, fn func(f field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return wireError(n)
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		case protowire.Fixed32Type:
			var v uint32
			v, n = protowire.ConsumeFixed32(b)
			f.fixed = uint64(v)
		case protowire.Fixed64Type:
			f.fixed, n = protowire.ConsumeFixed64(b)
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return wireError(n)
		}
		b = b[n:]
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func wireError(n int) error {
	return fmt.Errorf("%v: %w", protowire.ParseError(n), domain.ErrCorruptContainer)
}

func (f field) float() float32 {
	return math.Float32frombits(uint32(f.fixed))
}

func (f field) double() float64 {
	return math.Float64frombits(f.fixed)
}

func (f field) string() string {
	return string(f.bytes)
}

func unpackFloats(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("packed float length %d: %w", len(b), domain.ErrCorruptContainer)
	}
	out := make([]float32, 0, len(b)/4)
	for len(b) > 0 {
		v, n := protowire.ConsumeFixed32(b)
		out = append(out, math.Float32frombits(v))
		b = b[n:]
	}
	return out, nil
}

func unpackDoubles(b []byte) ([]float64, error) {
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("packed double length %d: %w", len(b), domain.ErrCorruptContainer)
	}
	out := make([]float64, 0, len(b)/8)
	for len(b) > 0 {
		v, n := protowire.ConsumeFixed64(b)
		out = append(out, math.Float64frombits(v))
		b = b[n:]
	}
	return out, nil
}

func unmarshalRect(b []byte) (domain.Rect, error) {
	var r domain.Rect
	err := walk(b, func(f field) error {
		switch f.num {
		case fieldRectX:
			r.X = f.float()
		case fieldRectY:
			r.Y = f.float()
		case fieldRectW:
			r.Width = f.float()
		case fieldRectH:
			r.Height = f.float()
		}
		return nil
	})
	return r, err
}

func unmarshalProperties(b []byte, m *domain.InkModel) error {
	return walk(b, func(f field) error {
		switch f.num {
		case fieldID:
			m.ID = f.string()
		case fieldProps:
			var p domain.Property
			err := walk(f.bytes, func(g field) error {
				switch g.num {
				case fieldName:
					p.Name = g.string()
				case fieldValue:
					p.Value = g.string()
				}
				return nil
			})
			if err != nil {
				return err
			}
			m.Properties = append(m.Properties, p)
		}
		return nil
	})
}

func unmarshalInput(b []byte, in *domain.InputContext) error {
	return walk(b, func(f field) error {
		switch f.num {
		case fieldDevice:
			return walk(f.bytes, func(g field) error {
				switch g.num {
				case fieldName:
					in.Device.Name = g.string()
				case fieldSerial:
					in.Device.Serial = g.string()
				case fieldModel:
					in.Device.Model = g.string()
				}
				return nil
			})
		case fieldChannels:
			var c domain.SensorChannel
			err := walk(f.bytes, func(g field) error {
				switch g.num {
				case fieldType:
					c.Type = domain.ChannelType(g.string())
				case fieldMetric:
					c.Metric = domain.Metric(g.string())
				case fieldResolution:
					c.Resolution = g.double()
				case fieldMin:
					c.Min = g.float()
				case fieldMax:
					c.Max = g.float()
				}
				return nil
			})
			if err != nil {
				return err
			}
			in.Channels = append(in.Channels, c)
		}
		return nil
	})
}

func unmarshalBrushes(b []byte) ([]domain.Brush, error) {
	var out []domain.Brush
	err := walk(b, func(f field) error {
		if f.num != fieldItems {
			return nil
		}
		var br domain.Brush
		err := walk(f.bytes, func(g field) error {
			switch g.num {
			case fieldName:
				br.Name = g.string()
			case fieldShape:
				br.Shape = domain.BrushShape(g.string())
			case fieldSpacing:
				br.Spacing = g.float()
			}
			return nil
		})
		out = append(out, br)
		return err
	})
	return out, err
}

func unmarshalStroke(b []byte) (domain.Stroke, error) {
	var s domain.Stroke
	err := walk(b, func(f field) error {
		var err error
		switch f.num {
		case fieldID:
			s.ID = f.string()
		case fieldStart:
			s.StartParam = f.float()
		case fieldEnd:
			s.EndParam = f.float()
		case fieldX:
			s.Spline.X, err = unpackFloats(f.bytes)
		case fieldY:
			s.Spline.Y, err = unpackFloats(f.bytes)
		case fieldTimestamps:
			s.Sensor.Timestamps, err = unpackDoubles(f.bytes)
		case fieldPressure:
			s.Sensor.Pressure, err = unpackFloats(f.bytes)
		case fieldAltitude:
			s.Sensor.Altitude, err = unpackFloats(f.bytes)
		case fieldAzimuth:
			s.Sensor.Azimuth, err = unpackFloats(f.bytes)
		case fieldColor:
			s.Style.Color = domain.ColorFromUint32(uint32(f.varint))
		case fieldWidth:
			s.Style.Width = f.float()
		case fieldBrush:
			s.Style.Brush = f.string()
		}
		return err
	})
	return s, err
}

func unmarshalStrokes(b []byte) ([]domain.Stroke, error) {
	var out []domain.Stroke
	err := walk(b, func(f field) error {
		if f.num != fieldItems {
			return nil
		}
		s, err := unmarshalStroke(f.bytes)
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	return out, err
}

// unmarshalStructure returns the stroke order and model bounds.
func unmarshalStructure(b []byte) ([]string, domain.Rect, error) {
	var (
		order  []string
		bounds domain.Rect
	)
	err := walk(b, func(f field) error {
		switch f.num {
		case fieldOrder:
			order = append(order, f.string())
		case fieldBounds:
			r, err := unmarshalRect(f.bytes)
			if err != nil {
				return err
			}
			bounds = r
		}
		return nil
	})
	return order, bounds, err
}
