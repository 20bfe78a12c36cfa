package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStroke_Validate(t *testing.T) {
	s := testStroke()
	require.NoError(t, s.Validate())

	s.Sensor.Pressure = s.Sensor.Pressure[:1]
	assert.ErrorIs(t, s.Validate(), ErrInvalidInput)

	empty := Stroke{ID: "empty"}
	assert.ErrorIs(t, empty.Validate(), ErrInvalidInput)
}

func TestStroke_ValidateNamesFirstMisalignedChannel(t *testing.T) {
	s := testStroke()
	s.Sensor.Timestamps = s.Sensor.Timestamps[:1]
	s.Sensor.Azimuth = nil
	s.Sensor.Pressure = s.Sensor.Pressure[:1]

	for range 20 {
		err := s.Validate()
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "timestamps has 1 values")
	}
}

func TestStroke_Bounds(t *testing.T) {
	s := testStroke()
	b, ok := s.Bounds()
	require.True(t, ok)
	assert.Equal(t, Rect{X: 1, Y: 2, Width: 2, Height: 2}, b)

	_, ok = (&Stroke{}).Bounds()
	assert.False(t, ok)
}

func TestInkModel_ComputeBoundsAndTranslate(t *testing.T) {
	a := testStroke()
	b := testStroke()
	b.Spline = Spline{X: []float32{10, 12}, Y: []float32{-1, 0}}

	m := &InkModel{Strokes: []Stroke{a, b}}
	bounds := m.ComputeBounds()
	assert.Equal(t, Rect{X: 1, Y: -1, Width: 11, Height: 5}, bounds)

	m.Translate(-1, 1)
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 11, Height: 5}, m.Bounds)
	assert.Equal(t, float32(0), m.Strokes[0].Spline.X[0])
}

func TestInkModel_Properties(t *testing.T) {
	m := &InkModel{}
	m.SetProperty(PropertyDeviceName, "Slate")
	m.SetProperty(PropertyDeviceName, "Folio")
	m.SetProperty(PropertyGenerator, "paperink")

	v, ok := m.Property(PropertyDeviceName)
	assert.True(t, ok)
	assert.Equal(t, "Folio", v)
	assert.Len(t, m.Properties, 2)

	_, ok = m.Property("missing")
	assert.False(t, ok)
}

func TestInkModel_PointCount(t *testing.T) {
	m := &InkModel{Strokes: []Stroke{testStroke(), testStroke()}}
	assert.Equal(t, 4, m.PointCount())
}

func TestRect_Operations(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 10}

	assert.Equal(t, Rect{X: 5, Y: 5, Width: 30, Height: 20}, r.Inset(5))
	assert.Equal(t, Rect{X: 10, Y: 10, Width: 5, Height: 5}, r.Intersect(Rect{X: 0, Y: 0, Width: 15, Height: 15}))
	assert.True(t, r.Intersect(Rect{X: 100, Y: 100, Width: 1, Height: 1}).Empty())
	assert.False(t, r.Empty())
}

func TestColor_RoundTrip(t *testing.T) {
	c := ColorFromUint32(0x11223344)
	assert.Equal(t, Color{R: 0x11, G: 0x22, B: 0x33, A: 0x44}, c)
	assert.Equal(t, uint32(0x11223344), c.Uint32())
}

func TestInputContext_Channel(t *testing.T) {
	ctx := InputContext{Channels: []SensorChannel{{Type: ChannelPressure, Max: 1023}}}

	ch, ok := ctx.Channel(ChannelPressure)
	assert.True(t, ok)
	assert.Equal(t, float32(1023), ch.Max)

	_, ok = ctx.Channel(ChannelAzimuth)
	assert.False(t, ok)
}
