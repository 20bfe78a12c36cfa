package json

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperink/internal/core/domain"
	"github.com/custodia-labs/paperink/internal/core/ports/driven"
)

func testModel() *domain.InkModel {
	return &domain.InkModel{
		ID:      "m1",
		Version: domain.InkModelVersion,
		Properties: []domain.Property{
			{Name: domain.PropertyDeviceName, Value: "Slate"},
		},
		Input: domain.InputContext{
			Device:   domain.Device{Name: "Slate"},
			Channels: []domain.SensorChannel{{Type: domain.ChannelX, Metric: domain.MetricLength, Resolution: 96}},
		},
		Brushes: []domain.Brush{{Name: "pen", Shape: domain.BrushShapeCircle, Spacing: 0.5}},
		Bounds:  domain.Rect{X: 1, Y: 2, Width: 3, Height: 4},
		Strokes: []domain.Stroke{{
			ID:     "s1",
			Spline: domain.Spline{X: []float32{1, 4}, Y: []float32{2, 6}},
			Sensor: domain.SensorData{
				Timestamps: []float64{1700000000000, 1700000000008},
				Pressure:   []float32{0.5, 0.25},
				Altitude:   []float32{1, 1},
				Azimuth:    []float32{0, 0},
			},
			EndParam: 1,
			Style:    domain.Style{Color: domain.Color{R: 0x1a, G: 0x23, B: 0x7e, A: 0xff}, Width: 1.5, Brush: "pen"},
		}},
	}
}

func TestExporter_Name(t *testing.T) {
	assert.Equal(t, "json", New().Name())
}

func TestExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New().Export(context.Background(), testModel(), driven.ExportOptions{}, &buf))

	assert.True(t, strings.Contains(buf.String(), "\n  \"id\": \"m1\""), "output should be indented")

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "m1", doc.ID)
	assert.Equal(t, "3.1.0", doc.Version)
	assert.Equal(t, []Property{{Name: "device.name", Value: "Slate"}}, doc.Properties)
	assert.Equal(t, "Slate", doc.Input.Device.Name)
	require.Len(t, doc.Input.Channels, 1)
	assert.Equal(t, string(domain.ChannelX), doc.Input.Channels[0].Type)
	assert.Equal(t, []Brush{{Name: "pen", Shape: "circle", Spacing: 0.5}}, doc.Brushes)
	assert.Equal(t, Rect{X: 1, Y: 2, Width: 3, Height: 4}, doc.Bounds)

	require.Len(t, doc.Strokes, 1)
	s := doc.Strokes[0]
	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, "#1a237eff", s.Color)
	assert.Equal(t, []float32{1, 4}, s.X)
	assert.Equal(t, []float64{1700000000000, 1700000000008}, s.Timestamps)
	assert.Equal(t, []float32{0.5, 0.25}, s.Pressure)
}

func TestExporter_PropertiesKeepOrder(t *testing.T) {
	m := testModel()
	m.Properties = []domain.Property{
		{Name: "z.last", Value: "1"},
		{Name: "a.first", Value: "2"},
		{Name: "m.middle", Value: "3"},
	}

	var buf bytes.Buffer
	require.NoError(t, New().Export(context.Background(), m, driven.ExportOptions{}, &buf))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []Property{
		{Name: "z.last", Value: "1"},
		{Name: "a.first", Value: "2"},
		{Name: "m.middle", Value: "3"},
	}, doc.Properties)
	assert.Less(t, strings.Index(buf.String(), "z.last"), strings.Index(buf.String(), "a.first"))
}

func TestExporter_CompactIndent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(WithIndent("")).Export(context.Background(), testModel(), driven.ExportOptions{}, &buf))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestExporter_EmptyModel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New().Export(context.Background(), &domain.InkModel{}, driven.ExportOptions{}, &buf))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.NotNil(t, doc.Strokes)
	assert.Empty(t, doc.Strokes)
	assert.Contains(t, buf.String(), `"strokes": []`)
}

func TestExporter_Errors(t *testing.T) {
	var buf bytes.Buffer
	err := New().Export(context.Background(), nil, driven.ExportOptions{}, &buf)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = New().Export(ctx, testModel(), driven.ExportOptions{}, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, buf.String())
}
