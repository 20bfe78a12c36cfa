package mcp

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperink/internal/core/domain"
)

func TestServer_handleConvert(t *testing.T) {
	ctx := context.Background()

	t.Run("uses settings defaults", func(t *testing.T) {
		ports := validPorts()
		conv := ports.Conversion.(*mockConversionService)
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleConvert(ctx, nil, ConvertInput{Input: "HelloInk.paper"})
		require.NoError(t, err)

		require.Len(t, conv.requests, 1)
		req := conv.requests[0]
		assert.Equal(t, "HelloInk.paper", req.Input)
		assert.Equal(t, "iot.uim", req.Outputs.Ink)
		assert.Equal(t, "template.png", req.Outputs.Template)
		assert.Equal(t, domain.DefaultCSVLayout(), req.CSVLayout)
		assert.False(t, req.Parser.CropInk)

		assert.Equal(t, "rec-1", output.ID)
		assert.Equal(t, "model-1", output.ModelID)
		assert.Equal(t, []string{"iot.uim", "template.png", "iot.csv", "iot.json"}, output.Outputs)
		assert.Equal(t, 3, output.StrokeCount)
		assert.Equal(t, 180, output.PointCount)
	})

	t.Run("applies overrides", func(t *testing.T) {
		ports := validPorts()
		conv := ports.Conversion.(*mockConversionService)
		server, err := NewServer(ports)
		require.NoError(t, err)

		crop, offset, csv := true, 4, false
		_, output, err := server.handleConvert(ctx, nil, ConvertInput{
			Input:       "in/Letter.paper",
			OutDir:      "out",
			NameByInput: true,
			Crop:        &crop,
			CropOffset:  &offset,
			Compression: "LZ4",
			CSV:         &csv,
		})
		require.NoError(t, err)

		req := conv.requests[0]
		assert.Equal(t, domain.ParserOptions{CropInk: true, CropOffset: 4, TemplateDPI: 96}, req.Parser)
		assert.Equal(t, domain.CompressionLZ4, req.Compression)
		assert.Equal(t, filepath.Join("out", "Letter.uim"), req.Outputs.Ink)
		assert.Empty(t, req.Outputs.CSV)
		assert.Equal(t, filepath.Join("out", "Letter.json"), req.Outputs.JSON)
		assert.True(t, output.Cropped)
	})

	t.Run("custom layout", func(t *testing.T) {
		ports := validPorts()
		conv := ports.Conversion.(*mockConversionService)
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleConvert(ctx, nil, ConvertInput{
			Input:  "a.paper",
			Layout: []string{"pressure", "spline_x"},
		})
		require.NoError(t, err)
		assert.Equal(t, []domain.StrokeAttribute{domain.AttributePressure, domain.AttributeSplineX},
			conv.requests[0].CSVLayout)
	})

	t.Run("rejects invalid arguments", func(t *testing.T) {
		server, err := NewServer(validPorts())
		require.NoError(t, err)

		_, _, err = server.handleConvert(ctx, nil, ConvertInput{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, _, err = server.handleConvert(ctx, nil, ConvertInput{Input: "a.paper", Compression: "brotli"})
		assert.ErrorIs(t, err, domain.ErrUnsupportedType)

		_, _, err = server.handleConvert(ctx, nil, ConvertInput{Input: "a.paper", Layout: []string{"tilt"}})
		assert.ErrorIs(t, err, domain.ErrUnsupportedType)

		negative := -1
		_, _, err = server.handleConvert(ctx, nil, ConvertInput{Input: "a.paper", CropOffset: &negative})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("returns conversion errors", func(t *testing.T) {
		ports := validPorts()
		ports.Conversion = &mockConversionService{err: domain.ErrInvalidPaper}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleConvert(ctx, nil, ConvertInput{Input: "a.paper"})
		assert.ErrorIs(t, err, domain.ErrInvalidPaper)
	})

	t.Run("returns settings errors", func(t *testing.T) {
		ports := validPorts()
		ports.Settings = &mockSettingsService{err: errors.New("config unreadable")}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleConvert(ctx, nil, ConvertInput{Input: "a.paper"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config unreadable")
	})
}

func TestServer_handleInspect(t *testing.T) {
	ctx := context.Background()

	t.Run("returns summary", func(t *testing.T) {
		ports := validPorts()
		ports.Inspect = &mockInspectService{summary: &domain.InkSummary{
			Path:        "iot.uim",
			Version:     "3.1.0",
			ModelID:     "model-1",
			Device:      domain.Device{Name: "Sample Pad"},
			StrokeCount: 2,
			PointCount:  10,
			Bounds:      domain.Rect{X: 1, Y: 2, Width: 3, Height: 4},
			Properties:  []domain.Property{{Name: "generator", Value: "paperink"}},
			Channels:    []domain.ChannelType{domain.ChannelX},
			Chunks:      []domain.ChunkInfo{{ID: "INKD", Size: 99, Compression: domain.CompressionLZ4}},
		}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleInspect(ctx, nil, InspectInput{Path: "iot.uim"})
		require.NoError(t, err)

		assert.Equal(t, "3.1.0", output.Version)
		assert.Equal(t, "Sample Pad", output.Device)
		assert.Equal(t, [4]float32{1, 2, 3, 4}, output.Bounds)
		assert.Equal(t, map[string]string{"generator": "paperink"}, output.Properties)
		assert.Equal(t, []string{string(domain.ChannelX)}, output.Channels)
		assert.Equal(t, []ChunkOutput{{ID: "INKD", Size: 99, Compression: "lz4"}}, output.Chunks)
	})

	t.Run("returns error", func(t *testing.T) {
		ports := validPorts()
		ports.Inspect = &mockInspectService{err: domain.ErrCorruptContainer}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleInspect(ctx, nil, InspectInput{Path: "bad.uim"})
		assert.ErrorIs(t, err, domain.ErrCorruptContainer)
	})
}

func TestApplyConvertInput_LeavesUnsetFields(t *testing.T) {
	s := domain.DefaultAppSettings()
	s.Parser.CroppingInk = true
	s.Export.OverlayInk = true

	require.NoError(t, applyConvertInput(&s, ConvertInput{Input: "a.paper"}))

	assert.True(t, s.Parser.CroppingInk)
	assert.True(t, s.Export.OverlayInk)
	assert.Equal(t, 10, s.Parser.CroppingOffset)
}
