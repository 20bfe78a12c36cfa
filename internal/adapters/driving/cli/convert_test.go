package cli

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperink/internal/core/domain"
)

func TestConvertCmd_Use(t *testing.T) {
	assert.Equal(t, "convert [paper-file...]", convertCmd.Use)
	assert.Contains(t, convertCmd.Long, "HelloInk.paper")
}

func TestConvertCmd_Flags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
		def       string
	}{
		{"crop", "", "false"},
		{"crop-offset", "", "10"},
		{"dpi", "", "96"},
		{"out-dir", "o", ""},
		{"no-csv", "", "false"},
		{"no-json", "", "false"},
		{"compression", "", "none"},
		{"layout", "", ""},
		{"overlay", "", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := convertCmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.def, flag.DefValue)
		})
	}
}

func TestConvertCmd_DefaultInput(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "convert")

	require.NoError(t, err)
	require.Len(t, ts.conversion.Requests, 1)
	req := ts.conversion.Requests[0]
	assert.Equal(t, domain.DefaultPaperFile, req.Input)
	assert.Equal(t, domain.OutputPaths{
		Ink:      "iot.uim",
		Template: "template.png",
		CSV:      "iot.csv",
		JSON:     "iot.json",
	}, req.Outputs)
	assert.Equal(t, domain.CompressionNone, req.Compression)
	assert.Equal(t, domain.DefaultCSVLayout(), req.CSVLayout)

	assert.Contains(t, out, "Converted "+domain.DefaultPaperFile)
	assert.Contains(t, out, "3 (180 points)")
	assert.Contains(t, out, "iot.uim (2048 bytes)")
	assert.Contains(t, out, "template.png (560x794)")
	assert.NotContains(t, out, "Cropped")
}

func TestConvertCmd_FlagsOverrideSettings(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	dir := t.TempDir()

	out, err := execute(t, "convert",
		"--crop", "--crop-offset", "4", "--dpi", "192",
		"--compression", "lz4", "--no-json", "--overlay",
		"--layout", "spline_x,spline_y,pressure",
		"-o", dir, "Letter.paper")

	require.NoError(t, err)
	require.Len(t, ts.conversion.Requests, 1)
	req := ts.conversion.Requests[0]
	assert.Equal(t, "Letter.paper", req.Input)
	assert.True(t, req.Parser.CropInk)
	assert.Equal(t, 4, req.Parser.CropOffset)
	assert.Equal(t, 192, req.Parser.TemplateDPI)
	assert.Equal(t, domain.CompressionLZ4, req.Compression)
	assert.True(t, req.OverlayInk)
	assert.Equal(t, []domain.StrokeAttribute{
		domain.AttributeSplineX, domain.AttributeSplineY, domain.AttributePressure,
	}, req.CSVLayout)
	assert.Equal(t, filepath.Join(dir, "iot.uim"), req.Outputs.Ink)
	assert.Empty(t, req.Outputs.JSON)
	assert.Contains(t, out, "Cropped")

	// Flags never touch the stored settings.
	assert.False(t, ts.settings.Settings.Parser.CroppingInk)
}

func TestConvertCmd_SeveralInputsNamedByInput(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "convert", "--no-csv", "a/Letter.paper", "b/Notes.paper")

	require.NoError(t, err)
	require.Len(t, ts.conversion.Requests, 2)
	assert.Equal(t, "Letter.uim", ts.conversion.Requests[0].Outputs.Ink)
	assert.Equal(t, "Letter.png", ts.conversion.Requests[0].Outputs.Template)
	assert.Equal(t, "Notes.json", ts.conversion.Requests[1].Outputs.JSON)
	assert.Empty(t, ts.conversion.Requests[1].Outputs.CSV)
}

func TestConvertCmd_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown compression", []string{"--compression", "brotli"}, domain.ErrUnsupportedType},
		{"unknown attribute", []string{"--layout", "spline_x,tilt"}, domain.ErrUnsupportedType},
		{"empty layout", []string{"--layout", " "}, domain.ErrEmptyLayout},
		{"negative offset", []string{"--crop", "--crop-offset", "-1"}, domain.ErrInvalidInput},
		{"dpi too low", []string{"--dpi", "10"}, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, cleanup := setupTestServices()
			defer cleanup()

			_, err := execute(t, append([]string{"convert"}, tt.args...)...)

			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, ts.conversion.Requests)
		})
	}
}

func TestConvertCmd_OffsetIgnoredWithoutCrop(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "convert", "--crop-offset", "-1", "Letter.paper")

	require.NoError(t, err)
	require.Len(t, ts.conversion.Requests, 1)
	assert.False(t, ts.conversion.Requests[0].Parser.CropInk)
}

func TestConvertCmd_StopsAtFirstFailure(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.conversion.Err = domain.ErrInvalidPaper

	out, err := execute(t, "convert", "a.paper", "b.paper")

	assert.ErrorIs(t, err, domain.ErrInvalidPaper)
	assert.Len(t, ts.conversion.Requests, 1)
	assert.Contains(t, out, "Failed to convert a.paper")
}

func TestConvertCmd_SettingsError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.GetErr = errors.New("config unreadable")

	_, err := execute(t, "convert")

	assert.ErrorContains(t, err, "config unreadable")
}

func TestConvertCmd_ErrorsWithoutServices(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	conversionService = nil

	_, err := execute(t, "convert")

	assert.ErrorContains(t, err, "not configured")
}
