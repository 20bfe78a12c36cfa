package domain

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOutputsFromSettings_AllFive(t *testing.T) {
	s := DefaultAppSettings()
	s.Output.Dir = "out"

	out := OutputsFromSettings(s)

	assert.Equal(t, filepath.Join("out", "iot.uim"), out.Ink)
	assert.Equal(t, filepath.Join("out", "template.png"), out.Template)
	assert.Equal(t, filepath.Join("out", "iot.csv"), out.CSV)
	assert.Equal(t, filepath.Join("out", "iot.json"), out.JSON)
	assert.Len(t, out.All(), 4)
}

func TestOutputsFromSettings_ExportsDisabled(t *testing.T) {
	s := DefaultAppSettings()
	s.Export.CSV = false
	s.Export.JSON = false

	out := OutputsFromSettings(s)

	assert.Empty(t, out.CSV)
	assert.Empty(t, out.JSON)
	assert.Equal(t, []string{out.Ink, out.Template}, out.All())
}

func TestOutputsForInput(t *testing.T) {
	out := OutputsForInput(filepath.Join("in", "Meeting Notes.paper"), "dst", ExportSettings{CSV: true})

	assert.Equal(t, filepath.Join("dst", "Meeting Notes.uim"), out.Ink)
	assert.Equal(t, filepath.Join("dst", "Meeting Notes.png"), out.Template)
	assert.Equal(t, filepath.Join("dst", "Meeting Notes.csv"), out.CSV)
	assert.Empty(t, out.JSON)
}

func TestConversionRecord_Duration(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	r := ConversionRecord{StartedAt: start, FinishedAt: start.Add(1500 * time.Millisecond)}
	assert.Equal(t, 1500*time.Millisecond, r.Duration())
}

func TestDefaultPaperFile(t *testing.T) {
	assert.Equal(t, filepath.Join("ink", "iot", "HelloInk.paper"), DefaultPaperFile)
}
