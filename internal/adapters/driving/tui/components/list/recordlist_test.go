package list

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperink/internal/core/domain"
)

func testRecords() []domain.ConversionRecord {
	started := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	return []domain.ConversionRecord{
		{
			ID:          "rec-b",
			Input:       "notes/Letter.paper",
			Status:      domain.ConversionSucceeded,
			StrokeCount: 14,
			PointCount:  1200,
			StartedAt:   started,
			FinishedAt:  started.Add(1234 * time.Millisecond),
		},
		{
			ID:        "rec-a",
			Input:     "Broken.paper",
			Status:    domain.ConversionFailed,
			Error:     "parse ink: invalid paper file",
			StartedAt: started.Add(-time.Minute),
		},
	}
}

func TestNewRecordList(t *testing.T) {
	l := NewRecordList(nil)

	require.NotNil(t, l)
	assert.Zero(t, l.Count())
	assert.Nil(t, l.SelectedRecord())
	assert.Contains(t, l.View(), "No conversions recorded")
}

func TestRecordList_SetRecords(t *testing.T) {
	l := NewRecordList(nil)
	l.SetDimensions(120, 10)

	l.SetRecords(testRecords())

	assert.Equal(t, 2, l.Count())
	assert.Equal(t, 0, l.Selected())
	require.NotNil(t, l.SelectedRecord())
	assert.Equal(t, "rec-b", l.SelectedRecord().ID)

	view := l.View()
	assert.Contains(t, view, "Letter.paper")
	assert.NotContains(t, view, "notes/")
	assert.Contains(t, view, "succeeded")
	assert.Contains(t, view, "failed")
	assert.Contains(t, view, "1.23s")
}

func TestRecordList_Navigation(t *testing.T) {
	l := NewRecordList(nil)
	l.SetRecords(testRecords())

	l.MoveDown()
	assert.Equal(t, "rec-a", l.SelectedRecord().ID)

	l.MoveDown()
	assert.Equal(t, 1, l.Selected(), "cursor stays on the last row")

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, l.Selected())
}

func TestRecordList_SetRecordsResetsCursor(t *testing.T) {
	l := NewRecordList(nil)
	l.SetRecords(testRecords())
	l.MoveDown()

	l.SetRecords(testRecords()[:1])

	assert.Equal(t, 0, l.Selected())
	assert.Len(t, l.Records(), 1)
}

func TestColumns(t *testing.T) {
	cols := columns(120)
	require.Len(t, cols, 6)
	assert.Equal(t, "Input", cols[2].Title)
	assert.Equal(t, 120-51-12, cols[2].Width)

	narrow := columns(20)
	assert.Equal(t, minInput, narrow[2].Width)
}
