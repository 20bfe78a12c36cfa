package history

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/paperink/internal/core/domain"
)

type mockHistory struct {
	records  []domain.ConversionRecord
	listErr  error
	clearErr error
	limits   []int
	cleared  int
}

func (m *mockHistory) List(_ context.Context, limit int) ([]domain.ConversionRecord, error) {
	m.limits = append(m.limits, limit)
	return m.records, m.listErr
}

func (m *mockHistory) Get(_ context.Context, id string) (*domain.ConversionRecord, error) {
	for i := range m.records {
		if m.records[i].ID == id {
			return &m.records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockHistory) Clear(_ context.Context) (int, error) {
	if m.clearErr != nil {
		return 0, m.clearErr
	}
	n := len(m.records)
	m.records = nil
	m.cleared++
	return n, nil
}

func records() []domain.ConversionRecord {
	at := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	return []domain.ConversionRecord{
		{ID: "r2", Input: "B.paper", Status: domain.ConversionSucceeded, StrokeCount: 3, StartedAt: at, FinishedAt: at},
		{ID: "r1", Input: "A.paper", Status: domain.ConversionFailed, Error: "boom", StartedAt: at.Add(-time.Hour)},
	}
}

// run executes cmd and feeds the resulting message back into the view.
func run(t *testing.T, v *View, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	v.Update(msg)
	return msg
}

func loadedView(t *testing.T, h *mockHistory) *View {
	t.Helper()
	v := NewView(nil, nil, h)
	v.SetDimensions(120, 30)
	run(t, v, v.Init())
	return v
}

func TestView_Load(t *testing.T) {
	h := &mockHistory{records: records()}
	v := NewView(nil, nil, h)
	v.SetDimensions(120, 30)

	cmd := v.Init()
	assert.Contains(t, v.View(), "Loading history...")

	run(t, v, cmd)

	assert.Equal(t, []int{Limit}, h.limits)
	require.Len(t, v.Records(), 2)
	out := v.View()
	assert.Contains(t, out, "B.paper")
	assert.Contains(t, out, "A.paper")
	assert.Contains(t, out, "[r] reload")
}

func TestView_LoadErrors(t *testing.T) {
	v := loadedView(t, &mockHistory{listErr: errors.New("database is locked")})
	assert.Contains(t, v.View(), "Error: database is locked")

	v = NewView(nil, nil, nil)
	run(t, v, v.Init())
	assert.ErrorIs(t, v.Err(), domain.ErrHistoryUnavailable)
	assert.Contains(t, v.View(), "History is disabled")
}

func TestView_SelectRecord(t *testing.T) {
	v := loadedView(t, &mockHistory{records: records()})

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, v.SelectedIndex())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.RecordSelected)
	require.True(t, ok)
	assert.Equal(t, "r1", msg.Record.ID)
}

func TestView_SelectOnEmptyList(t *testing.T) {
	v := loadedView(t, &mockHistory{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, v.View(), "No conversions recorded")
}

func TestView_ClearConfirmed(t *testing.T) {
	h := &mockHistory{records: records()}
	v := loadedView(t, h)

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	require.True(t, v.ConfirmingClear())
	assert.Contains(t, v.View(), "Remove all 2 records?")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, messages.HistoryCleared{Removed: 2}, msg)

	// Clearing reloads the list.
	_, reload := v.Update(msg)
	run(t, v, reload)

	assert.Equal(t, 1, h.cleared)
	assert.Empty(t, v.Records())
	assert.Contains(t, v.View(), "Removed 2 records")
}

func TestView_ClearDeclined(t *testing.T) {
	h := &mockHistory{records: records()}
	v := loadedView(t, h)

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})

	assert.Nil(t, cmd)
	assert.False(t, v.ConfirmingClear())
	assert.Zero(t, h.cleared)
}

func TestView_ClearError(t *testing.T) {
	v := loadedView(t, &mockHistory{records: records(), clearErr: errors.New("read-only")})

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	run(t, v, cmd)

	assert.EqualError(t, v.Err(), "read-only")
}

func TestView_Reload(t *testing.T) {
	h := &mockHistory{records: records()}
	v := loadedView(t, h)
	h.records = h.records[:1]

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	run(t, v, cmd)

	assert.Len(t, h.limits, 2)
	assert.Len(t, v.Records(), 1)
}

func TestView_Esc(t *testing.T) {
	v := loadedView(t, &mockHistory{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}
