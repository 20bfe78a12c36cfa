// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/paperink/internal/core/domain"
)

// Fixed column widths; the input column takes the remaining width.
const (
	colWhen     = 19
	colStatus   = 9
	colStrokes  = 7
	colPoints   = 8
	colDuration = 8
	minInput    = 12
)

// RecordList displays conversion records in a navigable table.
type RecordList struct {
	table   table.Model
	records []domain.ConversionRecord
	styles  *styles.Styles
	width   int
	height  int
}

// NewRecordList creates a new record list component.
func NewRecordList(s *styles.Styles) *RecordList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	ts := table.DefaultStyles()
	ts.Header = s.TableHeader
	ts.Selected = s.TableSelected
	t.SetStyles(ts)

	return &RecordList{
		table:  t,
		styles: s,
		width:  80,
		height: 10,
	}
}

func columns(width int) []table.Column {
	fixed := colWhen + colStatus + colStrokes + colPoints + colDuration
	// Each column carries two cells of padding.
	input := max(width-fixed-12, minInput)
	return []table.Column{
		{Title: "When", Width: colWhen},
		{Title: "Status", Width: colStatus},
		{Title: "Input", Width: input},
		{Title: "Strokes", Width: colStrokes},
		{Title: "Points", Width: colPoints},
		{Title: "Time", Width: colDuration},
	}
}

func row(r *domain.ConversionRecord) table.Row {
	return table.Row{
		r.StartedAt.Local().Format("2006-01-02 15:04:05"),
		string(r.Status),
		filepath.Base(r.Input),
		fmt.Sprintf("%d", r.StrokeCount),
		fmt.Sprintf("%d", r.PointCount),
		r.Duration().Round(10 * time.Millisecond).String(),
	}
}

// Init initialises the record list.
func (r *RecordList) Init() tea.Cmd {
	return nil
}

// Update handles table navigation messages.
func (r *RecordList) Update(msg tea.Msg) (*RecordList, tea.Cmd) {
	var cmd tea.Cmd
	r.table, cmd = r.table.Update(msg)
	return r, cmd
}

// View renders the record list.
func (r *RecordList) View() string {
	if len(r.records) == 0 {
		return r.styles.Muted.Render("No conversions recorded")
	}
	return r.table.View()
}

// SetRecords replaces the listed records and selects the first.
func (r *RecordList) SetRecords(records []domain.ConversionRecord) {
	r.records = records
	rows := make([]table.Row, len(records))
	for i := range records {
		rows[i] = row(&records[i])
	}
	r.table.SetRows(rows)
	r.table.SetCursor(0)
}

// Records returns the listed records.
func (r *RecordList) Records() []domain.ConversionRecord {
	return r.records
}

// Selected returns the index of the selected record.
func (r *RecordList) Selected() int {
	return r.table.Cursor()
}

// SelectedRecord returns the selected record, or nil if none.
func (r *RecordList) SelectedRecord() *domain.ConversionRecord {
	i := r.table.Cursor()
	if i < 0 || i >= len(r.records) {
		return nil
	}
	return &r.records[i]
}

// MoveUp moves selection up.
func (r *RecordList) MoveUp() {
	r.table.MoveUp(1)
}

// MoveDown moves selection down.
func (r *RecordList) MoveDown() {
	r.table.MoveDown(1)
}

// SetDimensions sets the component dimensions.
func (r *RecordList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
	r.table.SetColumns(columns(width))
	r.table.SetWidth(width)
	r.table.SetHeight(max(height, 3))
}

// Count returns the number of records.
func (r *RecordList) Count() int {
	return len(r.records)
}
