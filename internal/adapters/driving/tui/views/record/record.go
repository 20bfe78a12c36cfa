// Package record provides the conversion record detail view for the TUI.
package record

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/paperink/internal/core/domain"
	"github.com/custodia-labs/paperink/internal/core/ports/driving"
)

// ErrNoInspectService indicates that ink inspection is not available.
var ErrNoInspectService = errors.New("inspect service is required")

const timeLayout = "2006-01-02 15:04:05"

// View shows one recorded conversion and, on request, a summary of its
// ink container.
type View struct {
	styles  *styles.Styles
	inspect driving.InspectService
	ctx     context.Context

	record       *domain.ConversionRecord
	summary      *domain.InkSummary
	inspectErr   error
	scrollOffset int
	width        int
	height       int
	ready        bool
}

// NewView creates a new record view. inspect may be nil.
func NewView(s *styles.Styles, inspect driving.InspectService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		inspect: inspect,
		ctx:     context.Background(),
		width:   80,
		height:  24,
	}
}

// WithContext sets the context inspection runs under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetRecord sets the record to display.
func (v *View) SetRecord(r domain.ConversionRecord) {
	v.record = &r
	v.summary = nil
	v.inspectErr = nil
	v.scrollOffset = 0
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the record view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.InkInspected:
		if v.record == nil || msg.Path != v.record.Outputs.Ink {
			return v, nil
		}
		v.summary = msg.Summary
		v.inspectErr = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "i":
		if v.record != nil && v.record.Status == domain.ConversionSucceeded {
			return v, v.inspectInk(v.record.Outputs.Ink)
		}
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewHistory}
		}
	}
	return v, nil
}

func (v *View) inspectInk(path string) tea.Cmd {
	return func() tea.Msg {
		if v.inspect == nil {
			return messages.InkInspected{Path: path, Err: ErrNoInspectService}
		}
		summary, err := v.inspect.Inspect(v.ctx, path)
		return messages.InkInspected{Path: path, Summary: summary, Err: err}
	}
}

func (v *View) visibleLines() int {
	// Reserve lines for title, separator and help.
	return max(v.height-6, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.buildContent())-v.visibleLines(), 0)
}

// buildContent returns the detail lines: "label: value" fields, section
// headings ending in ':' and indented entries.
func (v *View) buildContent() []string {
	r := v.record
	if r == nil {
		return nil
	}

	lines := []string{
		field("ID", r.ID),
		field("Input", r.Input),
		field("Status", string(r.Status)),
		field("Started", r.StartedAt.Local().Format(timeLayout)),
		field("Duration", r.Duration().String()),
	}
	if r.InputDigest != "" {
		lines = append(lines, field("Digest", r.InputDigest))
	}
	if r.Status == domain.ConversionSucceeded {
		lines = append(lines, field("Strokes", fmt.Sprintf("%d (%d points)", r.StrokeCount, r.PointCount)))
	}
	if r.Error != "" {
		lines = append(lines, field("Error", r.Error))
	}

	lines = append(lines, "", "Outputs:")
	for _, p := range r.Outputs.All() {
		lines = append(lines, "  "+p)
	}

	switch {
	case v.inspectErr != nil:
		lines = append(lines, "", "Ink:", "  "+v.inspectErr.Error())
	case v.summary != nil:
		lines = append(lines, "", "Ink:")
		lines = append(lines, summaryLines(v.summary)...)
	}
	return lines
}

func summaryLines(s *domain.InkSummary) []string {
	lines := []string{
		"  version: " + s.Version,
		"  model: " + s.ModelID,
		fmt.Sprintf("  strokes: %d (%d points)", s.StrokeCount, s.PointCount),
		fmt.Sprintf("  bounds: %.1f,%.1f %.1fx%.1f", s.Bounds.X, s.Bounds.Y, s.Bounds.Width, s.Bounds.Height),
	}
	if s.Device.Name != "" {
		lines = append(lines, "  device: "+s.Device.Name)
	}
	for _, c := range s.Chunks {
		lines = append(lines, fmt.Sprintf("  chunk %s: %d bytes, %s", c.ID, c.Size, c.Compression))
	}
	return lines
}

func field(label, value string) string {
	return fmt.Sprintf("%-10s %s", label+":", value)
}

// View renders the record view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Conversion"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(min(v.width-4, 60), 1)))
	b.WriteString("\n\n")

	if v.record == nil {
		b.WriteString(v.styles.Muted.Render("No conversion selected"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	lines := v.buildContent()
	visible := v.visibleLines()
	end := min(v.scrollOffset+visible, len(lines))
	for _, line := range lines[v.scrollOffset:end] {
		b.WriteString(v.renderLine(line))
		b.WriteString("\n")
	}

	if len(lines) > visible {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [Line %d-%d of %d]", v.scrollOffset+1, end, len(lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderLine(line string) string {
	switch {
	case strings.HasSuffix(line, ":") && !strings.HasPrefix(line, " "):
		return v.styles.Subtitle.Render(line)
	case strings.HasPrefix(line, "  "):
		return v.styles.Muted.Render(line)
	case strings.HasPrefix(line, "Error:"):
		return v.styles.Error.Render(line)
	case strings.HasPrefix(line, "Status:"):
		label, value, _ := strings.Cut(line, ":")
		return v.styles.Subtitle.Render(label+":") + v.styles.Status(v.record.Status).Render(value)
	}
	label, value, ok := strings.Cut(line, ":")
	if !ok {
		return v.styles.Normal.Render(line)
	}
	return v.styles.Subtitle.Render(label+":") + v.styles.Normal.Render(value)
}

func (v *View) renderHelp() string {
	if v.record != nil && v.record.Status == domain.ConversionSucceeded {
		return v.styles.Help.Render("[↑/↓] scroll  [i] inspect ink  [esc] back")
	}
	return v.styles.Help.Render("[↑/↓] scroll  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Record returns the displayed record.
func (v *View) Record() *domain.ConversionRecord {
	return v.record
}

// Summary returns the ink summary, if inspected.
func (v *View) Summary() *domain.InkSummary {
	return v.summary
}
