// Package history provides the conversion history view for the TUI.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/paperink/internal/core/domain"
	"github.com/custodia-labs/paperink/internal/core/ports/driving"
)

// Limit is the number of records loaded into the view.
const Limit = 200

// View lists recorded conversions.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	history driving.HistoryService
	list    *list.RecordList
	ctx     context.Context

	confirmClear bool
	notice       string
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
}

// NewView creates a new history view.
func NewView(s *styles.Styles, km *keymap.KeyMap, history driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:  s,
		keymap:  km,
		history: history,
		list:    list.NewRecordList(s),
		ctx:     context.Background(),
	}
}

// WithContext sets the context service calls run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the history.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.confirmClear = false
	v.notice = ""
	return v.loadHistory()
}

func (v *View) loadHistory() tea.Cmd {
	return func() tea.Msg {
		if v.history == nil {
			return messages.HistoryLoaded{Err: domain.ErrHistoryUnavailable}
		}
		records, err := v.history.List(v.ctx, Limit)
		return messages.HistoryLoaded{Records: records, Err: err}
	}
}

func (v *View) clearHistory() tea.Cmd {
	return func() tea.Msg {
		if v.history == nil {
			return messages.HistoryCleared{Err: domain.ErrHistoryUnavailable}
		}
		n, err := v.history.Clear(v.ctx)
		return messages.HistoryCleared{Removed: n, Err: err}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.HistoryLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.list.SetRecords(msg.Records)
		return v, nil

	case messages.HistoryCleared:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.notice = fmt.Sprintf("Removed %d records", msg.Removed)
		v.loading = true
		return v, v.loadHistory()
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.confirmClear {
		v.confirmClear = false
		if msg.String() == "y" {
			return v, v.clearHistory()
		}
		return v, nil
	}

	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(msg.String(), v.keymap.Select):
		if rec := v.list.SelectedRecord(); rec != nil {
			selected := *rec
			return v, func() tea.Msg {
				return messages.RecordSelected{Record: selected}
			}
		}
	case keymap.Matches(msg.String(), v.keymap.Reload):
		v.loading = true
		v.notice = ""
		return v, v.loadHistory()
	case keymap.Matches(msg.String(), v.keymap.Clear):
		if v.list.Count() > 0 {
			v.confirmClear = true
		}
	default:
		var cmd tea.Cmd
		v.list, cmd = v.list.Update(msg)
		return v, cmd
	}
	return v, nil
}

// View renders the history view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("History"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading history..."))
	case v.err != nil:
		if errors.Is(v.err, domain.ErrHistoryUnavailable) {
			b.WriteString(v.styles.Warning.Render("History is disabled. Enable it with 'paperink settings set history.enabled true'."))
		} else {
			b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		}
	default:
		b.WriteString(v.list.View())
	}
	b.WriteString("\n\n")

	if v.confirmClear {
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Remove all %d records? [y/N]", v.list.Count())))
		b.WriteString("\n")
	} else if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}

	b.WriteString(v.styles.Help.Render(keymap.HelpLine(v.keymap.HistoryHelp()...)))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	// Reserve lines for title, notice and help.
	v.list.SetDimensions(width, height-7)
}

// Records returns the listed records.
func (v *View) Records() []domain.ConversionRecord {
	return v.list.Records()
}

// SelectedIndex returns the selected record index.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// ConfirmingClear reports whether the clear confirmation is shown.
func (v *View) ConfirmingClear() bool {
	return v.confirmClear
}
