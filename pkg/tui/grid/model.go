// Package grid renders the editable schedule table and owns cell focus.
// It holds no row data of its own: every mutation is routed through the
// working set, and row completion is announced as an event for the app to
// act on.
package grid

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"quayside.dev/loadplan/pkg/convert"
	"quayside.dev/loadplan/pkg/schedule"
	"quayside.dev/loadplan/pkg/tui/events"
	"quayside.dev/loadplan/pkg/workset"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	editedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	blankStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("84"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	defaultWidth = 14
)

var columnWidths = map[schedule.Column]int{
	schedule.ColBooking:       12,
	schedule.ColSupplier:      12,
	schedule.ColTransportUnit: 10,
	schedule.ColVehicleType:   10,
	schedule.ColLoadingDate:   12,
	schedule.ColVehicleCount:  7,
	schedule.ColContainers:    12,
	schedule.ColWeight:        12,
}

// Model is the grid component. Focus always sits on exactly one cell.
type Model struct {
	set *workset.Set
	id  events.ComponentID

	rows []*schedule.Row
	cols []schedule.Column

	focusRow int
	focusCol int

	input  textinput.Model
	seeded string

	focused bool
	width   int
}

// NewModel constructs a grid bound to the working set.
func NewModel(set *workset.Set, id events.ComponentID) *Model {
	if id == "" {
		id = events.ComponentID("grid")
	}
	input := textinput.New()
	input.Prompt = ""
	input.Focus()

	m := &Model{
		set:     set,
		id:      id,
		cols:    schedule.Columns(),
		input:   input,
		focused: true,
	}
	m.Refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Refresh re-reads the working set snapshot and reseeds the cell editor.
// Call after any event that changed rows outside the grid.
func (m *Model) Refresh() {
	m.rows = m.set.Rows()
	if m.focusRow >= len(m.rows) {
		m.focusRow = len(m.rows) - 1
	}
	if m.focusRow < 0 {
		m.focusRow = 0
	}
	m.seedInput()
}

// Focused reports whether the grid receives key events.
func (m *Model) Focused() bool {
	return m.focused
}

// SetFocused toggles key handling, e.g. while a confirmation overlay is up.
func (m *Model) SetFocused(v bool) {
	m.focused = v
}

// SetWidth updates the render width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// Cursor returns the focused cell address.
func (m *Model) Cursor() (row, col int) {
	return m.focusRow, m.focusCol
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok || !m.focused {
		return m, nil
	}

	var cmds []tea.Cmd
	switch key.String() {
	case "left":
		cmds = m.commit(cmds)
		m.moveCol(-1)
	case "right":
		cmds = m.commit(cmds)
		m.moveCol(1)
	case "up":
		cmds = m.commit(cmds)
		m.moveRow(-1)
	case "down":
		cmds = m.commit(cmds)
		m.moveRow(1)
	case "enter":
		cmds = m.commit(cmds)
		if m.cols[m.focusCol] != schedule.LastColumn {
			m.moveRow(1)
			break
		}
		// Completing the last editable cell of the blank row creates it.
		if m.focusRow < len(m.rows) && m.rows[m.focusRow].New {
			idx := m.focusRow
			cmds = append(cmds, func() tea.Msg {
				return events.RowCompleteMsg{Component: m.id, Index: idx}
			})
		}
	case "tab", "shift+tab":
		// natural focus order, never intercepted
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) moveCol(delta int) {
	next := m.focusCol + delta
	if next < 0 {
		next = 0
	}
	if next > len(m.cols)-1 {
		next = len(m.cols) - 1
	}
	if next != m.focusCol {
		m.focusCol = next
		m.seedInput()
	}
}

func (m *Model) moveRow(delta int) {
	next := m.focusRow + delta
	if next < 0 {
		next = 0
	}
	if max := len(m.rows) - 1; next > max {
		next = max
	}
	if next < 0 {
		next = 0
	}
	if next != m.focusRow {
		m.focusRow = next
		m.seedInput()
	}
}

// commit writes the cell editor back into the working set when it changed.
func (m *Model) commit(cmds []tea.Cmd) []tea.Cmd {
	if m.focusRow >= len(m.rows) {
		return cmds
	}
	value := m.input.Value()
	if value == m.seeded {
		return cmds
	}
	col := m.cols[m.focusCol]
	if err := m.set.ApplyEdit(m.focusRow, col, value); err != nil {
		cmds = append(cmds, events.NoticeCmd(m.id, events.LevelError, "%v", err))
		m.seedInput()
		return cmds
	}
	m.rows = m.set.Rows()
	m.seedInput()
	return cmds
}

func (m *Model) seedInput() {
	text := ""
	if m.focusRow < len(m.rows) {
		text = cellText(m.rows[m.focusRow], m.cols[m.focusCol])
	}
	m.seeded = text
	m.input.SetValue(text)
	m.input.CursorEnd()
}

func cellText(r *schedule.Row, col schedule.Column) string {
	switch col {
	case schedule.ColBooking:
		return r.BookingRef
	case schedule.ColSupplier:
		return r.SupplierID
	case schedule.ColTransportUnit:
		return r.TransportUnit
	case schedule.ColVehicleType:
		return r.VehicleType
	case schedule.ColLoadingDate:
		return r.LoadingDate
	case schedule.ColVehicleCount:
		if r.VehicleCount == 0 {
			return ""
		}
		return fmt.Sprintf("%d", r.VehicleCount)
	case schedule.ColContainers:
		return convert.FormatAmount(r.Containers)
	case schedule.ColWeight:
		return convert.FormatAmount(r.Weight)
	}
	return ""
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	headers := make([]string, 0, len(m.cols)+1)
	headers = append(headers, pad("", 3))
	for _, col := range m.cols {
		headers = append(headers, pad(col.String(), colWidth(col)))
	}
	b.WriteString(headerStyle.Render(strings.Join(headers, " ")))
	b.WriteString("\n")

	for ri, r := range m.rows {
		cells := make([]string, 0, len(m.cols)+1)
		cells = append(cells, m.rowMarker(r))
		for ci, col := range m.cols {
			text := cellText(r, col)
			if ri == m.focusRow && ci == m.focusCol {
				text = m.input.Value()
				if text == "" {
					text = "·"
				}
				cells = append(cells, focusStyle.Render(pad(text, colWidth(col))))
				continue
			}
			cells = append(cells, pad(text, colWidth(col)))
		}
		line := strings.Join(cells, " ")
		switch {
		case r.New:
			line = blankStyle.Render(line)
		case r.Edited:
			line = editedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) rowMarker(r *schedule.Row) string {
	switch {
	case r.New:
		return blankStyle.Render(pad("+", 3))
	case r.Edited:
		return editedStyle.Render(pad("*", 3))
	default:
		return faintStyle.Render(pad("", 3))
	}
}

func colWidth(col schedule.Column) int {
	if w, ok := columnWidths[col]; ok {
		return w
	}
	return defaultWidth
}

// pad fits s into w cells, truncating on rune boundaries so multibyte codes
// never get split mid-character.
func pad(s string, w int) string {
	r := []rune(s)
	if len(r) >= w {
		return string(r[:w])
	}
	return s + strings.Repeat(" ", w-len(r))
}
