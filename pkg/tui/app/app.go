// Package app composes the full-screen scheduling surface: the editable
// grid, a filter prompt, the discard confirmation, and a status bar. It owns
// every network command and is the only place fetch tokens are issued.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"quayside.dev/loadplan/pkg/draft"
	"quayside.dev/loadplan/pkg/gateway"
	"quayside.dev/loadplan/pkg/remote"
	"quayside.dev/loadplan/pkg/tui/events"
	"quayside.dev/loadplan/pkg/tui/grid"
	"quayside.dev/loadplan/pkg/workset"
)

const requestTimeout = 30 * time.Second

type mode int

const (
	modeGrid mode = iota
	modeFilter
	modeConfirm
)

type pageFetchedMsg struct {
	token uint64
	query remote.Query
	page  *remote.Page
	err   error
}

type rowCreatedMsg struct {
	rec *remote.Record
	err error
}

type editsSavedMsg struct {
	count int
	err   error
}

type rowDeletedMsg struct {
	index int
	err   error
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("84"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

// Model is the root Bubble Tea model.
type Model struct {
	api    remote.API
	set    *workset.Set
	gw     *gateway.Gateway
	drafts *draft.Store

	grid *grid.Model

	mode        mode
	pendingText string

	filterInput textinput.Model

	status      string
	statusLevel events.Level

	// loading marks an outstanding fetch; revalidating narrows it to a
	// fetch over an already installed page, where rows stay on screen.
	loading      bool
	revalidating bool

	width  int
	height int
}

// New constructs the root model over already-wired collaborators. The draft
// store may be nil when drafts are disabled.
func New(api remote.API, set *workset.Set, gw *gateway.Gateway, drafts *draft.Store) *Model {
	filter := textinput.New()
	filter.Prompt = "booking: "
	filter.Placeholder = "code"

	return &Model{
		api:         api,
		set:         set,
		gw:          gw,
		drafts:      drafts,
		grid:        grid.NewModel(set, events.ComponentID("schedule-grid")),
		filterInput: filter,
		status:      "Loading…",
		statusLevel: events.LevelInfo,
		loading:     true,
	}
}

// Run launches the Bubble Tea program.
func Run(api remote.API, set *workset.Set, gw *gateway.Gateway, drafts *draft.Store) error {
	p := tea.NewProgram(New(api, set, gw, drafts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.startFetch(), m.waitForEvents())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.grid.SetWidth(v.Width)

	case tea.KeyPressMsg:
		return m.handleKey(v)

	case events.SeedMsg:
		m.grid.Refresh()
		cmds = append(cmds, m.waitForEvents())

	case events.RowChangeMsg:
		if v.Action == events.ChangeUpdate && v.Index == 0 {
			m.saveDraft()
		}
		cmds = append(cmds, m.waitForEvents())

	case events.PendingDiscardMsg:
		m.mode = modeConfirm
		m.grid.SetFocused(false)
		m.pendingText = describeQuery(v.Query)
		cmds = append(cmds, m.waitForEvents())

	case events.QueryAppliedMsg:
		if v.Cleared {
			m.grid.Refresh()
		}
		cmds = append(cmds, m.waitForEvents())

	case events.NoticeMsg:
		m.status = v.Text
		m.statusLevel = v.Level

	case events.RowCompleteMsg:
		cmds = append(cmds, m.createCmd())

	case pageFetchedMsg:
		if v.token != m.set.CurrentToken() {
			break // superseded by a newer fetch, success and failure alike
		}
		m.loading = false
		m.revalidating = false
		if v.err != nil {
			m.notify(events.LevelError, "fetch failed: %v", v.err)
			break
		}
		if !m.set.Seed(v.token, v.page) {
			break
		}
		m.grid.Refresh()
		m.notify(events.LevelInfo, "loaded %d of %d (%s)", len(v.page.Rows), v.page.Total, describeQuery(v.query))

	case rowCreatedMsg:
		if v.err != nil {
			switch {
			case errors.Is(v.err, gateway.ErrCreateInFlight):
				m.notify(events.LevelInfo, "create already running")
			default:
				m.notify(events.LevelError, "create failed: %v", v.err)
			}
			break
		}
		m.grid.Refresh()
		m.clearDraft()
		m.notify(events.LevelInfo, "row %d created", v.rec.ID)

	case editsSavedMsg:
		if v.err != nil {
			m.notify(events.LevelError, "save failed: %v", v.err)
			break
		}
		m.grid.Refresh()
		if v.count == 0 {
			m.notify(events.LevelInfo, "nothing to save")
		} else {
			m.notify(events.LevelInfo, "saved %d rows", v.count)
		}

	case rowDeletedMsg:
		if v.err != nil {
			m.notify(events.LevelError, "delete failed: %v", v.err)
			break
		}
		m.grid.Refresh()
		m.notify(events.LevelInfo, "row deleted")
	}

	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(key tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.String() == "ctrl+c" {
		m.saveDraft()
		return m, tea.Quit
	}

	switch m.mode {
	case modeConfirm:
		return m.handleConfirmKey(key)
	case modeFilter:
		return m.handleFilterKey(key)
	}
	return m.handleGridKey(key)
}

func (m *Model) handleConfirmKey(key tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "y", "enter":
		m.mode = modeGrid
		m.grid.SetFocused(true)
		if _, ok := m.set.ConfirmDiscard(); ok {
			m.clearDraft()
			m.grid.Refresh()
			return m, tea.Batch(m.startFetch(), m.waitForEvents())
		}
	case "n", "esc":
		m.mode = modeGrid
		m.grid.SetFocused(true)
		m.set.CancelDiscard()
		m.notify(events.LevelInfo, "kept unsaved entry")
	}
	return m, nil
}

func (m *Model) handleFilterKey(key tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "enter":
		booking := strings.TrimSpace(m.filterInput.Value())
		m.closeFilter()
		return m, m.requestQuery(remote.Query{Booking: booking, Page: 1, Size: m.set.Query().Size})
	case "esc":
		m.closeFilter()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(key)
	return m, cmd
}

func (m *Model) handleGridKey(key tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	q := m.set.Query()
	switch key.String() {
	case "ctrl+s":
		return m, m.saveCmd()
	case "ctrl+d":
		row, _ := m.grid.Cursor()
		return m, m.deleteCmd(row)
	case "ctrl+r":
		return m, m.startFetch()
	case "ctrl+f":
		m.mode = modeFilter
		m.grid.SetFocused(false)
		m.filterInput.SetValue(q.Booking)
		m.filterInput.CursorEnd()
		return m, m.filterInput.Focus()
	case "esc":
		if q.Booking != "" {
			return m, m.requestQuery(remote.Query{Page: 1, Size: q.Size})
		}
		return m, nil
	case "pgdown":
		if q.Page*q.Size < m.set.Total() {
			next := q
			next.Page++
			return m, m.requestQuery(next)
		}
		return m, nil
	case "pgup":
		if q.Page > 1 {
			prev := q
			prev.Page--
			return m, m.requestQuery(prev)
		}
		return m, nil
	}

	next, cmd := m.grid.Update(key)
	m.grid = next
	return m, cmd
}

// requestQuery routes a page/filter change through the working-set guard.
// The fetch only starts when the change applied; a held change surfaces as a
// PendingDiscardMsg on the event channel.
func (m *Model) requestQuery(q remote.Query) tea.Cmd {
	if !m.set.RequestQuery(q) {
		return nil
	}
	m.grid.Refresh()
	return m.startFetch()
}

// startFetch flags the in-flight state and issues the fetch command. A fetch
// over an installed page is a revalidation: the rows stay on screen and the
// status bar marks it differently from a first load.
func (m *Model) startFetch() tea.Cmd {
	m.loading = true
	m.revalidating = m.set.Seeded()
	return m.fetchCmd()
}

func (m *Model) closeFilter() {
	m.mode = modeGrid
	m.grid.SetFocused(true)
	m.filterInput.Blur()
}

func (m *Model) fetchCmd() tea.Cmd {
	token := m.set.NextToken()
	q := m.set.Query()
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		page, err := api.FetchPage(ctx, q)
		return pageFetchedMsg{token: token, query: q, page: page, err: err}
	}
}

func (m *Model) createCmd() tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		rec, err := gw.CreateBlank(ctx)
		return rowCreatedMsg{rec: rec, err: err}
	}
}

func (m *Model) saveCmd() tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		n, err := gw.SaveEdited(ctx)
		return editsSavedMsg{count: n, err: err}
	}
}

func (m *Model) deleteCmd(idx int) tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := gw.Delete(ctx, idx)
		return rowDeletedMsg{index: idx, err: err}
	}
}

func (m *Model) waitForEvents() tea.Cmd {
	ch := m.set.Events()
	return func() tea.Msg {
		return <-ch
	}
}

func (m *Model) notify(level events.Level, format string, args ...interface{}) {
	m.status = fmt.Sprintf(format, args...)
	m.statusLevel = level
}

func (m *Model) saveDraft() {
	if m.drafts == nil {
		return
	}
	if row, ok := m.set.Row(0); ok && row.New {
		_ = m.drafts.Save(m.set.Query().Booking, row)
	}
}

func (m *Model) clearDraft() {
	if m.drafts == nil {
		return
	}
	_ = m.drafts.Clear(m.set.Query().Booking)
}

// View implements tea.Model.
func (m *Model) View() (string, *tea.Cursor) {
	var b strings.Builder
	b.WriteString(titleStyle.Render("loadplan: truck shipment schedule"))
	b.WriteString("\n\n")
	b.WriteString(m.grid.View())
	b.WriteString("\n")

	switch m.mode {
	case modeConfirm:
		b.WriteString(promptStyle.Render(fmt.Sprintf("Discard unsaved entry and load %s? (y/n)", m.pendingText)))
	case modeFilter:
		b.WriteString(promptStyle.Render(m.filterInput.View()))
	default:
		b.WriteString(faintStyle.Render("ctrl+s save  ctrl+d delete  ctrl+f filter  esc clear filter  pgup/pgdn page  ctrl+c quit"))
	}
	b.WriteString("\n")
	b.WriteString(m.statusBar())
	return b.String(), nil
}

func (m *Model) statusBar() string {
	left := m.status
	switch {
	case m.revalidating:
		left = "⟳ " + left
	case m.loading:
		left = "… " + left
	case m.statusLevel == events.LevelError:
		left = errorStyle.Render(left)
	default:
		left = infoStyle.Render(left)
	}

	q := m.set.Query()
	filter := q.Booking
	if filter == "" {
		filter = "(none)"
	}
	right := faintStyle.Render(fmt.Sprintf(
		"filter:%s  page %d/%d  edited:%d  rows:%d",
		filter, q.Page, pageCount(m.set.Total(), q.Size), m.set.EditedCount(), m.set.Total(),
	))
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func pageCount(total, size int) int {
	if size < 1 {
		return 1
	}
	n := (total + size - 1) / size
	if n < 1 {
		n = 1
	}
	return n
}

func describeQuery(q remote.Query) string {
	if q.Booking == "" {
		return fmt.Sprintf("page %d", q.Page)
	}
	return fmt.Sprintf("filter %q page %d", q.Booking, q.Page)
}
