// Package events defines the typed messages exchanged between the working
// set, the grid, and the surrounding screen. Components never mutate each
// other directly; they emit these messages and react to them.
package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"quayside.dev/loadplan/pkg/remote"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// ChangeType enumerates supported change actions across components.
type ChangeType string

const (
	// ChangeCreate indicates a new row was created.
	ChangeCreate ChangeType = "create"
	// ChangeUpdate indicates an existing row changed.
	ChangeUpdate ChangeType = "update"
	// ChangeDelete indicates a row was removed.
	ChangeDelete ChangeType = "delete"
)

// SeedMsg announces that a fetched page was installed as the working set.
type SeedMsg struct {
	Component ComponentID
	Query     remote.Query
	Rows      int
	Total     int
}

// Describe renders the seed in a human-friendly format for logs.
func (m SeedMsg) Describe() string {
	return fmt.Sprintf("page:%d size:%d rows:%d total:%d", m.Query.Page, m.Query.Size, m.Rows, m.Total)
}

// RowChangeMsg announces a row mutation inside the working set.
type RowChangeMsg struct {
	Component ComponentID
	Action    ChangeType
	Index     int
	ID        *int64
}

// Describe implements the logging helper.
func (m RowChangeMsg) Describe() string {
	id := "-"
	if m.ID != nil {
		id = fmt.Sprintf("%d", *m.ID)
	}
	return fmt.Sprintf("action:%q index:%d id:%s", m.Action, m.Index, id)
}

// PendingDiscardMsg asks the user to confirm a page or filter change that
// would discard meaningful blank-row input. Only the most recent pending
// change is kept.
type PendingDiscardMsg struct {
	Component ComponentID
	Query     remote.Query
}

// QueryAppliedMsg announces that the active query changed and a fresh fetch
// is needed.
type QueryAppliedMsg struct {
	Component ComponentID
	Query     remote.Query
	// Cleared reports whether the working set was dropped eagerly. A filter
	// reset keeps rows on screen until the replacement page arrives.
	Cleared bool
}

// Level classifies a notice for the status bar.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// NoticeMsg is a fire-and-forget status message. Exactly one is emitted per
// failed operation.
type NoticeMsg struct {
	Component ComponentID
	Level     Level
	Text      string
}

// Describe implements the logging helper.
func (m NoticeMsg) Describe() string {
	return fmt.Sprintf("level:%q text:%q", m.Level, m.Text)
}

// NoticeCmd wraps a notice into a tea.Cmd for callers emitting from Update.
func NoticeCmd(component ComponentID, level Level, format string, args ...interface{}) tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg{Component: component, Level: level, Text: fmt.Sprintf(format, args...)}
	}
}

// RowCompleteMsg fires when the user completes the last editable cell of the
// blank row, requesting an immediate create.
type RowCompleteMsg struct {
	Component ComponentID
	Index     int
}
