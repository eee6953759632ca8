package grid

import (
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"
	"github.com/shopspring/decimal"

	"quayside.dev/loadplan/pkg/catalog"
	"quayside.dev/loadplan/pkg/remote"
	"quayside.dev/loadplan/pkg/schedule"
	"quayside.dev/loadplan/pkg/tui/events"
	"quayside.dev/loadplan/pkg/workset"
)

func testSet(t *testing.T, ids ...int64) *workset.Set {
	t.Helper()
	cat := catalog.FromLists(&remote.OptionLists{
		Bookings: []remote.BookingOption{
			{ID: 101, Code: "BK-1", Label: "Hamburg grain", Factor: decimal.RequireFromString("22.5")},
		},
	})
	s := workset.New(cat, schedule.DefaultInputPolicy(), remote.Query{Size: 50}, "")
	page := &remote.Page{Total: len(ids)}
	for _, id := range ids {
		page.Rows = append(page.Rows, remote.Record{
			ID: id, BookingCode: "BK-1", SupplierID: "SUP-7", TransportUnit: "40DC",
			VehicleType: "TRUCK", LoadingDate: "2026-02-14", VehicleCount: 2,
			Containers: decimal.RequireFromString("4"), Weight: decimal.RequireFromString("90"),
		})
	}
	if !s.Seed(s.NextToken(), page) {
		t.Fatalf("seed failed")
	}
	return s
}

func press(m *Model, key tea.Key) *Model {
	next, _ := m.Update(tea.KeyPressMsg(key))
	return next
}

func typeText(m *Model, text string) *Model {
	for _, r := range text {
		next, _ := m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
		m = next
	}
	return m
}

func TestArrowNavigationClampsAtEdges(t *testing.T) {
	m := NewModel(testSet(t, 10, 11), "")

	if r, c := m.Cursor(); r != 0 || c != 0 {
		t.Fatalf("focus should start at (0,0), got (%d,%d)", r, c)
	}

	m = press(m, tea.Key{Code: tea.KeyLeft})
	if _, c := m.Cursor(); c != 0 {
		t.Fatalf("left at first column must clamp, got col %d", c)
	}
	m = press(m, tea.Key{Code: tea.KeyUp})
	if r, _ := m.Cursor(); r != 0 {
		t.Fatalf("up at row 0 must clamp, got row %d", r)
	}

	for i := 0; i < 20; i++ {
		m = press(m, tea.Key{Code: tea.KeyRight})
	}
	if _, c := m.Cursor(); c != len(schedule.Columns())-1 {
		t.Fatalf("right must clamp at the last column, got %d", c)
	}

	for i := 0; i < 20; i++ {
		m = press(m, tea.Key{Code: tea.KeyDown})
	}
	if r, _ := m.Cursor(); r != 2 {
		t.Fatalf("down must clamp at the last row, got %d", r)
	}
}

func TestEnterMovesDownExceptOnLastColumn(t *testing.T) {
	m := NewModel(testSet(t, 10, 11), "")

	m = press(m, tea.Key{Code: tea.KeyEnter})
	if r, c := m.Cursor(); r != 1 || c != 0 {
		t.Fatalf("enter on a non-last column should move down, got (%d,%d)", r, c)
	}
}

func TestEnterOnLastColumnOfBlankRowEmitsRowComplete(t *testing.T) {
	m := NewModel(testSet(t, 10), "")

	for i := 0; i < len(schedule.Columns())-1; i++ {
		m = press(m, tea.Key{Code: tea.KeyRight})
	}
	next, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	m = next
	if cmd == nil {
		t.Fatalf("expected a command from enter on the last column")
	}
	msg := cmd()
	complete, ok := msg.(events.RowCompleteMsg)
	if !ok {
		t.Fatalf("expected RowCompleteMsg, got %T", msg)
	}
	if complete.Index != 0 {
		t.Fatalf("completion should target the blank row, got index %d", complete.Index)
	}
}

func TestEnterOnLastColumnOfPersistedRowDoesNothingSpecial(t *testing.T) {
	m := NewModel(testSet(t, 10), "")

	m = press(m, tea.Key{Code: tea.KeyDown})
	for i := 0; i < len(schedule.Columns())-1; i++ {
		m = press(m, tea.Key{Code: tea.KeyRight})
	}
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		if _, isComplete := cmd().(events.RowCompleteMsg); isComplete {
			t.Fatalf("persisted rows must not trigger row completion")
		}
	}
}

func TestTypingCommitsOnNavigation(t *testing.T) {
	set := testSet(t, 10)
	m := NewModel(set, "")

	m = typeText(m, "BK-1")
	m = press(m, tea.Key{Code: tea.KeyRight})

	blank, _ := set.Row(0)
	if blank.BookingRef != "BK-1" {
		t.Fatalf("expected committed booking BK-1, got %q", blank.BookingRef)
	}
}

func TestCommitRoutesDerivation(t *testing.T) {
	set := testSet(t, 10)
	m := NewModel(set, "")

	m = typeText(m, "BK-1")
	m = press(m, tea.Key{Code: tea.KeyRight})

	// jump to containers and type 4
	for i := 0; i < 5; i++ {
		m = press(m, tea.Key{Code: tea.KeyRight})
	}
	if _, c := m.Cursor(); schedule.Columns()[c] != schedule.ColContainers {
		t.Fatalf("expected focus on containers column")
	}
	m = typeText(m, "4")
	m = press(m, tea.Key{Code: tea.KeyRight})

	blank, _ := set.Row(0)
	if blank.Weight == nil || blank.Weight.String() != "90" {
		t.Fatalf("expected derived weight 90 after commit, got %v", blank.Weight)
	}
}

func TestBadInputEmitsNoticeAndKeepsCell(t *testing.T) {
	set := testSet(t, 10)
	m := NewModel(set, "")

	// move to vehicle count and type junk
	for i := 0; i < 5; i++ {
		m = press(m, tea.Key{Code: tea.KeyRight})
	}
	m = typeText(m, "x")
	next, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	m = next
	if cmd == nil {
		t.Fatalf("expected a notice command for invalid input")
	}
	found := false
	collectNotices(cmd(), &found)
	if !found {
		t.Fatalf("expected an error notice")
	}
	blank, _ := set.Row(0)
	if blank.VehicleCount != 0 {
		t.Fatalf("invalid input must not change the row, got %d", blank.VehicleCount)
	}
}

func collectNotices(msg tea.Msg, found *bool) {
	switch v := msg.(type) {
	case events.NoticeMsg:
		if v.Level == events.LevelError {
			*found = true
		}
	case tea.BatchMsg:
		for _, c := range v {
			if c != nil {
				collectNotices(c(), found)
			}
		}
	}
}

func TestRefreshClampsFocusAfterShrink(t *testing.T) {
	set := testSet(t, 10, 11)
	m := NewModel(set, "")
	m = press(m, tea.Key{Code: tea.KeyDown})
	m = press(m, tea.Key{Code: tea.KeyDown})

	set.RowDeleted(2)
	set.RowDeleted(1)
	m.Refresh()

	if r, _ := m.Cursor(); r != 0 {
		t.Fatalf("focus should clamp into the shrunk set, got row %d", r)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func TestViewMarksRowStates(t *testing.T) {
	set := testSet(t, 10)
	if err := set.ApplyEdit(1, schedule.ColSupplier, "SUP-9"); err != nil {
		t.Fatalf("edit persisted row: %v", err)
	}
	m := NewModel(set, "")

	view := stripANSI(m.View())
	lines := strings.Split(view, "\n")
	if len(lines) < 3 {
		t.Fatalf("view too short:\n%s", view)
	}
	if !strings.Contains(lines[0], "booking") || !strings.Contains(lines[0], "weight") {
		t.Fatalf("header line missing columns: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "+") {
		t.Fatalf("blank row must carry the + marker: %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "*") {
		t.Fatalf("edited row must carry the * marker: %q", lines[2])
	}
	if !strings.Contains(lines[2], "SUP-9") {
		t.Fatalf("edited value must render: %q", lines[2])
	}
}

func TestPadTruncatesOnRuneBoundaries(t *testing.T) {
	got := pad("GRÜN-Überlänge-2031", 6)
	if !utf8.ValidString(got) {
		t.Fatalf("truncation split a rune: %q", got)
	}
	if n := len([]rune(got)); n != 6 {
		t.Fatalf("want 6 cells, got %d in %q", n, got)
	}

	padded := pad("北京港", 6)
	if padded != "北京港   " {
		t.Fatalf("padding must count runes, not bytes: %q", padded)
	}
}

func TestViewSurvivesMultibyteCellOverflow(t *testing.T) {
	set := testSet(t, 10)
	if err := set.ApplyEdit(1, schedule.ColSupplier, "Grünfeld-Spedition-ÖÄÜ"); err != nil {
		t.Fatalf("edit supplier: %v", err)
	}
	m := NewModel(set, "")

	view := stripANSI(m.View())
	if !utf8.ValidString(view) {
		t.Fatalf("view contains a split rune")
	}
	if !strings.Contains(view, "Grünfeld") {
		t.Fatalf("truncated cell must keep whole leading runes:\n%s", view)
	}
}
