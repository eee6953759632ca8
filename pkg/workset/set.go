// Package workset owns the authoritative ordered row sequence behind the
// scheduling grid. It is the only component allowed to mutate rows; the
// grid, the gateway and the derived-field logic all go through its closed
// method set. State changes are announced as typed events over a channel,
// and readers get cloned snapshots.
package workset

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/shopspring/decimal"

	"quayside.dev/loadplan/pkg/catalog"
	"quayside.dev/loadplan/pkg/convert"
	"quayside.dev/loadplan/pkg/remote"
	"quayside.dev/loadplan/pkg/schedule"
	"quayside.dev/loadplan/pkg/tui/events"
)

// carryPolicy is the permissive predicate used when deciding whether blank
// row content survives a re-seed of the same page. Anything typed counts.
var carryPolicy = schedule.InputPolicy{References: true, Numerics: true, Date: true}

// Set is the working set. All exported methods are safe for concurrent use;
// Bubble Tea commands run off the update loop.
type Set struct {
	component events.ComponentID

	mu sync.RWMutex

	cat    *catalog.Catalog
	policy schedule.InputPolicy

	rows    []*schedule.Row
	query   remote.Query
	pending *remote.Query
	token   uint64
	total   int
	seeded  bool

	eventCh chan tea.Msg
}

// New creates an empty working set for the given initial query. The
// component id tags emitted events (falls back to "workset" if empty).
func New(cat *catalog.Catalog, policy schedule.InputPolicy, initial remote.Query, component events.ComponentID) *Set {
	if component == "" {
		component = events.ComponentID("workset")
	}
	return &Set{
		component: component,
		cat:       cat,
		policy:    policy,
		query:     initial,
		eventCh:   make(chan tea.Msg, 64),
	}
}

// Events exposes the event channel for Bubble Tea subscriptions.
func (s *Set) Events() <-chan tea.Msg {
	return s.eventCh
}

// Rows returns a cloned snapshot of the current sequence.
func (s *Set) Rows() []*schedule.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRows(s.rows)
}

// Row returns a clone of the row at idx.
func (s *Set) Row(idx int) (*schedule.Row, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx < 0 || idx >= len(s.rows) {
		return nil, false
	}
	return s.rows[idx].Clone(), true
}

// Len returns the working set length including the blank row.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Total returns the server-side total for the active filter.
func (s *Set) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// Query returns the active filter/page.
func (s *Set) Query() remote.Query {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// Seeded reports whether a page has been installed for the active query.
func (s *Set) Seeded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seeded
}

// Pending returns the deferred query change awaiting confirmation.
func (s *Set) Pending() (remote.Query, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pending == nil {
		return remote.Query{}, false
	}
	return *s.pending, true
}

// BlankHasInput reports whether the blank row holds meaningful input under
// the configured policy.
func (s *Set) BlankHasInput() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blankHasInputLocked()
}

func (s *Set) blankHasInputLocked() bool {
	if len(s.rows) == 0 || !s.rows[0].New {
		return false
	}
	return s.rows[0].HasInput(s.policy)
}

// EditedCount returns the number of persisted rows with unsaved edits.
func (s *Set) EditedCount() int {
	return len(s.EditedIndexes())
}

// EditedIndexes returns the positions of persisted rows with unsaved edits,
// ascending.
func (s *Set) EditedIndexes() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var idxs []int
	for i, r := range s.rows {
		if r.Edited && !r.New {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// NextToken issues the token for a fetch about to start. A Seed carrying an
// older token is stale and will be discarded.
func (s *Set) NextToken() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token++
	return s.token
}

// CurrentToken returns the token of the most recently issued fetch. A
// response carrying any older token is stale, whether it succeeded or not.
func (s *Set) CurrentToken() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Seed installs a fetched page as the working set: server records become
// persisted rows and one blank entry row is prepended. Blank-row input and
// unsaved edits survive a re-seed of the same page; they were either absent
// or explicitly discarded on any other path here. Returns false when the
// token is stale (a superseding fetch has been issued).
func (s *Set) Seed(token uint64, page *remote.Page) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.token {
		return false
	}

	blank := schedule.Blank()
	if len(s.rows) > 0 && s.rows[0].New && s.rows[0].HasInput(carryPolicy) {
		blank = s.rows[0]
	}
	edited := make(map[int64]*schedule.Row)
	for _, r := range s.rows {
		if r.Edited && !r.New && r.ID != nil {
			edited[*r.ID] = r
		}
	}

	rows := make([]*schedule.Row, 0, len(page.Rows)+1)
	rows = append(rows, blank)
	for i := range page.Rows {
		rec := &page.Rows[i]
		if kept, ok := edited[rec.ID]; ok {
			rows = append(rows, kept)
			continue
		}
		rows = append(rows, recordToRow(rec))
	}

	s.rows = rows
	s.total = page.Total
	s.seeded = true
	s.emit(events.SeedMsg{
		Component: s.component,
		Query:     s.query,
		Rows:      len(rows),
		Total:     page.Total,
	})
	return true
}

// RequestQuery asks for a page or filter change. A reset to the empty filter
// always applies immediately and keeps rows on screen until the next Seed.
// Any other change is applied at once when the blank row is clean, or held
// as the single pending change (latest wins) when it is not. Returns true
// when the change was applied and the caller should fetch.
func (s *Set) RequestQuery(q remote.Query) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q.Equal(s.query) {
		return false
	}

	if q.Booking == "" && s.query.Booking != "" {
		// Filter reset: no guard, no eager clear.
		s.query = q
		s.pending = nil
		s.emit(events.QueryAppliedMsg{Component: s.component, Query: q})
		return true
	}

	if s.blankHasInputLocked() {
		held := q
		s.pending = &held
		s.emit(events.PendingDiscardMsg{Component: s.component, Query: q})
		return false
	}

	s.clearLocked()
	s.query = q
	s.emit(events.QueryAppliedMsg{Component: s.component, Query: q, Cleared: true})
	return true
}

// ConfirmDiscard applies the pending query change, discarding the working
// set unconditionally. The returned query should be fetched next.
func (s *Set) ConfirmDiscard() (remote.Query, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return remote.Query{}, false
	}
	q := *s.pending
	s.pending = nil
	s.clearLocked()
	s.query = q
	s.emit(events.QueryAppliedMsg{Component: s.component, Query: q, Cleared: true})
	return q, true
}

// CancelDiscard drops the pending query change and keeps the working set.
func (s *Set) CancelDiscard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

func (s *Set) clearLocked() {
	s.rows = nil
	s.seeded = false
	s.total = 0
}

// ApplyEdit writes raw cell text into one field of the row at idx, deriving
// the linked numeric column where a conversion factor is known. A no-op edit
// (same value) changes nothing and marks nothing.
func (s *Set) ApplyEdit(idx int, col schedule.Column, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.rows) {
		return fmt.Errorf("workset: row %d out of range", idx)
	}
	r := s.rows[idx]
	raw = strings.TrimSpace(raw)

	changed := false
	switch col {
	case schedule.ColBooking:
		if r.BookingRef != raw {
			r.BookingRef = raw
			changed = true
			if f, ok := s.factor(raw); ok {
				r.Containers, r.Weight, _ = convert.Rederive(r.Containers, r.Weight, f)
			}
		}
	case schedule.ColSupplier:
		changed = r.SupplierID != raw
		r.SupplierID = raw
	case schedule.ColTransportUnit:
		changed = r.TransportUnit != raw
		r.TransportUnit = raw
	case schedule.ColVehicleType:
		changed = r.VehicleType != raw
		r.VehicleType = raw
	case schedule.ColLoadingDate:
		if raw != "" {
			if _, err := time.Parse(schedule.DateLayout, raw); err != nil {
				return fmt.Errorf("workset: invalid loading date %q, want YYYY-MM-DD", raw)
			}
		}
		changed = r.LoadingDate != raw
		r.LoadingDate = raw
	case schedule.ColVehicleCount:
		n := 0
		if raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("workset: invalid vehicle count %q", raw)
			}
			n = v
		}
		changed = r.VehicleCount != n
		r.VehicleCount = n
	case schedule.ColContainers:
		d, err := convert.ParseAmount(raw)
		if err != nil {
			return fmt.Errorf("workset: invalid container count %q", raw)
		}
		if !amountsEqual(r.Containers, d) {
			r.Containers = d
			changed = true
			if d == nil {
				// Clearing one side clears both.
				r.Weight = nil
			} else if f, ok := s.factor(r.BookingRef); ok {
				if w, res := convert.WeightFromContainers(*d, f); res == convert.Set {
					r.Weight = &w
				}
			}
		}
	case schedule.ColWeight:
		d, err := convert.ParseAmount(raw)
		if err != nil {
			return fmt.Errorf("workset: invalid weight %q", raw)
		}
		if !amountsEqual(r.Weight, d) {
			r.Weight = d
			changed = true
			if d == nil {
				r.Containers = nil
			} else if f, ok := s.factor(r.BookingRef); ok {
				if c, res := convert.ContainersFromWeight(*d, f); res == convert.Set {
					r.Containers = &c
				}
			}
		}
	default:
		return fmt.Errorf("workset: unknown column %d", col)
	}

	if !changed {
		return nil
	}
	if !r.New {
		r.Edited = true
	}
	s.emit(events.RowChangeMsg{Component: s.component, Action: events.ChangeUpdate, Index: idx, ID: r.ID})
	return nil
}

// RowCreated promotes the row at idx in place to its persisted identity and
// prepends a fresh blank entry row ahead of it.
func (s *Set) RowCreated(idx int, rec *remote.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.rows) {
		return
	}
	promoted := recordToRow(rec)
	s.rows[idx] = promoted
	s.rows = append([]*schedule.Row{schedule.Blank()}, s.rows...)
	s.total++
	s.emit(events.RowChangeMsg{Component: s.component, Action: events.ChangeCreate, Index: idx + 1, ID: promoted.ID})
}

// RestoreBlank installs a previously drafted entry row as the blank row. It
// may be called before the first Seed; the restored content then survives
// seeding the same way live blank-row input does.
func (s *Set) RestoreBlank(r *schedule.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r == nil {
		return
	}
	d := r.Clone()
	d.ID = nil
	d.New = true
	d.Edited = false
	if len(s.rows) == 0 {
		s.rows = []*schedule.Row{d}
		return
	}
	if s.rows[0].New {
		s.rows[0] = d
	}
}

// RowDeleted removes the row at idx from the local sequence.
func (s *Set) RowDeleted(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.rows) {
		return
	}
	removed := s.rows[idx]
	s.rows = append(s.rows[:idx], s.rows[idx+1:]...)
	if removed.Persisted() && s.total > 0 {
		s.total--
	}
	s.emit(events.RowChangeMsg{Component: s.component, Action: events.ChangeDelete, Index: idx, ID: removed.ID})
}

// MarkSaved clears the edit flag on every persisted row after a successful
// batch update.
func (s *Set) MarkSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if !r.New {
			r.Edited = false
		}
	}
}

func (s *Set) factor(code string) (decimal.Decimal, bool) {
	if s.cat == nil || code == "" {
		return decimal.Zero, false
	}
	d, ok := s.cat.Factor(code)
	if !ok || d.IsZero() {
		return decimal.Zero, false
	}
	return d, true
}

func amountsEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func (s *Set) emit(msg tea.Msg) {
	select {
	case s.eventCh <- msg:
	default:
	}
}

func recordToRow(rec *remote.Record) *schedule.Row {
	id := rec.ID
	containers := rec.Containers
	weight := rec.Weight
	return &schedule.Row{
		ID:            &id,
		BookingRef:    rec.BookingCode,
		SupplierID:    rec.SupplierID,
		TransportUnit: rec.TransportUnit,
		VehicleType:   rec.VehicleType,
		LoadingDate:   rec.LoadingDate,
		VehicleCount:  rec.VehicleCount,
		Containers:    &containers,
		Weight:        &weight,
	}
}

func cloneRows(rows []*schedule.Row) []*schedule.Row {
	if len(rows) == 0 {
		return nil
	}
	out := make([]*schedule.Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
