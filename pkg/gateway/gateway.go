// Package gateway validates rows and drives persistence: immediate
// single-row creation, batched update of edited rows, and deletion with
// local renumbering. It never mutates lifecycle flags until the server
// confirms success, so every failure leaves the grid retryable.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"quayside.dev/loadplan/pkg/catalog"
	"quayside.dev/loadplan/pkg/remote"
	"quayside.dev/loadplan/pkg/schedule"
	"quayside.dev/loadplan/pkg/workset"
)

// ValidationError reports the first rule a row violates. It never reaches
// the network.
type ValidationError struct {
	Column schedule.Column
	Rule   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("gateway: %s %s", e.Column, e.Rule)
}

// ErrCreateInFlight is returned when row completion fires again before the
// previous create resolved. The trigger is at-most-once per row.
var ErrCreateInFlight = errors.New("gateway: create already in flight")

var (
	minContainers = decimal.RequireFromString("0.1")
	minWeight     = decimal.RequireFromString("0.01")
)

// Gateway arbitrates between the working set and the remote API.
type Gateway struct {
	api remote.API
	cat *catalog.Catalog
	set *workset.Set

	mu       sync.Mutex
	creating bool
}

// New wires a gateway over the given collaborators.
func New(api remote.API, cat *catalog.Catalog, set *workset.Set) *Gateway {
	return &Gateway{api: api, cat: cat, set: set}
}

// Validate checks one row against the full rule set and returns the first
// violation in column order.
func Validate(r *schedule.Row) error {
	if r.BookingRef == "" {
		return &ValidationError{Column: schedule.ColBooking, Rule: "is required"}
	}
	if r.SupplierID == "" {
		return &ValidationError{Column: schedule.ColSupplier, Rule: "is required"}
	}
	if r.TransportUnit == "" {
		return &ValidationError{Column: schedule.ColTransportUnit, Rule: "is required"}
	}
	if r.VehicleType == "" {
		return &ValidationError{Column: schedule.ColVehicleType, Rule: "is required"}
	}
	if r.LoadingDate == "" {
		return &ValidationError{Column: schedule.ColLoadingDate, Rule: "is required"}
	}
	if !r.ValidDate() {
		return &ValidationError{Column: schedule.ColLoadingDate, Rule: "is not a valid date"}
	}
	if r.VehicleCount < 1 {
		return &ValidationError{Column: schedule.ColVehicleCount, Rule: "must be at least 1"}
	}
	if r.Containers == nil || r.Containers.LessThan(minContainers) {
		return &ValidationError{Column: schedule.ColContainers, Rule: "must be at least 0.1"}
	}
	if r.Weight == nil || r.Weight.LessThan(minWeight) {
		return &ValidationError{Column: schedule.ColWeight, Rule: "must be at least 0.01"}
	}
	return nil
}

// CreateBlank validates and persists the blank entry row. On success the row
// is promoted in place and a fresh blank row is prepended ahead of it. The
// row stays new and fully retryable on any failure.
func (g *Gateway) CreateBlank(ctx context.Context) (*remote.Record, error) {
	g.mu.Lock()
	if g.creating {
		g.mu.Unlock()
		return nil, ErrCreateInFlight
	}
	g.creating = true
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.creating = false
		g.mu.Unlock()
	}()

	row, ok := g.set.Row(0)
	if !ok || !row.New {
		return nil, errors.New("gateway: no blank row to create")
	}
	if err := Validate(row); err != nil {
		return nil, err
	}
	payload, err := g.payload(row)
	if err != nil {
		return nil, err
	}

	rec, err := g.api.CreateRow(ctx, payload)
	if err != nil {
		return nil, err
	}
	g.set.RowCreated(0, rec)
	return rec, nil
}

// SaveEdited submits every edited persisted row as one batch. Validation is
// all-or-nothing: a single invalid row aborts the batch before anything is
// sent. Returns the number of rows saved.
func (g *Gateway) SaveEdited(ctx context.Context) (int, error) {
	rows := g.set.Rows()
	var updates []remote.UpdatePayload
	for _, r := range rows {
		if !r.Edited || r.New {
			continue
		}
		if err := Validate(r); err != nil {
			return 0, err
		}
		payload, err := g.payload(r)
		if err != nil {
			return 0, err
		}
		updates = append(updates, remote.UpdatePayload{ID: *r.ID, CreatePayload: payload})
	}
	if len(updates) == 0 {
		return 0, nil
	}
	if err := g.api.BatchUpdate(ctx, updates); err != nil {
		// edit flags stay set for retry
		return 0, err
	}
	g.set.MarkSaved()
	return len(updates), nil
}

// Delete removes the row at idx. Persisted rows are deleted remotely first;
// the local row only goes away once the server confirmed (or never knew the
// row).
func (g *Gateway) Delete(ctx context.Context, idx int) error {
	row, ok := g.set.Row(idx)
	if !ok {
		return fmt.Errorf("gateway: row %d out of range", idx)
	}
	if row.New {
		return errors.New("gateway: the blank entry row cannot be deleted")
	}
	if row.Persisted() {
		if err := g.api.DeleteRow(ctx, *row.ID); err != nil {
			return err
		}
	}
	g.set.RowDeleted(idx)
	return nil
}

func (g *Gateway) payload(r *schedule.Row) (remote.CreatePayload, error) {
	bookingID, err := g.cat.ResolveBooking(r.BookingRef)
	if err != nil {
		return remote.CreatePayload{}, err
	}
	return remote.CreatePayload{
		BookingID:     bookingID,
		SupplierID:    r.SupplierID,
		TransportUnit: r.TransportUnit,
		VehicleType:   r.VehicleType,
		LoadingDate:   r.LoadingDate,
		VehicleCount:  r.VehicleCount,
		Containers:    *r.Containers,
		Weight:        *r.Weight,
	}, nil
}
