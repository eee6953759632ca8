package schedule

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and display format for loading dates. Schedules
// carry calendar dates only, never a time component.
const DateLayout = "2006-01-02"

// Column addresses one editable cell within a row. The declaration order is
// the grid's column order; ColWeight is the last editable column.
type Column int

const (
	ColBooking Column = iota
	ColSupplier
	ColTransportUnit
	ColVehicleType
	ColLoadingDate
	ColVehicleCount
	ColContainers
	ColWeight
)

// LastColumn is the final editable column of a row. Completing it on the
// blank row triggers row creation.
const LastColumn = ColWeight

var columnTitles = map[Column]string{
	ColBooking:       "booking",
	ColSupplier:      "supplier",
	ColTransportUnit: "unit",
	ColVehicleType:   "vehicle",
	ColLoadingDate:   "date",
	ColVehicleCount:  "count",
	ColContainers:    "containers",
	ColWeight:        "weight",
}

// Columns returns every column in grid order.
func Columns() []Column {
	return []Column{
		ColBooking,
		ColSupplier,
		ColTransportUnit,
		ColVehicleType,
		ColLoadingDate,
		ColVehicleCount,
		ColContainers,
		ColWeight,
	}
}

func (c Column) String() string {
	if t, ok := columnTitles[c]; ok {
		return t
	}
	return "unknown"
}

// Row is one shipment-truck schedule line. A row with a nil ID has never
// been persisted; the single row with New set is the blank entry row used
// for fast inline creation.
type Row struct {
	ID            *int64           `json:"id,omitempty"`
	BookingRef    string           `json:"bookingRef,omitempty"`
	SupplierID    string           `json:"supplierId,omitempty"`
	TransportUnit string           `json:"transportUnit,omitempty"`
	VehicleType   string           `json:"vehicleType,omitempty"`
	LoadingDate   string           `json:"loadingDate,omitempty"`
	VehicleCount  int              `json:"vehicleCount,omitempty"`
	Containers    *decimal.Decimal `json:"containers,omitempty"`
	Weight        *decimal.Decimal `json:"weight,omitempty"`

	New    bool `json:"new,omitempty"`
	Edited bool `json:"edited,omitempty"`
}

// Blank returns a fresh blank entry row.
func Blank() *Row {
	return &Row{New: true}
}

// Persisted reports whether the row holds a server identity.
func (r *Row) Persisted() bool {
	return r.ID != nil
}

// Clone returns a deep copy. Decimal values are immutable, so sharing the
// backing value is safe; the pointers themselves are re-allocated.
func (r *Row) Clone() *Row {
	if r == nil {
		return nil
	}
	c := *r
	if r.ID != nil {
		id := *r.ID
		c.ID = &id
	}
	if r.Containers != nil {
		v := *r.Containers
		c.Containers = &v
	}
	if r.Weight != nil {
		v := *r.Weight
		c.Weight = &v
	}
	return &c
}

// ValidDate reports whether the loading date parses in DateLayout.
func (r *Row) ValidDate() bool {
	_, err := time.Parse(DateLayout, r.LoadingDate)
	return err == nil
}

// InputPolicy decides which populated blank-row fields count as meaningful
// input when a page or filter change would discard the working set. The
// boundary is policy, not law: the default mirrors the behavior users
// already rely on, but callers may narrow it.
type InputPolicy struct {
	// References counts booking, supplier, transport unit and vehicle type.
	References bool
	// Numerics counts vehicle count, containers and weight.
	Numerics bool
	// Date counts the loading date. Off by default: a lone date on the
	// blank row has never blocked a page change.
	Date bool
}

// DefaultInputPolicy returns the observed guard boundary.
func DefaultInputPolicy() InputPolicy {
	return InputPolicy{References: true, Numerics: true}
}

// HasInput reports whether the row carries meaningful user input under the
// given policy.
func (r *Row) HasInput(p InputPolicy) bool {
	if r == nil {
		return false
	}
	if p.References {
		if r.BookingRef != "" || r.SupplierID != "" || r.TransportUnit != "" || r.VehicleType != "" {
			return true
		}
	}
	if p.Numerics {
		if r.VehicleCount != 0 {
			return true
		}
		if r.Containers != nil && !r.Containers.IsZero() {
			return true
		}
		if r.Weight != nil && !r.Weight.IsZero() {
			return true
		}
	}
	if p.Date && r.LoadingDate != "" {
		return true
	}
	return false
}
