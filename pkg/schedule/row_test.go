package schedule

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestColumnsOrderEndsWithWeight(t *testing.T) {
	cols := Columns()
	if len(cols) != 8 {
		t.Fatalf("expected 8 columns, got %d", len(cols))
	}
	if cols[0] != ColBooking {
		t.Fatalf("expected booking first, got %v", cols[0])
	}
	if cols[len(cols)-1] != LastColumn {
		t.Fatalf("expected weight to be the last column, got %v", cols[len(cols)-1])
	}
}

func TestBlankRowHasNoInput(t *testing.T) {
	r := Blank()
	if !r.New {
		t.Fatalf("blank row must be marked new")
	}
	if r.Persisted() {
		t.Fatalf("blank row must not carry a server identity")
	}
	if r.HasInput(DefaultInputPolicy()) {
		t.Fatalf("empty blank row should report no meaningful input")
	}
}

func TestHasInputReferenceFields(t *testing.T) {
	policy := DefaultInputPolicy()
	cases := []struct {
		name string
		row  Row
		want bool
	}{
		{"booking", Row{BookingRef: "BK-100"}, true},
		{"supplier", Row{SupplierID: "SUP-7"}, true},
		{"transport unit", Row{TransportUnit: "40DC"}, true},
		{"vehicle type", Row{VehicleType: "TRUCK"}, true},
		{"date only", Row{LoadingDate: "2026-02-14"}, false},
	}
	for _, tc := range cases {
		if got := tc.row.HasInput(policy); got != tc.want {
			t.Fatalf("%s: HasInput = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestHasInputLoneVehicleCount(t *testing.T) {
	// A lone vehicle count on the blank row counts as meaningful input
	// under the default policy, so a page-size change must be guarded.
	r := Row{VehicleCount: 3}
	if !r.HasInput(DefaultInputPolicy()) {
		t.Fatalf("vehicleCount=3 alone should count as meaningful input")
	}
	if r.HasInput(InputPolicy{References: true}) {
		t.Fatalf("references-only policy should ignore numerics")
	}
}

func TestHasInputNumericZeroIsDefault(t *testing.T) {
	zero := decimal.Zero
	r := Row{Containers: &zero}
	if r.HasInput(DefaultInputPolicy()) {
		t.Fatalf("zero containers is the default state, not input")
	}
	v := decimal.RequireFromString("0.5")
	r.Containers = &v
	if !r.HasInput(DefaultInputPolicy()) {
		t.Fatalf("populated containers should count as input")
	}
}

func TestCloneIsDeep(t *testing.T) {
	id := int64(42)
	w := decimal.RequireFromString("90")
	r := &Row{ID: &id, BookingRef: "BK-1", Weight: &w, Edited: true}
	c := r.Clone()

	*c.ID = 99
	newW := decimal.RequireFromString("100")
	*c.Weight = newW

	if *r.ID != 42 {
		t.Fatalf("clone shares ID pointer with original")
	}
	if !r.Weight.Equal(w) {
		t.Fatalf("clone shares weight pointer with original")
	}
	if !c.Edited {
		t.Fatalf("clone dropped edit flag")
	}
}

func TestValidDate(t *testing.T) {
	r := Row{LoadingDate: "2026-02-30"}
	if r.ValidDate() {
		t.Fatalf("expected impossible date to fail validation")
	}
	r.LoadingDate = "2026-02-14"
	if !r.ValidDate() {
		t.Fatalf("expected calendar date to validate")
	}
}
