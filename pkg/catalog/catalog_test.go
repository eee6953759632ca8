package catalog

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"quayside.dev/loadplan/pkg/remote"
)

func testLists() *remote.OptionLists {
	return &remote.OptionLists{
		Bookings: []remote.BookingOption{
			{ID: 101, Code: "BK-1", Label: "Hamburg grain", Factor: decimal.RequireFromString("22.5")},
			{ID: 102, Code: "BK-2", Label: "Rotterdam steel", Factor: decimal.Zero},
		},
		Suppliers:      []remote.Option{{Code: "SUP-7", Label: "Nordfeld GmbH"}},
		TransportUnits: []remote.Option{{Code: "40DC", Label: "40' dry container"}},
		VehicleTypes:   []remote.Option{{Code: "TRUCK", Label: "Standard truck"}},
	}
}

func TestFactorLookup(t *testing.T) {
	c := FromLists(testLists())
	f, ok := c.Factor("BK-1")
	if !ok {
		t.Fatalf("expected BK-1 factor to resolve")
	}
	if !f.Equal(decimal.RequireFromString("22.5")) {
		t.Fatalf("unexpected factor %s", f)
	}
	if _, ok := c.Factor("BK-404"); ok {
		t.Fatalf("unknown booking should not resolve a factor")
	}
}

func TestResolveBooking(t *testing.T) {
	c := FromLists(testLists())
	id, err := c.ResolveBooking("BK-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 101 {
		t.Fatalf("expected server id 101, got %d", id)
	}

	_, err = c.ResolveBooking("BK-404")
	var re *ResolutionError
	if !errors.As(err, &re) {
		t.Fatalf("expected ResolutionError, got %T: %v", err, err)
	}
	if re.Kind != KindBooking || re.Code != "BK-404" {
		t.Fatalf("unexpected resolution error: %+v", re)
	}
}

func TestLabelFallsBackToRawCode(t *testing.T) {
	c := FromLists(testLists())
	if got := c.Label(KindSupplier, "SUP-7"); got != "Nordfeld GmbH" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := c.Label(KindSupplier, "SUP-404"); got != "SUP-404" {
		t.Fatalf("unknown code should render raw, got %q", got)
	}
	if got := c.Label(KindBooking, ""); got != "" {
		t.Fatalf("empty code should render empty, got %q", got)
	}
}

func TestEmptyListsAreSafe(t *testing.T) {
	c := FromLists(nil)
	if _, ok := c.Factor("BK-1"); ok {
		t.Fatalf("empty catalog should resolve nothing")
	}
	if len(c.BookingCodes()) != 0 {
		t.Fatalf("empty catalog should list no codes")
	}
}
