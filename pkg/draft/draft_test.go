package draft

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"quayside.dev/loadplan/pkg/schedule"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s := Open(t.TempDir())

	w := decimal.RequireFromString("90")
	row := schedule.Blank()
	row.BookingRef = "BK-1"
	row.VehicleCount = 3
	row.Weight = &w

	if err := s.Save("BK-1", row); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := s.Load("BK-1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.BookingRef != "BK-1" || got.VehicleCount != 3 {
		t.Fatalf("unexpected draft: %+v", got)
	}
	if got.Weight == nil || !got.Weight.Equal(w) {
		t.Fatalf("weight lost in round trip: %v", got.Weight)
	}
	if !got.New || got.ID != nil {
		t.Fatalf("loaded draft must always be a blank row")
	}
}

func TestLoadMissingDraft(t *testing.T) {
	s := Open(t.TempDir())
	if _, err := s.Load(""); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft, got %v", err)
	}
}

func TestSaveEmptyRowClearsDraft(t *testing.T) {
	s := Open(t.TempDir())

	row := schedule.Blank()
	row.SupplierID = "SUP-7"
	if err := s.Save("", row); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.Save("", schedule.Blank()); err != nil {
		t.Fatalf("saving an empty row should clear: %v", err)
	}
	if _, err := s.Load(""); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected draft cleared, got %v", err)
	}
}

func TestDraftsArePerFilter(t *testing.T) {
	s := Open(t.TempDir())

	a := schedule.Blank()
	a.SupplierID = "SUP-1"
	b := schedule.Blank()
	b.SupplierID = "SUP-2"

	if err := s.Save("", a); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.Save("BK-2", b); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := s.Load("BK-2")
	if err != nil || got.SupplierID != "SUP-2" {
		t.Fatalf("wrong draft for filter: %+v err=%v", got, err)
	}
	if err := s.Clear("BK-2"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := s.Load(""); err != nil {
		t.Fatalf("other filter's draft must survive: %v", err)
	}
}
