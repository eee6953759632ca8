// Package catalog provides read-only lookups over the option lists the
// server publishes: display labels for raw codes, and for bookings also the
// conversion factor and the server identity a create call needs. The catalog
// is refreshed wholesale by the caller; staleness is acceptable here.
package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"

	"quayside.dev/loadplan/pkg/remote"
)

// Kind names a reference list for lookups and error messages.
type Kind string

const (
	KindBooking       Kind = "booking"
	KindSupplier      Kind = "supplier"
	KindTransportUnit Kind = "transport unit"
	KindVehicleType   Kind = "vehicle type"
)

// ResolutionError reports a reference code that cannot be mapped to a server
// identity. It is fatal to the specific create or update, never to the grid.
type ResolutionError struct {
	Kind Kind
	Code string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("catalog: unresolved %s %q", e.Kind, e.Code)
}

// Booking is one booking catalog entry.
type Booking struct {
	ServerID int64
	Label    string
	Factor   decimal.Decimal
}

// Catalog holds the in-memory reference maps.
type Catalog struct {
	bookings       map[string]Booking
	suppliers      map[string]string
	transportUnits map[string]string
	vehicleTypes   map[string]string
}

// FromLists builds a catalog from fetched option lists.
func FromLists(lists *remote.OptionLists) *Catalog {
	c := &Catalog{
		bookings:       make(map[string]Booking),
		suppliers:      make(map[string]string),
		transportUnits: make(map[string]string),
		vehicleTypes:   make(map[string]string),
	}
	if lists == nil {
		return c
	}
	for _, b := range lists.Bookings {
		c.bookings[b.Code] = Booking{ServerID: b.ID, Label: b.Label, Factor: b.Factor}
	}
	for _, o := range lists.Suppliers {
		c.suppliers[o.Code] = o.Label
	}
	for _, o := range lists.TransportUnits {
		c.transportUnits[o.Code] = o.Label
	}
	for _, o := range lists.VehicleTypes {
		c.vehicleTypes[o.Code] = o.Label
	}
	return c
}

// Factor returns the weight-per-container factor for a booking code. The
// second return is false when the booking is unknown.
func (c *Catalog) Factor(code string) (decimal.Decimal, bool) {
	b, ok := c.bookings[code]
	if !ok {
		return decimal.Zero, false
	}
	return b.Factor, true
}

// ResolveBooking maps a booking code to the server identity persistence
// requires.
func (c *Catalog) ResolveBooking(code string) (int64, error) {
	b, ok := c.bookings[code]
	if !ok {
		return 0, &ResolutionError{Kind: KindBooking, Code: code}
	}
	return b.ServerID, nil
}

// Label returns the display label for a code, falling back to the raw code
// when the catalog does not know it. Unknown codes still render; they just
// render raw.
func (c *Catalog) Label(kind Kind, code string) string {
	if code == "" {
		return ""
	}
	var label string
	switch kind {
	case KindBooking:
		label = c.bookings[code].Label
	case KindSupplier:
		label = c.suppliers[code]
	case KindTransportUnit:
		label = c.transportUnits[code]
	case KindVehicleType:
		label = c.vehicleTypes[code]
	}
	if label == "" {
		return code
	}
	return label
}

// BookingCodes returns every known booking code. Order is not defined.
func (c *Catalog) BookingCodes() []string {
	codes := make([]string, 0, len(c.bookings))
	for code := range c.bookings {
		codes = append(codes, code)
	}
	return codes
}
