// Package remote speaks to the back-office scheduling API. The rest of the
// program only sees the API interface; the HTTP client below is the one
// production implementation.
package remote

import (
	"context"

	"github.com/shopspring/decimal"
)

// Query selects one page of the schedule listing. An empty Booking means no
// filter.
type Query struct {
	Booking string
	Page    int
	Size    int
}

// Equal reports whether two queries address the same page of the same filter.
func (q Query) Equal(o Query) bool {
	return q.Booking == o.Booking && q.Page == o.Page && q.Size == o.Size
}

// Record is one persisted schedule line as the server returns it.
type Record struct {
	ID            int64           `json:"id"`
	BookingID     int64           `json:"bookingId"`
	BookingCode   string          `json:"bookingCode"`
	SupplierID    string          `json:"supplierId"`
	TransportUnit string          `json:"transportUnitCode"`
	VehicleType   string          `json:"vehicleTypeCode"`
	LoadingDate   string          `json:"loadingDate"`
	VehicleCount  int             `json:"vehicleCount"`
	Containers    decimal.Decimal `json:"totalContainers"`
	Weight        decimal.Decimal `json:"totalWeight"`
}

// Page is a fetched slice of the listing plus the filtered total.
type Page struct {
	Rows  []Record `json:"rows"`
	Total int      `json:"total"`
}

// CreatePayload carries a new schedule line. The booking travels as its
// resolved server identity, never the display code.
type CreatePayload struct {
	BookingID     int64           `json:"bookingId"`
	SupplierID    string          `json:"supplierId"`
	TransportUnit string          `json:"transportUnitCode"`
	VehicleType   string          `json:"vehicleTypeCode"`
	LoadingDate   string          `json:"loadingDate"`
	VehicleCount  int             `json:"vehicleCount"`
	Containers    decimal.Decimal `json:"totalContainers"`
	Weight        decimal.Decimal `json:"totalWeight"`
}

// UpdatePayload carries changed fields for one persisted line.
type UpdatePayload struct {
	ID int64 `json:"id"`
	CreatePayload
}

// Option is one catalog entry of a reference list.
type Option struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// BookingOption additionally carries the server identity and the
// weight-per-container conversion factor.
type BookingOption struct {
	ID     int64           `json:"id"`
	Code   string          `json:"code"`
	Label  string          `json:"label"`
	Factor decimal.Decimal `json:"weightPerContainer"`
}

// OptionLists bundles every reference list the grid needs.
type OptionLists struct {
	Bookings       []BookingOption `json:"bookings"`
	Suppliers      []Option        `json:"suppliers"`
	TransportUnits []Option        `json:"transportUnits"`
	VehicleTypes   []Option        `json:"vehicleTypes"`
}

// API is the remote collaborator contract.
type API interface {
	FetchPage(ctx context.Context, q Query) (*Page, error)
	CreateRow(ctx context.Context, p CreatePayload) (*Record, error)
	BatchUpdate(ctx context.Context, updates []UpdatePayload) error
	DeleteRow(ctx context.Context, id int64) error
	Options(ctx context.Context) (*OptionLists, error)
}
