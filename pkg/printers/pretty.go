package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"quayside.dev/loadplan/pkg/convert"
	"quayside.dev/loadplan/pkg/remote"
)

type PrettyPrint struct {
	ShowID bool
}

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)

	switch count {
	case 1:
		_, _ = c.Println(" row")
	default:
		_, _ = c.Println(" rows")
	}
}

// Schedule renders one page of the listing as an aligned table.
func (pp *PrettyPrint) Schedule(rows ...remote.Record) {
	if len(rows) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" none\n\n")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "

	if pp.ShowID {
		tbl.AddRow("ID", "BOOKING", "SUPPLIER", "UNIT", "VEHICLE", "DATE", "COUNT", "CONTAINERS", "WEIGHT")
	} else {
		tbl.AddRow("BOOKING", "SUPPLIER", "UNIT", "VEHICLE", "DATE", "COUNT", "CONTAINERS", "WEIGHT")
	}
	for _, r := range rows {
		containers := r.Containers
		weight := r.Weight
		if pp.ShowID {
			tbl.AddRow(r.ID, r.BookingCode, r.SupplierID, r.TransportUnit, r.VehicleType,
				r.LoadingDate, r.VehicleCount, convert.FormatAmount(&containers), convert.FormatAmount(&weight))
			continue
		}
		tbl.AddRow(r.BookingCode, r.SupplierID, r.TransportUnit, r.VehicleType,
			r.LoadingDate, r.VehicleCount, convert.FormatAmount(&containers), convert.FormatAmount(&weight))
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
	fmt.Println("")
}

// PageFooter notes which slice of the listing is on screen.
func (pp *PrettyPrint) PageFooter(page, size, total int) {
	f := color.New(color.Faint)
	pages := 1
	if size > 0 {
		pages = (total + size - 1) / size
		if pages < 1 {
			pages = 1
		}
	}
	_, _ = f.Printf("page %d of %d%s\n", page, pages, totalSuffix(total))
}

func totalSuffix(total int) string {
	if total == 0 {
		return ""
	}
	return fmt.Sprintf(", %d total", total)
}

// Filter echoes the active booking filter, if any.
func (pp *PrettyPrint) Filter(booking string) {
	if strings.TrimSpace(booking) == "" {
		return
	}
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Printf("filtered by booking %s\n", booking)
}
