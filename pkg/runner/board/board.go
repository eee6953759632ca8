package board

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/marcusolsson/tui-go"
	"github.com/shopspring/decimal"

	"quayside.dev/loadplan/pkg/convert"
	"quayside.dev/loadplan/pkg/remote"
)

// totals accumulates one booking's scheduled volume across every page.
type totals struct {
	rows       int
	vehicles   int
	containers decimal.Decimal
	weight     decimal.Decimal
}

// Board is a read-only overview of scheduled volume per booking.
type Board struct {
	API      remote.API
	PageSize int

	cache map[string]*totals
	index []string

	bookings     *tui.Table
	bookingsView *tui.Box

	detail     *tui.Table
	detailView *tui.Box
}

func (d *Board) Do(ctx context.Context) error {
	if d.API == nil {
		return errors.New("can not open board, no api")
	}
	if err := d.load(ctx); err != nil {
		return err
	}

	iTable := tui.NewTable(1, 0)
	index := tui.NewVBox(
		iTable,
		tui.NewSpacer(),
	)
	index.SetBorder(true)
	index.SetSizePolicy(tui.Preferred, tui.Expanding)

	cTable := tui.NewTable(1, 0)
	cTable.SetFocused(true)
	cTable.SetSizePolicy(tui.Expanding, tui.Maximum)

	status := tui.NewStatusBar("")
	status.SetPermanentText(`Use left or right arrows to navigate, ESC or 'q' to QUIT`)

	detail := tui.NewVBox(cTable)
	detail.SetBorder(true)
	detail.SetSizePolicy(tui.Expanding, tui.Maximum)

	root := tui.NewVBox(
		tui.NewHBox(index, detail),
		tui.NewSpacer(),
		status,
	)

	ui, err := tui.New(root)
	if err != nil {
		return err
	}

	d.bookings = iTable
	d.bookingsView = index
	d.detail = cTable
	d.detailView = detail

	d.populateIndex()

	iTable.OnSelectionChanged(func(table *tui.Table) {
		d.populateDetail()
	})

	ui.SetKeybinding("Left", func() { d.focusIndex() })
	ui.SetKeybinding("Right", func() { d.focusDetail() })
	ui.SetKeybinding("Esc", func() { ui.Quit() })
	ui.SetKeybinding("q", func() { ui.Quit() })

	d.populateDetail()
	d.focusIndex()

	return ui.Run()
}

// load walks every page of the unfiltered listing and folds rows into
// per-booking totals.
func (d *Board) load(ctx context.Context) error {
	size := d.PageSize
	if size < 1 {
		size = 50
	}

	d.cache = map[string]*totals{}
	d.index = nil

	for page := 1; ; page++ {
		p, err := d.API.FetchPage(ctx, remote.Query{Page: page, Size: size})
		if err != nil {
			return err
		}
		for _, r := range p.Rows {
			t, ok := d.cache[r.BookingCode]
			if !ok {
				t = &totals{}
				d.cache[r.BookingCode] = t
				d.index = append(d.index, r.BookingCode)
			}
			t.rows++
			t.vehicles += r.VehicleCount
			t.containers = t.containers.Add(r.Containers)
			t.weight = t.weight.Add(r.Weight)
		}
		if page*size >= p.Total || len(p.Rows) == 0 {
			return nil
		}
	}
}

func (d *Board) populateIndex() {
	d.bookings.RemoveRows()
	d.bookings.AppendRow(tui.NewLabel("ALL"))
	for _, code := range d.index {
		d.bookings.AppendRow(tui.NewLabel(code))
	}
	d.bookingsView.SetTitle("bookings")
}

func (d *Board) populateDetail() {
	d.detail.RemoveRows()
	d.detail.AppendRow(
		tui.NewLabel("BOOKING"),
		tui.NewLabel("ROWS"),
		tui.NewLabel("VEHICLES"),
		tui.NewLabel("CONTAINERS"),
		tui.NewLabel("WEIGHT"),
	)

	selected := d.bookings.Selected()
	if selected <= 0 {
		for _, code := range d.index {
			d.appendTotals(code, d.cache[code])
		}
		d.detailView.SetTitle("all bookings")
		return
	}
	if selected-1 < len(d.index) {
		code := d.index[selected-1]
		d.appendTotals(code, d.cache[code])
		d.detailView.SetTitle(code)
	}
}

func (d *Board) appendTotals(code string, t *totals) {
	if t == nil {
		return
	}
	containers := t.containers
	weight := t.weight
	d.detail.AppendRow(
		tui.NewLabel(code),
		tui.NewLabel(fmt.Sprintf("%d", t.rows)),
		tui.NewLabel(fmt.Sprintf("%d", t.vehicles)),
		tui.NewLabel(convert.FormatAmount(&containers)),
		tui.NewLabel(convert.FormatAmount(&weight)),
	)
}

func (d *Board) focusIndex() {
	d.bookings.SetFocused(true)
	d.bookingsView.SetTitle(strings.ToUpper("bookings"))

	d.detail.SetFocused(false)
	d.detailView.SetTitle("")
}

func (d *Board) focusDetail() {
	d.bookings.SetFocused(false)
	d.bookingsView.SetTitle("bookings")

	d.detail.SetFocused(true)
}
