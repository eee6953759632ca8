package ui

import (
	"context"
	"errors"
	"fmt"

	"quayside.dev/loadplan/pkg/catalog"
	"quayside.dev/loadplan/pkg/draft"
	"quayside.dev/loadplan/pkg/gateway"
	"quayside.dev/loadplan/pkg/remote"
	"quayside.dev/loadplan/pkg/schedule"
	"quayside.dev/loadplan/pkg/tui/app"
	"quayside.dev/loadplan/pkg/workset"
)

// UI wires the grid surface: reference lists first, then the working set,
// then the Bubble Tea program. The first page fetch happens inside the app.
type UI struct {
	API       remote.API
	PageSize  int
	DraftPath string
	Booking   string
}

func (d *UI) Do(ctx context.Context) error {
	if d.API == nil {
		return errors.New("can not open ui, no api")
	}
	size := d.PageSize
	if size < 1 {
		size = 50
	}

	lists, err := d.API.Options(ctx)
	if err != nil {
		return fmt.Errorf("load reference lists: %w", err)
	}
	cat := catalog.FromLists(lists)

	set := workset.New(cat, schedule.DefaultInputPolicy(),
		remote.Query{Booking: d.Booking, Page: 1, Size: size}, "")

	var drafts *draft.Store
	if d.DraftPath != "" {
		drafts = draft.Open(d.DraftPath)
		if row, err := drafts.Load(d.Booking); err == nil {
			set.RestoreBlank(row)
		}
	}

	gw := gateway.New(d.API, cat, set)
	return app.Run(d.API, set, gw, drafts)
}
