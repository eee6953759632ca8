package get

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quayside.dev/loadplan/pkg/printers"
	"quayside.dev/loadplan/pkg/remote"
)

type Get struct {
	ShowID  bool
	Booking string
	Page    int
	Size    int
	JSON    bool
	API     remote.API
}

func (n *Get) Do(ctx context.Context) error {
	if n.API == nil {
		return errors.New("can not get, no api")
	}
	if n.Page < 1 {
		n.Page = 1
	}

	page, err := n.API.FetchPage(ctx, remote.Query{Booking: n.Booking, Page: n.Page, Size: n.Size})
	if err != nil {
		return err
	}

	if n.JSON {
		b, err := json.Marshal(page)
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	fmt.Println("")
	pp.TitleWithCount("Schedule", page.Total)
	pp.Filter(n.Booking)
	pp.Schedule(page.Rows...)
	pp.PageFooter(n.Page, n.Size, page.Total)
	return nil
}
