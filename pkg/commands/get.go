package commands

import (
	"context"

	"github.com/spf13/cobra"

	"quayside.dev/loadplan/pkg/commands/options"
	"quayside.dev/loadplan/pkg/config"
	"quayside.dev/loadplan/pkg/remote"
	"quayside.dev/loadplan/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	qo := &options.QueryOptions{}
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "get",
		Short: "list one page of the shipment schedule",
		Example: `
loadplan get
loadplan get --booking BK-2031
loadplan get --page 3 --size 20 --id
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			size := qo.Size
			if size < 1 {
				size = cfg.PageSize
			}
			s := get.Get{
				ShowID:  io.ShowID,
				Booking: qo.Booking,
				Page:    qo.Page,
				Size:    size,
				JSON:    oo.JSON,
				API:     remote.NewClient(cfg.Server),
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddQueryArgs(cmd, qo)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
