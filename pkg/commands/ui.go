package commands

import (
	"context"

	"github.com/spf13/cobra"

	"quayside.dev/loadplan/pkg/commands/options"
	"quayside.dev/loadplan/pkg/config"
	"quayside.dev/loadplan/pkg/remote"
	"quayside.dev/loadplan/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	qo := &options.QueryOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the editable scheduling grid",
		Example: `
loadplan ui
loadplan ui --booking BK-2031
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			size := qo.Size
			if size < 1 {
				size = cfg.PageSize
			}
			i := ui.UI{
				API:       remote.NewClient(cfg.Server),
				PageSize:  size,
				DraftPath: cfg.DraftPath,
				Booking:   qo.Booking,
			}
			return i.Do(context.Background())
		},
	}

	options.AddQueryArgs(cmd, qo)

	topLevel.AddCommand(cmd)
}
