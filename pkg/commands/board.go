package commands

import (
	"context"

	"github.com/spf13/cobra"

	"quayside.dev/loadplan/pkg/commands/options"
	"quayside.dev/loadplan/pkg/config"
	"quayside.dev/loadplan/pkg/remote"
	"quayside.dev/loadplan/pkg/runner/board"
)

func addBoard(topLevel *cobra.Command) {
	qo := &options.QueryOptions{}

	cmd := &cobra.Command{
		Use:   "board",
		Short: "open the read-only per-booking totals board",
		Example: `
loadplan board
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
			b := board.Board{
				API:      remote.NewClient(cfg.Server),
				PageSize: size,
			}
			return b.Do(context.Background())
		},
	}

	options.AddQueryArgs(cmd, qo)

	topLevel.AddCommand(cmd)
}
