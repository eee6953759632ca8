// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"
)

// QueryOptions captures common listing selection flags.
type QueryOptions struct {
	Booking string
	Page    int
	Size    int
}

// AddQueryArgs wires listing-related flags on the provided command.
func AddQueryArgs(cmd *cobra.Command, o *QueryOptions) {
	cmd.Flags().StringVarP(&o.Booking, "booking", "b", "",
		"Filter by booking code.")
	cmd.Flags().IntVarP(&o.Page, "page", "p", 1,
		"Page of the listing to fetch.")
	cmd.Flags().IntVar(&o.Size, "size", 0,
		"Page size. Defaults to the configured page size.")
}

// IDOptions controls whether server identifiers are shown.
type IDOptions struct {
	ShowID bool
}

// AddShowIDArgs registers the identifier display flag.
func AddShowIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVar(&o.ShowID, "id", false,
		"Show row identifiers.")
}
