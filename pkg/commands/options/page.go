package options

import (
	"github.com/spf13/cobra"
)

// PageOptions select one page of a list.
type PageOptions struct {
	Page  int
	Limit int
	Type  string
}

func AddPageArgs(cmd *cobra.Command, po *PageOptions) {
	cmd.Flags().IntVarP(&po.Page, "page", "p", 1,
		"Page to show, starting at 1.")
	cmd.Flags().IntVarP(&po.Limit, "limit", "l", 0,
		"Entries per page. Defaults to the configured page_size.")
	cmd.Flags().StringVarP(&po.Type, "type", "t", "",
		"Only list members of this type.")
}
