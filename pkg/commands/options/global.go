package options

import (
	"github.com/spf13/cobra"
)

// GlobalOptions apply to every command.
type GlobalOptions struct {
	Debug bool
}

func AddGlobalArgs(cmd *cobra.Command, g *GlobalOptions) {
	cmd.PersistentFlags().BoolVar(&g.Debug, "debug", false,
		"Log at debug level regardless of log_level.")
}
