package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/pokedex/pkg/commands/options"
)

var (
	gl = &options.GlobalOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "pokedex",
		Short: base.Wrap80("Browse the Pokémon catalog from the terminal."),
		Long: base.Wrap80("Browse the Pokémon catalog from the terminal. Run `pokedex ui` for the " +
			"interactive viewer, or use the one-shot commands for scripting. Favorites are " +
			"stored locally and shared by every command."),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddGlobalArgs(cmd, gl)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addList(topLevel)
	addGet(topLevel)
	addSearch(topLevel)
	addType(topLevel)
	addMove(topLevel)
	addFavorites(topLevel)
	addServe(topLevel)
	addMCP(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
