package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/pokedex/pkg/commands/options"
	"tableflip.dev/pokedex/pkg/runner/favorites"
)

func addFavorites(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"favs"},
		Short:   "list or toggle bookmarked Pokémon",
		Example: `
pokedex favorites
pokedex favorites toggle pikachu
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFavorites(cmd, oo, "")
		},
	}
	options.AddOutputArg(cmd, oo)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list bookmarked Pokémon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFavorites(cmd, oo, "")
		},
	}
	toggleCmd := &cobra.Command{
		Use:   "toggle <id|name>",
		Short: "add or remove a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFavorites(cmd, oo, args[0])
		},
	}
	for _, c := range []*cobra.Command{listCmd, toggleCmd} {
		options.AddOutputArg(c, oo)
		cmd.AddCommand(c)
	}

	topLevel.AddCommand(cmd)
}

func runFavorites(cmd *cobra.Command, oo *options.OutputOptions, toggle string) error {
	s, err := newSession(cmd.Context(), logToStderr)
	if err != nil {
		return oo.HandleError(err)
	}
	defer s.close()
	f := favorites.Favorites{App: s.app, Toggle: toggle, JSON: oo.JSON, Out: cmd.OutOrStdout()}
	return oo.HandleError(f.Do(s.ctx))
}
