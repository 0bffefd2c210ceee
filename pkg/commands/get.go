package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/pokedex/pkg/commands/options"
	"tableflip.dev/pokedex/pkg/runner/get"
	"tableflip.dev/pokedex/pkg/runner/list"
	"tableflip.dev/pokedex/pkg/runner/move"
	"tableflip.dev/pokedex/pkg/runner/types"
)

func addList(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	po := &options.PageOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "list one page of Pokémon",
		Example: `
pokedex list
pokedex list --page 3
pokedex list --type fire --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd.Context(), logToStderr)
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.close()
			l := list.List{
				App:   s.app,
				Page:  po.Page,
				Limit: po.Limit,
				Type:  po.Type,
				JSON:  oo.JSON,
				Out:   cmd.OutOrStdout(),
			}
			return oo.HandleError(l.Do(s.ctx))
		},
	}

	options.AddPageArgs(cmd, po)
	options.AddOutputArg(cmd, oo)
	_ = cmd.RegisterFlagCompletionFunc("type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return typeNames, cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}

func addGet(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "get <id|name>",
		Aliases: []string{"pokemon"},
		Short:   "show stats, abilities and moves of one Pokémon",
		Example: `
pokedex get 25
pokedex get bulbasaur --json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), logToStderr)
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.close()
			g := get.Get{App: s.app, ID: args[0], JSON: oo.JSON, Out: cmd.OutOrStdout()}
			return oo.HandleError(g.Do(s.ctx))
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addSearch(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "search <name>",
		Short: "look a Pokémon up by its exact name",
		Long:  "Look a Pokémon up by its exact name. Names of two characters or fewer are rejected.",
		Example: `
pokedex search pikachu
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), logToStderr)
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.close()
			g := get.Search{App: s.app, Name: args[0], JSON: oo.JSON, Out: cmd.OutOrStdout()}
			return oo.HandleError(g.Do(s.ctx))
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addType(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "type <name>",
		Short: "show the damage relations of a type",
		Example: `
pokedex type fire
pokedex list --type fire
`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: typeNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), logToStderr)
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.close()
			t := types.Type{App: s.app, Name: args[0], JSON: oo.JSON, Out: cmd.OutOrStdout()}
			return oo.HandleError(t.Do(s.ctx))
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addMove(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "move <id|name>",
		Short: "show power, accuracy and description of a move",
		Example: `
pokedex move thunderbolt
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), logToStderr)
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.close()
			m := move.Move{App: s.app, ID: args[0], JSON: oo.JSON, Out: cmd.OutOrStdout()}
			return oo.HandleError(m.Do(s.ctx))
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

// typeNames seeds shell completion; the API remains the authority.
var typeNames = []string{
	"normal", "fire", "water", "electric", "grass", "ice",
	"fighting", "poison", "ground", "flying", "psychic", "bug",
	"rock", "ghost", "dragon", "dark", "steel", "fairy",
}
