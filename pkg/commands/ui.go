package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/pokedex/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
pokedex ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), logToFile)
			if err != nil {
				return err
			}
			defer s.close()
			i := ui.UI{App: s.app}
			return i.Do(s.ctx)
		},
	}

	topLevel.AddCommand(cmd)
}
