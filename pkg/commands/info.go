package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/pokedex/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about configuration and where favorites are stored.",
		Example: `
pokedex info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := newSession(cmd.Context(), logToStderr)
			if err != nil {
				return err
			}
			defer s.close()
			n := info.Info{
				Config:      s.config,
				Persistence: s.app.Persistence,
				Out:         cmd.OutOrStdout(),
			}
			return n.Do(s.ctx)
		},
	}

	topLevel.AddCommand(cmd)
}
