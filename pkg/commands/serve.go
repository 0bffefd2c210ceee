package commands

import (
	"fmt"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"tableflip.dev/pokedex/pkg/query"
	"tableflip.dev/pokedex/pkg/server"
)

func addServe(topLevel *cobra.Command) {
	var (
		addr string
		rate int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the catalog as JSON over HTTP",
		Example: `
pokedex serve --addr :8081
curl localhost:8081/api/pokemon?page=2
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd.Context(), logToStderr, query.WithGCTime(query.DefaultGCTime))
			if err != nil {
				return err
			}
			defer s.close()
			if rate < 0 {
				return fmt.Errorf("invalid rate %d", rate)
			}
			srv := server.Server{
				Service:           s.app,
				Logger:            log.FromContext(s.ctx),
				Addr:              addr,
				Debug:             gl.Debug,
				RequestsPerMinute: rate,
			}
			log.FromContext(s.ctx).WithField("addr", addr).Info("serving")
			return srv.Run(s.ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8081", "address to listen on")
	cmd.Flags().IntVar(&rate, "rate", 120, "requests per minute per client IP (0 disables)")

	topLevel.AddCommand(cmd)
}
