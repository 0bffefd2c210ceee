package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/pokedex/pkg/favorites"
	"tableflip.dev/pokedex/pkg/logging"
	"tableflip.dev/pokedex/pkg/store"
)

// Info reports where configuration and favorites live.
type Info struct {
	Config      store.Config
	Persistence store.Persistence
	Out         io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("POKEDEX_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "POKEDEX_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "POKEDEX_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(out, "Config.path:", n.Config.BasePath())
	_, _ = fmt.Fprintln(out, "Config.api:", n.Config.APIBaseURL())
	_, _ = fmt.Fprintln(out, "Config.page_size:", n.Config.PageSize())
	_, _ = fmt.Fprintln(out, "Config.timeout:", n.Config.Timeout())
	_, _ = fmt.Fprintln(out, "Log file:", n.Config.BasePath()+string(os.PathSeparator)+logging.FileName)

	if n.Persistence == nil {
		return fmt.Errorf("failed to create persistence object")
	}

	_, _ = fmt.Fprintln(out, "Keys:")
	found := 0
	for _, k := range n.Persistence.Keys(ctx) {
		_, _ = fmt.Fprintf(out, "  %s\n", k)
		found++
	}
	if found == 0 {
		_, _ = fmt.Fprintf(out, "  %s\n", "no keys")
	}

	s := favorites.Load(ctx, n.Persistence)
	_, _ = fmt.Fprintln(out, "Favorites:", favorites.CountLabel(s.Count()))
	return nil
}
