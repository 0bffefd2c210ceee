package favorites

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/pokedex/pkg/app"
	"tableflip.dev/pokedex/pkg/pokemon"
	"tableflip.dev/pokedex/pkg/printers"
)

// Favorites lists the bookmarks, or flips one when Toggle is set.
type Favorites struct {
	App    *app.Service
	Toggle string
	JSON   bool
	Out    io.Writer
}

func (n *Favorites) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not read favorites, no catalog service")
	}
	if n.Toggle != "" {
		return n.toggle(ctx)
	}
	list, err := n.App.FavoriteList()
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, list)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Favorites(list)
	return nil
}

func (n *Favorites) toggle(ctx context.Context) error {
	added, p, err := n.App.ToggleFavorite(ctx, n.Toggle)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, map[string]any{"favorite": added, "pokemon": p})
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	verb := "Removed from"
	if added {
		verb = "Added to"
	}
	_, _ = fmt.Fprintf(out, "%s favorites: %s\n", verb, pokemon.DisplayName(p.Name))
	return nil
}
