package get

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/pokedex/pkg/app"
	"tableflip.dev/pokedex/pkg/pokemon"
	"tableflip.dev/pokedex/pkg/printers"
)

// Get prints a single entry by id or name.
type Get struct {
	App  *app.Service
	ID   string
	JSON bool
	Out  io.Writer
}

func (n *Get) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not get, no catalog service")
	}
	d, err := n.App.Detail(ctx, n.ID)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, d)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Detail(d, n.App.IsFavorite(d.ID))
	return nil
}

// Search looks up an entry by exact name and prints its summary.
type Search struct {
	App  *app.Service
	Name string
	JSON bool
	Out  io.Writer
}

func (n *Search) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not search, no catalog service")
	}
	s, err := n.App.Search(ctx, n.Name)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, s)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Summaries([]pokemon.Summary{*s}, n.App.IsFavorite)
	return nil
}
