package list

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/pokedex/pkg/app"
	"tableflip.dev/pokedex/pkg/pokemon"
	"tableflip.dev/pokedex/pkg/printers"
)

// List prints one page of the catalog, or of a type's members when Type is
// set.
type List struct {
	App   *app.Service
	Page  int
	Limit int
	Type  string
	JSON  bool
	Out   io.Writer
}

func (n *List) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not list, no catalog service")
	}
	page := max(n.Page, 1)

	var (
		p   *pokemon.Page
		err error
	)
	title := "Pokémon"
	if n.Type != "" {
		title = pokemon.DisplayName(n.Type) + " type Pokémon"
		p, err = n.App.TypePage(ctx, n.Type, page, n.Limit)
	} else {
		p, err = n.App.ListPage(ctx, page, n.Limit)
	}
	if err != nil {
		return err
	}

	if n.JSON {
		return printers.JSON(n.Out, p)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.TitleWithCount(title, p.Page, p.TotalPages)
	pp.Summaries(p.Pokemon, n.App.IsFavorite)
	return nil
}
