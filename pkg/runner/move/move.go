package move

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/pokedex/pkg/app"
	"tableflip.dev/pokedex/pkg/printers"
)

type Move struct {
	App  *app.Service
	ID   string
	JSON bool
	Out  io.Writer
}

func (n *Move) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not get move, no catalog service")
	}
	m, err := n.App.Move(ctx, n.ID)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, m)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Move(m)
	return nil
}
