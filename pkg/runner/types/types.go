package types

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/pokedex/pkg/app"
	"tableflip.dev/pokedex/pkg/printers"
)

// Type prints the damage relations of a type.
type Type struct {
	App  *app.Service
	Name string
	JSON bool
	Out  io.Writer
}

func (n *Type) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not get type, no catalog service")
	}
	td, err := n.App.Type(ctx, n.Name)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, td)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Type(td)
	return nil
}
