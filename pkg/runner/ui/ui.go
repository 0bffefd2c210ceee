package ui

import (
	"context"
	"errors"
	"os"

	"github.com/mattn/go-isatty"

	"tableflip.dev/pokedex/pkg/app"
	tuiapp "tableflip.dev/pokedex/pkg/tui/app"
)

// ErrNotTerminal is returned when stdout is not an interactive terminal.
var ErrNotTerminal = errors.New("ui: stdout is not a terminal, try `pokedex list`")

type UI struct {
	App *app.Service
}

func (d *UI) Do(ctx context.Context) error {
	if d.App == nil {
		return errors.New("ui: no catalog service")
	}
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return ErrNotTerminal
	}
	return tuiapp.Run(ctx, d.App)
}
