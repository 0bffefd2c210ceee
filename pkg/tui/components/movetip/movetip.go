// Package movetip renders the popup shown for a selected move tag.
package movetip

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/pokedex/pkg/pokemon"
	"tableflip.dev/pokedex/pkg/query"
	"tableflip.dev/pokedex/pkg/tui/theme"
)

// MinWidth is the narrowest popup drawn.
const MinWidth = 28

// Render draws the popup for move name in state st, at most width cells wide.
func Render(th theme.PopupTheme, name string, st query.State[*pokemon.Move], width int) string {
	width = max(width, MinWidth)
	inner := width - th.Frame.GetHorizontalFrameSize()

	lines := []string{th.Title.Render(pokemon.DisplayName(name))}
	switch st.Status() {
	case query.StatusIdle, query.StatusLoading:
		lines = append(lines, "Loading move...")
	case query.StatusError:
		lines = append(lines, wordwrap.String("Failed to load move: "+st.Err().Error(), inner))
	case query.StatusReady:
		mv, _ := st.Data()
		lines = append(lines, Body(th, mv, inner)...)
	}
	return th.Frame.Width(width).Render(strings.Join(lines, "\n"))
}

// Body returns the detail lines of a loaded move wrapped to width.
func Body(th theme.PopupTheme, mv *pokemon.Move, width int) []string {
	label := th.Label.Render
	lines := []string{
		theme.TypeBadge(mv.Type) + " " + label(pokemon.DisplayName(mv.DamageClass)),
		fmt.Sprintf("%s %s  %s %s", label("Power:"), mv.PowerLabel(), label("Accuracy:"), mv.AccuracyLabel()),
		fmt.Sprintf("%s %d  %s %s", label("PP:"), mv.PP, label("Priority:"), mv.PriorityLabel()),
	}
	if mv.Description != "" {
		lines = append(lines, "", wordwrap.String(mv.Description, max(width, 10)))
	}
	return lines
}
