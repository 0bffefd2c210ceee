// Package statbar renders a labelled horizontal bar for one base stat.
package statbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/pokedex/pkg/pokemon"
	"tableflip.dev/pokedex/pkg/tui/theme"
)

const (
	labelWidth = 16
	valueWidth = 4
)

// Fill returns how many of width cells a value covers on the 0..StatMax scale.
func Fill(value, width int) int {
	if width <= 0 || value <= 0 {
		return 0
	}
	n := value * width / pokemon.StatMax
	if n == 0 {
		n = 1
	}
	return min(n, width)
}

// Render draws "Label  value ████░░░░" fitted to width.
func Render(th theme.StatTheme, stat pokemon.Stat, width int) string {
	barWidth := max(width-labelWidth-valueWidth-2, 4)
	fill := Fill(stat.Value, barWidth)

	label := th.Label.Render(fmt.Sprintf("%-*s", labelWidth, pokemon.StatLabel(stat.Name)))
	value := fmt.Sprintf("%*d", valueWidth, stat.Value)

	color := th.Gradient(float64(stat.Value) / float64(pokemon.StatMax))
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(strings.Repeat("█", fill)) +
		th.Track.Render(strings.Repeat("░", barWidth-fill))

	return label + value + "  " + bar
}
