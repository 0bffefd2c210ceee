// Package overlay draws a floating box on top of an already rendered screen.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Placement anchors the foreground inside the background.
type Placement struct {
	Horizontal lipgloss.Position
	Vertical   lipgloss.Position
	MarginX    int
	MarginY    int
}

// BottomRight anchors the box in the bottom right corner with a one cell gap.
var BottomRight = Placement{Horizontal: lipgloss.Right, Vertical: lipgloss.Bottom, MarginX: 1, MarginY: 1}

// Compose overlays foreground atop background, a width x height area. Cells
// outside the foreground keep their background content and styling.
func Compose(background string, width, height int, foreground string, p Placement) string {
	bg := normalize(background, width, height)
	if foreground == "" || width <= 0 || height <= 0 {
		return strings.Join(bg, "\n")
	}

	fg := strings.Split(foreground, "\n")
	fw := 0
	for _, line := range fg {
		fw = max(fw, ansi.StringWidth(line))
	}
	fw = min(fw, width)
	fh := min(len(fg), height)

	x, y := offsets(width, height, fw, fh, p)
	for row := 0; row < fh; row++ {
		line := bg[y+row]
		left := ansi.Truncate(line, x, "")
		right := ansi.TruncateLeft(line, x+fw, "")
		bg[y+row] = left + pad(ansi.Truncate(fg[row], fw, ""), fw) + right
	}
	return strings.Join(bg, "\n")
}

func normalize(view string, width, height int) []string {
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = pad(ansi.Truncate(lines[i], width, ""), width)
	}
	return lines
}

func pad(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func offsets(width, height, fw, fh int, p Placement) (int, int) {
	x := p.MarginX
	switch p.Horizontal {
	case lipgloss.Right:
		x = width - fw - p.MarginX
	case lipgloss.Center:
		x = (width - fw) / 2
	}
	y := p.MarginY
	switch p.Vertical {
	case lipgloss.Bottom:
		y = height - fh - p.MarginY
	case lipgloss.Center:
		y = (height - fh) / 2
	}
	return max(0, min(x, width-fw)), max(0, min(y, height-fh))
}
