// Package grid lays entry summaries out as rows of cards and tracks the
// cursor and scroll position in card rows.
package grid

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/pokedex/pkg/intersect"
	"tableflip.dev/pokedex/pkg/pokemon"
	"tableflip.dev/pokedex/pkg/tui/theme"
)

const (
	// CardWidth and CardHeight include the border.
	CardWidth  = 24
	CardHeight = 5

	innerWidth = CardWidth - 4
)

// Model is a scrolling card grid.
type Model struct {
	items    []pokemon.Summary
	favorite func(id int) bool
	cursor   int
	top      int
	width    int
	height   int
	theme    theme.CardTheme
}

// New returns an empty grid.
func New(th theme.CardTheme) *Model {
	return &Model{theme: th, width: CardWidth, height: CardHeight}
}

// SetItems replaces the cards, keeping the cursor in range.
func (m *Model) SetItems(items []pokemon.Summary) {
	m.items = items
	if m.cursor >= len(items) {
		m.cursor = max(len(items)-1, 0)
	}
	m.clampScroll()
}

// Items returns the cards currently laid out.
func (m *Model) Items() []pokemon.Summary { return m.items }

// SetFavorite installs the predicate used to draw the heart marker.
func (m *Model) SetFavorite(fn func(id int) bool) { m.favorite = fn }

// SetSize sets the area available to the grid in cells.
func (m *Model) SetSize(width, height int) {
	m.width = max(width, CardWidth)
	m.height = max(height, CardHeight)
	m.clampScroll()
}

// Columns is the number of cards per row.
func (m *Model) Columns() int { return max(m.width/CardWidth, 1) }

// Rows is the number of card rows.
func (m *Model) Rows() int {
	cols := m.Columns()
	return (len(m.items) + cols - 1) / cols
}

// VisibleRows is the number of card rows that fit the height.
func (m *Model) VisibleRows() int { return max(m.height/CardHeight, 1) }

// LastRow is the index of the final card row, or -1 when empty.
func (m *Model) LastRow() int { return m.Rows() - 1 }

// Viewport is the visible window in card rows.
func (m *Model) Viewport() intersect.Viewport {
	return intersect.Viewport{Top: m.top, Height: m.VisibleRows()}
}

// Cursor is the index of the selected card.
func (m *Model) Cursor() int { return m.cursor }

// Selected returns the card under the cursor.
func (m *Model) Selected() (pokemon.Summary, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return pokemon.Summary{}, false
	}
	return m.items[m.cursor], true
}

// Select moves the cursor to index i.
func (m *Model) Select(i int) {
	if len(m.items) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = max(0, min(i, len(m.items)-1))
	m.clampScroll()
}

// Update moves the cursor for navigation keys and reports whether the key
// was consumed.
func (m *Model) Update(msg tea.KeyPressMsg) bool {
	cols := m.Columns()
	switch msg.String() {
	case "left", "h":
		m.Select(m.cursor - 1)
	case "right", "l":
		m.Select(m.cursor + 1)
	case "up", "k":
		m.Select(m.cursor - cols)
	case "down", "j":
		m.Select(m.cursor + cols)
	case "pgup", "ctrl+u":
		m.Select(m.cursor - cols*m.VisibleRows())
	case "pgdown", "ctrl+d":
		m.Select(m.cursor + cols*m.VisibleRows())
	case "home", "g":
		m.Select(0)
	case "end", "G":
		m.Select(len(m.items) - 1)
	default:
		return false
	}
	return true
}

func (m *Model) clampScroll() {
	row := m.cursor / m.Columns()
	visible := m.VisibleRows()
	if row < m.top {
		m.top = row
	}
	if row >= m.top+visible {
		m.top = row - visible + 1
	}
	m.top = max(0, min(m.top, max(m.Rows()-visible, 0)))
}

// View renders the visible card rows.
func (m *Model) View() string {
	if len(m.items) == 0 {
		return ""
	}
	cols := m.Columns()
	last := min(m.top+m.VisibleRows(), m.Rows())
	rows := make([]string, 0, last-m.top)
	for r := m.top; r < last; r++ {
		cards := make([]string, 0, cols)
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if i >= len(m.items) {
				break
			}
			cards = append(cards, m.card(i))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) card(i int) string {
	p := m.items[i]
	head := m.theme.ID.Render(pokemon.PaddedID(p.ID))
	if m.favorite != nil && m.favorite(p.ID) {
		head += " " + m.theme.Heart.Render("♥")
	}
	name := truncate.StringWithTail(pokemon.DisplayName(p.Name), innerWidth, "…")
	types := typeLine(p.Types)

	style := m.theme.Normal
	if i == m.cursor {
		style = m.theme.Selected
	}
	return style.Width(CardWidth).Render(strings.Join([]string{head, name, types}, "\n"))
}

func typeLine(types []string) string {
	if len(types) == 0 {
		return ""
	}
	badges := make([]string, len(types))
	for i, t := range types {
		badges[i] = theme.TypeBadge(t)
	}
	line := strings.Join(badges, " ")
	if lipgloss.Width(line) > innerWidth {
		return truncate.StringWithTail(strings.Join(types, " "), innerWidth, "…")
	}
	return line
}
