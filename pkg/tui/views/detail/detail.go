// Package detail is the per-entry screen: stats, abilities and moves.
package detail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/pokedex/pkg/app"
	"tableflip.dev/pokedex/pkg/pokeapi"
	"tableflip.dev/pokedex/pkg/pokemon"
	"tableflip.dev/pokedex/pkg/query"
	"tableflip.dev/pokedex/pkg/tui/components/movetip"
	"tableflip.dev/pokedex/pkg/tui/components/overlay"
	"tableflip.dev/pokedex/pkg/tui/components/statbar"
	"tableflip.dev/pokedex/pkg/tui/route"
	"tableflip.dev/pokedex/pkg/tui/theme"
	"tableflip.dev/pokedex/pkg/tui/views/list"
)

// CollapsedMoves is how many move tags show before "show all".
const CollapsedMoves = 20

type detailMsg struct {
	id     string
	detail *pokemon.Detail
	err    error
}

type moveMsg struct {
	name string
	move *pokemon.Move
	err  error
}

// Model is the detail screen for one entry.
type Model struct {
	ctx   context.Context
	svc   *app.Service
	theme theme.Theme
	id    string

	state query.State[*pokemon.Detail]

	showAll bool
	cursor  int

	popup      bool
	popupMove  string
	popupState query.State[*pokemon.Move]

	vp     viewport.Model
	width  int
	height int
}

// New builds the detail screen for id (a number or a name).
func New(ctx context.Context, svc *app.Service, th theme.Theme, id string) *Model {
	return &Model{
		ctx:    ctx,
		svc:    svc,
		theme:  th,
		id:     id,
		state:  query.Loading[*pokemon.Detail](),
		cursor: -1,
		vp:     viewport.New(viewport.WithWidth(80), viewport.WithHeight(20)),
		width:  80,
		height: 20,
	}
}

func (m *Model) Title() string {
	if d, ok := m.state.Data(); ok {
		return pokemon.DisplayName(d.Name)
	}
	return "Pokémon " + m.id
}

func (m *Model) Init() tea.Cmd { return m.load() }

func (m *Model) Close() {}

func (m *Model) load() tea.Cmd {
	svc, ctx, id := m.svc, m.ctx, m.id
	return func() tea.Msg {
		d, err := svc.Detail(ctx, id)
		return detailMsg{id: id, detail: d, err: err}
	}
}

func (m *Model) loadMove(name string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		mv, err := svc.Move(ctx, name)
		return moveMsg{name: name, move: mv, err: err}
	}
}

func (m *Model) SetSize(width, height int) tea.Cmd {
	m.width, m.height = width, height
	m.vp.SetWidth(max(width, 20))
	m.vp.SetHeight(max(height, 5))
	m.refresh()
	return nil
}

// moves returns the tags currently shown.
func (m *Model) moves() []pokemon.Reference {
	d, ok := m.state.Data()
	if !ok {
		return nil
	}
	if m.showAll || len(d.Moves) <= CollapsedMoves {
		return d.Moves
	}
	return d.Moves[:CollapsedMoves]
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case detailMsg:
		if msg.id != m.id {
			return nil
		}
		if msg.err != nil {
			m.state = query.Failed[*pokemon.Detail](msg.err)
		} else {
			m.state = query.Ready(msg.detail, false)
		}
		m.refresh()
		return nil
	case moveMsg:
		if !m.popup || msg.name != m.popupMove {
			return nil
		}
		if msg.err != nil {
			m.popupState = query.Failed[*pokemon.Move](msg.err)
		} else {
			m.popupState = query.Ready(msg.move, false)
		}
		m.refresh()
		return nil
	case route.FavoritesChangedMsg:
		m.refresh()
		return nil
	case route.CacheMsg:
		if msg.Event.Status != query.StatusReady || msg.Event.Key.Kind != query.KindDetail {
			return nil
		}
		if msg.Event.Key.Params != strings.ToLower(strings.TrimSpace(m.id)) {
			return nil
		}
		// Pick up a background refresh without fetching again.
		if st := query.Peek[*pokemon.Detail](m.svc.Cache, msg.Event.Key); st.Status() == query.StatusReady {
			m.state = st
			m.refresh()
		}
		return nil
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if m.popup && key != "enter" {
		m.closePopup()
		if key == "esc" {
			return nil
		}
	}

	d, ready := m.state.Data()
	switch key {
	case "r":
		if m.state.Status() == query.StatusError {
			m.state = query.Loading[*pokemon.Detail]()
			m.refresh()
			return m.load()
		}
		return nil
	}
	if !ready {
		return nil
	}

	switch key {
	case "tab":
		m.moveCursor(1)
	case "shift+tab":
		m.moveCursor(-1)
	case "enter":
		return m.activateMove()
	case "a":
		if len(d.Moves) > CollapsedMoves {
			m.showAll = !m.showAll
			if !m.showAll && m.cursor >= CollapsedMoves {
				m.cursor = CollapsedMoves - 1
			}
			m.refresh()
		}
	case "t", "T":
		i := 0
		if key == "T" {
			i = 1
		}
		if i < len(d.Types) {
			return route.Push(route.Type, d.Types[i])
		}
	case "space", " ":
		return list.ToggleFavorite(m.ctx, m.svc, d.Summary(m.svc.Remote.BaseURL()))
	default:
		vp, cmd := m.vp.Update(msg)
		m.vp = vp
		return cmd
	}
	return nil
}

func (m *Model) moveCursor(delta int) {
	n := len(m.moves())
	if n == 0 {
		return
	}
	m.cursor = ((m.cursor+delta)%n + n) % n
	m.refresh()
}

// activateMove toggles the popup for the move under the cursor. The move is
// fetched only when its popup opens.
func (m *Model) activateMove() tea.Cmd {
	moves := m.moves()
	if m.cursor < 0 || m.cursor >= len(moves) {
		return nil
	}
	name := moves[m.cursor].Name
	if m.popup && m.popupMove == name {
		m.closePopup()
		return nil
	}
	m.popup = true
	m.popupMove = name
	m.popupState = query.Loading[*pokemon.Move]()
	m.refresh()
	return m.loadMove(name)
}

func (m *Model) closePopup() {
	m.popup = false
	m.popupMove = ""
	m.popupState = query.Idle[*pokemon.Move]()
	m.refresh()
}

// View renders the scrolled body with the move popup floating on top.
func (m *Model) View() string {
	if !m.popup {
		return m.vp.View()
	}
	tip := movetip.Render(m.theme.Popup, m.popupMove, m.popupState, min(m.width, 48))
	return overlay.Compose(m.vp.View(), m.vp.Width(), m.vp.Height(), tip, overlay.BottomRight)
}

// Body renders the full screen content before scrolling is applied.
func (m *Model) Body() string {
	switch m.state.Status() {
	case query.StatusError:
		msg := m.state.Err().Error()
		if errors.Is(m.state.Err(), pokeapi.ErrNotFound) {
			msg = "Pokémon not found"
		}
		return m.theme.Footer.Error.Render(msg) + "\n" +
			m.theme.Panel.Muted.Render("Press r to try again, esc to go back")
	case query.StatusReady:
	default:
		return m.theme.Panel.Muted.Render("Loading Pokémon details...")
	}

	d, _ := m.state.Data()
	th := m.theme
	var b strings.Builder

	title := th.Panel.Title.Render(pokemon.DisplayName(d.Name)) + "  " + th.Card.ID.Render(pokemon.PaddedID(d.ID))
	if m.svc.IsFavorite(d.ID) {
		title += "  " + th.Card.Heart.Render("♥")
	}
	b.WriteString(title + "\n")

	badges := make([]string, len(d.Types))
	for i, t := range d.Types {
		badges[i] = theme.TypeBadge(t)
	}
	b.WriteString(strings.Join(badges, " ") + "\n\n")

	fmt.Fprintf(&b, "%s %.1f m   %s %.1f kg\n",
		th.Panel.Muted.Render("Height"), d.HeightMeters(),
		th.Panel.Muted.Render("Weight"), d.WeightKilograms())
	if len(d.Abilities) > 0 {
		names := make([]string, len(d.Abilities))
		for i, a := range d.Abilities {
			names[i] = pokemon.DisplayName(a.Name)
		}
		b.WriteString(th.Panel.Muted.Render("Abilities") + " " + strings.Join(names, ", ") + "\n")
	}

	b.WriteString("\n" + th.Panel.Title.Render("Stats") + "\n")
	for _, s := range d.OrderedStats() {
		b.WriteString(statbar.Render(th.Stat, s, min(m.width, 72)) + "\n")
	}

	b.WriteString("\n" + th.Panel.Title.Render(fmt.Sprintf("Moves (%d)", len(d.Moves))) + "\n")
	b.WriteString(m.tags())
	if hidden := len(d.Moves) - CollapsedMoves; hidden > 0 {
		if m.showAll {
			b.WriteString("\n" + th.Panel.Muted.Render("Show less (a)"))
		} else {
			b.WriteString("\n" + th.Panel.Muted.Render(fmt.Sprintf("And %d more moves... Show all (a)", hidden)))
		}
	}
	return b.String()
}

// tags flows the visible move names into lines no wider than the screen.
func (m *Model) tags() string {
	var lines []string
	var line string
	selected := lipgloss.NewStyle().Reverse(true)
	for i, mv := range m.moves() {
		tag := "[" + pokemon.DisplayName(mv.Name) + "]"
		if i == m.cursor {
			tag = selected.Render(tag)
		}
		if line != "" && lipgloss.Width(line)+1+lipgloss.Width(tag) > m.width {
			lines = append(lines, line)
			line = ""
		}
		if line != "" {
			line += " "
		}
		line += tag
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) refresh() {
	m.vp.SetContent(m.Body())
}
