// Package typeview is the per-type screen: the damage relation chart above
// an infinitely paged grid of members.
package typeview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/pokedex/pkg/app"
	"tableflip.dev/pokedex/pkg/pokeapi"
	"tableflip.dev/pokedex/pkg/pokemon"
	"tableflip.dev/pokedex/pkg/query"
	"tableflip.dev/pokedex/pkg/tui/components/grid"
	"tableflip.dev/pokedex/pkg/tui/theme"
	"tableflip.dev/pokedex/pkg/tui/views/list"
)

type typeMsg struct {
	name string
	td   *pokemon.TypeDetail
	err  error
}

// Model is the type screen.
type Model struct {
	ctx   context.Context
	svc   *app.Service
	theme theme.Theme
	name  string

	state query.State[*pokemon.TypeDetail]
	feed  *list.Feed
	err   error

	width  int
	height int
}

// New builds the screen for type name.
func New(ctx context.Context, svc *app.Service, th theme.Theme, name string) *Model {
	name = strings.ToLower(strings.TrimSpace(name))
	m := &Model{ctx: ctx, svc: svc, theme: th, name: name, state: query.Loading[*pokemon.TypeDetail]()}
	inf, err := svc.TypeList(name)
	if err != nil {
		m.err = err
		return m
	}
	g := grid.New(th.Card)
	g.SetFavorite(svc.IsFavorite)
	m.feed = list.NewFeed(ctx, inf, g)
	return m
}

func (m *Model) Title() string { return pokemon.DisplayName(m.name) + " type" }

func (m *Model) Init() tea.Cmd {
	if m.feed == nil {
		return nil
	}
	return tea.Batch(m.load(), m.feed.Init())
}

func (m *Model) load() tea.Cmd {
	svc, ctx, name := m.svc, m.ctx, m.name
	return func() tea.Msg {
		td, err := svc.Type(ctx, name)
		return typeMsg{name: name, td: td, err: err}
	}
}

func (m *Model) Close() {
	if m.feed != nil {
		m.feed.Close()
	}
}

func (m *Model) SetSize(width, height int) tea.Cmd {
	m.width, m.height = width, height
	if m.feed == nil {
		return nil
	}
	chart := strings.Count(m.chart(), "\n") + 1
	return m.feed.SetSize(width, max(height-chart-4, grid.CardHeight))
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if m.feed == nil {
		return nil
	}
	switch msg := msg.(type) {
	case typeMsg:
		if msg.name != m.name {
			return nil
		}
		if msg.err != nil {
			m.state = query.Failed[*pokemon.TypeDetail](msg.err)
			return nil
		}
		m.state = query.Ready(msg.td, false)
		return m.SetSize(m.width, m.height)
	case tea.KeyPressMsg:
		if msg.String() == "r" && m.state.Status() == query.StatusError {
			m.state = query.Loading[*pokemon.TypeDetail]()
			return tea.Batch(m.load(), m.feed.Retry())
		}
	}
	return list.FeedKeys(m.ctx, m.svc, m.feed, msg)
}

func (m *Model) View() string {
	if m.err != nil {
		return m.theme.Footer.Error.Render(m.err.Error())
	}
	th := m.theme
	switch m.state.Status() {
	case query.StatusError:
		msg := m.state.Err().Error()
		if errors.Is(m.state.Err(), pokeapi.ErrNotFound) {
			msg = "Type not found"
		}
		return th.Footer.Error.Render("Error loading type: "+msg) + "\n" +
			th.Panel.Muted.Render("Press r to try again, esc to go back")
	case query.StatusReady:
	default:
		return th.Panel.Muted.Render("Loading type information...")
	}

	var b strings.Builder
	b.WriteString(theme.TypeBadge(m.name) + "\n\n")
	b.WriteString(m.chart() + "\n\n")

	header := th.Panel.Title.Render(pokemon.DisplayName(m.name) + " type Pokémon")
	snap := m.feed.Snapshot()
	if loaded, total := list.Loaded(snap.Pages); total > 0 {
		header += th.Panel.Muted.Render(fmt.Sprintf("  (%d of %d loaded)", loaded, total))
	}
	b.WriteString(header + "\n")
	b.WriteString(list.FeedBody(th, m.feed, "Pokémon"))
	return b.String()
}

func (m *Model) chart() string {
	td, ok := m.state.Data()
	if !ok {
		return ""
	}
	return Chart(m.theme, td.Relations)
}

// Chart renders both sides of the damage relations.
func Chart(th theme.Theme, r pokemon.Relations) string {
	lines := []string{th.Panel.Title.Render("Effective against")}
	if r.HasOffense() {
		lines = appendRelation(lines, th, "Super effective (2x damage)", r.DoubleDamageTo)
		lines = appendRelation(lines, th, "Not very effective (0.5x damage)", r.HalfDamageTo)
		lines = appendRelation(lines, th, "No effect (0x damage)", r.NoDamageTo)
	} else {
		lines = append(lines, th.Panel.Muted.Render("  No special type advantages"))
	}

	lines = append(lines, th.Panel.Title.Render("Weak against"))
	if r.HasDefense() {
		lines = appendRelation(lines, th, "Weak to (takes 2x damage)", r.DoubleDamageFrom)
		lines = appendRelation(lines, th, "Resists (takes 0.5x damage)", r.HalfDamageFrom)
		lines = appendRelation(lines, th, "Immune (takes 0x damage)", r.NoDamageFrom)
	} else {
		lines = append(lines, th.Panel.Muted.Render("  No special type weaknesses"))
	}
	return strings.Join(lines, "\n")
}

func appendRelation(lines []string, th theme.Theme, label string, types []string) []string {
	if len(types) == 0 {
		return lines
	}
	badges := make([]string, len(types))
	for i, t := range types {
		badges[i] = theme.TypeBadge(t)
	}
	return append(lines, "  "+th.Panel.Muted.Render(label)+" "+strings.Join(badges, " "))
}

