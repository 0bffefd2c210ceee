// Package favorites is the bookmarks screen.
package favorites

import (
	"context"
	"strconv"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/pokedex/pkg/app"
	favstore "tableflip.dev/pokedex/pkg/favorites"
	"tableflip.dev/pokedex/pkg/tui/components/grid"
	"tableflip.dev/pokedex/pkg/tui/route"
	"tableflip.dev/pokedex/pkg/tui/theme"
	"tableflip.dev/pokedex/pkg/tui/views/list"
)

// Model is the favorites screen.
type Model struct {
	ctx   context.Context
	svc   *app.Service
	theme theme.Theme
	grid  *grid.Model
	err   error
}

// New builds the favorites screen.
func New(ctx context.Context, svc *app.Service, th theme.Theme) *Model {
	g := grid.New(th.Card)
	g.SetFavorite(svc.IsFavorite)
	m := &Model{ctx: ctx, svc: svc, theme: th, grid: g}
	m.reload()
	return m
}

func (m *Model) Title() string { return "Favorite Pokémon" }

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Close() {}

func (m *Model) SetSize(width, height int) tea.Cmd {
	m.grid.SetSize(width, max(height-3, grid.CardHeight))
	return nil
}

func (m *Model) reload() {
	items, err := m.svc.FavoriteList()
	m.err = err
	m.grid.SetItems(items)
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case route.FavoritesChangedMsg:
		m.reload()
	case tea.KeyPressMsg:
		if m.grid.Update(msg) {
			return nil
		}
		switch msg.String() {
		case "enter":
			if p, ok := m.grid.Selected(); ok {
				return route.Push(route.Detail, strconv.Itoa(p.ID))
			}
		case "space", " ":
			if p, ok := m.grid.Selected(); ok {
				return list.ToggleFavorite(m.ctx, m.svc, p)
			}
		}
	}
	return nil
}

func (m *Model) View() string {
	th := m.theme
	if m.err != nil {
		return th.Footer.Error.Render(m.err.Error())
	}
	items := m.grid.Items()
	if len(items) == 0 {
		return th.Panel.Title.Render("You have no favorites yet") + "\n" +
			th.Panel.Muted.Render("Explore the list of Pokémon and mark your favorites with space.")
	}
	return th.Panel.Title.Render("You have "+favstore.CountLabel(len(items))) + "\n\n" + m.grid.View()
}
