// Package list is the index screen: every entry, paged in as the user
// scrolls.
package list

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/pokedex/pkg/app"
	"tableflip.dev/pokedex/pkg/pokemon"
	"tableflip.dev/pokedex/pkg/tui/components/grid"
	"tableflip.dev/pokedex/pkg/tui/route"
	"tableflip.dev/pokedex/pkg/tui/theme"
)

// Model is the index screen.
type Model struct {
	ctx   context.Context
	svc   *app.Service
	theme theme.Theme
	feed  *Feed
	err   error

	width  int
	height int
}

// New builds the index screen over the shared list query.
func New(ctx context.Context, svc *app.Service, th theme.Theme) *Model {
	m := &Model{ctx: ctx, svc: svc, theme: th}
	inf, err := svc.PokemonList()
	if err != nil {
		m.err = err
		return m
	}
	g := grid.New(th.Card)
	g.SetFavorite(svc.IsFavorite)
	m.feed = NewFeed(ctx, inf, g)
	return m
}

func (m *Model) Title() string { return "Explore Pokémon" }

func (m *Model) Init() tea.Cmd {
	if m.feed == nil {
		return nil
	}
	return m.feed.Init()
}

func (m *Model) SetSize(width, height int) tea.Cmd {
	m.width, m.height = width, height
	if m.feed == nil {
		return nil
	}
	return m.feed.SetSize(width, max(height-3, grid.CardHeight))
}

func (m *Model) Close() {
	if m.feed != nil {
		m.feed.Close()
	}
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if m.feed == nil {
		return nil
	}
	return FeedKeys(m.ctx, m.svc, m.feed, msg)
}

// FeedKeys applies the shared card grid bindings: navigation, enter to open,
// space to toggle a favorite and r to retry.
func FeedKeys(ctx context.Context, svc *app.Service, f *Feed, msg tea.Msg) tea.Cmd {
	if ok, cmd := f.Update(msg); ok {
		return cmd
	}
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "enter":
		if p, ok := f.Grid.Selected(); ok {
			return route.Push(route.Detail, strconv.Itoa(p.ID))
		}
	case "space", " ":
		if p, ok := f.Grid.Selected(); ok {
			return ToggleFavorite(ctx, svc, p)
		}
	case "r":
		return f.Retry()
	}
	return nil
}

// ToggleFavorite flips p's favorite state and reports the outcome.
func ToggleFavorite(ctx context.Context, svc *app.Service, p pokemon.Summary) tea.Cmd {
	return func() tea.Msg {
		added, err := svc.ToggleSummary(ctx, p)
		if err != nil {
			return route.StatusMsg{Text: err.Error(), Err: true}
		}
		verb := "Removed from favorites"
		if added {
			verb = "Added to favorites"
		}
		return route.FavoritesChangedMsg{Text: fmt.Sprintf("%s: %s", verb, pokemon.DisplayName(p.Name))}
	}
}

func (m *Model) View() string {
	if m.err != nil {
		return m.theme.Footer.Error.Render(m.err.Error())
	}
	count := 0
	if m.svc.Favorites != nil {
		count = m.svc.Favorites.Count()
	}
	header := m.theme.Panel.Title.Render(m.Title()) +
		m.theme.Panel.Muted.Render(fmt.Sprintf("   Favorites (%d)", count))
	return header + "\n\n" + FeedBody(m.theme, m.feed, "Pokémon")
}

// FeedBody renders the grid with its loading, error and end states.
func FeedBody(th theme.Theme, f *Feed, noun string) string {
	snap := f.Snapshot()
	if len(snap.Pages) == 0 {
		switch {
		case snap.Err != nil:
			return th.Footer.Error.Render(fmt.Sprintf("Error loading %s: %s", noun, snap.Err)) +
				"\n" + th.Panel.Muted.Render("Press r to try again")
		default:
			return th.Panel.Muted.Render(fmt.Sprintf("Loading %s...", noun))
		}
	}

	var b strings.Builder
	b.WriteString(f.Grid.View())
	b.WriteString("\n")
	loaded, total := Loaded(snap.Pages)
	switch {
	case snap.Fetching:
		b.WriteString(th.Panel.Muted.Render(fmt.Sprintf("Loading more %s...", noun)))
	case snap.Err != nil:
		b.WriteString(th.Footer.Error.Render(fmt.Sprintf("Error loading %s: %s", noun, snap.Err)))
		b.WriteString(th.Panel.Muted.Render("  (r to retry)"))
	case !snap.HasNext:
		b.WriteString(th.Panel.Muted.Render(fmt.Sprintf("All %d loaded", loaded)))
	default:
		b.WriteString(th.Panel.Muted.Render(fmt.Sprintf("(%d of %d loaded)", loaded, total)))
	}
	return b.String()
}
