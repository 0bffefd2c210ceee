package detail

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/pokedex/pkg/app"
	"tableflip.dev/pokedex/pkg/app/apptest"
	"tableflip.dev/pokedex/pkg/pokemon"
	"tableflip.dev/pokedex/pkg/tui/internal/teatest"
	"tableflip.dev/pokedex/pkg/tui/theme"
)

func bulbasaur(moves int) pokemon.Detail {
	d := pokemon.Detail{
		ID:     1,
		Name:   "bulbasaur",
		Types:  []string{"grass", "poison"},
		Height: 7,
		Weight: 69,
		// Deliberately out of canonical order.
		Stats: []pokemon.Stat{
			{Name: "speed", Value: 45},
			{Name: "special-defense", Value: 65},
			{Name: "hp", Value: 45},
			{Name: "special-attack", Value: 65},
			{Name: "defense", Value: 49},
			{Name: "attack", Value: 49},
		},
		Abilities: []pokemon.Reference{{Name: "overgrow"}, {Name: "chlorophyll"}},
	}
	for i := 0; i < moves; i++ {
		d.Moves = append(d.Moves, pokemon.Reference{Name: fmt.Sprintf("move-%02d", i)})
	}
	return d
}

func open(t *testing.T, moves int) (*Model, *apptest.Remote, *app.Service) {
	t.Helper()
	svc, remote, _ := apptest.NewService(3)
	remote.Put(bulbasaur(moves))
	m := New(context.Background(), svc, theme.Default(), "1")
	m.SetSize(120, 80)
	teatest.Run(m.Init(), m.Update)
	return m, remote, svc
}

func TestDetailRendersStatsInCanonicalOrder(t *testing.T) {
	m, _, _ := open(t, 3)
	body := teatest.Plain(m.Body())

	for _, want := range []string{"bulbasaur", "#001", "0.7 m", "6.9 kg", "overgrow, chlorophyll"} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q:\n%s", want, body)
		}
	}
	last := -1
	for _, label := range []string{"HP", "Attack", "Defense", "Special Attack", "Special Defense", "Speed"} {
		i := strings.Index(body, label+" ")
		if i < 0 || i < last {
			t.Fatalf("stat %q out of order:\n%s", label, body)
		}
		last = i
	}
	if got := strings.Count(body, "█") + strings.Count(body, "░"); got == 0 {
		t.Fatal("expected stat bars")
	}
}

func TestDetailCollapsesMoves(t *testing.T) {
	m, _, _ := open(t, 25)
	body := teatest.Plain(m.Body())
	if !strings.Contains(body, "And 5 more moves...") {
		t.Fatalf("expected collapsed moves:\n%s", body)
	}
	if strings.Contains(body, "[move 20]") {
		t.Fatal("move 21 should be hidden")
	}

	m.Update(teatest.Key('a'))
	body = teatest.Plain(m.Body())
	if !strings.Contains(body, "[move 24]") || !strings.Contains(body, "Show less") {
		t.Fatalf("expected all moves:\n%s", body)
	}

	m.Update(teatest.Key('a'))
	if body = teatest.Plain(m.Body()); !strings.Contains(body, "And 5 more moves...") {
		t.Fatalf("expected collapsed again:\n%s", body)
	}
}

func TestMovePopupFetchesOnOpen(t *testing.T) {
	m, remote, _ := open(t, 3)
	if remote.Count("move") != 0 {
		t.Fatal("moves must not be fetched before a popup opens")
	}

	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	teatest.Run(m.Update(tea.KeyPressMsg{Code: tea.KeyEnter}), m.Update)
	if remote.Count("move") != 1 {
		t.Fatalf("expected one move fetch, got %d", remote.Count("move"))
	}
	body := teatest.Plain(m.View())
	for _, want := range []string{"Power: 50", "Accuracy: 95%", "PP: 30", "Priority: 0", "No description available"} {
		if !strings.Contains(body, want) {
			t.Fatalf("popup missing %q:\n%s", want, body)
		}
	}

	// Second activation closes it.
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if strings.Contains(teatest.Plain(m.View()), "Power:") {
		t.Fatal("popup should be closed")
	}

	// Any other interaction closes it too.
	teatest.Run(m.Update(tea.KeyPressMsg{Code: tea.KeyEnter}), m.Update)
	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if strings.Contains(teatest.Plain(m.View()), "Power:") {
		t.Fatal("esc should close the popup")
	}
}

func TestDetailNotFound(t *testing.T) {
	svc, _, _ := apptest.NewService(3)
	m := New(context.Background(), svc, theme.Default(), "999")
	m.SetSize(80, 20)
	teatest.Run(m.Init(), m.Update)
	if body := teatest.Plain(m.Body()); !strings.Contains(body, "Pokémon not found") {
		t.Fatalf("expected not found:\n%s", body)
	}
}

func TestDetailToggleFavorite(t *testing.T) {
	m, _, svc := open(t, 1)
	teatest.Run(m.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}), m.Update)
	if !svc.IsFavorite(1) {
		t.Fatal("expected favorite")
	}
	if !strings.Contains(teatest.Plain(m.Body()), "♥") {
		t.Fatal("expected heart")
	}
}
