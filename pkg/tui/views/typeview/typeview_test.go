package typeview

import (
	"context"
	"strings"
	"testing"

	"tableflip.dev/pokedex/pkg/app/apptest"
	"tableflip.dev/pokedex/pkg/pokemon"
	"tableflip.dev/pokedex/pkg/tui/internal/teatest"
	"tableflip.dev/pokedex/pkg/tui/theme"
)

func TestTypeViewChartAndMembers(t *testing.T) {
	svc, remote, _ := apptest.NewService(10)
	m := New(context.Background(), svc, theme.Default(), "Fire")
	m.SetSize(120, 60)
	teatest.Run(m.Init(), m.Update)

	view := teatest.Plain(m.View())
	rows := map[string][]string{
		"Super effective (2x damage)":      {"grass", "ice"},
		"Not very effective (0.5x damage)": {"water"},
		"Weak to (takes 2x damage)":        {"water"},
		"Resists (takes 0.5x damage)":      {"grass"},
	}
	for label, types := range rows {
		line := lineWith(view, label)
		for _, typ := range types {
			if !strings.Contains(line, typ) {
				t.Fatalf("%q row missing %s: %q", label, typ, line)
			}
		}
	}
	for _, want := range []string{"Effective against", "Weak against", "fire type Pokémon", "(5 of 5 loaded)", "mon 2"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "No effect") || strings.Contains(view, "Immune") {
		t.Fatalf("empty relations should be omitted:\n%s", view)
	}
	if remote.Count("type") != 1 {
		t.Fatalf("type detail should be fetched once, got %d", remote.Count("type"))
	}
}

func TestChartWithoutRelations(t *testing.T) {
	chart := teatest.Plain(Chart(theme.Default(), pokemon.Relations{}))
	for _, want := range []string{"No special type advantages", "No special type weaknesses"} {
		if !strings.Contains(chart, want) {
			t.Fatalf("chart missing %q:\n%s", want, chart)
		}
	}
}

func TestUnknownType(t *testing.T) {
	svc, _, _ := apptest.NewService(3)
	m := New(context.Background(), svc, theme.Default(), "shadow")
	m.SetSize(80, 30)
	teatest.Run(m.Init(), m.Update)
	if view := teatest.Plain(m.View()); !strings.Contains(view, "Error loading type: Type not found") {
		t.Fatalf("expected not found:\n%s", view)
	}
}

func lineWith(view, substr string) string {
	for _, line := range strings.Split(view, "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	return ""
}
