package printers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/pokedex/pkg/pokemon"
)

func init() {
	color.NoColor = true
}

func TestDetailPrintsStatsInOrder(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Detail(&pokemon.Detail{
		ID:   1,
		Name: "bulbasaur",
		Stats: []pokemon.Stat{
			{Name: "speed", Value: 45},
			{Name: "hp", Value: 45},
		},
	}, true)

	out := buf.String()
	if !strings.Contains(out, "bulbasaur #001 ♥") {
		t.Fatalf("unexpected title:\n%s", out)
	}
	hp, speed := strings.Index(out, "HP"), strings.Index(out, "Speed")
	if hp < 0 || speed < hp || !strings.Contains(out, "Special Defense") {
		t.Fatalf("stats out of order:\n%s", out)
	}
}

func TestMoveLabels(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Move(&pokemon.Move{Name: "quick-attack", Priority: 1, PP: 30})
	out := buf.String()
	for _, want := range []string{"quick attack", "+1", pokemon.Placeholder} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q:\n%s", want, out)
		}
	}
}

func TestFavoritesHeader(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Favorites([]pokemon.Summary{{ID: 5, Name: "charmeleon"}})
	if !strings.Contains(buf.String(), "1 favorite") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestTypeWithoutRelations(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Type(&pokemon.TypeDetail{Name: "normal"})
	for _, want := range []string{"No special type advantages", "No special type weaknesses"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("missing %q:\n%s", want, buf.String())
		}
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, map[string]int{"id": 25}); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "{\n  \"id\": 25\n}" {
		t.Fatalf("unexpected json %q", buf.String())
	}
}
