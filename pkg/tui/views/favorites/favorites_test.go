package favorites

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/pokedex/pkg/app/apptest"
	favstore "tableflip.dev/pokedex/pkg/favorites"
	"tableflip.dev/pokedex/pkg/tui/internal/teatest"
	"tableflip.dev/pokedex/pkg/tui/theme"
)

func TestFavoritesViewTogglesOff(t *testing.T) {
	svc, _, backend := apptest.NewService(10)
	backend.Data[favstore.Key] = []byte(`[{"id":5,"name":"mon-5","url":"https://example.test/api/v2/pokemon/5","types":["normal"]}]`)
	svc.Favorites.Reload(context.Background())

	m := New(context.Background(), svc, theme.Default())
	m.SetSize(100, 30)
	if view := teatest.Plain(m.View()); !strings.Contains(view, "You have 1 favorite") {
		t.Fatalf("unexpected header:\n%s", view)
	}

	teatest.Run(m.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}), m.Update)
	if got := string(backend.Data[favstore.Key]); got != "[]" {
		t.Fatalf("expected [] persisted, got %s", got)
	}
	if view := teatest.Plain(m.View()); !strings.Contains(view, "You have no favorites yet") {
		t.Fatalf("expected empty state:\n%s", view)
	}
}
