package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tableflip.dev/pokedex/pkg/app"
)

func fakeAPI(t *testing.T) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /pokemon/{name}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("name") {
		case "1", "bulbasaur":
			fmt.Fprint(w, `{"id":1,"name":"bulbasaur","height":7,"weight":69,
				"sprites":{"front_default":"b.png"},
				"types":[{"slot":1,"type":{"name":"grass"}}],
				"stats":[{"base_stat":45,"stat":{"name":"hp"}}],
				"moves":[],"abilities":[{"ability":{"name":"overgrow"},"is_hidden":false}]}`)
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Setenv("POKEDEX_CONFIG_PATH", dir)
	t.Setenv("POKEDEX_PATH", dir)
	t.Setenv("POKEDEX_API", srv.URL)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := New()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGetJSON(t *testing.T) {
	fakeAPI(t)
	out, err := run(t, "get", "1", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("not json: %v\n%s", err, out)
	}
	if got.ID != 1 || got.Name != "bulbasaur" {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestFavoritesToggleRoundTrip(t *testing.T) {
	fakeAPI(t)
	out, err := run(t, "favorites", "toggle", "bulbasaur")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Added to favorites: bulbasaur") {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = run(t, "favorites", "--json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"name": "bulbasaur"`) {
		t.Fatalf("favorite not persisted:\n%s", out)
	}

	// Stored favorites toggle off by id without a lookup.
	out, err = run(t, "favorites", "toggle", "1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Removed from favorites") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSearchTooShort(t *testing.T) {
	fakeAPI(t)
	if _, err := run(t, "search", "ab"); err != app.ErrQueryTooShort {
		t.Fatalf("expected ErrQueryTooShort, got %v", err)
	}
}

func TestVersionShort(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, version) {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestEverySubcommandRegistered(t *testing.T) {
	root := New()
	for _, name := range []string{"ui", "list", "get", "search", "type", "move", "favorites", "serve", "mcp", "info", "version", "completion"} {
		if c, _, err := root.Find([]string{name}); err != nil || c == root {
			t.Errorf("missing command %q", name)
		}
	}
}
