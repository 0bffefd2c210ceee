package info

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"tableflip.dev/pokedex/pkg/favorites"
	"tableflip.dev/pokedex/pkg/store"
)

func TestInfoListsKeysAndFavorites(t *testing.T) {
	base := t.TempDir()
	cfg := store.StaticConfig(base)
	p, err := store.Load(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Write(favorites.Key, []byte(`[{"id":25,"name":"pikachu"}]`)); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	n := Info{Config: cfg, Persistence: p, Out: &buf}
	if err := n.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Config.path: " + base, favorites.Key, "Favorites: 1 favorite"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
