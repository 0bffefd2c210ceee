package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tableflip.dev/pokedex/pkg/app"
	"tableflip.dev/pokedex/pkg/app/apptest"
	"tableflip.dev/pokedex/pkg/favorites"
	"tableflip.dev/pokedex/pkg/pokeapi"
	"tableflip.dev/pokedex/pkg/query"
)

func TestPokemonListAccumulates(t *testing.T) {
	svc, remote, _ := apptest.NewService(45)
	inf, err := svc.PokemonList()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for inf.HasNext() {
		if _, err := inf.FetchNext(ctx); err != nil {
			t.Fatal(err)
		}
	}
	pages := inf.Pages()
	if len(pages) != 3 || pages[2].TotalPages != 3 {
		t.Fatalf("unexpected pages %d", len(pages))
	}
	total := 0
	for _, p := range pages {
		total += len(p.Pokemon)
	}
	if total != 45 {
		t.Fatalf("expected 45 entries, got %d", total)
	}
	if remote.Count("list") != 3 {
		t.Fatalf("expected 3 list calls, got %d", remote.Count("list"))
	}

	again, _ := svc.PokemonList()
	if again != inf {
		t.Fatal("list accumulation should survive a remount")
	}
}

func TestTypeListFetchesTypeOnce(t *testing.T) {
	svc, remote, _ := apptest.NewService(100)
	inf, err := svc.TypeList("Fire")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for inf.HasNext() {
		if _, err := inf.FetchNext(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if got := len(inf.Pages()); got != 3 {
		t.Fatalf("expected 3 pages of 50 members, got %d", got)
	}
	if remote.Count("type") != 1 {
		t.Fatalf("type detail should be fetched once, got %d", remote.Count("type"))
	}
}

func TestTypePagesRetryWithinListBudget(t *testing.T) {
	boom := errors.New("upstream down")
	ctx := context.Background()
	want := 1 + query.Policies[query.KindTypeList].Retries

	svc, remote, _ := apptest.NewService(20)
	remote.Fail("type", boom)
	inf, err := svc.TypeList("fire")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := inf.FetchNext(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if got := remote.Count("type"); got != want {
		t.Fatalf("infinite type list: expected %d type calls, got %d", want, got)
	}

	svc, remote, _ = apptest.NewService(20)
	remote.Fail("type", boom)
	if _, err := svc.TypePage(ctx, "fire", 1, 0); !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if got := remote.Count("type"); got != want {
		t.Fatalf("type page: expected %d type calls, got %d", want, got)
	}
}

func TestDetailIsCached(t *testing.T) {
	svc, remote, _ := apptest.NewService(3)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := svc.Detail(ctx, "2"); err != nil {
			t.Fatal(err)
		}
	}
	if remote.Count("detail") != 1 {
		t.Fatalf("expected one detail call, got %d", remote.Count("detail"))
	}
}

func TestSearchRequiresThreeCharacters(t *testing.T) {
	svc, remote, _ := apptest.NewService(3)
	ctx := context.Background()
	if _, err := svc.Search(ctx, "mo"); !errors.Is(err, app.ErrQueryTooShort) {
		t.Fatalf("expected app.ErrQueryTooShort, got %v", err)
	}
	if remote.Count("search") != 0 {
		t.Fatal("short query must not reach the API")
	}
	s, err := svc.Search(ctx, "MON-3")
	if err != nil {
		t.Fatal(err)
	}
	if s.ID != 3 {
		t.Fatalf("unexpected result %+v", s)
	}
	_, err = svc.Search(ctx, "missingno")
	if !errors.Is(err, pokeapi.ErrNotFound) || !strings.Contains(err.Error(), `"missingno" not found`) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestToggleFavoriteByID(t *testing.T) {
	svc, remote, backend := apptest.NewService(10)
	ctx := context.Background()

	added, snap, err := svc.ToggleFavorite(ctx, "5")
	if err != nil || !added {
		t.Fatalf("expected add, got %v %v", added, err)
	}
	if snap.URL != "https://example.test/api/v2/pokemon/5" {
		t.Fatalf("unexpected snapshot url %q", snap.URL)
	}
	if !svc.IsFavorite(5) {
		t.Fatal("expected favorite")
	}

	calls := remote.Count("detail")
	added, _, err = svc.ToggleFavorite(ctx, "5")
	if err != nil || added {
		t.Fatalf("expected removal, got %v %v", added, err)
	}
	if remote.Count("detail") != calls {
		t.Fatal("removing a stored favorite should not hit the API")
	}
	if string(backend.Data[favorites.Key]) != "[]" {
		t.Fatalf("expected [] persisted, got %s", backend.Data[favorites.Key])
	}
}

func TestServiceWithoutRemote(t *testing.T) {
	svc := &app.Service{}
	if _, err := svc.Detail(context.Background(), "1"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := svc.FavoriteList(); err == nil {
		t.Fatal("expected error")
	}
}
