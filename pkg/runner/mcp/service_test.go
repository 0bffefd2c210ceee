package mcp

import (
	"context"
	"fmt"
	"testing"
	"time"

	"tableflip.dev/pokedex/pkg/app"
	"tableflip.dev/pokedex/pkg/favorites"
	"tableflip.dev/pokedex/pkg/pokeapi"
	"tableflip.dev/pokedex/pkg/pokemon"
	"tableflip.dev/pokedex/pkg/query"
)

type memoryRemote struct{}

func (memoryRemote) BaseURL() string { return "https://example.test/api/v2" }

func (memoryRemote) ListPage(ctx context.Context, page, limit int) (*pokemon.Page, error) {
	return &pokemon.Page{Pokemon: []pokemon.Summary{{ID: 1, Name: "mr-mime"}}, Page: page, TotalPages: 2, TotalCount: 2 * limit}, nil
}

func (memoryRemote) Detail(ctx context.Context, id string) (*pokemon.Detail, error) {
	if id != "1" && id != "bulbasaur" {
		return nil, &pokeapi.StatusError{StatusCode: 404, Message: "failed to fetch Pokemon with id: " + id}
	}
	return &pokemon.Detail{
		ID:     1,
		Name:   "bulbasaur",
		Height: 7,
		Weight: 69,
		Stats: []pokemon.Stat{
			{Name: "speed", Value: 45},
			{Name: "special-defense", Value: 65},
			{Name: "special-attack", Value: 65},
			{Name: "defense", Value: 49},
			{Name: "attack", Value: 49},
			{Name: "hp", Value: 45},
		},
	}, nil
}

func (memoryRemote) Search(ctx context.Context, name string) (*pokemon.Summary, error) {
	return &pokemon.Summary{ID: 25, Name: name}, nil
}

func (memoryRemote) Type(ctx context.Context, name string) (*pokemon.TypeDetail, error) {
	return &pokemon.TypeDetail{
		Name: name,
		Relations: pokemon.Relations{
			DoubleDamageTo: []string{"grass", "ice"},
			NoDamageFrom:   []string{},
		},
		Members: []pokemon.Reference{{Name: "charmander"}, {Name: "vulpix"}},
	}, nil
}

func (memoryRemote) TypePageFrom(ctx context.Context, td *pokemon.TypeDetail, page, limit int) (*pokemon.Page, error) {
	return &pokemon.Page{Pokemon: []pokemon.Summary{{ID: 4, Name: "charmander"}}, Page: page, TotalPages: 1, TotalCount: len(td.Members)}, nil
}

func (memoryRemote) Move(ctx context.Context, id string) (*pokemon.Move, error) {
	return &pokemon.Move{ID: 100, Name: "teleport", Priority: -6}, nil
}

type memoryBackend map[string][]byte

func (m memoryBackend) Read(key string) ([]byte, error) {
	if v, ok := m[key]; ok {
		return v, nil
	}
	return nil, favorites.ErrNotStored
}

func (m memoryBackend) Write(key string, value []byte) error {
	m[key] = value
	return nil
}

func newTestService() *Service {
	return NewService(&app.Service{
		Remote:    memoryRemote{},
		Cache:     query.New(query.WithSleep(func(context.Context, time.Duration) error { return nil })),
		Favorites: favorites.Load(context.Background(), memoryBackend{}),
		PageSize:  20,
	})
}

func TestServiceListPokemonClampsLimit(t *testing.T) {
	svc := newTestService()
	page, err := svc.ListPokemon(context.Background(), "", 1, 1000)
	if err != nil {
		t.Fatalf("ListPokemon failed: %v", err)
	}
	// The remote reports two pages of whatever limit it was asked for.
	if page.TotalCount != 2*maxLimit {
		t.Fatalf("expected limit clamped to %d, got total %d", maxLimit, page.TotalCount)
	}
}

func TestServicePokemonOrdersStats(t *testing.T) {
	svc := newTestService()
	dto, err := svc.Pokemon(context.Background(), "1")
	if err != nil {
		t.Fatalf("Pokemon failed: %v", err)
	}
	if dto.Number != "#001" {
		t.Fatalf("expected #001, got %s", dto.Number)
	}
	want := []string{"HP", "Attack", "Defense", "Special Attack", "Special Defense", "Speed"}
	if len(dto.Stats) != len(want) {
		t.Fatalf("expected %d stats, got %d", len(want), len(dto.Stats))
	}
	for i, label := range want {
		if dto.Stats[i].Label != label {
			t.Fatalf("stat %d: expected %s, got %s", i, label, dto.Stats[i].Label)
		}
	}
	if dto.HeightM != 0.7 || dto.WeightKg != 6.9 {
		t.Fatalf("unexpected measurements %v %v", dto.HeightM, dto.WeightKg)
	}
}

func TestServiceListPokemon(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	page, err := svc.ListPokemon(ctx, "", 0, 0)
	if err != nil {
		t.Fatalf("ListPokemon failed: %v", err)
	}
	if page.Page != 1 || !page.HasNext {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Pokemon[0].DisplayName != "mr mime" {
		t.Fatalf("unexpected display name %q", page.Pokemon[0].DisplayName)
	}

	typed, err := svc.ListPokemon(ctx, "fire", 1, 20)
	if err != nil {
		t.Fatalf("ListPokemon by type failed: %v", err)
	}
	if typed.TotalCount != 2 || typed.HasNext {
		t.Fatalf("unexpected typed page %+v", typed)
	}
}

func TestServiceMoveLabels(t *testing.T) {
	svc := newTestService()
	dto, err := svc.Move(context.Background(), "100")
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if dto.Power != pokemon.Placeholder || dto.Accuracy != pokemon.Placeholder || dto.Priority != "-6" {
		t.Fatalf("unexpected labels %+v", dto)
	}
}

func TestServiceToggleFavorite(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	dto, err := svc.ToggleFavorite(ctx, "1")
	if err != nil {
		t.Fatalf("ToggleFavorite failed: %v", err)
	}
	if !dto.Favorite {
		t.Fatal("expected favorite after first toggle")
	}
	list, label, _ := svc.Favorites()
	if len(list) != 1 || label != "1 favorite" {
		t.Fatalf("unexpected favorites %v %q", list, label)
	}

	dto, err = svc.ToggleFavorite(ctx, "1")
	if err != nil {
		t.Fatalf("ToggleFavorite failed: %v", err)
	}
	if dto.Favorite {
		t.Fatal("expected removal on second toggle")
	}

	if _, err := svc.ToggleFavorite(ctx, "9999"); err == nil {
		t.Fatal("expected not found error")
	}
}

func TestServiceType(t *testing.T) {
	svc := newTestService()
	dto, err := svc.Type(context.Background(), "fire")
	if err != nil {
		t.Fatalf("Type failed: %v", err)
	}
	if fmt.Sprint(dto.SuperEffective) != "[grass ice]" || dto.MemberCount != 2 {
		t.Fatalf("unexpected type %+v", dto)
	}
}

func TestNewServerRegistersEverything(t *testing.T) {
	srv := NewServer("pokedex", "test", newTestService())
	tools := srv.ListTools()
	for _, name := range []string{"list_pokemon", "get_pokemon", "search_pokemon", "get_type", "get_move", "list_favorites", "toggle_favorite"} {
		if _, ok := tools[name]; !ok {
			t.Errorf("tool %s not registered", name)
		}
	}
}
