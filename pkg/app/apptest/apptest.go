// Package apptest provides in-memory fakes for exercising the application
// service without the network or the disk.
package apptest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tableflip.dev/pokedex/pkg/app"
	"tableflip.dev/pokedex/pkg/favorites"
	"tableflip.dev/pokedex/pkg/pokeapi"
	"tableflip.dev/pokedex/pkg/pokemon"
	"tableflip.dev/pokedex/pkg/query"
)

// Remote serves a fixed catalog and counts calls per method. Even ids carry
// the fire type, odd ids the normal type.
type Remote struct {
	mu      sync.Mutex
	entries []pokemon.Detail
	types   map[string]*pokemon.TypeDetail
	calls   map[string]int
	fail    map[string]error
}

// NewRemote builds a catalog of n entries named mon-1 through mon-n.
func NewRemote(n int) *Remote {
	m := &Remote{types: map[string]*pokemon.TypeDetail{}, calls: map[string]int{}, fail: map[string]error{}}
	fire := &pokemon.TypeDetail{Name: "fire", Relations: pokemon.Relations{
		DoubleDamageTo:   []string{"grass", "ice"},
		HalfDamageTo:     []string{"water"},
		DoubleDamageFrom: []string{"water"},
		HalfDamageFrom:   []string{"grass"},
	}}
	for i := 1; i <= n; i++ {
		d := pokemon.Detail{ID: i, Name: fmt.Sprintf("mon-%d", i), Types: []string{"normal"}}
		if i%2 == 0 {
			d.Types = []string{"fire"}
			fire.Members = append(fire.Members, pokemon.Reference{Name: d.Name})
		}
		m.entries = append(m.entries, d)
	}
	m.types["fire"] = fire
	return m
}

// Count reports how many times method was called.
func (m *Remote) Count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

// Fail makes every call to method return err until Fail(method, nil).
func (m *Remote) Fail(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.fail, method)
		return
	}
	m.fail[method] = err
}

func (m *Remote) hit(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[name]++
	return m.fail[name]
}

// Put adds d to the catalog, replacing an entry with the same id.
func (m *Remote) Put(d pokemon.Detail) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].ID == d.ID {
			m.entries[i] = d
			return
		}
	}
	m.entries = append(m.entries, d)
}

func (m *Remote) BaseURL() string { return "https://example.test/api/v2" }

func (m *Remote) find(id string) (*pokemon.Detail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if fmt.Sprint(m.entries[i].ID) == id || m.entries[i].Name == id {
			d := m.entries[i]
			return &d, true
		}
	}
	return nil, false
}

func (m *Remote) ListPage(ctx context.Context, page, limit int) (*pokemon.Page, error) {
	if err := m.hit("list"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	entries := append([]pokemon.Detail(nil), m.entries...)
	m.mu.Unlock()
	var out []pokemon.Summary
	for _, d := range pokemon.SlicePage(entries, page, limit) {
		out = append(out, d.Summary(m.BaseURL()))
	}
	return &pokemon.Page{Pokemon: out, Page: page, TotalPages: pokemon.TotalPages(len(entries), limit), TotalCount: len(entries)}, nil
}

func (m *Remote) Detail(ctx context.Context, id string) (*pokemon.Detail, error) {
	if err := m.hit("detail"); err != nil {
		return nil, err
	}
	if d, ok := m.find(id); ok {
		return d, nil
	}
	return nil, &pokeapi.StatusError{StatusCode: 404, Message: "failed to fetch Pokemon with id: " + id}
}

func (m *Remote) Search(ctx context.Context, name string) (*pokemon.Summary, error) {
	if err := m.hit("search"); err != nil {
		return nil, err
	}
	if d, ok := m.find(name); ok {
		s := d.Summary(m.BaseURL())
		return &s, nil
	}
	return nil, &pokeapi.StatusError{StatusCode: 404, Message: fmt.Sprintf("Pokemon %q not found", name)}
}

func (m *Remote) Type(ctx context.Context, name string) (*pokemon.TypeDetail, error) {
	if err := m.hit("type"); err != nil {
		return nil, err
	}
	if td, ok := m.types[name]; ok {
		return td, nil
	}
	return nil, &pokeapi.StatusError{StatusCode: 404, Message: "failed to fetch type: " + name}
}

func (m *Remote) TypePageFrom(ctx context.Context, td *pokemon.TypeDetail, page, limit int) (*pokemon.Page, error) {
	if err := m.hit("typepage"); err != nil {
		return nil, err
	}
	var out []pokemon.Summary
	for _, ref := range pokemon.SlicePage(td.Members, page, limit) {
		d, _ := m.find(ref.Name)
		out = append(out, d.Summary(m.BaseURL()))
	}
	return &pokemon.Page{Pokemon: out, Page: page, TotalPages: pokemon.TotalPages(len(td.Members), limit), TotalCount: len(td.Members)}, nil
}

func (m *Remote) Move(ctx context.Context, id string) (*pokemon.Move, error) {
	if err := m.hit("move"); err != nil {
		return nil, err
	}
	power, acc := 50, 95
	return &pokemon.Move{Name: id, Type: "normal", DamageClass: "physical", Power: &power, Accuracy: &acc, PP: 30, Description: pokeapi.NoDescription}, nil
}

// Backend is an in-memory favorites backend.
type Backend struct{ Data map[string][]byte }

func (b *Backend) Read(key string) ([]byte, error) {
	v, ok := b.Data[key]
	if !ok {
		return nil, favorites.ErrNotStored
	}
	return v, nil
}

func (b *Backend) Write(key string, value []byte) error {
	b.Data[key] = value
	return nil
}

// NewService wires a service over a catalog of n entries, a no-wait cache
// and an empty favorites backend.
func NewService(n int) (*app.Service, *Remote, *Backend) {
	remote := NewRemote(n)
	backend := &Backend{Data: map[string][]byte{}}
	return &app.Service{
		Remote:    remote,
		Cache:     query.New(query.WithSleep(func(context.Context, time.Duration) error { return nil })),
		Favorites: favorites.Load(context.Background(), backend),
		PageSize:  20,
	}, remote, backend
}

