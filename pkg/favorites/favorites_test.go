package favorites

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/pokedex/pkg/pokemon"
)

type memoryBackend struct {
	data   map[string][]byte
	writes int
	fail   error
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{data: make(map[string][]byte)}
}

func (m *memoryBackend) Read(key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotStored
	}
	return v, nil
}

func (m *memoryBackend) Write(key string, value []byte) error {
	if m.fail != nil {
		return m.fail
	}
	m.writes++
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func summary(id int, name string) pokemon.Summary {
	return pokemon.Summary{ID: id, Name: name, Types: []string{"normal"}}
}

func TestLoadStoredListAndToggleOff(t *testing.T) {
	b := newMemoryBackend()
	b.data[Key] = []byte(`[{"id":5,"name":"charmeleon","url":"","types":["fire"],"sprite":""}]`)

	s := Load(context.Background(), b)
	if got := CountLabel(s.Count()); got != "1 favorite" {
		t.Fatalf("unexpected label %q", got)
	}
	if !s.Has(5) {
		t.Fatal("expected id 5 to be a favorite")
	}

	added, err := s.Toggle(summary(5, "charmeleon"))
	if err != nil {
		t.Fatal(err)
	}
	if added {
		t.Fatal("toggle should remove an existing favorite")
	}
	if got := string(b.data[Key]); got != "[]" {
		t.Fatalf("expected [] persisted, got %s", got)
	}
	if got := CountLabel(s.Count()); got != "0 favorites" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestToggleTwiceRestoresList(t *testing.T) {
	s := Load(context.Background(), newMemoryBackend())
	for _, p := range []pokemon.Summary{summary(1, "bulbasaur"), summary(4, "charmander"), summary(7, "squirtle")} {
		if err := s.Add(p); err != nil {
			t.Fatal(err)
		}
	}
	before := s.List()

	if added, _ := s.Toggle(summary(4, "charmander")); added {
		t.Fatal("expected removal")
	}
	if added, _ := s.Toggle(summary(4, "charmander")); !added {
		t.Fatal("expected addition")
	}

	after := s.List()
	// The toggled entry moves to the end; everything else keeps its order.
	wantIDs := []int{1, 7, 4}
	gotIDs := make([]int, len(after))
	for i, p := range after {
		gotIDs[i] = p.ID
	}
	if diff := cmp.Diff(wantIDs, gotIDs); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if len(before) != len(after) {
		t.Fatalf("set changed: %v vs %v", before, after)
	}
}

func TestAddIsIdempotentPerID(t *testing.T) {
	b := newMemoryBackend()
	s := Load(context.Background(), b)
	_ = s.Add(summary(25, "pikachu"))
	_ = s.Add(summary(25, "pikachu"))
	if s.Count() != 1 {
		t.Fatalf("expected one entry, got %d", s.Count())
	}
	if b.writes != 1 {
		t.Fatalf("expected one write, got %d", b.writes)
	}
	if err := s.Remove(99); err != nil || b.writes != 1 {
		t.Fatalf("removing an absent id should not write, writes=%d err=%v", b.writes, err)
	}
}

func TestCorruptPayloadStartsEmpty(t *testing.T) {
	b := newMemoryBackend()
	b.data[Key] = []byte(`{not json`)
	s := Load(context.Background(), b)
	if s.Count() != 0 {
		t.Fatalf("expected empty list, got %d", s.Count())
	}
	if _, err := s.Toggle(summary(1, "bulbasaur")); err != nil {
		t.Fatal(err)
	}
	if got := string(b.data[Key]); got == "{not json" {
		t.Fatal("toggle should overwrite the corrupt payload")
	}
}

func TestWriteFailureKeepsState(t *testing.T) {
	b := newMemoryBackend()
	s := Load(context.Background(), b)
	b.fail = errors.New("disk full")
	if _, err := s.Toggle(summary(1, "bulbasaur")); err == nil {
		t.Fatal("expected write error")
	}
	if s.Has(1) {
		t.Fatal("failed write must not change the list")
	}
}

func TestReloadPicksUpExternalChange(t *testing.T) {
	b := newMemoryBackend()
	s := Load(context.Background(), b)
	b.data[Key] = []byte(`[{"id":150,"name":"mewtwo"}]`)
	s.Reload(context.Background())
	if !s.Has(150) {
		t.Fatal("reload should see the new entry")
	}
}

func TestCountLabel(t *testing.T) {
	tests := map[int]string{0: "0 favorites", 1: "1 favorite", 2: "2 favorites"}
	for n, want := range tests {
		if got := CountLabel(n); got != want {
			t.Errorf("CountLabel(%d) = %q, want %q", n, got, want)
		}
	}
}
