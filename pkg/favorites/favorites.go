// Package favorites keeps the user's bookmarked entries. The whole list is
// stored as one JSON array under a single key and rewritten on every change.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/apex/log"

	"tableflip.dev/pokedex/pkg/pokemon"
)

// Key is the storage key holding the list.
const Key = "pokemon-favorites"

// ErrNotStored is returned by a Backend when the key has never been written.
var ErrNotStored = errors.New("favorites: key not stored")

// Backend persists raw values by key.
type Backend interface {
	Read(key string) ([]byte, error)
	Write(key string, value []byte) error
}

// Store is the in-memory favorites list mirrored to a Backend.
type Store struct {
	mu      sync.Mutex
	backend Backend
	items   []pokemon.Summary
}

// Load hydrates a Store from backend. Missing or unreadable data starts the
// list empty.
func Load(ctx context.Context, backend Backend) *Store {
	s := &Store{backend: backend}
	s.items = s.read(ctx)
	return s
}

func (s *Store) read(ctx context.Context) []pokemon.Summary {
	data, err := s.backend.Read(Key)
	if err != nil {
		if !errors.Is(err, ErrNotStored) {
			log.FromContext(ctx).WithError(err).Warn("favorites: read failed")
		}
		return []pokemon.Summary{}
	}
	var items []pokemon.Summary
	if err := json.Unmarshal(data, &items); err != nil {
		log.FromContext(ctx).WithError(err).Warn("favorites: stored list is not valid JSON, starting empty")
		return []pokemon.Summary{}
	}
	if items == nil {
		items = []pokemon.Summary{}
	}
	return items
}

// Reload re-reads the list after an external change.
func (s *Store) Reload(ctx context.Context) {
	items := s.read(ctx)
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

// List returns a copy of the favorites in insertion order.
func (s *Store) List() []pokemon.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]pokemon.Summary{}, s.items...)
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) indexLocked(id int) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Has reports whether id is a favorite.
func (s *Store) Has(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(id) >= 0
}

// IDs returns the set of favorite ids, for cheap per-row lookups.
func (s *Store) IDs() map[int]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]bool, len(s.items))
	for _, it := range s.items {
		out[it.ID] = true
	}
	return out
}

// Toggle removes the entry with the same id, or appends the snapshot when
// absent. It reports whether the entry is a favorite afterwards.
func (s *Store) Toggle(p pokemon.Summary) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(p.ID); i >= 0 {
		return false, s.commitLocked(remove(s.items, i))
	}
	return true, s.commitLocked(append(s.cloneLocked(), p))
}

// Add appends p unless an entry with its id exists.
func (s *Store) Add(p pokemon.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(p.ID) >= 0 {
		return nil
	}
	return s.commitLocked(append(s.cloneLocked(), p))
}

// Remove drops the entry with id, if any.
func (s *Store) Remove(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return nil
	}
	return s.commitLocked(remove(s.items, i))
}

func (s *Store) cloneLocked() []pokemon.Summary {
	return append(make([]pokemon.Summary, 0, len(s.items)+1), s.items...)
}

func remove(items []pokemon.Summary, i int) []pokemon.Summary {
	out := make([]pokemon.Summary, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

// commitLocked persists next and only then makes it current.
func (s *Store) commitLocked(next []pokemon.Summary) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("favorites: encode: %w", err)
	}
	if err := s.backend.Write(Key, data); err != nil {
		return fmt.Errorf("favorites: write: %w", err)
	}
	s.items = next
	return nil
}

// CountLabel renders "1 favorite" or "N favorites".
func CountLabel(n int) string {
	if n == 1 {
		return "1 favorite"
	}
	return fmt.Sprintf("%d favorites", n)
}
