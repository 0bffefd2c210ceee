package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/apex/log"

	"tableflip.dev/pokedex/pkg/favorites"
	"tableflip.dev/pokedex/pkg/pokeapi"
	"tableflip.dev/pokedex/pkg/pokemon"
	"tableflip.dev/pokedex/pkg/query"
	"tableflip.dev/pokedex/pkg/store"
)

// Remote is the subset of the API client the service needs.
type Remote interface {
	BaseURL() string
	ListPage(ctx context.Context, page, limit int) (*pokemon.Page, error)
	Detail(ctx context.Context, id string) (*pokemon.Detail, error)
	Search(ctx context.Context, name string) (*pokemon.Summary, error)
	Type(ctx context.Context, name string) (*pokemon.TypeDetail, error)
	TypePageFrom(ctx context.Context, td *pokemon.TypeDetail, page, limit int) (*pokemon.Page, error)
	Move(ctx context.Context, id string) (*pokemon.Move, error)
}

var _ Remote = (*pokeapi.Client)(nil)

// MinSearchLength is the shortest name a search is issued for, exclusive.
const MinSearchLength = 2

var (
	// ErrQueryTooShort is returned for searches of MinSearchLength characters
	// or fewer.
	ErrQueryTooShort = errors.New("app: search needs more than 2 characters")
	errNoRemote      = errors.New("app: no remote configured")
	errNoFavorites   = errors.New("app: no favorites store configured")
)

// Service provides the catalog operations shared by the terminal UI, the CLI,
// the HTTP routes and the MCP server. Every remote read goes through Cache.
type Service struct {
	Remote      Remote
	Cache       *query.Cache
	Favorites   *favorites.Store
	Persistence store.Persistence
	PageSize    int
}

func (s *Service) pageSize() int {
	if s.PageSize > 0 {
		return s.PageSize
	}
	return pokeapi.DefaultPageSize
}

func (s *Service) ready() error {
	if s.Remote == nil || s.Cache == nil {
		return errNoRemote
	}
	return nil
}

func pageTotal(p *pokemon.Page) int { return p.TotalPages }

// PokemonList is the infinite list of every entry.
func (s *Service) PokemonList() (*query.Infinite[*pokemon.Page], error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	limit := s.pageSize()
	return query.InfiniteFor(s.Cache, query.KeyOf(query.KindList, "infinite"), pageTotal,
		func(ctx context.Context, page int) (*pokemon.Page, error) {
			return s.Remote.ListPage(ctx, page, limit)
		})
}

// TypeList is the infinite member list of one type. Pages are sliced from the
// cached type detail, so the type is fetched once.
func (s *Service) TypeList(name string) (*query.Infinite[*pokemon.Page], error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	name = normalize(name)
	limit := s.pageSize()
	return query.InfiniteFor(s.Cache, query.KeyOf(query.KindTypeList, name), pageTotal,
		func(ctx context.Context, page int) (*pokemon.Page, error) {
			td, err := s.pageType(ctx, name)
			if err != nil {
				return nil, err
			}
			return s.Remote.TypePageFrom(ctx, td, page, limit)
		})
}

// ListPage returns a single list page.
func (s *Service) ListPage(ctx context.Context, page, limit int) (*pokemon.Page, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.pageSize()
	}
	key := query.KeyOf(query.KindList, fmt.Sprintf("%d/%d", page, limit))
	return query.Get(ctx, s.Cache, key, func(ctx context.Context) (*pokemon.Page, error) {
		return s.Remote.ListPage(ctx, page, limit)
	})
}

// TypePage returns a single page of a type's members.
func (s *Service) TypePage(ctx context.Context, name string, page, limit int) (*pokemon.Page, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	name = normalize(name)
	if limit <= 0 {
		limit = s.pageSize()
	}
	key := query.KeyOf(query.KindTypeList, fmt.Sprintf("%s/%d/%d", name, page, limit))
	return query.Get(ctx, s.Cache, key, func(ctx context.Context) (*pokemon.Page, error) {
		td, err := s.pageType(ctx, name)
		if err != nil {
			return nil, err
		}
		return s.Remote.TypePageFrom(ctx, td, page, limit)
	})
}

// pageType reads the type behind a member page. It makes one attempt; the
// page query's own retries cover failures.
func (s *Service) pageType(ctx context.Context, name string) (*pokemon.TypeDetail, error) {
	return query.GetOnce(ctx, s.Cache, query.KeyOf(query.KindType, name), func(ctx context.Context) (*pokemon.TypeDetail, error) {
		return s.Remote.Type(ctx, name)
	})
}

// Detail returns one entry by id or name.
func (s *Service) Detail(ctx context.Context, id string) (*pokemon.Detail, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	id = normalize(id)
	return query.Get(ctx, s.Cache, query.KeyOf(query.KindDetail, id), func(ctx context.Context) (*pokemon.Detail, error) {
		return s.Remote.Detail(ctx, id)
	})
}

// Type returns a type with its relations and members.
func (s *Service) Type(ctx context.Context, name string) (*pokemon.TypeDetail, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	name = normalize(name)
	return query.Get(ctx, s.Cache, query.KeyOf(query.KindType, name), func(ctx context.Context) (*pokemon.TypeDetail, error) {
		return s.Remote.Type(ctx, name)
	})
}

// Move returns a move by id or name.
func (s *Service) Move(ctx context.Context, id string) (*pokemon.Move, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	id = normalize(id)
	return query.Get(ctx, s.Cache, query.KeyOf(query.KindMove, id), func(ctx context.Context) (*pokemon.Move, error) {
		return s.Remote.Move(ctx, id)
	})
}

// SearchEnabled reports whether a search would be issued for name.
func SearchEnabled(name string) bool {
	return len(strings.TrimSpace(name)) > MinSearchLength
}

// Search looks an entry up by exact name.
func (s *Service) Search(ctx context.Context, name string) (*pokemon.Summary, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if !SearchEnabled(name) {
		return nil, ErrQueryTooShort
	}
	name = normalize(name)
	return query.Get(ctx, s.Cache, query.KeyOf(query.KindSearch, name), func(ctx context.Context) (*pokemon.Summary, error) {
		return s.Remote.Search(ctx, name)
	})
}

// FavoriteList returns the stored favorites.
func (s *Service) FavoriteList() ([]pokemon.Summary, error) {
	if s.Favorites == nil {
		return nil, errNoFavorites
	}
	return s.Favorites.List(), nil
}

// IsFavorite reports whether id is bookmarked.
func (s *Service) IsFavorite(id int) bool {
	return s.Favorites != nil && s.Favorites.Has(id)
}

// ToggleSummary flips the favorite state of p.
func (s *Service) ToggleSummary(ctx context.Context, p pokemon.Summary) (bool, error) {
	if s.Favorites == nil {
		return false, errNoFavorites
	}
	added, err := s.Favorites.Toggle(p)
	if err != nil {
		return false, err
	}
	log.FromContext(ctx).WithFields(log.Fields{
		"id":    p.ID,
		"name":  p.Name,
		"added": added,
	}).Debug("favorite toggled")
	return added, nil
}

// ToggleFavorite resolves id (or name) to an entry and flips its favorite
// state. A stored favorite is removed by id without contacting the API.
func (s *Service) ToggleFavorite(ctx context.Context, id string) (bool, pokemon.Summary, error) {
	if s.Favorites == nil {
		return false, pokemon.Summary{}, errNoFavorites
	}
	if n, err := strconv.Atoi(strings.TrimSpace(id)); err == nil {
		for _, f := range s.Favorites.List() {
			if f.ID == n {
				added, err := s.ToggleSummary(ctx, f)
				return added, f, err
			}
		}
	}
	d, err := s.Detail(ctx, id)
	if err != nil {
		return false, pokemon.Summary{}, err
	}
	snap := d.Summary(s.Remote.BaseURL())
	added, err := s.ToggleSummary(ctx, snap)
	return added, snap, err
}

// WatchFavorites reloads the favorites store whenever another process
// rewrites it and signals the caller once per reload.
func (s *Service) WatchFavorites(ctx context.Context) (<-chan struct{}, error) {
	if s.Persistence == nil || s.Favorites == nil {
		return nil, errNoFavorites
	}
	events, err := s.Persistence.Watch(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for ev := range events {
			if ev.Type == store.EventKeyChanged && ev.Key != favorites.Key {
				continue
			}
			s.Favorites.Reload(ctx)
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()
	return out, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
