// Package mcp provides the Model Context Protocol server integration for the
// catalog.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/pokedex/pkg/app"
	"tableflip.dev/pokedex/pkg/favorites"
	"tableflip.dev/pokedex/pkg/pokemon"
)

// maxLimit bounds a page the way the HTTP API does.
const maxLimit = 100

// Service adapts app.Service results into transport-friendly projections.
type Service struct {
	App *app.Service
}

// PokemonDTO is a list-level projection of an entry.
type PokemonDTO struct {
	ID          int      `json:"id"`
	Number      string   `json:"number"`
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	Types       []string `json:"types"`
	Sprite      string   `json:"sprite"`
	URL         string   `json:"url,omitempty"`
	Favorite    bool     `json:"favorite"`
}

// StatDTO is one labelled stat row.
type StatDTO struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

// DetailDTO is the full projection of an entry.
type DetailDTO struct {
	PokemonDTO
	Artwork   string    `json:"artwork"`
	HeightM   float64   `json:"heightMeters"`
	WeightKg  float64   `json:"weightKilograms"`
	Stats     []StatDTO `json:"stats"`
	Abilities []string  `json:"abilities"`
	Moves     []string  `json:"moves"`
}

// MoveDTO renders absent numbers with the placeholder.
type MoveDTO struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	DamageClass string `json:"damageClass"`
	Power       string `json:"power"`
	Accuracy    string `json:"accuracy"`
	PP          int    `json:"pp"`
	Priority    string `json:"priority"`
	Target      string `json:"target"`
	Description string `json:"description"`
}

// TypeDTO describes effectiveness in both directions.
type TypeDTO struct {
	Name             string   `json:"name"`
	SuperEffective   []string `json:"superEffective"`
	NotVeryEffective []string `json:"notVeryEffective"`
	NoEffect         []string `json:"noEffect"`
	WeakTo           []string `json:"weakTo"`
	Resists          []string `json:"resists"`
	ImmuneTo         []string `json:"immuneTo"`
	MemberCount      int      `json:"memberCount"`
}

// PageDTO is one page of entries.
type PageDTO struct {
	Pokemon    []PokemonDTO `json:"pokemon"`
	Page       int          `json:"page"`
	TotalPages int          `json:"totalPages"`
	TotalCount int          `json:"totalCount"`
	HasNext    bool         `json:"hasNext"`
}

// NewService builds a service wrapper around the application service.
func NewService(a *app.Service) *Service {
	return &Service{App: a}
}

func (s *Service) ready() error {
	if s.App == nil {
		return errors.New("catalog service is not configured")
	}
	return nil
}

func (s *Service) toPokemonDTO(p pokemon.Summary) PokemonDTO {
	return PokemonDTO{
		ID:          p.ID,
		Number:      pokemon.PaddedID(p.ID),
		Name:        p.Name,
		DisplayName: pokemon.DisplayName(p.Name),
		Types:       p.Types,
		Sprite:      p.Sprite,
		URL:         p.URL,
		Favorite:    s.App.IsFavorite(p.ID),
	}
}

func (s *Service) toPageDTO(p *pokemon.Page) PageDTO {
	out := PageDTO{
		Pokemon:    make([]PokemonDTO, 0, len(p.Pokemon)),
		Page:       p.Page,
		TotalPages: p.TotalPages,
		TotalCount: p.TotalCount,
		HasNext:    p.Page < p.TotalPages,
	}
	for _, it := range p.Pokemon {
		out.Pokemon = append(out.Pokemon, s.toPokemonDTO(it))
	}
	return out
}

// ListPokemon returns one page of the full list, or of a type's members when
// typeName is set.
func (s *Service) ListPokemon(ctx context.Context, typeName string, page, limit int) (PageDTO, error) {
	if err := s.ready(); err != nil {
		return PageDTO{}, err
	}
	if page < 1 {
		page = 1
	}
	limit = min(limit, maxLimit)
	var (
		p   *pokemon.Page
		err error
	)
	if strings.TrimSpace(typeName) == "" {
		p, err = s.App.ListPage(ctx, page, limit)
	} else {
		p, err = s.App.TypePage(ctx, typeName, page, limit)
	}
	if err != nil {
		return PageDTO{}, err
	}
	return s.toPageDTO(p), nil
}

// Pokemon returns one entry in full.
func (s *Service) Pokemon(ctx context.Context, id string) (DetailDTO, error) {
	if err := s.ready(); err != nil {
		return DetailDTO{}, err
	}
	d, err := s.App.Detail(ctx, id)
	if err != nil {
		return DetailDTO{}, err
	}
	out := DetailDTO{
		PokemonDTO: s.toPokemonDTO(d.Summary(s.App.Remote.BaseURL())),
		Artwork:    d.Artwork,
		HeightM:    d.HeightMeters(),
		WeightKg:   d.WeightKilograms(),
	}
	for _, st := range d.OrderedStats() {
		out.Stats = append(out.Stats, StatDTO{Key: st.Name, Label: pokemon.StatLabel(st.Name), Value: st.Value})
	}
	for _, a := range d.Abilities {
		out.Abilities = append(out.Abilities, a.Name)
	}
	for _, m := range d.Moves {
		out.Moves = append(out.Moves, m.Name)
	}
	return out, nil
}

// Search looks an entry up by exact name.
func (s *Service) Search(ctx context.Context, name string) (PokemonDTO, error) {
	if err := s.ready(); err != nil {
		return PokemonDTO{}, err
	}
	p, err := s.App.Search(ctx, name)
	if err != nil {
		return PokemonDTO{}, err
	}
	return s.toPokemonDTO(*p), nil
}

// Type returns the effectiveness chart of a type.
func (s *Service) Type(ctx context.Context, name string) (TypeDTO, error) {
	if err := s.ready(); err != nil {
		return TypeDTO{}, err
	}
	td, err := s.App.Type(ctx, name)
	if err != nil {
		return TypeDTO{}, err
	}
	rel := td.Relations
	return TypeDTO{
		Name:             td.Name,
		SuperEffective:   rel.DoubleDamageTo,
		NotVeryEffective: rel.HalfDamageTo,
		NoEffect:         rel.NoDamageTo,
		WeakTo:           rel.DoubleDamageFrom,
		Resists:          rel.HalfDamageFrom,
		ImmuneTo:         rel.NoDamageFrom,
		MemberCount:      len(td.Members),
	}, nil
}

// Move returns a move with display labels.
func (s *Service) Move(ctx context.Context, id string) (MoveDTO, error) {
	if err := s.ready(); err != nil {
		return MoveDTO{}, err
	}
	m, err := s.App.Move(ctx, id)
	if err != nil {
		return MoveDTO{}, err
	}
	return MoveDTO{
		ID:          m.ID,
		Name:        m.Name,
		Type:        m.Type,
		DamageClass: m.DamageClass,
		Power:       m.PowerLabel(),
		Accuracy:    m.AccuracyLabel(),
		PP:          m.PP,
		Priority:    m.PriorityLabel(),
		Target:      m.Target,
		Description: m.Description,
	}, nil
}

// Favorites lists bookmarked entries with a count label.
func (s *Service) Favorites() ([]PokemonDTO, string, error) {
	if err := s.ready(); err != nil {
		return nil, "", err
	}
	list, err := s.App.FavoriteList()
	if err != nil {
		return nil, "", err
	}
	out := make([]PokemonDTO, 0, len(list))
	for _, p := range list {
		out = append(out, s.toPokemonDTO(p))
	}
	return out, favorites.CountLabel(len(out)), nil
}

// ToggleFavorite flips the favorite state of id.
func (s *Service) ToggleFavorite(ctx context.Context, id string) (PokemonDTO, error) {
	if err := s.ready(); err != nil {
		return PokemonDTO{}, err
	}
	if strings.TrimSpace(id) == "" {
		return PokemonDTO{}, fmt.Errorf("id is required")
	}
	_, snap, err := s.App.ToggleFavorite(ctx, id)
	if err != nil {
		return PokemonDTO{}, err
	}
	return s.toPokemonDTO(snap), nil
}
