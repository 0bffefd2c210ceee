package pokeapi

import (
	"strings"

	"tableflip.dev/pokedex/pkg/pokemon"
)

// Upstream payload shapes. Only the fields the catalog renders are decoded.

type namedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type listResponse struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []namedResource `json:"results"`
}

type detailResponse struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Height  int    `json:"height"`
	Weight  int    `json:"weight"`
	Sprites struct {
		FrontDefault *string `json:"front_default"`
		Other        struct {
			OfficialArtwork struct {
				FrontDefault *string `json:"front_default"`
			} `json:"official-artwork"`
		} `json:"other"`
	} `json:"sprites"`
	Types []struct {
		Slot int           `json:"slot"`
		Type namedResource `json:"type"`
	} `json:"types"`
	Moves []struct {
		Move namedResource `json:"move"`
	} `json:"moves"`
	Abilities []struct {
		Ability  namedResource `json:"ability"`
		IsHidden bool          `json:"is_hidden"`
	} `json:"abilities"`
	Stats []struct {
		BaseStat int           `json:"base_stat"`
		Stat     namedResource `json:"stat"`
	} `json:"stats"`
}

func (d *detailResponse) sprite() string {
	if s := d.Sprites.FrontDefault; s != nil && *s != "" {
		return *s
	}
	return pokemon.PlaceholderSprite
}

func (d *detailResponse) artwork() string {
	if s := d.Sprites.Other.OfficialArtwork.FrontDefault; s != nil && *s != "" {
		return *s
	}
	return d.sprite()
}

func (d *detailResponse) typeNames() []string {
	names := make([]string, 0, len(d.Types))
	for _, t := range d.Types {
		names = append(names, t.Type.Name)
	}
	return names
}

func (d *detailResponse) summary(name, url string) pokemon.Summary {
	if name == "" {
		name = d.Name
	}
	return pokemon.Summary{
		ID:     d.ID,
		Name:   name,
		URL:    url,
		Types:  d.typeNames(),
		Sprite: d.sprite(),
	}
}

func (d *detailResponse) detail() *pokemon.Detail {
	out := &pokemon.Detail{
		ID:        d.ID,
		Name:      d.Name,
		Types:     d.typeNames(),
		Sprite:    d.sprite(),
		Artwork:   d.artwork(),
		Height:    d.Height,
		Weight:    d.Weight,
		Stats:     make([]pokemon.Stat, 0, len(d.Stats)),
		Moves:     make([]pokemon.Reference, 0, len(d.Moves)),
		Abilities: make([]pokemon.Reference, 0, len(d.Abilities)),
	}
	for _, s := range d.Stats {
		out.Stats = append(out.Stats, pokemon.Stat{Name: s.Stat.Name, Value: s.BaseStat})
	}
	for _, m := range d.Moves {
		out.Moves = append(out.Moves, pokemon.Reference(m.Move))
	}
	for _, a := range d.Abilities {
		out.Abilities = append(out.Abilities, pokemon.Reference(a.Ability))
	}
	return out
}

type typeResponse struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	DamageRelations struct {
		DoubleDamageFrom []namedResource `json:"double_damage_from"`
		DoubleDamageTo   []namedResource `json:"double_damage_to"`
		HalfDamageFrom   []namedResource `json:"half_damage_from"`
		HalfDamageTo     []namedResource `json:"half_damage_to"`
		NoDamageFrom     []namedResource `json:"no_damage_from"`
		NoDamageTo       []namedResource `json:"no_damage_to"`
	} `json:"damage_relations"`
	Pokemon []struct {
		Pokemon namedResource `json:"pokemon"`
		Slot    int           `json:"slot"`
	} `json:"pokemon"`
}

func names(refs []namedResource) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Name)
	}
	return out
}

func (t *typeResponse) detail() *pokemon.TypeDetail {
	rel := t.DamageRelations
	out := &pokemon.TypeDetail{
		ID:   t.ID,
		Name: t.Name,
		Relations: pokemon.Relations{
			DoubleDamageFrom: names(rel.DoubleDamageFrom),
			DoubleDamageTo:   names(rel.DoubleDamageTo),
			HalfDamageFrom:   names(rel.HalfDamageFrom),
			HalfDamageTo:     names(rel.HalfDamageTo),
			NoDamageFrom:     names(rel.NoDamageFrom),
			NoDamageTo:       names(rel.NoDamageTo),
		},
		Members: make([]pokemon.Reference, 0, len(t.Pokemon)),
	}
	for _, p := range t.Pokemon {
		out.Members = append(out.Members, pokemon.Reference(p.Pokemon))
	}
	return out
}

type moveResponse struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	Accuracy      *int          `json:"accuracy"`
	Power         *int          `json:"power"`
	PP            int           `json:"pp"`
	Priority      int           `json:"priority"`
	Type          namedResource `json:"type"`
	DamageClass   namedResource `json:"damage_class"`
	Target        namedResource `json:"target"`
	EffectEntries []struct {
		Effect      string        `json:"effect"`
		ShortEffect string        `json:"short_effect"`
		Language    namedResource `json:"language"`
	} `json:"effect_entries"`
	FlavorTextEntries []struct {
		FlavorText   string        `json:"flavor_text"`
		Language     namedResource `json:"language"`
		VersionGroup namedResource `json:"version_group"`
	} `json:"flavor_text_entries"`
}

// NoDescription is shown when a move has no text in any language.
const NoDescription = "No description available"

const preferredLanguage = "en"

// description picks English flavor text, then the English effect, then the
// first text available in any language.
func (m *moveResponse) description() string {
	for _, f := range m.FlavorTextEntries {
		if f.Language.Name == preferredLanguage {
			return cleanFlavor(f.FlavorText)
		}
	}
	for _, e := range m.EffectEntries {
		if e.Language.Name == preferredLanguage {
			return cleanEffect(e.Effect)
		}
	}
	for _, f := range m.FlavorTextEntries {
		if strings.TrimSpace(f.FlavorText) != "" {
			return cleanFlavor(f.FlavorText)
		}
	}
	for _, e := range m.EffectEntries {
		if strings.TrimSpace(e.Effect) != "" {
			return cleanEffect(e.Effect)
		}
	}
	return NoDescription
}

var flavorReplacer = strings.NewReplacer("\n", " ", "\f", " ", "\u00ad", "")

func cleanFlavor(s string) string {
	return strings.TrimSpace(flavorReplacer.Replace(s))
}

func cleanEffect(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "$effect_chance", "chance"))
}

func (m *moveResponse) move() *pokemon.Move {
	return &pokemon.Move{
		ID:          m.ID,
		Name:        m.Name,
		Power:       m.Power,
		Accuracy:    m.Accuracy,
		PP:          m.PP,
		Priority:    m.Priority,
		Type:        m.Type.Name,
		DamageClass: m.DamageClass.Name,
		Target:      m.Target.Name,
		Description: m.description(),
	}
}
