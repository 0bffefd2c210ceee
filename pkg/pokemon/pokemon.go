// Package pokemon holds the normalized catalog types shared by every surface.
package pokemon

import (
	"fmt"
	"strconv"
	"strings"
)

// PlaceholderSprite is used when upstream has no sprite for an entry.
const PlaceholderSprite = "/placeholder.svg?height=96&width=96"

// StatMax is the largest base stat upstream reports; bars scale against it.
const StatMax = 255

// Summary is the list-level projection of an entry. Favorites are stored as
// Summary snapshots.
type Summary struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	URL    string   `json:"url"`
	Types  []string `json:"types"`
	Sprite string   `json:"sprite"`
}

// Reference points at a related upstream resource.
type Reference struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Stat is a single base stat.
type Stat struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Detail is the full view of a single entry.
type Detail struct {
	ID        int         `json:"id"`
	Name      string      `json:"name"`
	Types     []string    `json:"types"`
	Sprite    string      `json:"sprite"`
	Artwork   string      `json:"artwork"`
	Stats     []Stat      `json:"stats"`
	Moves     []Reference `json:"moves"`
	Abilities []Reference `json:"abilities"`
	// Height in decimetres, Weight in hectograms, as delivered upstream.
	Height int `json:"height"`
	Weight int `json:"weight"`
}

// Summary returns the snapshot stored when the entry is favorited.
func (d *Detail) Summary(baseURL string) Summary {
	types := make([]string, len(d.Types))
	copy(types, d.Types)
	return Summary{
		ID:     d.ID,
		Name:   d.Name,
		URL:    fmt.Sprintf("%s/pokemon/%d", strings.TrimRight(baseURL, "/"), d.ID),
		Types:  types,
		Sprite: d.Sprite,
	}
}

// HeightMeters converts the upstream height to metres.
func (d *Detail) HeightMeters() float64 { return float64(d.Height) / 10 }

// WeightKilograms converts the upstream weight to kilograms.
func (d *Detail) WeightKilograms() float64 { return float64(d.Weight) / 10 }

// canonicalStats is the fixed display order for stat rows.
var canonicalStats = []struct {
	key   string
	label string
}{
	{"hp", "HP"},
	{"attack", "Attack"},
	{"defense", "Defense"},
	{"special-attack", "Special Attack"},
	{"special-defense", "Special Defense"},
	{"speed", "Speed"},
}

// StatKeys returns the six canonical stat keys in display order.
func StatKeys() []string {
	keys := make([]string, len(canonicalStats))
	for i, s := range canonicalStats {
		keys[i] = s.key
	}
	return keys
}

// StatLabel maps an upstream stat key to its display label.
func StatLabel(key string) string {
	for _, s := range canonicalStats {
		if s.key == key {
			return s.label
		}
	}
	return key
}

// OrderedStats returns exactly the six canonical stats in fixed order,
// whatever order the source payload used. Missing stats read as zero.
func (d *Detail) OrderedStats() []Stat {
	values := make(map[string]int, len(d.Stats))
	for _, s := range d.Stats {
		values[s.Name] = s.Value
	}
	out := make([]Stat, len(canonicalStats))
	for i, s := range canonicalStats {
		out[i] = Stat{Name: s.key, Value: values[s.key]}
	}
	return out
}

// Relations are the six directional damage relations of a type.
type Relations struct {
	DoubleDamageFrom []string `json:"double_damage_from"`
	DoubleDamageTo   []string `json:"double_damage_to"`
	HalfDamageFrom   []string `json:"half_damage_from"`
	HalfDamageTo     []string `json:"half_damage_to"`
	NoDamageFrom     []string `json:"no_damage_from"`
	NoDamageTo       []string `json:"no_damage_to"`
}

// HasOffense reports whether the type has any outgoing relation.
func (r Relations) HasOffense() bool {
	return len(r.DoubleDamageTo)+len(r.HalfDamageTo)+len(r.NoDamageTo) > 0
}

// HasDefense reports whether the type has any incoming relation.
func (r Relations) HasDefense() bool {
	return len(r.DoubleDamageFrom)+len(r.HalfDamageFrom)+len(r.NoDamageFrom) > 0
}

// TypeDetail describes a type and the entries that carry it.
type TypeDetail struct {
	ID        int         `json:"id"`
	Name      string      `json:"name"`
	Relations Relations   `json:"damage_relations"`
	Members   []Reference `json:"members"`
}

// Move is the normalized move detail.
type Move struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Power       *int   `json:"power"`
	Accuracy    *int   `json:"accuracy"`
	PP          int    `json:"pp"`
	Priority    int    `json:"priority"`
	Type        string `json:"type"`
	DamageClass string `json:"damage_class"`
	Target      string `json:"target"`
	Description string `json:"description"`
}

// Placeholder is rendered for absent numeric move parameters.
const Placeholder = "—"

// PowerLabel renders power, using the placeholder for null or zero power.
func (m *Move) PowerLabel() string {
	if m.Power == nil || *m.Power == 0 {
		return Placeholder
	}
	return strconv.Itoa(*m.Power)
}

// AccuracyLabel renders accuracy as a percentage.
func (m *Move) AccuracyLabel() string {
	if m.Accuracy == nil || *m.Accuracy == 0 {
		return Placeholder
	}
	return strconv.Itoa(*m.Accuracy) + "%"
}

// PriorityLabel renders priority with an explicit plus sign when positive.
func (m *Move) PriorityLabel() string {
	if m.Priority > 0 {
		return "+" + strconv.Itoa(m.Priority)
	}
	return strconv.Itoa(m.Priority)
}

// Page is one fetched batch of entries with pagination metadata.
type Page struct {
	Pokemon    []Summary `json:"pokemon"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
	TotalCount int       `json:"totalCount"`
}

// TotalPages returns ceil(count/limit).
func TotalPages(count, limit int) int {
	if limit <= 0 || count <= 0 {
		return 0
	}
	return (count + limit - 1) / limit
}

// Offset returns the zero-based offset of a one-indexed page.
func Offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

// SlicePage returns items[(page-1)*limit : (page-1)*limit+limit], clamped to
// the slice bounds.
func SlicePage[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return nil
	}
	start := Offset(page, limit)
	if start >= len(items) {
		return []T{}
	}
	end := min(start+limit, len(items))
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

// PaddedID renders an id as #001.
func PaddedID(id int) string {
	return fmt.Sprintf("#%03d", id)
}

// DisplayName turns an upstream slug into words.
func DisplayName(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}
