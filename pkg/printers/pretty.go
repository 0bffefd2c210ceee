package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/pokedex/pkg/favorites"
	"tableflip.dev/pokedex/pkg/pokemon"
)

// PrettyPrint writes human readable output, colored when Out is a terminal.
type PrettyPrint struct {
	Out io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	if w == nil {
		w = color.Output
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, loaded, total int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " (%d of %d)\n", loaded, total)
}

// Summaries prints one row per entry. Favorites are marked with a heart.
func (pp *PrettyPrint) Summaries(items []pokemon.Summary, isFavorite func(int) bool) {
	if len(items) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}
	id := color.New(color.FgHiYellow, color.Faint)
	heart := color.New(color.FgHiRed)

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, p := range items {
		mark := ""
		if isFavorite != nil && isFavorite(p.ID) {
			mark = heart.Sprint("♥")
		}
		tbl.AddRow(id.Sprint(pokemon.PaddedID(p.ID)), pokemon.DisplayName(p.Name), strings.Join(p.Types, " "), mark)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Detail prints an entry with its ordered stats and moves.
func (pp *PrettyPrint) Detail(d *pokemon.Detail, favorite bool) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	title := fmt.Sprintf("%s %s", pokemon.DisplayName(d.Name), pokemon.PaddedID(d.ID))
	if favorite {
		title += " ♥"
	}
	pp.Title(title)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Types"), strings.Join(d.Types, " "))
	tbl.AddRow(bold.Sprint("Height"), fmt.Sprintf("%.1f m", d.HeightMeters()))
	tbl.AddRow(bold.Sprint("Weight"), fmt.Sprintf("%.1f kg", d.WeightKilograms()))
	abilities := make([]string, len(d.Abilities))
	for i, a := range d.Abilities {
		abilities[i] = pokemon.DisplayName(a.Name)
	}
	tbl.AddRow(bold.Sprint("Abilities"), strings.Join(abilities, ", "))
	tbl.AddRow("", "")
	for _, s := range d.OrderedStats() {
		tbl.AddRow(bold.Sprint(pokemon.StatLabel(s.Name)), fmt.Sprintf("%3d %s", s.Value, bar(s.Value, 30)))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)

	moves := make([]string, len(d.Moves))
	for i, m := range d.Moves {
		moves[i] = pokemon.DisplayName(m.Name)
	}
	_, _ = bold.Fprintf(pp.out(), "\nMoves (%d)\n", len(d.Moves))
	_, _ = faint.Fprintln(pp.out(), strings.Join(moves, ", "))
}

func bar(value, width int) string {
	n := value * width / pokemon.StatMax
	if value > 0 && n == 0 {
		n = 1
	}
	n = min(n, width)
	return strings.Repeat("█", n) + strings.Repeat("░", width-n)
}

// Type prints the damage relations of a type.
func (pp *PrettyPrint) Type(td *pokemon.TypeDetail) {
	pp.Title(pokemon.DisplayName(td.Name) + " type")
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	r := td.Relations
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Effective against"), "")
	if r.HasOffense() {
		addRelation(tbl, "2x", r.DoubleDamageTo)
		addRelation(tbl, "0.5x", r.HalfDamageTo)
		addRelation(tbl, "0x", r.NoDamageTo)
	} else {
		tbl.AddRow("", faint.Sprint("No special type advantages"))
	}
	tbl.AddRow(bold.Sprint("Weak against"), "")
	if r.HasDefense() {
		addRelation(tbl, "2x", r.DoubleDamageFrom)
		addRelation(tbl, "0.5x", r.HalfDamageFrom)
		addRelation(tbl, "0x", r.NoDamageFrom)
	} else {
		tbl.AddRow("", faint.Sprint("No special type weaknesses"))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = faint.Fprintf(pp.out(), "%d members\n", len(td.Members))
}

func addRelation(tbl *uitable.Table, label string, types []string) {
	if len(types) == 0 {
		return
	}
	tbl.AddRow("  "+label, strings.Join(types, " "))
}

// Move prints a move's parameters and description.
func (pp *PrettyPrint) Move(m *pokemon.Move) {
	pp.Title(pokemon.DisplayName(m.Name))
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 72
	tbl.Wrap = true
	tbl.AddRow(bold.Sprint("Type"), m.Type)
	tbl.AddRow(bold.Sprint("Class"), m.DamageClass)
	tbl.AddRow(bold.Sprint("Power"), m.PowerLabel())
	tbl.AddRow(bold.Sprint("Accuracy"), m.AccuracyLabel())
	tbl.AddRow(bold.Sprint("PP"), strconv.Itoa(m.PP))
	tbl.AddRow(bold.Sprint("Priority"), m.PriorityLabel())
	tbl.AddRow(bold.Sprint("Description"), m.Description)
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Favorites prints the count header and the list.
func (pp *PrettyPrint) Favorites(items []pokemon.Summary) {
	pp.Title(favorites.CountLabel(len(items)))
	pp.Summaries(items, nil)
}
