package theme

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer FooterTheme
	Panel  PanelTheme
	Card   CardTheme
	Popup  PopupTheme
	Stat   StatTheme
}

// FooterTheme groups styles used by the bottom status/command bar.
type FooterTheme struct {
	Help    lipgloss.Style
	Status  lipgloss.Style
	Error   lipgloss.Style
	Command lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
	Muted lipgloss.Style
}

// CardTheme styles one grid cell.
type CardTheme struct {
	Normal   lipgloss.Style
	Selected lipgloss.Style
	ID       lipgloss.Style
	Heart    lipgloss.Style
}

// PopupTheme styles the move popup.
type PopupTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Label lipgloss.Style
}

// StatTheme holds the endpoints of the stat bar gradient.
type StatTheme struct {
	Low   colorful.Color
	High  colorful.Color
	Track lipgloss.Style
	Label lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	low, _ := colorful.Hex("#f34444")
	high, _ := colorful.Hex("#23cd5e")

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return Theme{
		Footer: FooterTheme{
			Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
			Command: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
			Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		},
		Card: CardTheme{
			Normal:   card,
			Selected: card.BorderForeground(lipgloss.Color("212")),
			ID:       lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Heart:    lipgloss.NewStyle().Foreground(lipgloss.Color("204")),
		},
		Popup: PopupTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(lipgloss.Color("212")).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Bold(true),
			Label: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		},
		Stat: StatTheme{
			Low:   low,
			High:  high,
			Track: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
			Label: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		},
	}
}

var typeColors = map[string]string{
	"normal":   "#a8a77a",
	"fire":     "#ee8130",
	"water":    "#6390f0",
	"electric": "#f7d02c",
	"grass":    "#7ac74c",
	"ice":      "#96d9d6",
	"fighting": "#c22e28",
	"poison":   "#a33ea1",
	"ground":   "#e2bf65",
	"flying":   "#a98ff3",
	"psychic":  "#f95587",
	"bug":      "#a6b91a",
	"rock":     "#b6a136",
	"ghost":    "#735797",
	"dragon":   "#6f35fc",
	"dark":     "#705746",
	"steel":    "#b7b7ce",
	"fairy":    "#d685ad",
}

// TypeColor returns the badge color for a type, grey for unknown names.
func TypeColor(name string) color.Color {
	if hex, ok := typeColors[name]; ok {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color("#777777")
}

// TypeBadge renders a type name on its color.
func TypeBadge(name string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(TypeColor(name)).
		Padding(0, 1).
		Render(name)
}

// Gradient returns the hex color at position t (0..1) between Low and High.
func (s StatTheme) Gradient(t float64) string {
	t = max(0, min(1, t))
	return s.Low.BlendHcl(s.High, t).Clamped().Hex()
}
