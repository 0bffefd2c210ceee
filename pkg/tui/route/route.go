// Package route holds the messages views use to navigate and report status.
package route

import (
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/pokedex/pkg/query"
)

// Kind names a screen.
type Kind int

const (
	List Kind = iota
	Detail
	Type
	Favorites
)

func (k Kind) String() string {
	switch k {
	case Detail:
		return "detail"
	case Type:
		return "type"
	case Favorites:
		return "favorites"
	default:
		return "list"
	}
}

// PushMsg opens a screen on top of the current one.
type PushMsg struct {
	Kind Kind
	Arg  string
}

// BackMsg pops the current screen.
type BackMsg struct{}

// StatusMsg replaces the footer status line.
type StatusMsg struct {
	Text string
	Err  bool
}

// FavoritesChangedMsg is broadcast after the favorites list changes. Text,
// when set, becomes the status line.
type FavoritesChangedMsg struct {
	Text string
}

// Push returns a command emitting PushMsg.
func Push(kind Kind, arg string) tea.Cmd {
	return func() tea.Msg { return PushMsg{Kind: kind, Arg: arg} }
}

// Back returns a command emitting BackMsg.
func Back() tea.Msg { return BackMsg{} }

// Status returns a command emitting an informational status line.
func Status(text string) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text} }
}

// Error returns a command emitting an error status line.
func Error(err error) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: err.Error(), Err: true} }
}

// CacheMsg relays a cache state change to the active screen.
type CacheMsg struct {
	Event query.Event
}
