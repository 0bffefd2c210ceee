// Package teatest drives Bubble Tea commands synchronously in tests.
package teatest

import (
	"regexp"

	tea "github.com/charmbracelet/bubbletea/v2"
)

// Run executes cmd and every command it produces, feeding each message to
// update. Batches are flattened and run in order.
func Run(cmd tea.Cmd, update func(tea.Msg) tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg != nil {
			queue = append(queue, update(msg))
		}
	}
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;:]*[A-Za-z~]`)

// Plain strips terminal escape sequences.
func Plain(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// Key builds a key press for a printable character.
func Key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}
