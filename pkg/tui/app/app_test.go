package app

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/pokedex/pkg/app/apptest"
	"tableflip.dev/pokedex/pkg/tui/internal/teatest"
	"tableflip.dev/pokedex/pkg/tui/views/detail"
	"tableflip.dev/pokedex/pkg/tui/views/favorites"
	"tableflip.dev/pokedex/pkg/tui/views/typeview"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in      string
		want    Command
		wantErr bool
	}{
		{in: "q", want: Command{Name: CommandQuit}},
		{in: ":help", want: Command{Name: CommandHelp}},
		{in: "type fire", want: Command{Name: CommandType, Arg: "fire"}},
		{in: "  pokemon   25 ", want: Command{Name: CommandPokemon, Arg: "25"}},
		{in: "search Pikachu", want: Command{Name: CommandSearch, Arg: "Pikachu"}},
		{in: "favorites", want: Command{Name: CommandFavorites}},
		{in: "list", want: Command{Name: CommandHome}},
		{in: "type", wantErr: true},
		{in: "", wantErr: true},
		{in: "teleport", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseCommand(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("%q: unexpected error %v", tt.in, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("%q: got %+v want %+v", tt.in, got, tt.want)
		}
	}
}

func newModel(t *testing.T) *Model {
	t.Helper()
	svc, _, _ := apptest.NewService(30)
	m := New(context.Background(), svc)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func update(m *Model) func(tea.Msg) tea.Cmd {
	return func(msg tea.Msg) tea.Cmd {
		_, cmd := m.Update(msg)
		return cmd
	}
}

func TestCommandsPushAndEscPops(t *testing.T) {
	m := newModel(t)

	_, cmd := m.execute("type fire")
	teatest.Run(cmd, update(m))
	if _, ok := m.top().(*typeview.Model); !ok {
		t.Fatalf("expected type screen, got %T", m.top())
	}

	_, cmd = m.execute("pokemon 4")
	teatest.Run(cmd, update(m))
	if _, ok := m.top().(*detail.Model); !ok {
		t.Fatalf("expected detail screen, got %T", m.top())
	}
	if crumb := teatest.Plain(m.breadcrumb()); !strings.Contains(crumb, "fire type › mon 4") {
		t.Fatalf("unexpected breadcrumb %q", crumb)
	}

	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if len(m.stack) != 2 {
		t.Fatalf("esc should pop one screen, stack=%d", len(m.stack))
	}

	_, cmd = m.execute("list")
	teatest.Run(cmd, update(m))
	if len(m.stack) != 1 {
		t.Fatalf("list should unwind the stack, stack=%d", len(m.stack))
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if len(m.stack) != 1 {
		t.Fatal("esc on the root screen must not pop it")
	}
}

func TestFavoritesKey(t *testing.T) {
	m := newModel(t)
	m.Update(teatest.Key('f'))
	if _, ok := m.top().(*favorites.Model); !ok {
		t.Fatalf("expected favorites screen, got %T", m.top())
	}
	m.Update(teatest.Key('f'))
	if len(m.stack) != 2 {
		t.Fatal("favorites should not stack on itself")
	}
}

func TestSearchFlow(t *testing.T) {
	m := newModel(t)

	if cmd := m.search("mo"); cmd != nil || !m.statusErr {
		t.Fatal("short query should be refused with an error status")
	}

	teatest.Run(m.search("MON-7"), update(m))
	if _, ok := m.top().(*detail.Model); !ok {
		t.Fatalf("expected detail screen after search, got %T", m.top())
	}

	teatest.Run(m.search("missingno"), update(m))
	if !m.statusErr || !strings.Contains(m.status, `"missingno" not found`) {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestQuitAndHelp(t *testing.T) {
	m := newModel(t)

	m.Update(teatest.Key('?'))
	if m.mode != modeHelp {
		t.Fatal("expected help mode")
	}
	if !strings.Contains(m.help.Content(), ":type fire") {
		t.Fatal("help overlay should list commands")
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.mode != modeNormal {
		t.Fatal("esc should close help")
	}

	_, cmd := m.Update(teatest.Key('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit")
	}
}

func TestCommandLineInput(t *testing.T) {
	m := newModel(t)
	m.Update(teatest.Key(':'))
	if m.mode != modeCommand {
		t.Fatal("expected command mode")
	}
	for _, r := range "favorites" {
		m.Update(teatest.Key(r))
	}
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	teatest.Run(cmd, update(m))
	if _, ok := m.top().(*favorites.Model); !ok {
		t.Fatalf("expected favorites screen, got %T", m.top())
	}
	if m.mode != modeNormal {
		t.Fatal("enter should leave command mode")
	}
}
