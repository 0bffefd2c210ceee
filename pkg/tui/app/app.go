// Package app is the root Bubble Tea model. It owns the screen stack, the
// command line, search input and the help overlay, and relays cache and
// favorites change notifications to the screens.
package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/pokedex/pkg/app"
	"tableflip.dev/pokedex/pkg/tui/components/help"
	"tableflip.dev/pokedex/pkg/tui/route"
	"tableflip.dev/pokedex/pkg/tui/theme"
	"tableflip.dev/pokedex/pkg/tui/views/detail"
	"tableflip.dev/pokedex/pkg/tui/views/favorites"
	"tableflip.dev/pokedex/pkg/tui/views/list"
	"tableflip.dev/pokedex/pkg/tui/views/typeview"
)

type mode int

const (
	modeNormal mode = iota
	modeCommand
	modeSearch
	modeHelp
)

// screen is one entry of the navigation stack.
type screen interface {
	Title() string
	Init() tea.Cmd
	Update(tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int) tea.Cmd
	Close()
}

type cacheClosedMsg struct{}

type watchStartedMsg struct {
	ch  <-chan struct{}
	err error
}

type watchStoppedMsg struct{}

type favoritesReloadedMsg struct{}

type searchMsg struct {
	query string
	id    int
	err   error
}

// Model contains UI state.
type Model struct {
	ctx   context.Context
	svc   *app.Service
	theme theme.Theme

	stack []screen
	mode  mode
	input textinput.Model
	help  *help.Model

	status    string
	statusErr bool

	watchCh <-chan struct{}

	termWidth  int
	termHeight int
}

// New builds the root model with the index screen on the stack.
func New(ctx context.Context, svc *app.Service) *Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 64

	m := &Model{
		ctx:        ctx,
		svc:        svc,
		theme:      theme.Default(),
		input:      ti,
		termWidth:  96,
		termHeight: 30,
	}
	m.stack = []screen{list.New(ctx, svc, m.theme)}
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.top().Init(), m.waitForCache(), startWatchCmd(m.ctx, m.svc))
}

func (m *Model) top() screen { return m.stack[len(m.stack)-1] }

func (m *Model) waitForCache() tea.Cmd {
	if m.svc.Cache == nil {
		return nil
	}
	events := m.svc.Cache.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return cacheClosedMsg{}
		}
		return route.CacheMsg{Event: ev}
	}
}

func startWatchCmd(ctx context.Context, svc *app.Service) tea.Cmd {
	if svc.Persistence == nil {
		return nil
	}
	return func() tea.Msg {
		ch, err := svc.WatchFavorites(ctx)
		return watchStartedMsg{ch: ch, err: err}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if _, ok := <-ch; ok {
			return favoritesReloadedMsg{}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) bodyHeight() int { return max(m.termHeight-4, 5) }

func (m *Model) newScreen(kind route.Kind, arg string) screen {
	switch kind {
	case route.Detail:
		return detail.New(m.ctx, m.svc, m.theme, arg)
	case route.Type:
		return typeview.New(m.ctx, m.svc, m.theme, arg)
	case route.Favorites:
		return favorites.New(m.ctx, m.svc, m.theme)
	default:
		return list.New(m.ctx, m.svc, m.theme)
	}
}

func (m *Model) push(kind route.Kind, arg string) tea.Cmd {
	s := m.newScreen(kind, arg)
	m.stack = append(m.stack, s)
	log.FromContext(m.ctx).WithFields(log.Fields{"route": kind.String(), "arg": arg}).Debug("push")
	return tea.Batch(s.SetSize(m.termWidth, m.bodyHeight()), s.Init())
}

func (m *Model) back() tea.Cmd {
	if len(m.stack) == 1 {
		return nil
	}
	m.top().Close()
	m.stack = m.stack[:len(m.stack)-1]
	return m.top().SetSize(m.termWidth, m.bodyHeight())
}

// home unwinds to the index screen.
func (m *Model) home() tea.Cmd {
	for len(m.stack) > 1 {
		m.top().Close()
		m.stack = m.stack[:len(m.stack)-1]
	}
	return m.top().SetSize(m.termWidth, m.bodyHeight())
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status, m.statusErr = text, isErr
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		if m.help != nil {
			m.help.SetSize(m.termWidth, m.bodyHeight())
		}
		cmds = append(cmds, m.top().SetSize(m.termWidth, m.bodyHeight()))
	case route.PushMsg:
		cmds = append(cmds, m.push(msg.Kind, msg.Arg))
	case route.BackMsg:
		cmds = append(cmds, m.back())
	case route.StatusMsg:
		m.setStatus(msg.Text, msg.Err)
	case route.FavoritesChangedMsg:
		if msg.Text != "" {
			m.setStatus(msg.Text, false)
		}
		cmds = append(cmds, m.broadcast(msg))
	case favoritesReloadedMsg:
		cmds = append(cmds, m.broadcast(route.FavoritesChangedMsg{}), m.waitForWatch())
	case route.CacheMsg:
		cmds = append(cmds, m.top().Update(msg), m.waitForCache())
	case cacheClosedMsg:
	case watchStartedMsg:
		if msg.err != nil {
			log.FromContext(m.ctx).WithError(msg.err).Warn("favorites watch unavailable")
			break
		}
		m.watchCh = msg.ch
		cmds = append(cmds, m.waitForWatch())
	case watchStoppedMsg:
		m.watchCh = nil
	case searchMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
			break
		}
		cmds = append(cmds, m.push(route.Detail, strconv.Itoa(msg.id)))
	case tea.KeyPressMsg:
		if quit, cmd := m.handleKeyPress(msg); quit {
			return m, tea.Quit
		} else if cmd != nil {
			cmds = append(cmds, cmd)
		}
	default:
		if m.mode == modeCommand || m.mode == modeSearch {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
		// Fetch results may land after their screen was covered.
		cmds = append(cmds, m.broadcast(msg))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.stack))
	for _, s := range m.stack {
		cmds = append(cmds, s.Update(msg))
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return true, nil
	}
	switch m.mode {
	case modeHelp:
		switch msg.String() {
		case "esc", "q", "?":
			m.mode = modeNormal
			m.help = nil
			return false, nil
		}
		return false, m.help.Update(msg)
	case modeCommand, modeSearch:
		return m.handleInputKey(msg)
	}

	switch msg.String() {
	case "q":
		return true, nil
	case "esc":
		return false, m.back()
	case "?":
		return false, m.openHelp()
	case ":":
		return false, m.openInput(modeCommand)
	case "/":
		return false, m.openInput(modeSearch)
	case "f":
		if _, ok := m.top().(*favorites.Model); !ok {
			return false, m.push(route.Favorites, "")
		}
		return false, nil
	}
	return false, m.top().Update(msg)
}

func (m *Model) openHelp() tea.Cmd {
	m.mode = modeHelp
	m.help = help.New(m.termWidth, m.bodyHeight())
	return nil
}

func (m *Model) openInput(md mode) tea.Cmd {
	m.mode = md
	m.input.SetValue("")
	return m.input.Focus()
}

func (m *Model) closeInput() {
	m.mode = modeNormal
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) handleInputKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeInput()
		return false, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		md := m.mode
		m.closeInput()
		if md == modeSearch {
			return false, m.search(value)
		}
		return m.execute(value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return false, cmd
}

func (m *Model) search(name string) tea.Cmd {
	if !app.SearchEnabled(name) {
		m.setStatus(app.ErrQueryTooShort.Error(), true)
		return nil
	}
	m.setStatus(fmt.Sprintf("Searching for %s...", name), false)
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		p, err := svc.Search(ctx, name)
		if err != nil {
			return searchMsg{query: name, err: err}
		}
		return searchMsg{query: name, id: p.ID}
	}
}

// execute runs a command line entry. It reports whether the program should
// quit.
func (m *Model) execute(line string) (bool, tea.Cmd) {
	cmd, err := ParseCommand(line)
	if err != nil {
		m.setStatus(err.Error(), true)
		return false, nil
	}
	switch cmd.Name {
	case CommandQuit:
		return true, nil
	case CommandHelp:
		return false, m.openHelp()
	case CommandHome:
		return false, m.home()
	case CommandFavorites:
		return false, m.push(route.Favorites, "")
	case CommandType:
		return false, m.push(route.Type, cmd.Arg)
	case CommandPokemon:
		return false, m.push(route.Detail, cmd.Arg)
	case CommandSearch:
		return false, m.search(cmd.Arg)
	}
	return false, nil
}

func (m *Model) breadcrumb() string {
	parts := make([]string, len(m.stack))
	for i, s := range m.stack {
		parts[i] = s.Title()
	}
	return m.theme.Panel.Title.Render("Pokédex") + m.theme.Panel.Muted.Render(" › ") +
		strings.Join(parts, m.theme.Panel.Muted.Render(" › "))
}

func (m *Model) footer() string {
	th := m.theme.Footer
	switch m.mode {
	case modeCommand:
		return th.Command.Render(":") + m.input.View()
	case modeSearch:
		return th.Command.Render("/") + m.input.View()
	}
	hint := th.Help.Render("enter open · space favorite · / search · : command · f favorites · esc back · ? help · q quit")
	if m.status == "" {
		return hint
	}
	if m.statusErr {
		return th.Error.Render(m.status) + "\n" + hint
	}
	return th.Status.Render(m.status) + "\n" + hint
}

func (m *Model) View() string {
	body := m.top().View()
	if m.mode == modeHelp && m.help != nil {
		body = m.help.View()
	}
	body = lipgloss.NewStyle().MaxHeight(m.bodyHeight()).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, m.breadcrumb(), "", body, m.footer())
}

// Run launches the Bubble Tea UI.
func Run(ctx context.Context, svc *app.Service) error {
	p := tea.NewProgram(New(ctx, svc), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
