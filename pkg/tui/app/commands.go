package app

import (
	"fmt"
	"strings"
)

// CommandName identifies a command line action.
type CommandName string

const (
	CommandQuit      CommandName = "quit"
	CommandHelp      CommandName = "help"
	CommandHome      CommandName = "list"
	CommandFavorites CommandName = "favorites"
	CommandType      CommandName = "type"
	CommandPokemon   CommandName = "pokemon"
	CommandSearch    CommandName = "search"
)

// Command is a parsed command line.
type Command struct {
	Name CommandName
	Arg  string
}

var aliases = map[string]CommandName{
	"q":         CommandQuit,
	"quit":      CommandQuit,
	"help":      CommandHelp,
	"h":         CommandHelp,
	"list":      CommandHome,
	"home":      CommandHome,
	"favorites": CommandFavorites,
	"favs":      CommandFavorites,
	"fav":       CommandFavorites,
	"type":      CommandType,
	"t":         CommandType,
	"pokemon":   CommandPokemon,
	"p":         CommandPokemon,
	"search":    CommandSearch,
	"s":         CommandSearch,
}

var needsArg = map[CommandName]bool{
	CommandType:    true,
	CommandPokemon: true,
	CommandSearch:  true,
}

// ParseCommand parses input typed after ":".
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), ":"))
	if line == "" {
		return Command{}, fmt.Errorf("empty command")
	}
	head, rest, _ := strings.Cut(line, " ")
	name, ok := aliases[strings.ToLower(head)]
	if !ok {
		return Command{}, fmt.Errorf("unknown command: %s", head)
	}
	arg := strings.TrimSpace(rest)
	if needsArg[name] && arg == "" {
		return Command{}, fmt.Errorf("%s needs an argument", name)
	}
	return Command{Name: name, Arg: arg}, nil
}
