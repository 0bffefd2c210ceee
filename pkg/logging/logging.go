// Package logging builds the apex logger shared by every surface.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/apex/log/handlers/logfmt"
)

// FileName is the log file written under the data directory while the
// terminal UI owns the screen.
const FileName = ".pokedex.log"

// NewLogger returns a logfmt logger. debug forces the debug level.
func NewLogger(level log.Level, debug bool, output io.Writer) *log.Logger {
	logger := &log.Logger{}

	if debug {
		logger.Level = log.DebugLevel
	} else {
		logger.Level = level
	}

	logger.Handler = logfmt.New(output)

	return logger
}

// ParseLevel parses name, falling back to info.
func ParseLevel(name string) log.Level {
	level, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// OpenFile opens (appending) the log file under dir.
func OpenFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
