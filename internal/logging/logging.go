package logging

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const logFile = "busmon.log"

// New constructs a zerolog logger writing to stateDir/busmon.log.
// A TUI owns the terminal, so logs never go to stdout/stderr.
// Returns a disabled logger if the file can't be opened.
func New(stateDir, level string) zerolog.Logger {
	lvl := parseLevel(level)

	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return zerolog.Nop()
	}
	f, err := os.OpenFile(filepath.Join(stateDir, logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop()
	}

	return zerolog.New(f).With().Timestamp().Logger().Level(lvl)
}

func parseLevel(level string) zerolog.Level {
	level = strings.TrimSpace(strings.ToLower(level))
	if level == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
