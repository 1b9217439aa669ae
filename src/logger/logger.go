package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Formats accepted by Setup.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Setup builds the process logger. format is "json", "console" or empty;
// empty picks console when w is a terminal and JSON otherwise. level is any
// zerolog level name ("debug", "info", "warn", ...).
func Setup(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		lvl, err = zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("log level: %w", err)
		}
	}

	if format == "" {
		format = FormatJSON
		if isTTY(w) {
			format = FormatConsole
		}
	}

	switch format {
	case FormatJSON:
		return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
	case FormatConsole:
		return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
			Level(lvl).With().Timestamp().Logger(), nil
	default:
		return zerolog.Nop(), fmt.Errorf("log format: unknown format %q (supported: %s, %s)", format, FormatJSON, FormatConsole)
	}
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
