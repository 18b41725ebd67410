// Package logging constructs the structured loggers used across the
// genecarry CLI. Output is human-readable console text when attached
// to a terminal and JSON otherwise, with explicit overrides for both.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Supported output formats
const (
	FormatAuto    = "auto"
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options control how a logger is constructed
type Options struct {
	Level  zerolog.Level
	Format string    // auto, console or json
	Writer io.Writer // defaults to os.Stderr
}

// New builds a logger from the given options. The zero value of
// Options yields an info-level logger on stderr.
func New(opts Options) zerolog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	var writer io.Writer = w
	if useConsole(opts.Format, w) {
		writer = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	return zerolog.New(writer).
		Level(opts.Level).
		With().
		Timestamp().
		Logger()
}

// useConsole decides between console and JSON output. In auto mode
// console output is used only when the writer is a terminal.
func useConsole(format string, w io.Writer) bool {
	switch format {
	case FormatConsole:
		return true
	case FormatJSON:
		return false
	}

	if f, ok := w.(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return true
		}
	}
	return false
}

// ResolveLevel maps the CLI verbosity flags and the configured level
// to a zerolog level. Flags take precedence over configuration, and
// --debug wins over --verbose.
func ResolveLevel(verbose, debug bool, configured string) zerolog.Level {
	switch {
	case debug:
		return zerolog.TraceLevel
	case verbose:
		return zerolog.DebugLevel
	}

	if configured != "" {
		if level, err := zerolog.ParseLevel(configured); err == nil {
			return level
		}
	}
	return zerolog.InfoLevel
}
