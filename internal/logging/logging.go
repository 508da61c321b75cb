// ABOUTME: Structured logger construction for mood components.
// ABOUTME: Wraps charmbracelet/log with level/format options and component scoping.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Options configures a logger.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text, json, logfmt
	Output io.Writer
}

// New creates a logger. Diagnostics default to stderr so CLI output stays clean.
func New(opts Options) *log.Logger {
	level, err := log.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		level = log.InfoLevel
	}

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	formatter := log.TextFormatter
	switch strings.ToLower(opts.Format) {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}

	return log.NewWithOptions(output, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
}

// Component returns logger scoped with a component field.
func Component(logger *log.Logger, name string) *log.Logger {
	return OrNop(logger).With("component", name)
}

// Nop returns a logger that discards all output.
func Nop() *log.Logger {
	return log.New(io.Discard)
}

// OrNop returns logger when non-nil, otherwise a discarding logger.
func OrNop(logger *log.Logger) *log.Logger {
	if logger == nil {
		return Nop()
	}
	return logger
}
