// Package cli implements the sketchdraw command-line interface.
//
// The CLI is built on cobra. Every command loads the TOML configuration,
// builds a studio and runs one or more studio commands:
//   - serve: Run the MCP server on stdin/stdout
//   - draw: Convert an image to line art and write or save the result
//   - sketch: Convert an image to a pencil sketch
//   - history: List or delete saved drawings
//
// # Logging
//
// Logs go to stderr through charmbracelet/log. --verbose (-v) or
// SKETCHDRAW_LOG_LEVEL=debug enables debug output. Loggers are passed
// through context.Context.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// envLogLevel names the environment variable that sets the log level.
const envLogLevel = "SKETCHDRAW_LOG_LEVEL"

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logLevel picks the log level. verbose wins; otherwise env is parsed as a
// level name, and anything unparsable means info.
func logLevel(verbose bool, env string) log.Level {
	if verbose {
		return log.DebugLevel
	}
	if env = strings.TrimSpace(env); env != "" {
		if level, err := log.ParseLevel(strings.ToLower(env)); err == nil {
			return level
		}
	}
	return log.InfoLevel
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
