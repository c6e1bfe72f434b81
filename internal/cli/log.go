// Package cli implements the rwpspread command-line interface.
//
// The root command splits a wallpaper across the connected monitors; with
// --daemon it keeps running and resplits on changes. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
//   - rwpspread: Split a wallpaper (or show monitors with --info)
//   - info: Show the detected monitors
//   - cache: Inspect or clear the daemon work directory
//   - completion: Generate shell completion scripts
//
// # Configuration
//
// Any flag of the root command can also be set in
// $XDG_CONFIG_HOME/rwpspread/config.toml, keyed by its long name. Flags
// given on the command line win.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

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

// ctxKey is the type for context keys used in this package.
// Using a distinct type prevents collisions with other packages.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
// The logger can be retrieved later with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
// This ensures commands always have a valid logger even if context setup fails.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
