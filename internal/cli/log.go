// Package cli implements the photogrid command-line interface.
//
// The CLI lays galleries out ahead of time, writes static pages, probes
// image files, serves galleries over HTTP and previews the responsive
// layout in the terminal. It is built on cobra, prints with lipgloss and
// logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - layout: pack a gallery at a fixed width and write the layout JSON
//   - render: write HTML, SVG or JSON
//   - probe: read image dimensions from file headers
//   - serve: serve the gallery, its API and theme broadcasts
//   - preview: drive the layout scheduler from terminal resizes
//   - theme: list, get or set the stored theme
//   - cache: manage the probed dimension cache
//
// # Configuration
//
// Settings come from photogrid.toml, .env and PHOTOGRID_* variables (see
// package config); --config names another TOML file. Flags override them.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// is also attached to the command context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. Timestamps read "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long a command step took. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time in milliseconds, for example
// "Packed 42 images into 7 rows (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx. The root command does this for every
// subcommand, so run functions take their logger from cmd.Context().
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
