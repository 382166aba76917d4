// Package cli implements the storyforge command-line interface.
//
// Commands work on storyline documents (JSON files written by pkg/document)
// or on the configured store. The CLI is built using cobra and logs via the
// charmbracelet/log library.
//
// # Commands
//
//   - validate: Report blocking issues and warnings of a storyline file
//   - layout: Print or export grid positions
//   - render: Export the diagram as json, dot, svg, pdf or png
//   - event, connect, disconnect: Edit a storyline file in place
//   - inspect: Browse a storyline in an interactive terminal view
//   - serve: Run the HTTP editing API
//   - push, pull, list: Move storylines between files and the store
//   - cache: Manage the rendered-artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Each command
// gets a logger prefixed with its name, carried through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           level,
	})
}

// timer logs the completion of a step with structured key-values and the
// elapsed time under the "took" key.
type timer struct {
	log   *log.Logger
	begin time.Time
}

func startTimer(ctx context.Context) timer {
	return timer{log: loggerFromContext(ctx), begin: time.Now()}
}

func (t timer) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(t.begin).Round(time.Millisecond))
	t.log.Info(msg, keyvals...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext falls back to log.Default so helpers work in tests that
// skip the root command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
