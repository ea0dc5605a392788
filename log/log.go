// Package log provides logging utilities for the postpone module.
package log

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/golang-cz/devslog"
	"github.com/phsym/console-slog"
	slogformatter "github.com/samber/slog-formatter"
)

var newHandler = slogformatter.NewFormatterHandler(
	slogformatter.ErrorFormatter("error"),
	slogformatter.TimeFormatter(time.RFC3339Nano, time.UTC),
)

// Console returns a logger with human-friendly console output.
func Console(w io.Writer, lvl slog.Level) *slog.Logger {
	return slog.New(newHandler(
		console.NewHandler(w, &console.HandlerOptions{
			AddSource:  true,
			Level:      lvl,
			TimeFormat: time.RFC3339Nano,
		}),
	))
}

// Dev returns a developer logger with verbose, sorted output.
func Dev(w io.Writer, lvl slog.Level) *slog.Logger {
	return slog.New(newHandler(
		devslog.NewHandler(w, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: true,
				Level:     lvl,
			},
			SortKeys:   true,
			TimeFormat: time.RFC3339Nano,
		}),
	))
}

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (noopHandler) Handle(context.Context, slog.Record) error { return nil }

func (h noopHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h noopHandler) WithGroup(string) slog.Handler { return h }

var noop = slog.New(noopHandler{})

// Noop returns a logger that discards all records.
func Noop() *slog.Logger { return noop }

var def atomic.Pointer[slog.Logger]

func init() { def.Store(noop) }

// Default returns the default logger used when no logger is provided.
// It discards all records unless replaced with [SetDefault].
func Default() *slog.Logger { return def.Load() }

// SetDefault replaces the default logger.
// A nil l restores the noop logger.
func SetDefault(l *slog.Logger) {
	if l == nil {
		l = noop
	}
	def.Store(l)
}
