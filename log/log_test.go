package log_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/ghettovoice/postpone/log"
)

func TestDefault(t *testing.T) {
	// Not parallel: mutates the package-level default logger.

	if log.Default().Enabled(t.Context(), slog.LevelError) {
		t.Fatal("default logger is enabled, want noop")
	}

	var buf bytes.Buffer
	log.SetDefault(log.Console(&buf, slog.LevelDebug))
	defer log.SetDefault(nil)

	log.Default().Info("hello")
	if buf.Len() == 0 {
		t.Fatal("console logger produced no output")
	}

	log.SetDefault(nil)
	if log.Default().Enabled(t.Context(), slog.LevelError) {
		t.Fatal("SetDefault(nil) did not restore the noop logger")
	}
}

func TestNoop(t *testing.T) {
	t.Parallel()

	l := log.Noop()
	if l.Enabled(t.Context(), slog.LevelError) {
		t.Fatal("noop logger is enabled")
	}
	l.Error("discarded")
}

func TestDev(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := log.Dev(&buf, slog.LevelDebug)

	l.Debug("dev message", slog.String("key", "value"))
	if !strings.Contains(buf.String(), "dev message") {
		t.Fatalf("dev logger output %q does not contain the message", buf.String())
	}
}
