package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogAdapterLevels(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	adapter.Debug("debug msg", "k", "v")
	adapter.Info("info msg")
	adapter.Warn("warn msg")
	adapter.Error("error msg")

	out := buf.String()
	for _, want := range []string{"debug msg", "info msg", "warn msg", "error msg", "k=v"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestSlogAdapterFormatted(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))

	adapter.Infof("listening on %s", "127.0.0.1:8080")
	adapter.Errorf("request %d failed", 42)

	out := buf.String()
	if !strings.Contains(out, "listening on 127.0.0.1:8080") {
		t.Errorf("log output missing formatted info message:\n%s", out)
	}
	if !strings.Contains(out, "request 42 failed") {
		t.Errorf("log output missing formatted error message:\n%s", out)
	}
}

func TestNewSlogAdapterNilFallsBackToDefault(t *testing.T) {
	adapter := NewSlogAdapter(nil)
	if adapter.Logger() == nil {
		t.Fatal("expected a usable logger")
	}
}
