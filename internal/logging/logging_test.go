package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew(t *testing.T) {
	t.Run("default level is info", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(Options{Output: &buf, NoColors: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if logger.GetLevel() != logrus.InfoLevel {
			t.Errorf("expected info level, got %v", logger.GetLevel())
		}

		logger.Debug("hidden")
		logger.WithField(RequestIDKey, "abc").Info("shown")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Error("debug message should be filtered")
		}
		if !strings.Contains(out, "shown") || !strings.Contains(out, "abc") {
			t.Errorf("expected message and field in output, got %q", out)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		if _, err := New(Options{Level: "loud"}); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("writes file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "logs", "mudra.log")
		var buf bytes.Buffer
		logger, err := New(Options{Level: "debug", File: file, Output: &buf, NoColors: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		logger.Debug("to file")

		data, err := os.ReadFile(file)
		if err != nil {
			t.Fatalf("read log file: %v", err)
		}
		if !strings.Contains(string(data), "to file") {
			t.Errorf("expected message in file, got %q", data)
		}
	})
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Info("nothing")
}

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	if RequestID(ctx) != "" {
		t.Error("expected empty request id")
	}
	if got := RequestID(WithRequestID(ctx, "01J")); got != "01J" {
		t.Errorf("expected 01J, got %q", got)
	}
}
