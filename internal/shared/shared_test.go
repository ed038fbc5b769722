package shared

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLogger(t *testing.T) {
	t.Run("NewLogger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		logger.Info("hello", "key", "value")

		out := buf.String()
		if !strings.Contains(out, "hello") {
			t.Errorf("expected log output to contain message, got %q", out)
		}
		if !strings.Contains(out, "key") {
			t.Errorf("expected log output to contain field key, got %q", out)
		}
	})

	t.Run("NewLogger Nil Writer", func(t *testing.T) {
		logger := NewLogger(nil)
		if logger == nil {
			t.Fatal("expected a logger even with nil writer")
		}
	})

	t.Run("WithLogger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		child := WithLogger(logger, "component", "server")

		child.Info("request")

		if !strings.Contains(buf.String(), "component") {
			t.Errorf("expected child logger to carry fields, got %q", buf.String())
		}
	})

	t.Run("SetLogLevel", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		SetLogLevel(logger, log.ErrorLevel)

		logger.Info("suppressed")
		if strings.Contains(buf.String(), "suppressed") {
			t.Error("expected info log to be suppressed at error level")
		}
	})
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty IDs")
	}
	if a == b {
		t.Error("expected unique IDs")
	}
}

func TestTruncate(t *testing.T) {
	t.Run("Short String Unchanged", func(t *testing.T) {
		if got := Truncate("abc", 50); got != "abc" {
			t.Errorf("expected abc, got %q", got)
		}
	})

	t.Run("Long String Cut", func(t *testing.T) {
		got := Truncate(strings.Repeat("x", 100), 50)
		if len(got) != 50 {
			t.Errorf("expected the limit to cap the result, got %d chars", len(got))
		}
		if !strings.HasSuffix(got, "...") {
			t.Errorf("expected ellipsis suffix, got %q", got)
		}
	})

	t.Run("Exact Length Unchanged", func(t *testing.T) {
		if got := Truncate("abcde", 5); got != "abcde" {
			t.Errorf("expected abcde, got %q", got)
		}
	})

	t.Run("Tiny Limit Drops Ellipsis", func(t *testing.T) {
		if got := Truncate("abcdef", 2); got != "ab" {
			t.Errorf("expected ab, got %q", got)
		}
	})

	t.Run("Zero Limit", func(t *testing.T) {
		if got := Truncate("abc", 0); got != "abc" {
			t.Errorf("expected passthrough for zero limit, got %q", got)
		}
	})
}
