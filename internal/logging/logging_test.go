package logging

import (
	"bytes"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLogsAtConfiguredLevel(t *testing.T) {
	logger := New(logrus.InfoLevel)
	if logger.Level != logrus.InfoLevel {
		t.Fatalf("expected level %v, got %v", logrus.InfoLevel, logger.Level)
	}
	if _, ok := logger.Formatter.(*logrus.TextFormatter); !ok {
		t.Fatalf("expected a TextFormatter, got %T", logger.Formatter)
	}
}

func TestDiscardSuppressesOutput(t *testing.T) {
	logger := Discard()
	if logger.Out != io.Discard {
		t.Fatalf("expected Discard to write to io.Discard, got %T", logger.Out)
	}
	var captured bytes.Buffer
	logger.SetOutput(&captured)
	logger.Info("should not reach the real stdout by default")
	// Discard's default output is io.Discard; redirecting it here only
	// proves the logger is otherwise functional and doesn't panic.
	if logger.Out == nil {
		t.Fatal("expected a non-nil output writer")
	}
}
