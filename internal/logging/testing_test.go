package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestTestLogger_AssertLogged(t *testing.T) {
	tl := NewTestLogger()
	tl.Info("fold set written", zap.String("document", "/docs/a.txt"))

	tl.AssertLogged(t, zapcore.InfoLevel, "fold set written")
	tl.AssertNotLogged(t, zapcore.ErrorLevel, "fold set written")
	tl.AssertNotLogged(t, zapcore.InfoLevel, "never logged")
}

func TestTestLogger_AssertField(t *testing.T) {
	tl := NewTestLogger()
	tl.Warn("fold set save failed", zap.String("document", "/docs/a.txt"))

	tl.AssertField(t, "fold set save failed", "document", "/docs/a.txt")
}

func TestTestLogger_FilterAndReset(t *testing.T) {
	tl := NewTestLogger()
	tl.Debug("first")
	tl.Debug("second")

	if got := len(tl.All()); got != 2 {
		t.Fatalf("All() returned %d entries, want 2", got)
	}
	if got := tl.FilterMessage("first").Len(); got != 1 {
		t.Errorf("FilterMessage(first).Len() = %d, want 1", got)
	}

	tl.Reset()
	if got := len(tl.All()); got != 0 {
		t.Errorf("All() after Reset returned %d entries, want 0", got)
	}
}
