package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestStdLoggerVerbosity(t *testing.T) {
	var buf bytes.Buffer
	quiet := NewWithWriter(&buf, false)
	quiet.Debug("hidden", nil)
	quiet.Info("hidden", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}

	quiet.Warn("shown", map[string]interface{}{"b": 2, "a": 1})
	if !strings.Contains(buf.String(), "[WARN] shown a=1 b=2") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestStdLoggerErrorField(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, true).Error("lookup failed", errors.New("boom"), nil)
	if !strings.Contains(buf.String(), "[ERROR] lookup failed error=boom") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
