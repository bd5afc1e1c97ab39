package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "wattdash.log")
	logger, flush, err := New(Options{Level: "debug", Path: path})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("dataset built")
	flush()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"dataset built"`) {
		t.Fatalf("expected json entry, got %q", string(data))
	}
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wattdash.log")
	logger, flush, err := New(Options{Level: "warn", Format: "console", Path: path})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	flush()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Fatalf("unexpected log contents %q", string(data))
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wattdash.log")
	if _, _, err := New(Options{Level: "loud", Path: path}); err == nil {
		t.Fatalf("expected error for bad level")
	}
	if _, _, err := New(Options{Format: "xml", Path: path}); err == nil {
		t.Fatalf("expected error for bad format")
	}
}

func TestNewWithoutPathIsNop(t *testing.T) {
	logger, flush, err := New(Options{})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("discarded")
	flush()
}
