package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_Console(t *testing.T) {
	log, err := New(LogConfig{Level: "debug", Format: "text", Output: "stdout"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if log == nil {
		t.Fatal("New returned nil")
	}
	log.Debug("console logger ready", "key", "value")
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	log, err := New(LogConfig{Level: "loud", Format: "json"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !log.Core().Enabled(0) {
		t.Error("info level should be enabled")
	}
	if log.Core().Enabled(-1) {
		t.Error("debug level should be disabled")
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")

	log, err := New(LogConfig{Level: "info", Format: "json", Output: path, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	log.Info("models loaded", "instances", 2, "error", errors.New("none"))
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, `"msg":"models loaded"`) {
		t.Errorf("log file missing message: %s", content)
	}
	if !strings.Contains(content, `"instances":2`) {
		t.Errorf("log file missing field: %s", content)
	}
	if !strings.Contains(content, `"error":"none"`) {
		t.Errorf("log file missing error field: %s", content)
	}
}

func TestConvertFields(t *testing.T) {
	fields := convertFields("a", 1, 2, "skipped", "dangling")
	if len(fields) != 1 {
		t.Fatalf("Expected 1 field, got %d", len(fields))
	}
	if fields[0].Key != "a" {
		t.Errorf("Expected key 'a', got %s", fields[0].Key)
	}
}

func TestNewNopLogger(t *testing.T) {
	log := NewNopLogger()
	log.Info("dropped")
	log.WithFields("request_id", "abc").Warn("dropped")
}
