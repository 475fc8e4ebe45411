package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JaimeStill/mediaconv/pkg/logging"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		level   logging.Level
		slog    slog.Level
		wantErr bool
	}{
		{logging.LevelDebug, slog.LevelDebug, false},
		{logging.LevelInfo, slog.LevelInfo, false},
		{logging.LevelWarn, slog.LevelWarn, false},
		{logging.LevelError, slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			if got := tt.level.ToSlogLevel(); got != tt.slog {
				t.Errorf("ToSlogLevel() = %v, want %v", got, tt.slog)
			}
			if err := tt.level.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFormat_Validate(t *testing.T) {
	for _, f := range []logging.Format{logging.FormatText, logging.FormatJSON} {
		if err := f.Validate(); err != nil {
			t.Errorf("Validate() failed for %q: %v", f, err)
		}
	}
	if err := logging.Format("yaml").Validate(); err == nil {
		t.Error("Validate() succeeded for invalid format, want error")
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := &logging.Config{Level: logging.LevelDebug, Format: logging.FormatJSON}

	logging.NewWithWriter(cfg, &buf).Debug("converted", "kind", "bufferToBase64")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Unmarshal() failed: %v (output %q)", err, buf.String())
	}
	if entry["msg"] != "converted" || entry["kind"] != "bufferToBase64" {
		t.Errorf("entry = %v", entry)
	}
}

func TestNewWithWriter_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := &logging.Config{Level: logging.LevelWarn, Format: logging.FormatText}

	logger := logging.NewWithWriter(cfg, &buf)
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains info entry: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("output missing warn entry: %q", out)
	}
}

func TestOutput_Stderr(t *testing.T) {
	if w := logging.Output(&logging.Config{}); w != os.Stderr {
		t.Errorf("Output() = %T, want os.Stderr", w)
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mediaconv.log")
	cfg := &logging.Config{File: path}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	logging.New(cfg).Info("to file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file = %q, want entry", data)
	}
}
