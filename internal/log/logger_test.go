// Copyright 2026 Sebastian Rodriguez
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelWarn},
		{"", slog.LevelWarn},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "info", Format: FormatJSON, Output: &buf})

	logger.Info("tagged line", slog.String(PathKey, "main.c"), slog.Int(LineKey, 3))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry[PathKey] != "main.c" {
		t.Errorf("expected path field, got %v", entry[PathKey])
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "error", Format: FormatText, Output: &buf})

	logger.Info("should be suppressed")
	if buf.Len() != 0 {
		t.Errorf("info log leaked through error level: %s", buf.String())
	}

	logger.Error("should appear")
	if buf.Len() == 0 {
		t.Error("error log was suppressed")
	}
}

func TestFromEnvDebug(t *testing.T) {
	t.Setenv("LAZYTAG_DEBUG", "1")

	cfg := FromEnv()
	if cfg.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Level)
	}
	if !cfg.AddSource {
		t.Error("expected AddSource to be enabled")
	}
}

func TestFromEnvLevelPrecedence(t *testing.T) {
	t.Setenv("LAZYTAG_DEBUG", "")
	t.Setenv("LAZYTAG_LOG_LEVEL", "error")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := FromEnv()
	if cfg.Level != "error" {
		t.Errorf("LAZYTAG_LOG_LEVEL should win, got %q", cfg.Level)
	}
}
