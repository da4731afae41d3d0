// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefault(t *testing.T) {
	logger := Default()
	if logger == nil || logger.Logger == nil {
		t.Fatal("Default returned a nil logger")
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close on file-less logger: %v", err)
	}
}

func TestFileLogging(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(Config{Level: "debug", LogDir: dir, Service: "testsvc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger.Info("hello", "k", "v")
	if err := logger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one log file, got %d", len(entries))
	}
	if !strings.HasPrefix(entries[0].Name(), "testsvc_") {
		t.Errorf("log file not named after service: %s", entries[0].Name())
	}

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Errorf("file log should be JSON containing the message, got %q", data)
	}
}

func TestUnusableLogDirStillLogs(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	// A file where the directory should be makes MkdirAll fail.
	logger, err := New(Config{LogDir: filepath.Join(file, "logs")})
	if err == nil {
		t.Error("expected an error for an unusable log directory")
	}
	if logger == nil || logger.Logger == nil {
		t.Fatal("logger must still be usable without the file destination")
	}
	logger.Info("still works")
}

func TestDoubleClose(t *testing.T) {
	logger, err := New(Config{LogDir: t.TempDir()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second close must be a no-op, got %v", err)
	}
}
