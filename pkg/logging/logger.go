// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logging provides structured logging for statgate components.
//
// The package wraps the standard library slog package with two concerns the
// service and CLI share: a string log level parsed from configuration, and
// optional file logging alongside stderr.
//
// For simple CLI usage:
//
//	logger := logging.Default()
//	logger.Info("comparison complete", "verdict", verdict)
//
// For the service, with file logging:
//
//	logger, err := logging.New(logging.Config{
//	    Level:   "debug",
//	    LogDir:  "/var/log/statgate",
//	    Service: "statgate",
//	})
//	defer logger.Close()
//
// This package does not redact sensitive data; callers must not log secrets.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config configures a Logger. The zero value logs Info and above to stderr
// in text format.
type Config struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string

	// JSON switches stderr output to JSON. File output is always JSON.
	JSON bool

	// LogDir, when set, enables file logging. The directory is created
	// if missing; files are named {service}_{date}.log.
	LogDir string

	// Service names the log file. Empty means "statgate".
	Service string
}

// Logger is a slog.Logger with an optional file destination.
type Logger struct {
	*slog.Logger

	mu   sync.Mutex
	file *os.File
}

// ParseLevel maps a configuration string to a slog level. Unknown strings
// map to Info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Default returns a stderr-only logger at Info level.
func Default() *Logger {
	logger, _ := New(Config{})
	return logger
}

// New creates a Logger from the configuration.
//
// Outputs:
//   - *Logger: Never nil; falls back to stderr-only on file errors.
//   - error: Non-nil when LogDir was requested but unusable. The returned
//     logger still works.
func New(cfg Config) (*Logger, error) {
	level := ParseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level}

	var stderrHandler slog.Handler
	if cfg.JSON {
		stderrHandler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		stderrHandler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := &Logger{Logger: slog.New(stderrHandler)}
	if cfg.LogDir == "" {
		return logger, nil
	}

	file, err := openLogFile(cfg.LogDir, cfg.Service)
	if err != nil {
		return logger, fmt.Errorf("file logging disabled: %w", err)
	}

	logger.file = file
	logger.Logger = slog.New(&teeHandler{
		stderr: stderrHandler,
		file:   slog.NewJSONHandler(file, opts),
	})
	return logger, nil
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Install makes this logger the process default for slog.Default() users.
func (l *Logger) Install() {
	slog.SetDefault(l.Logger)
}

func openLogFile(dir, service string) (*os.File, error) {
	if service == "" {
		service = "statgate"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s_%s.log", service, time.Now().Format("2006-01-02"))
	return os.OpenFile(filepath.Join(dir, name),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// teeHandler fans records out to stderr and the log file. A file write
// failure must not suppress the stderr line.
type teeHandler struct {
	stderr slog.Handler
	file   slog.Handler
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.stderr.Enabled(ctx, level)
}

func (h *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	err := h.stderr.Handle(ctx, r.Clone())
	if fileErr := h.file.Handle(ctx, r); err == nil {
		err = fileErr
	}
	return err
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &teeHandler{
		stderr: h.stderr.WithAttrs(attrs),
		file:   h.file.WithAttrs(attrs),
	}
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{
		stderr: h.stderr.WithGroup(name),
		file:   h.file.WithGroup(name),
	}
}

var _ io.Closer = (*Logger)(nil)
