// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LogLevelEnv is consulted before the executable-derived variable.
const LogLevelEnv = "TERMBAR_LOG_LEVEL"

type loggerKey struct{}

// LevelVar holds the level shared by DefaultLogger and JSONLogger.
var LevelVar = &slog.LevelVar{}

// Stderr is a writer that resolves os.Stderr on every write.
// Loggers built on it follow terminal interception: while a bar owns the
// terminal their output is buffered and replayed on release.
var Stderr = lateStderr{}

type lateStderr struct{}

func (lateStderr) Write(p []byte) (int, error) {
	return os.Stderr.Write(p) //nolint:wrapcheck
}

// DefaultLogger is a text logger that is used if no logger is provided.
var DefaultLogger = slog.New(NewPrettyHandler(&slog.HandlerOptions{
	Level: LevelVar,
},
	WithAutoColour(),
	WithDestinationWriter(Stderr),
))

// JSONLogger writes machine-readable records to standard error.
var JSONLogger = slog.New(slog.NewJSONHandler(Stderr, &slog.HandlerOptions{
	Level: LevelVar,
}))

// Log formats accepted by ForFormat.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned by ForFormat for anything other than FormatText or FormatJSON.
var ErrUnknownFormat = errors.New("unknown log format")

func init() {
	LevelVar.Set(logLevelFromEnv())
}

// ForFormat returns DefaultLogger for "text" (or "") and JSONLogger for "json".
func ForFormat(format string) (*slog.Logger, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return DefaultLogger, nil
	case FormatJSON:
		return JSONLogger, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// New creates a new context with the given logger.
// If logger is nil, it uses the default logger.
func New(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		logger = DefaultLogger
	}

	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logger returns the logger from the context, or the default logger if not found.
func Logger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok || logger == nil {
		return DefaultLogger
	}

	return logger
}

// Info logs an info message with the given context.
func Info(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Info(msg, args...)
}

// Debug logs a debug message with the given context.
func Debug(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Debug(msg, args...)
}

// Warn logs a warning message with the given context.
func Warn(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Warn(msg, args...)
}

// Error logs an error message with the given context.
func Error(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Error(msg, args...)
}

// envNames returns the variables checked for a log level, in order.
func envNames() []string {
	names := []string{LogLevelEnv}

	exe, err := os.Executable()
	if err != nil {
		return names
	}

	exe = strings.TrimSuffix(filepath.Base(exe), ".exe")
	exe = strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(exe))

	if derived := exe + "_LOG_LEVEL"; derived != LogLevelEnv {
		names = append(names, derived)
	}

	return names
}

func logLevelFromEnv() slog.Level {
	for _, name := range envNames() {
		if lvl, ok := parseLevel(os.Getenv(name)); ok {
			return lvl
		}
	}

	return slog.LevelWarn
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO":
		return slog.LevelInfo, true
	case "WARN", "WARNING":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	default:
		return slog.LevelWarn, false
	}
}
