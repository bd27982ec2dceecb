// Package logger provides structured logging for the application
package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu  sync.RWMutex
	log = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

// Init configures the default logger with the given level
// ("debug", "info", "warn" or "error"; anything else means info).
func Init(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	mu.Lock()
	defer mu.Unlock()
	log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debug logs at debug level with key-value pairs.
func Debug(msg string, args ...any) { get().Debug(msg, args...) }

// Info logs at info level with key-value pairs.
func Info(msg string, args ...any) { get().Info(msg, args...) }

// Warn logs at warn level with key-value pairs.
func Warn(msg string, args ...any) { get().Warn(msg, args...) }

// Error logs at error level with key-value pairs.
func Error(msg string, args ...any) { get().Error(msg, args...) }
