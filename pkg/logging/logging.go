// Package logging wraps charmbracelet/log with the process-wide logger
// used by the CLI, the desktop app, and the library packages.
package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	mu      sync.Mutex
	current *log.Logger
)

// New creates a logger writing to w at the given level ("debug", "info",
// "warn", "error"). An unknown level falls back to info.
func New(w io.Writer, level string) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "meshlens",
	})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

// Default returns the process-wide logger, creating an info-level stderr
// logger on first use.
func Default() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		current = New(os.Stderr, "info")
	}
	return current
}

// SetDefault replaces the process-wide logger.
func SetDefault(l *log.Logger) {
	mu.Lock()
	defer mu.Unlock()
	current = l
}

// Or returns l, or the default logger when l is nil.
func Or(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return Default()
}
