// Package logging configures charmbracelet/log for phpsniff and carries
// loggers through contexts.
package logging

import (
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

//nolint:gochecknoglobals // process-wide default logger
var defaultLogger atomic.Pointer[log.Logger]

// New returns a stderr logger at level. Unknown levels mean info; "warning"
// is accepted for warn.
func New(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{})
	logger.SetLevel(parseLevel(level))
	return logger
}

func parseLevel(level string) log.Level {
	level = strings.ToLower(level)
	if level == "warning" {
		level = "warn"
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return parsed
}

// NewInteractive returns an info-level logger for messages a person reads at
// a terminal. Info lines carry no level prefix.
func NewInteractive() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.InfoLevel})

	styles := log.DefaultStyles()
	styles.Levels[log.InfoLevel] = styles.Levels[log.InfoLevel].SetString("")
	logger.SetStyles(styles)

	return logger
}

// Default returns the process-wide logger, creating an info-level one on
// first use.
func Default() *log.Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	defaultLogger.CompareAndSwap(nil, New("info"))
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *log.Logger) {
	defaultLogger.Store(logger)
}

// SetLevel changes the level of the process-wide logger.
func SetLevel(level string) {
	Default().SetLevel(parseLevel(level))
}
