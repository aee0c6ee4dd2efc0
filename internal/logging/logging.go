package logging

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// New builds the root logger. Unknown levels fall back to info.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

func NewWithWriter(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	return logger
}

// For returns a child logger tagged with a component prefix, e.g. "game" or "ws".
func For(parent *log.Logger, component string) *log.Logger {
	if parent == nil {
		parent = log.Default()
	}
	return parent.WithPrefix(component)
}

// Discard is used by tests and headless runs that want no output.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
