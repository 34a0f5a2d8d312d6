// Package logging builds the structured logger shared by the client.
//
// The TUI owns the terminal, so interactive sessions log to a file.
// One-shot commands log errors to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a logger writing logfmt lines to w at the given level.
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          "tada",
		Formatter:       log.LogfmtFormatter,
	}), nil
}

// OpenFile appends to path, creating it and its directory if needed.
// Close the returned file when the session ends.
func OpenFile(path, level string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	l, err := New(f, level)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return l, f, nil
}

// Console returns a terminal logger for one-shot commands. Failures
// already reach the user as messages, so it stays quiet below errors
// unless level is debug.
func Console(w io.Writer, level string) *log.Logger {
	l := log.NewWithOptions(w, log.Options{Prefix: "tada"})
	l.SetLevel(log.ErrorLevel)
	if lvl, err := log.ParseLevel(level); err == nil && lvl == log.DebugLevel {
		l.SetLevel(lvl)
	}
	return l
}
