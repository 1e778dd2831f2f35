// Package logging provides the leveled logger used by the command line tools.
//
// A logger can carry a status line, such as the search progress, drawn in
// place at the bottom of the output. Records are written above it and the
// line is redrawn after each one, so the two never share a terminal row.
package logging

import (
	"fmt"
	"io"
	logpkg "log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Level defines severity for logger output.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// ParseLevel maps a level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "info", "":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// eraseLine returns the cursor to column 0 and clears the row.
const eraseLine = "\r\x1b[K"

// Logger provides leveled logging.
type Logger struct {
	mu     sync.Mutex
	level  Level
	out    io.Writer
	logger *logpkg.Logger
	status string
}

// New creates a logger writing to w with desired level and prefix.
func New(w io.Writer, level Level, prefix string) *Logger {
	return &Logger{
		level:  level,
		out:    w,
		logger: logpkg.New(w, prefix, logpkg.LstdFlags|logpkg.Lmicroseconds),
	}
}

// SetLevel adjusts current logging level.
func (l *Logger) SetLevel(level Level) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

func (l *Logger) logf(target Level, format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if target > l.level {
		return
	}
	if l.status != "" {
		io.WriteString(l.out, eraseLine)
	}
	l.logger.Output(3, fmt.Sprintf(format, args...))
	if l.status != "" {
		io.WriteString(l.out, l.status)
	}
}

// Status draws s as the status line, replacing the previous one.
func (l *Logger) Status(s string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.status = s
	io.WriteString(l.out, eraseLine+s)
}

// EndStatus leaves the current status line in the output and moves on to a
// fresh row. It does nothing when no status line is drawn.
func (l *Logger) EndStatus() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.status == "" {
		return
	}
	l.status = ""
	io.WriteString(l.out, "\n")
}

// Debugf prints debug messages.
func (l *Logger) Debugf(format string, args ...any) {
	l.logf(LevelDebug, format, args...)
}

// Infof prints info messages.
func (l *Logger) Infof(format string, args ...any) {
	l.logf(LevelInfo, format, args...)
}

// Warnf prints warning messages.
func (l *Logger) Warnf(format string, args ...any) {
	l.logf(LevelWarn, format, args...)
}

// Errorf prints error messages.
func (l *Logger) Errorf(format string, args ...any) {
	l.logf(LevelError, format, args...)
}

// CommandPrefix is the record prefix for the running command, "[a51crack] "
// for a51crack.
func CommandPrefix() string {
	return "[" + strings.TrimSuffix(filepath.Base(os.Args[0]), ".exe") + "] "
}

var defaultLogger = New(os.Stderr, LevelInfo, CommandPrefix())

// Default returns the process-wide logger.
func Default() *Logger {
	return defaultLogger
}

// SetDefault replaces the process-wide logger (primarily for tests).
func SetDefault(l *Logger) {
	if l == nil {
		return
	}
	defaultLogger = l
}
