// Package logging provides the leveled, optionally colored console logger
// with an optional append-only file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/backmassage/clipstack/internal/config"
	"github.com/backmassage/clipstack/internal/term"
)

// sink is shared by a logger and every child derived from it with [Logger.With].
type sink struct {
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	file    *os.File
	color   bool
	verbose bool
}

// Logger writes timestamped, leveled lines. A Logger created by With
// prefixes every line with its scope (e.g. a scene folder name) and shares
// the parent's sinks, so concurrent folders stay attributable.
type Logger struct {
	sink   *sink
	prefix string
}

// NewLogger configures terminal colors from cfg and optionally opens the
// log file. Call Close() when done if Log.File was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.Log.Color)
	s := &sink{
		out:     os.Stdout,
		errOut:  os.Stderr,
		color:   term.Enabled(),
		verbose: cfg.Log.Verbose,
	}

	if cfg.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		s.file = f
	}
	return &Logger{sink: s}, nil
}

// NewWriterLogger returns an uncolored logger writing every level to w.
func NewWriterLogger(w io.Writer, verbose bool) *Logger {
	return &Logger{sink: &sink{out: w, errOut: w, verbose: verbose}}
}

// With returns a child logger whose lines are prefixed with "[scope]".
// Nested scopes are joined with "/".
func (l *Logger) With(scope string) *Logger {
	prefix := scope
	if l.prefix != "" {
		prefix = l.prefix + "/" + scope
	}
	return &Logger{sink: l.sink, prefix: prefix}
}

// Verbose reports whether DEBUG lines are emitted.
func (l *Logger) Verbose() bool { return l.sink.verbose }

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if l.sink.file != nil {
		err := l.sink.file.Close()
		l.sink.file = nil
		return err
	}
	return nil
}

func (l *Logger) line(level, color, text string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	if l.prefix != "" {
		text = "[" + l.prefix + "] " + text
	}
	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()
	plain := ts + " [" + level + "] " + text + "\n"
	out := s.out
	if level == "ERROR" {
		out = s.errOut
	}
	if s.color && color != "" {
		_, _ = io.WriteString(out, ts+" "+color+"["+level+"]"+term.NC+" "+text+"\n")
	} else {
		_, _ = io.WriteString(out, plain)
	}
	if s.file != nil {
		_, _ = io.WriteString(s.file, plain)
	}
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.line("INFO", term.Blue, fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.line("SUCCESS", term.Green, fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line("WARN", term.Yellow, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red), to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", term.Red, fmt.Sprintf(format, args...))
}

// Render logs at RENDER level (magenta); used for external tool command lines.
func (l *Logger) Render(format string, args ...interface{}) {
	l.line("RENDER", term.Magenta, fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.sink.verbose {
		return
	}
	l.line("DEBUG", term.Cyan, fmt.Sprintf(format, args...))
}
