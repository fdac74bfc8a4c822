// Package logging sets up the file logger. The TUI owns the terminal, so log
// lines go to a dated file instead of stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Logger wraps a charm logger together with the file it writes to.
type Logger struct {
	*log.Logger
	SessionID string
	Path      string
	file      *os.File
}

// Open creates dir if needed and appends to statview-<date>.log inside it.
// Every line carries the session id.
func Open(dir string, level log.Level) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	name := fmt.Sprintf("statview-%s.log", time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	l := New(file, level)
	l.Path = path
	l.file = file
	l.Info("statview started")
	return l, nil
}

// New builds a Logger writing to w without touching the filesystem.
func New(w io.Writer, level log.Level) *Logger {
	session := uuid.NewString()
	base := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
	})
	return &Logger{Logger: base.With("session", session), SessionID: session}
}

// Nop discards everything.
func Nop() *log.Logger {
	return log.New(io.Discard)
}

// Close flushes the shutdown line and closes the file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.Info("statview shutting down")
	return l.file.Close()
}
