// Package logbook records pipeline progress to a plain text file so a run
// can be reconstructed after the fact: state transitions, absorbed errors,
// and fatal failures, each tagged with the run id.
package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logbook persists run progress to a simple append-only text file. All
// methods are safe on a nil receiver, so callers can run without a log.
type Logbook struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// New creates a logbook writing to path, creating parent directories as
// needed.
func New(path string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logbook: ensure dir: %w", err)
	}
	return &Logbook{path: path, now: time.Now}, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Record appends one entry tagged with the run it belongs to.
func (l *Logbook) Record(level Level, runID, format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	line := fmt.Sprintf("%s %-5s run=%s %s\n",
		l.now().UTC().Format(time.RFC3339),
		string(level),
		runID,
		strings.TrimSpace(fmt.Sprintf(format, args...)),
	)
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = file.WriteString(line)
}

// Info appends an informational entry for the run.
func (l *Logbook) Info(runID, format string, args ...any) {
	l.Record(LevelInfo, runID, format, args...)
}

// Warn appends a warning entry for the run. Absorbed stage errors land here
// so they are never silently suppressed.
func (l *Logbook) Warn(runID, format string, args ...any) {
	l.Record(LevelWarn, runID, format, args...)
}

// Error appends an error entry for the run.
func (l *Logbook) Error(runID, format string, args ...any) {
	l.Record(LevelError, runID, format, args...)
}

// Tail returns up to maxLines of the most recent entries.
func (l *Logbook) Tail(maxLines int) []string {
	if l == nil || maxLines <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines
}
