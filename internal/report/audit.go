// Package report writes an append-only audit trail of schema operations.
// Every run of a destructive command (init, drop, reset) and every verify
// is recorded as one JSONL event, so operators can reconstruct when the
// schema was last reset and by which configuration.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event is one audit record.
type Event struct {
	Timestamp  time.Time `json:"ts"`
	Operation  string    `json:"op"`
	Dialect    string    `json:"dialect"`
	Version    string    `json:"version"`
	Statements int       `json:"statements,omitempty"`
	DurationMs int64     `json:"duration_ms,omitempty"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
}

// AuditLogger appends events to a JSONL file
type AuditLogger struct {
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
	path    string
}

// NewAuditLogger creates an audit log file in outputDir, named by run
// timestamp.
func NewAuditLogger(outputDir string) (*AuditLogger, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	path := filepath.Join(outputDir, fmt.Sprintf("schema-%s.jsonl", timestamp))

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit log: %w", err)
	}

	return &AuditLogger{
		file:    file,
		encoder: json.NewEncoder(file),
		path:    path,
	}, nil
}

// NullLogger returns a logger that discards all events.
func NullLogger() *AuditLogger {
	return &AuditLogger{}
}

// Log writes an event to the JSONL file
func (l *AuditLogger) Log(event *Event) error {
	if l == nil || l.file == nil {
		return nil // Silently ignore if logger not initialized
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := l.encoder.Encode(event); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	return nil
}

// LogRun records the outcome of a schema operation.
func (l *AuditLogger) LogRun(op, dialect, version string, statements int, duration time.Duration, runErr error) error {
	event := &Event{
		Operation:  op,
		Dialect:    dialect,
		Version:    version,
		Statements: statements,
		DurationMs: duration.Milliseconds(),
		Outcome:    "ok",
	}
	if runErr != nil {
		event.Outcome = "error"
		event.Error = runErr.Error()
	}
	return l.Log(event)
}

// Path returns the audit log file path, or "" for a null logger.
func (l *AuditLogger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Close closes the underlying file.
func (l *AuditLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
