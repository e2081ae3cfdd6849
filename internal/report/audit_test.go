package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"
)

func TestAuditLoggerWritesEvents(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewAuditLogger(dir)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	if logger.Path() == "" {
		t.Error("expected a log path")
	}

	err = logger.LogRun("reset", "sqlite", "canonical", 10, 25*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("failed to log run: %v", err)
	}
	err = logger.LogRun("init", "postgres", "canonical", 5, time.Second, errors.New("relation exists"))
	if err != nil {
		t.Fatalf("failed to log failed run: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}

	file, err := os.Open(logger.Path())
	if err != nil {
		t.Fatalf("failed to reopen log: %v", err)
	}
	defer file.Close()

	var events []Event
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var e Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("invalid JSONL line: %v", err)
		}
		events = append(events, e)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	if events[0].Operation != "reset" || events[0].Outcome != "ok" || events[0].Statements != 10 {
		t.Errorf("unexpected first event: %+v", events[0])
	}
	if events[0].Timestamp.IsZero() {
		t.Error("expected timestamp to be filled in")
	}
	if events[1].Outcome != "error" || events[1].Error != "relation exists" {
		t.Errorf("unexpected second event: %+v", events[1])
	}
}

func TestNullLogger(t *testing.T) {
	logger := NullLogger()

	if err := logger.LogRun("drop", "sqlite", "legacy", 3, 0, nil); err != nil {
		t.Errorf("null logger must accept events: %v", err)
	}
	if logger.Path() != "" {
		t.Errorf("null logger must have no path, got %s", logger.Path())
	}
	if err := logger.Close(); err != nil {
		t.Errorf("null logger close failed: %v", err)
	}
}
