// Package observability provides the operator-facing event log. Mutations,
// dropped announcements, and unexpected failures are appended as JSONL so an
// operator can reconstruct what the server did.
package observability

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Event levels.
const (
	LevelInfo  = "INFO"
	LevelError = "ERROR"
)

// Well-known event types written by the server.
const (
	EventTaskCreated     = "task.created"
	EventTaskUpdated     = "task.updated"
	EventTaskDeleted     = "task.deleted"
	EventAnnounceDropped = "announce.dropped"
	EventServerError     = "server.error"
)

// Event represents a single observable event in the system.
type Event struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Type    string         `json:"type"`
	Message string         `json:"msg"`
	Data    map[string]any `json:"data,omitempty"`
}

// EventLog defines the interface for writing and reading events.
type EventLog interface {
	Log(level, eventType, message string, data map[string]any) error
	Read(eventType string) ([]Event, error)
	Close() error
}

// jsonlEventLog implements EventLog using an append-only JSONL file.
type jsonlEventLog struct {
	path string
	file *os.File
	mu   sync.Mutex
}

// NewJSONLEventLog creates an EventLog backed by a JSONL file at path.
func NewJSONLEventLog(path string) (EventLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	return &jsonlEventLog{path: path, file: f}, nil
}

// Log appends a JSON-encoded event followed by a newline.
func (l *jsonlEventLog) Log(level, eventType, message string, data map[string]any) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	event := Event{
		Time:    time.Now().UTC(),
		Level:   level,
		Type:    eventType,
		Message: message,
		Data:    data,
	}
	encoded, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}
	encoded = append(encoded, '\n')

	if _, err := l.file.Write(encoded); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	return nil
}

// Read scans the log file and returns events of the given type, or all
// events when eventType is empty. Malformed lines are skipped.
func (l *jsonlEventLog) Read(eventType string) ([]Event, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening event log for reading: %w", err)
	}
	defer func() { _ = f.Close() }()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue
		}
		if eventType == "" || event.Type == eventType {
			events = append(events, event)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning event log: %w", err)
	}
	return events, nil
}

// Close closes the underlying log file.
func (l *jsonlEventLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// nopEventLog discards everything; used when no log path is configured.
type nopEventLog struct{}

// NewNopEventLog returns an EventLog that records nothing.
func NewNopEventLog() EventLog { return nopEventLog{} }

func (nopEventLog) Log(string, string, string, map[string]any) error { return nil }
func (nopEventLog) Read(string) ([]Event, error)                     { return nil, nil }
func (nopEventLog) Close() error                                     { return nil }
