package models

import (
	"fmt"
	"strings"
	"time"
)

// TaskStatus represents the current lifecycle state of a task.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "NotStarted"
	StatusInProgress TaskStatus = "InProgress"
	StatusCompleted  TaskStatus = "Completed"
)

// AllStatuses lists every valid status in ordinal order.
var AllStatuses = []TaskStatus{StatusNotStarted, StatusInProgress, StatusCompleted}

// Rank returns the ordinal position of the status, used for sorting:
// NotStarted < InProgress < Completed.
func (s TaskStatus) Rank() int {
	switch s {
	case StatusInProgress:
		return 1
	case StatusCompleted:
		return 2
	default:
		return 0
	}
}

// Valid reports whether the status is one of the three known values.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// ParseStatus converts a case-insensitive status name into a TaskStatus.
func ParseStatus(raw string) (TaskStatus, error) {
	for _, s := range AllStatuses {
		if strings.EqualFold(raw, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", raw)
}

// Limits on caller-supplied text fields.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 500
)

// Task represents a single to-do record. The ID is assigned by the store on
// creation and never changes or gets reused.
type Task struct {
	ID          int64      `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	DueDate     time.Time  `json:"dueDate" yaml:"due_date"`
	Status      TaskStatus `json:"status" yaml:"status"`
}

// CreateTaskRequest is the transport payload for creating a task.
// Status is omitted: new tasks always start as NotStarted.
type CreateTaskRequest struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	DueDate     time.Time `json:"dueDate" yaml:"due_date"`
}

// UpdateTaskRequest is the transport payload for updating a task. It carries
// the full target state of the record; updates replace, they do not patch.
type UpdateTaskRequest struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	DueDate     time.Time  `json:"dueDate" yaml:"due_date"`
	Status      TaskStatus `json:"status" yaml:"status"`
}
