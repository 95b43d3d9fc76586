// Package core contains the business logic for taskboard: the task service
// that orchestrates reads and writes against the record store, input
// validation, and configuration.
package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taskboard/internal/query"
	"taskboard/internal/storage"
	"taskboard/pkg/models"
)

// EventLogger is the subset of the observability event log that the task
// service needs. Defining it here keeps core independent of the
// observability package.
type EventLogger interface {
	Log(level, eventType, message string, data map[string]any) error
}

// Announcer receives a human-readable description of each successful
// mutation. Delivery is decoupled from the mutation: an announcer failure
// never fails the write that triggered it.
type Announcer interface {
	Announce(text string)
}

// TaskService defines the task lifecycle operations. It is the sole writer
// against the record store; by the time a write returns, a subsequent List
// from any caller observes the change.
type TaskService interface {
	Create(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	Update(ctx context.Context, id int64, req models.UpdateTaskRequest) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, params query.Params) ([]models.Task, error)
}

// taskService implements TaskService by coordinating the store, the event
// log, and the change announcer.
type taskService struct {
	store     storage.TaskStore
	events    EventLogger
	announcer Announcer
}

// NewTaskService creates a TaskService over the given store. events and
// announcer may be nil when observability or change notification is not
// wired (one-shot CLI use).
func NewTaskService(store storage.TaskStore, events EventLogger, announcer Announcer) TaskService {
	return &taskService{store: store, events: events, announcer: announcer}
}

// Create validates the request, persists a new task with status NotStarted,
// and returns the created record.
func (s *taskService) Create(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	if err := validateFields(req.Name, req.Description); err != nil {
		return nil, err
	}

	task := models.Task{
		Name:        req.Name,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      models.StatusNotStarted,
	}
	id, err := s.store.Insert(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	task.ID = id

	s.logEvent("task.created", fmt.Sprintf("task %d created", id), map[string]any{"id": id, "name": task.Name})
	s.announce(fmt.Sprintf("task %d (%s) was created", id, task.Name))
	return &task, nil
}

// GetByID returns the task with the given id.
func (s *taskService) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	return s.store.FindByID(ctx, id)
}

// Update replaces the record with the given id with the full target state
// from the request. There is no partial patch: callers supply every field.
func (s *taskService) Update(ctx context.Context, id int64, req models.UpdateTaskRequest) error {
	if err := validateFields(req.Name, req.Description); err != nil {
		return err
	}
	if !req.Status.Valid() {
		return models.Validationf("status %q is not one of NotStarted, InProgress, Completed", req.Status)
	}

	task := models.Task{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
	}
	if err := s.store.Update(ctx, id, task); err != nil {
		return err
	}

	s.logEvent("task.updated", fmt.Sprintf("task %d updated", id), map[string]any{"id": id, "status": string(task.Status)})
	s.announce(fmt.Sprintf("task %d (%s) was updated", id, task.Name))
	return nil
}

// Delete removes the record with the given id.
func (s *taskService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.logEvent("task.deleted", fmt.Sprintf("task %d deleted", id), map[string]any{"id": id})
	s.announce(fmt.Sprintf("task %d was deleted", id))
	return nil
}

// List delegates to the query engine over the current store snapshot.
func (s *taskService) List(ctx context.Context, params query.Params) ([]models.Task, error) {
	tasks, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return query.Apply(tasks, params), nil
}

// validateFields checks the constraints shared by create and update.
func validateFields(name, description string) error {
	if strings.TrimSpace(name) == "" {
		return models.Validationf("name must not be empty")
	}
	if len(name) > models.MaxNameLength {
		return models.Validationf("name must be at most %d characters", models.MaxNameLength)
	}
	if len(description) > models.MaxDescriptionLength {
		return models.Validationf("description must be at most %d characters", models.MaxDescriptionLength)
	}
	return nil
}

func (s *taskService) logEvent(eventType, message string, data map[string]any) {
	if s.events == nil {
		return
	}
	_ = s.events.Log("INFO", eventType, message, data)
}

func (s *taskService) announce(text string) {
	if s.announcer == nil {
		return
	}
	s.announcer.Announce(text)
}

// Day truncates an instant to its calendar day in its own location. Handy
// for callers building due-date filters.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
