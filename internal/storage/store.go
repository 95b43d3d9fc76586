// Package storage provides the task record store: a small CRUD collection
// with point lookup and full scan. The query engine consumes the scan; the
// task service is the only writer.
package storage

import (
	"context"

	"taskboard/pkg/models"
)

// TaskStore defines the interface for the persistent task collection.
// Implementations assign ids on insert; ids are never reused or mutated.
// All operations are atomic with respect to a single record.
type TaskStore interface {
	// Insert persists a new task, ignoring any id on the input, and returns
	// the id assigned by the store.
	Insert(ctx context.Context, task models.Task) (int64, error)
	// FindByID returns the task with the given id, or models.ErrNotFound.
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	// All returns a snapshot of every task, in insertion (id) order.
	All(ctx context.Context) ([]models.Task, error)
	// Update overwrites the record with the given id, or models.ErrNotFound.
	Update(ctx context.Context, id int64, task models.Task) error
	// Delete removes the record with the given id, or models.ErrNotFound.
	Delete(ctx context.Context, id int64) error
	// Count returns the number of stored tasks.
	Count(ctx context.Context) (int, error)
	// Close releases any resources held by the store.
	Close() error
}
