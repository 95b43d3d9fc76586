package storage

import (
	"context"
	"sort"
	"sync"

	"taskboard/pkg/models"
)

// memoryTaskStore implements TaskStore with an in-process map. It backs
// tests and the ephemeral serve mode; nothing survives a restart.
type memoryTaskStore struct {
	mu     sync.RWMutex
	tasks  map[int64]models.Task
	nextID int64
}

// NewMemoryStore creates an empty in-memory TaskStore.
func NewMemoryStore() TaskStore {
	return &memoryTaskStore{
		tasks:  make(map[int64]models.Task),
		nextID: 1,
	}
}

func (m *memoryTaskStore) Insert(_ context.Context, task models.Task) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task.ID = m.nextID
	m.nextID++
	m.tasks[task.ID] = task
	return task.ID, nil
}

func (m *memoryTaskStore) FindByID(_ context.Context, id int64) (*models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	task, ok := m.tasks[id]
	if !ok {
		return nil, models.NotFoundf("task %d", id)
	}
	return &task, nil
}

func (m *memoryTaskStore) All(_ context.Context) ([]models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tasks := make([]models.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (m *memoryTaskStore) Update(_ context.Context, id int64, task models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return models.NotFoundf("task %d", id)
	}
	task.ID = id
	m.tasks[id] = task
	return nil
}

func (m *memoryTaskStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return models.NotFoundf("task %d", id)
	}
	delete(m.tasks, id)
	return nil
}

func (m *memoryTaskStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tasks), nil
}

func (m *memoryTaskStore) Close() error { return nil }
