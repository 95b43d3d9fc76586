package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"taskboard/pkg/models"
)

// sqliteTaskStore implements TaskStore on a local sqlite database.
// AUTOINCREMENT keeps ids monotonic so deleted ids are never reused.
type sqliteTaskStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) a sqlite database at path and
// ensures the tasks table exists.
func NewSQLiteStore(path string) (TaskStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	if _, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		due_date TEXT NOT NULL,
		status TEXT NOT NULL
		)`,
	); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating tasks table: %w", err)
	}

	return &sqliteTaskStore{db: db}, nil
}

func (s *sqliteTaskStore) Insert(ctx context.Context, task models.Task) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (name, description, due_date, status) VALUES (?, ?, ?, ?)`,
		task.Name, task.Description, task.DueDate.Format(time.RFC3339), string(task.Status),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted id: %w", err)
	}
	return id, nil
}

func (s *sqliteTaskStore) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, due_date, status FROM tasks WHERE id = ?`, id)

	task, err := scanTask(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFoundf("task %d", id)
		}
		return nil, fmt.Errorf("querying task %d: %w", id, err)
	}
	return task, nil
}

func (s *sqliteTaskStore) All(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, due_date, status FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("scanning tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (s *sqliteTaskStore) Update(ctx context.Context, id int64, task models.Task) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET name = ?, description = ?, due_date = ?, status = ? WHERE id = ?`,
		task.Name, task.Description, task.DueDate.Format(time.RFC3339), string(task.Status), id,
	)
	if err != nil {
		return fmt.Errorf("updating task %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("counting updated rows: %w", err)
	}
	if affected == 0 {
		return models.NotFoundf("task %d", id)
	}
	return nil
}

func (s *sqliteTaskStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("counting deleted rows: %w", err)
	}
	if affected == 0 {
		return models.NotFoundf("task %d", id)
	}
	return nil
}

func (s *sqliteTaskStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting tasks: %w", err)
	}
	return n, nil
}

func (s *sqliteTaskStore) Close() error {
	return s.db.Close()
}

// scanTask decodes one row using the given scan function.
func scanTask(scan func(dest ...any) error) (*models.Task, error) {
	var task models.Task
	var due, status string
	if err := scan(&task.ID, &task.Name, &task.Description, &due, &status); err != nil {
		return nil, err
	}
	parsed, err := time.Parse(time.RFC3339, due)
	if err != nil {
		return nil, fmt.Errorf("parsing due date %q: %w", due, err)
	}
	task.DueDate = parsed
	task.Status = models.TaskStatus(status)
	return &task, nil
}
