package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zstar1003/Tosticker/internal/models"
)

const todoColumns = `id, title, description, priority, due_date, reminder_at, completed, archived, created_at, updated_at`

// CreateTodo inserts a new todo.
func (s *Store) CreateTodo(ctx context.Context, req models.CreateTodoRequest) (*models.Todo, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	now := s.timestamp()
	todo := &models.Todo{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     utcPtr(req.DueDate),
		ReminderAt:  utcPtr(req.ReminderAt),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (`+todoColumns+`) VALUES (?, ?, ?, ?, ?, ?, 0, 0, ?, ?)`,
		todo.ID, todo.Title, todo.Description, todo.Priority,
		nullableTime(todo.DueDate), nullableTime(todo.ReminderAt),
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	return todo, nil
}

// GetTodo retrieves a todo by ID.
func (s *Store) GetTodo(ctx context.Context, id string) (*models.Todo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = ?`, id)
	todo, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query todo: %w", err)
	}
	return &todo, nil
}

// ListTodos returns todos with the given archived flag, highest priority
// first, then by due date with undated todos last, then newest first.
func (s *Store) ListTodos(ctx context.Context, archived bool) ([]models.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+todoColumns+` FROM todos
		WHERE archived = ?
		ORDER BY
			CASE priority
				WHEN 'high' THEN 1
				WHEN 'medium' THEN 2
				WHEN 'low' THEN 3
				ELSE 4
			END,
			due_date ASC NULLS LAST,
			created_at DESC`,
		archived,
	)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	return collectTodos(rows)
}

// UpdateTodo applies the fields set in req in a single statement and returns
// the updated row. updated_at is always refreshed.
func (s *Store) UpdateTodo(ctx context.Context, req models.UpdateTodoRequest) (*models.Todo, error) {
	if req.Title.Set && strings.TrimSpace(req.Title.Value) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalid)
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE todos SET
			title = CASE WHEN ? THEN ? ELSE title END,
			description = CASE WHEN ? THEN ? ELSE description END,
			priority = CASE WHEN ? THEN ? ELSE priority END,
			due_date = CASE WHEN ? THEN ? ELSE due_date END,
			reminder_at = CASE WHEN ? THEN ? ELSE reminder_at END,
			completed = CASE WHEN ? THEN ? ELSE completed END,
			archived = CASE WHEN ? THEN ? ELSE archived END,
			updated_at = ?
		WHERE id = ?
		RETURNING `+todoColumns,
		req.Title.Set, req.Title.Value,
		req.Description.Set, req.Description.Value,
		req.Priority.Set, req.Priority.Value,
		req.DueDate.Set, nullableTime(req.DueDate.Value),
		req.ReminderAt.Set, nullableTime(req.ReminderAt.Value),
		req.Completed.Set, req.Completed.Value,
		req.Archived.Set, req.Archived.Value,
		formatTime(s.timestamp()),
		req.ID,
	)

	todo, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return &todo, nil
}

// CompleteTodo marks a todo completed and archived in one statement.
func (s *Store) CompleteTodo(ctx context.Context, id string) (*models.Todo, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE todos SET completed = 1, archived = 1, updated_at = ? WHERE id = ? RETURNING `+todoColumns,
		formatTime(s.timestamp()), id,
	)
	todo, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("complete todo: %w", err)
	}
	return &todo, nil
}

// DeleteTodo removes a todo. Deleting a missing id is not an error.
func (s *Store) DeleteTodo(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}

// TodoStats aggregates the todos table in one pass.
func (s *Store) TodoStats(ctx context.Context) (*models.TodoStats, error) {
	var stats models.TodoStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN completed = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN completed = 0 AND archived = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN archived = 1 THEN 1 ELSE 0 END), 0)
		FROM todos`,
	).Scan(&stats.Total, &stats.Completed, &stats.Pending, &stats.Archived)
	if err != nil {
		return nil, fmt.Errorf("query todo stats: %w", err)
	}
	return &stats, nil
}

// DueReminders returns open todos whose reminder time is at or before now.
// It records nothing, so a todo stays due until it is completed, archived or
// deleted.
func (s *Store) DueReminders(ctx context.Context, now time.Time) ([]models.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+todoColumns+` FROM todos
		WHERE reminder_at IS NOT NULL
			AND reminder_at <= ?
			AND completed = 0
			AND archived = 0
		ORDER BY reminder_at ASC`,
		formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("query due reminders: %w", err)
	}
	return collectTodos(rows)
}

func collectTodos(rows *sql.Rows) ([]models.Todo, error) {
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

func scanTodo(row rowScanner) (models.Todo, error) {
	var todo models.Todo
	var description, dueDate, reminderAt sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&todo.ID, &todo.Title, &description, &todo.Priority, &dueDate, &reminderAt,
		&todo.Completed, &todo.Archived, &createdAt, &updatedAt)
	if err != nil {
		return todo, err
	}

	if description.Valid {
		todo.Description = &description.String
	}
	if todo.DueDate, err = scanNullTime(dueDate); err != nil {
		return todo, fmt.Errorf("parse due_date: %w", err)
	}
	if todo.ReminderAt, err = scanNullTime(reminderAt); err != nil {
		return todo, fmt.Errorf("parse reminder_at: %w", err)
	}
	if todo.CreatedAt, err = parseTime(createdAt); err != nil {
		return todo, fmt.Errorf("parse created_at: %w", err)
	}
	if todo.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return todo, fmt.Errorf("parse updated_at: %w", err)
	}
	return todo, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
