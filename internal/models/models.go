// Package models defines the core domain types for Tosticker.
package models

import "time"

// Priority is the urgency bucket of a todo. Values outside the known set are
// stored as given and sort after low.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns the list ordering position of the priority (1 sorts first).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Todo is a user task with optional due date and reminder.
type Todo struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ReminderAt  *time.Time `json:"reminder_at,omitempty"`
	Completed   bool       `json:"completed"`
	Archived    bool       `json:"archived"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Inspiration is an immutable free-text note with ordered tags.
type Inspiration struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// TodoStats is computed on demand and never persisted.
type TodoStats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
	Archived  int64 `json:"archived"`
}

// CreateTodoRequest carries the fields accepted by create_todo.
type CreateTodoRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ReminderAt  *time.Time `json:"reminder_at,omitempty"`
}

// UpdateTodoRequest is a partial update. Fields left unset are not touched.
// For nullable fields a set-but-nil value clears the column.
type UpdateTodoRequest struct {
	ID          string               `json:"id"`
	Title       Optional[string]     `json:"title,omitzero"`
	Description Optional[*string]    `json:"description,omitzero"`
	Priority    Optional[Priority]   `json:"priority,omitzero"`
	DueDate     Optional[*time.Time] `json:"due_date,omitzero"`
	ReminderAt  Optional[*time.Time] `json:"reminder_at,omitzero"`
	Completed   Optional[bool]       `json:"completed,omitzero"`
	Archived    Optional[bool]       `json:"archived,omitzero"`
}

// CreateInspirationRequest carries the fields accepted by create_inspiration.
type CreateInspirationRequest struct {
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// BackupVersion is written into every exported snapshot.
const BackupVersion = "1.0"

// Backup is a full snapshot of both tables, used for export and import.
type Backup struct {
	Version      string        `json:"version"`
	ExportDate   time.Time     `json:"export_date"`
	Todos        []Todo        `json:"todos"`
	Inspirations []Inspiration `json:"inspirations"`
}

// ImportResult counts rows actually inserted by an import.
type ImportResult struct {
	Todos        int `json:"todos"`
	Inspirations int `json:"inspirations"`
}
