package store

import (
	"context"
	"fmt"

	"github.com/zstar1003/Tosticker/internal/models"
)

// Export returns a snapshot of every todo and inspiration.
func (s *Store) Export(ctx context.Context) (*models.Backup, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+todoColumns+` FROM todos ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	todos, err := collectTodos(rows)
	if err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT `+inspirationColumns+` FROM inspirations ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query inspirations: %w", err)
	}
	inspirations, err := collectInspirations(rows)
	if err != nil {
		return nil, err
	}

	return &models.Backup{
		Version:      models.BackupVersion,
		ExportDate:   s.timestamp(),
		Todos:        todos,
		Inspirations: inspirations,
	}, nil
}

// Import inserts the records of a snapshot in one transaction, keeping their
// ids. Records whose id already exists are skipped, so importing the same
// snapshot twice is harmless.
func (s *Store) Import(ctx context.Context, backup *models.Backup) (*models.ImportResult, error) {
	if backup.Version != "" && backup.Version != models.BackupVersion {
		return nil, fmt.Errorf("%w: unsupported backup version %q", ErrInvalid, backup.Version)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result := &models.ImportResult{}

	for _, t := range backup.Todos {
		if t.ID == "" || t.Title == "" {
			return nil, fmt.Errorf("%w: todo without id or title", ErrInvalid)
		}
		priority := t.Priority
		if priority == "" {
			priority = models.PriorityMedium
		}
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO todos (`+todoColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Title, t.Description, priority,
			nullableTime(t.DueDate), nullableTime(t.ReminderAt),
			t.Completed, t.Archived,
			formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
		)
		if err != nil {
			return nil, fmt.Errorf("import todo %s: %w", t.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("check rows affected: %w", err)
		}
		result.Todos += int(n)
	}

	for _, item := range backup.Inspirations {
		if item.ID == "" || item.Content == "" {
			return nil, fmt.Errorf("%w: inspiration without id or content", ErrInvalid)
		}
		tags := item.Tags
		if tags == nil {
			tags = []string{}
		}
		tagsJSON, err := encodeTags(tags)
		if err != nil {
			return nil, err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO inspirations (`+inspirationColumns+`) VALUES (?, ?, ?, ?)`,
			item.ID, item.Content, tagsJSON, formatTime(item.CreatedAt),
		)
		if err != nil {
			return nil, fmt.Errorf("import inspiration %s: %w", item.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("check rows affected: %w", err)
		}
		result.Inspirations += int(n)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return result, nil
}
