package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/zstar1003/Tosticker/internal/models"
)

func TestExportImport(t *testing.T) {
	src := newTestStore(t)
	defer src.Close()
	ctx := context.Background()

	remind := time.Date(2025, 8, 1, 9, 30, 0, 0, time.UTC)
	todo, _ := src.CreateTodo(ctx, models.CreateTodoRequest{Title: "carry over", Priority: models.PriorityLow, ReminderAt: &remind})
	done, _ := src.CreateTodo(ctx, models.CreateTodoRequest{Title: "finished"})
	src.CompleteTodo(ctx, done.ID)
	src.CreateInspiration(ctx, models.CreateInspirationRequest{Content: "note", Tags: []string{"x", "y"}})

	backup, err := src.Export(ctx)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if backup.Version != models.BackupVersion {
		t.Errorf("Expected version %s, got %s", models.BackupVersion, backup.Version)
	}
	if len(backup.Todos) != 2 || len(backup.Inspirations) != 1 {
		t.Fatalf("Unexpected snapshot sizes: %d todos, %d inspirations", len(backup.Todos), len(backup.Inspirations))
	}

	dst := newTestStore(t)
	defer dst.Close()

	result, err := dst.Import(ctx, backup)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Todos != 2 || result.Inspirations != 1 {
		t.Errorf("Unexpected import counts: %+v", result)
	}

	got, err := dst.GetTodo(ctx, todo.ID)
	if err != nil {
		t.Fatalf("GetTodo after import failed: %v", err)
	}
	if got.Title != "carry over" || got.Priority != models.PriorityLow {
		t.Errorf("Imported todo mismatch: %+v", got)
	}
	if got.ReminderAt == nil || !got.ReminderAt.Equal(remind) {
		t.Errorf("Reminder not preserved: %v", got.ReminderAt)
	}

	archived, _ := dst.ListTodos(ctx, true)
	if len(archived) != 1 || !archived[0].Completed {
		t.Errorf("Completed todo not preserved: %+v", archived)
	}

	items, _ := dst.ListInspirations(ctx)
	if len(items) != 1 || !reflect.DeepEqual(items[0].Tags, []string{"x", "y"}) {
		t.Errorf("Inspiration not preserved: %+v", items)
	}

	// A second import of the same snapshot inserts nothing.
	result, err = dst.Import(ctx, backup)
	if err != nil {
		t.Fatalf("Re-import failed: %v", err)
	}
	if result.Todos != 0 || result.Inspirations != 0 {
		t.Errorf("Expected re-import to skip everything, got %+v", result)
	}
}

func TestImportRejectsBadSnapshot(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	_, err := s.Import(ctx, &models.Backup{Version: "9.9"})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Expected ErrInvalid for unknown version, got %v", err)
	}

	bad := &models.Backup{
		Version: models.BackupVersion,
		Todos: []models.Todo{
			{ID: "ok", Title: "fine", CreatedAt: time.Now(), UpdatedAt: time.Now()},
			{ID: "", Title: "no id"},
		},
	}
	if _, err := s.Import(ctx, bad); !errors.Is(err, ErrInvalid) {
		t.Errorf("Expected ErrInvalid for todo without id, got %v", err)
	}

	// The failed import must not leave partial rows behind.
	todos, _ := s.ListTodos(ctx, false)
	if len(todos) != 0 {
		t.Errorf("Expected rollback, found %d todos", len(todos))
	}
}
