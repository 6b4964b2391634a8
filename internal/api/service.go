// Package api provides the command service and the HTTP server that exposes it.
package api

import (
	"context"
	"time"

	"github.com/zstar1003/Tosticker/internal/audit"
	"github.com/zstar1003/Tosticker/internal/models"
	"github.com/zstar1003/Tosticker/internal/store"
)

// Service implements the Tosticker commands on top of the store.
type Service struct {
	store *store.Store
	audit *audit.Recorder
	now   func() time.Time
}

// NewService creates a new command service.
func NewService(s *store.Store, rec *audit.Recorder) *Service {
	return &Service{
		store: s,
		audit: rec,
		now:   time.Now,
	}
}

// --- Todo Operations ---

// CreateTodo creates a new todo.
func (s *Service) CreateTodo(ctx context.Context, req models.CreateTodoRequest) (*models.Todo, error) {
	todo, err := s.store.CreateTodo(ctx, req)
	if err != nil {
		return nil, err
	}
	s.audit.Record("todo.create", req, "success", todo.ID, "")
	return todo, nil
}

// GetTodo retrieves a todo by ID.
func (s *Service) GetTodo(ctx context.Context, id string) (*models.Todo, error) {
	return s.store.GetTodo(ctx, id)
}

// ListTodos returns active or archived todos in display order.
func (s *Service) ListTodos(ctx context.Context, archived bool) ([]models.Todo, error) {
	return s.store.ListTodos(ctx, archived)
}

// UpdateTodo applies a partial update.
func (s *Service) UpdateTodo(ctx context.Context, req models.UpdateTodoRequest) (*models.Todo, error) {
	todo, err := s.store.UpdateTodo(ctx, req)
	if err != nil {
		return nil, err
	}
	s.audit.Record("todo.update", req, "success", todo.ID, "")
	return todo, nil
}

// CompleteTodo marks a todo completed and archived.
func (s *Service) CompleteTodo(ctx context.Context, id string) (*models.Todo, error) {
	todo, err := s.store.CompleteTodo(ctx, id)
	if err != nil {
		return nil, err
	}
	s.audit.Record("todo.complete", map[string]string{"id": id}, "success", id, "")
	return todo, nil
}

// DeleteTodo removes a todo. Deleting a missing id succeeds.
func (s *Service) DeleteTodo(ctx context.Context, id string) error {
	if err := s.store.DeleteTodo(ctx, id); err != nil {
		return err
	}
	s.audit.Record("todo.delete", map[string]string{"id": id}, "success", id, "")
	return nil
}

// TodoStats returns aggregate counts.
func (s *Service) TodoStats(ctx context.Context) (*models.TodoStats, error) {
	return s.store.TodoStats(ctx)
}

// TodosWithReminders returns the todos whose reminder is due now.
func (s *Service) TodosWithReminders(ctx context.Context) ([]models.Todo, error) {
	return s.store.DueReminders(ctx, s.now())
}

// --- Inspiration Operations ---

// CreateInspiration records a new inspiration.
func (s *Service) CreateInspiration(ctx context.Context, req models.CreateInspirationRequest) (*models.Inspiration, error) {
	item, err := s.store.CreateInspiration(ctx, req)
	if err != nil {
		return nil, err
	}
	s.audit.Record("inspiration.create", req, "success", item.ID, "")
	return item, nil
}

// ListInspirations returns all inspirations, newest first.
func (s *Service) ListInspirations(ctx context.Context) ([]models.Inspiration, error) {
	return s.store.ListInspirations(ctx)
}

// SearchInspirations returns inspirations whose content or tags contain query.
func (s *Service) SearchInspirations(ctx context.Context, query string) ([]models.Inspiration, error) {
	return s.store.SearchInspirations(ctx, query)
}

// DeleteInspiration removes an inspiration. Deleting a missing id succeeds.
func (s *Service) DeleteInspiration(ctx context.Context, id string) error {
	if err := s.store.DeleteInspiration(ctx, id); err != nil {
		return err
	}
	s.audit.Record("inspiration.delete", map[string]string{"id": id}, "success", id, "")
	return nil
}

// --- Maintenance ---

// DatabasePath returns the location of the database file.
func (s *Service) DatabasePath() string {
	return s.store.Path()
}

// Export returns a snapshot of all records.
func (s *Service) Export(ctx context.Context) (*models.Backup, error) {
	return s.store.Export(ctx)
}

// Import loads a snapshot, skipping ids that already exist.
func (s *Service) Import(ctx context.Context, backup *models.Backup) (*models.ImportResult, error) {
	result, err := s.store.Import(ctx, backup)
	if err != nil {
		s.audit.Record("data.import", backup, "error", "", err.Error())
		return nil, err
	}
	s.audit.Record("data.import", backup, "success", "", "")
	return result, nil
}

// Ping checks database connectivity.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
