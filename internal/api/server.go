package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zstar1003/Tosticker/internal/metrics"
	"github.com/zstar1003/Tosticker/internal/models"
)

// CommandPrefix is the route under which every command is served.
const CommandPrefix = "/api/commands/"

// maxBodyBytes bounds request bodies; import snapshots are the largest.
const maxBodyBytes = 32 << 20

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	DB      string `json:"db"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

// ErrorResponse is the body of every failed command.
type ErrorResponse struct {
	Error string `json:"error"`
}

// OKResponse acknowledges commands that return no record.
type OKResponse struct {
	OK bool `json:"ok"`
}

// PathResponse is returned by get_database_path.
type PathResponse struct {
	Path string `json:"path"`
}

// IDRequest carries a record id.
type IDRequest struct {
	ID string `json:"id"`
}

// ListTodosRequest selects active or archived todos.
type ListTodosRequest struct {
	Archived bool `json:"archived"`
}

// SearchRequest carries a search query.
type SearchRequest struct {
	Query string `json:"query"`
}

// commandFunc runs one command against a raw JSON body and returns the
// HTTP status and value to encode on success.
type commandFunc func(ctx context.Context, body []byte) (int, any, error)

// Server provides the HTTP API for Tosticker.
type Server struct {
	service  *Service
	addr     string
	server   *http.Server
	logger   *logrus.Entry
	metrics  *metrics.Metrics
	events   http.Handler
	version  string
	commands map[string]commandFunc
}

// NewServer creates a new HTTP server.
func NewServer(service *Service, addr string) *Server {
	s := &Server{
		service: service,
		addr:    addr,
		logger:  logrus.StandardLogger().WithField("component", "api"),
		version: "dev",
	}
	s.commands = map[string]commandFunc{
		"create_todo":              s.createTodo,
		"get_todos":                s.getTodos,
		"update_todo":              s.updateTodo,
		"complete_todo":            s.completeTodo,
		"delete_todo":              s.deleteTodo,
		"get_todo_stats":           s.getTodoStats,
		"get_todos_with_reminders": s.getTodosWithReminders,
		"get_todo":                 s.getTodo,
		"create_inspiration":       s.createInspiration,
		"get_inspirations":         s.getInspirations,
		"delete_inspiration":       s.deleteInspiration,
		"search_inspirations":      s.searchInspirations,
		"get_database_path":        s.getDatabasePath,
		"export_data":              s.exportData,
		"import_data":              s.importData,
	}
	return s
}

// SetLogger sets the request logger.
func (s *Server) SetLogger(logger *logrus.Logger) {
	if logger != nil {
		s.logger = logger.WithField("component", "api")
	}
}

// SetMetrics enables command metrics and the /metrics endpoint.
func (s *Server) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// SetEvents mounts the event stream handler at /events.
func (s *Server) SetEvents(h http.Handler) {
	s.events = h
}

// SetVersion sets the version reported by /health.
func (s *Server) SetVersion(v string) {
	s.version = v
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler builds the request router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(CommandPrefix, s.handleCommand)
	mux.HandleFunc("/health", s.handleHealth)

	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}
	if s.events != nil {
		mux.Handle("/events", s.events)
	}
	return mux
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:        s.addr,
		Handler:     s.Handler(),
		ReadTimeout: 10 * time.Second,
	}

	s.logger.WithField("addr", s.addr).Info("Starting Tosticker backend")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := HealthResponse{
		OK:      true,
		DB:      "ok",
		Version: s.version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.service.Ping(ctx); err != nil {
		resp.OK = false
		resp.DB = err.Error()
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}

// handleCommand handles POST /api/commands/{name}
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, CommandPrefix)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	cmd, ok := s.commands[name]
	if !ok {
		writeError(w, statusFor(ErrUnknownCommand), fmt.Sprintf("%s: %s", ErrUnknownCommand, name))
		return
	}

	start := time.Now()
	status, result, err := s.run(w, r, cmd)
	s.metrics.ObserveCommand(name, time.Since(start), err)

	entry := s.logger.WithFields(logrus.Fields{
		"command":  name,
		"duration": time.Since(start).String(),
	})
	if err != nil {
		status = statusFor(err)
		if status == http.StatusInternalServerError {
			entry.WithError(err).Error("Command failed")
		} else {
			entry.WithError(err).Debug("Command rejected")
		}
		writeError(w, status, err.Error())
		return
	}

	entry.Debug("Command handled")
	writeJSON(w, status, result)
}

func (s *Server) run(w http.ResponseWriter, r *http.Request, cmd commandFunc) (int, any, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return cmd(r.Context(), body)
}

// --- Todo Commands ---

func (s *Server) createTodo(ctx context.Context, body []byte) (int, any, error) {
	var req models.CreateTodoRequest
	if err := decode(body, &req, true); err != nil {
		return 0, nil, err
	}
	todo, err := s.service.CreateTodo(ctx, req)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusCreated, todo, nil
}

func (s *Server) getTodos(ctx context.Context, body []byte) (int, any, error) {
	var req ListTodosRequest
	if err := decode(body, &req, false); err != nil {
		return 0, nil, err
	}
	todos, err := s.service.ListTodos(ctx, req.Archived)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, todos, nil
}

func (s *Server) getTodo(ctx context.Context, body []byte) (int, any, error) {
	var req IDRequest
	if err := decode(body, &req, true); err != nil {
		return 0, nil, err
	}
	todo, err := s.service.GetTodo(ctx, req.ID)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, todo, nil
}

func (s *Server) updateTodo(ctx context.Context, body []byte) (int, any, error) {
	var req models.UpdateTodoRequest
	if err := decode(body, &req, true); err != nil {
		return 0, nil, err
	}
	todo, err := s.service.UpdateTodo(ctx, req)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, todo, nil
}

func (s *Server) completeTodo(ctx context.Context, body []byte) (int, any, error) {
	var req IDRequest
	if err := decode(body, &req, true); err != nil {
		return 0, nil, err
	}
	todo, err := s.service.CompleteTodo(ctx, req.ID)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, todo, nil
}

func (s *Server) deleteTodo(ctx context.Context, body []byte) (int, any, error) {
	var req IDRequest
	if err := decode(body, &req, true); err != nil {
		return 0, nil, err
	}
	if err := s.service.DeleteTodo(ctx, req.ID); err != nil {
		return 0, nil, err
	}
	return http.StatusOK, OKResponse{OK: true}, nil
}

func (s *Server) getTodoStats(ctx context.Context, _ []byte) (int, any, error) {
	stats, err := s.service.TodoStats(ctx)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, stats, nil
}

func (s *Server) getTodosWithReminders(ctx context.Context, _ []byte) (int, any, error) {
	todos, err := s.service.TodosWithReminders(ctx)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, todos, nil
}

// --- Inspiration Commands ---

func (s *Server) createInspiration(ctx context.Context, body []byte) (int, any, error) {
	var req models.CreateInspirationRequest
	if err := decode(body, &req, true); err != nil {
		return 0, nil, err
	}
	item, err := s.service.CreateInspiration(ctx, req)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusCreated, item, nil
}

func (s *Server) getInspirations(ctx context.Context, _ []byte) (int, any, error) {
	items, err := s.service.ListInspirations(ctx)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, items, nil
}

func (s *Server) deleteInspiration(ctx context.Context, body []byte) (int, any, error) {
	var req IDRequest
	if err := decode(body, &req, true); err != nil {
		return 0, nil, err
	}
	if err := s.service.DeleteInspiration(ctx, req.ID); err != nil {
		return 0, nil, err
	}
	return http.StatusOK, OKResponse{OK: true}, nil
}

func (s *Server) searchInspirations(ctx context.Context, body []byte) (int, any, error) {
	var req SearchRequest
	if err := decode(body, &req, false); err != nil {
		return 0, nil, err
	}
	items, err := s.service.SearchInspirations(ctx, req.Query)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, items, nil
}

// --- Maintenance Commands ---

func (s *Server) getDatabasePath(_ context.Context, _ []byte) (int, any, error) {
	return http.StatusOK, PathResponse{Path: s.service.DatabasePath()}, nil
}

func (s *Server) exportData(ctx context.Context, _ []byte) (int, any, error) {
	backup, err := s.service.Export(ctx)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, backup, nil
}

func (s *Server) importData(ctx context.Context, body []byte) (int, any, error) {
	var backup models.Backup
	if err := decode(body, &backup, true); err != nil {
		return 0, nil, err
	}
	result, err := s.service.Import(ctx, &backup)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, result, nil
}

// decode unmarshals body into v. An empty body is accepted only when the
// command has no required arguments.
func decode(body []byte, v any, required bool) error {
	if len(bytes.TrimSpace(body)) == 0 {
		if required {
			return fmt.Errorf("%w: empty body", ErrBadRequest)
		}
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
