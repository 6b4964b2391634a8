package main

import (
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/zstar1003/Tosticker/internal/api"
	"github.com/zstar1003/Tosticker/internal/audit"
	"github.com/zstar1003/Tosticker/internal/logging"
	"github.com/zstar1003/Tosticker/internal/models"
	"github.com/zstar1003/Tosticker/internal/store"
)

func TestParseWhen(t *testing.T) {
	got, err := parseWhen("2025-03-04T05:06:07Z")
	if err != nil {
		t.Fatalf("parseWhen RFC3339 failed: %v", err)
	}
	if !got.Equal(time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)) {
		t.Errorf("Unexpected time: %v", got)
	}

	local, err := parseWhen("2025-03-04 09:30")
	if err != nil {
		t.Fatalf("parseWhen local failed: %v", err)
	}
	if want := time.Date(2025, 3, 4, 9, 30, 0, 0, time.Local); !local.Equal(want) {
		t.Errorf("Expected %v, got %v", want, local)
	}
	if local.Location() != time.UTC {
		t.Error("Expected result normalized to UTC")
	}

	if _, err := parseWhen("next tuesday"); err == nil {
		t.Error("Expected error for unrecognized time")
	}

	if p, err := parseOptionalWhen(""); err != nil || p != nil {
		t.Errorf("Expected nil for empty input, got %v, %v", p, err)
	}
}

func TestEventsURL(t *testing.T) {
	defer func(orig string) { apiAddr = orig }(apiAddr)

	tests := map[string]string{
		"http://127.0.0.1:7466":  "ws://127.0.0.1:7466/events",
		"http://127.0.0.1:7466/": "ws://127.0.0.1:7466/events",
		"https://example.com":    "wss://example.com/events",
	}
	for in, want := range tests {
		apiAddr = in
		if got := eventsURL(); got != want {
			t.Errorf("eventsURL(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestBuildUpdateRequest(t *testing.T) {
	cmd := &cobra.Command{Use: "update"}
	cmd.Flags().StringVar(&todoTitle, "title", "", "")
	cmd.Flags().StringVar(&todoDesc, "desc", "", "")
	cmd.Flags().StringVar(&todoPriority, "priority", "", "")
	cmd.Flags().StringVar(&todoDue, "due", "", "")
	cmd.Flags().StringVar(&todoRemind, "remind", "", "")
	cmd.Flags().BoolVar(&todoCompleted, "completed", false, "")
	cmd.Flags().BoolVar(&todoArchived, "archived", false, "")
	cmd.Flags().BoolVar(&todoClearDesc, "clear-desc", false, "")
	cmd.Flags().BoolVar(&todoClearDue, "clear-due", false, "")
	cmd.Flags().BoolVar(&todoClearRemind, "clear-remind", false, "")

	if err := cmd.ParseFlags([]string{"--title", "renamed", "--completed=false", "--clear-remind"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	req, err := buildUpdateRequest(cmd, "abc")
	if err != nil {
		t.Fatalf("buildUpdateRequest failed: %v", err)
	}
	if title, ok := req.Title.Get(); !ok || title != "renamed" {
		t.Errorf("Expected title set, got %+v", req.Title)
	}
	if completed, ok := req.Completed.Get(); !ok || completed {
		t.Errorf("Expected explicit completed=false, got %+v", req.Completed)
	}
	if at, ok := req.ReminderAt.Get(); !ok || at != nil {
		t.Errorf("Expected reminder cleared, got %+v", req.ReminderAt)
	}
	if req.Description.Set || req.Priority.Set || req.DueDate.Set || req.Archived.Set {
		t.Errorf("Unexpected fields set: %+v", req)
	}
}

func TestClientAgainstServer(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer st.Close()

	logger := logging.Discard()
	server := api.NewServer(api.NewService(st, audit.NewRecorder(logger)), "127.0.0.1:0")
	server.SetLogger(logger)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	defer func(orig string) { apiAddr = orig }(apiAddr)
	apiAddr = ts.URL

	var todo models.Todo
	if err := callInto("create_todo", models.CreateTodoRequest{Title: "from cli"}, &todo); err != nil {
		t.Fatalf("create_todo failed: %v", err)
	}
	if todo.Priority != models.PriorityMedium {
		t.Errorf("Expected default priority, got %s", todo.Priority)
	}

	var stats models.TodoStats
	if err := callInto("get_todo_stats", nil, &stats); err != nil {
		t.Fatalf("get_todo_stats failed: %v", err)
	}
	if stats.Pending != 1 {
		t.Errorf("Expected 1 pending, got %d", stats.Pending)
	}

	err = callInto("complete_todo", api.IDRequest{ID: "missing"}, nil)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("Expected 404 error, got %v", err)
	}

	health, err := CheckHealth()
	if err != nil || !health.OK {
		t.Errorf("Expected healthy backend, got %+v, %v", health, err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate changed short string: %s", got)
	}
	if got := truncate("a rather long todo title", 10); got != "a rathe..." {
		t.Errorf("Unexpected truncation: %s", got)
	}
	if got := truncateID("0123456789abcdef"); got != "01234567" {
		t.Errorf("Unexpected id: %s", got)
	}
}
