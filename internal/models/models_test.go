package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPriorityRank(t *testing.T) {
	cases := map[Priority]int{
		PriorityHigh:   1,
		PriorityMedium: 2,
		PriorityLow:    3,
		"urgent":       4,
		"":             4,
	}
	for p, want := range cases {
		if got := p.Rank(); got != want {
			t.Errorf("Rank(%q) = %d, want %d", p, got, want)
		}
	}
}

func TestUpdateRequestDistinguishesAbsentFromFalse(t *testing.T) {
	var req UpdateTodoRequest
	if err := json.Unmarshal([]byte(`{"id":"x","completed":false}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !req.Completed.Set || req.Completed.Value {
		t.Errorf("expected completed set to false, got %+v", req.Completed)
	}
	if req.Archived.Set {
		t.Error("archived should be unset when absent")
	}
	if req.Title.Set {
		t.Error("title should be unset when absent")
	}
}

func TestUpdateRequestExplicitNullClears(t *testing.T) {
	var req UpdateTodoRequest
	if err := json.Unmarshal([]byte(`{"id":"x","reminder_at":null,"description":null}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !req.ReminderAt.Set || req.ReminderAt.Value != nil {
		t.Errorf("expected reminder_at set to nil, got %+v", req.ReminderAt)
	}
	if !req.Description.Set || req.Description.Value != nil {
		t.Errorf("expected description set to nil, got %+v", req.Description)
	}
	if req.DueDate.Set {
		t.Error("due_date should be unset when absent")
	}
}

func TestUpdateRequestEncodingOmitsUnset(t *testing.T) {
	req := UpdateTodoRequest{ID: "x", Title: Some("new")}
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"title":"new"`) {
		t.Errorf("missing title in %s", s)
	}
	if strings.Contains(s, "completed") || strings.Contains(s, "due_date") {
		t.Errorf("unset fields leaked into %s", s)
	}
}
