package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/zstar1003/Tosticker/internal/models"
)

func TestInspirationTagsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	created, err := s.CreateInspiration(ctx, models.CreateInspirationRequest{Content: "idea", Tags: []string{"a", "b", "c"}})
	if err != nil {
		t.Fatalf("CreateInspiration failed: %v", err)
	}
	if created.ID == "" {
		t.Error("Inspiration ID should not be empty")
	}

	items, err := s.ListInspirations(ctx)
	if err != nil {
		t.Fatalf("ListInspirations failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 inspiration, got %d", len(items))
	}
	if !reflect.DeepEqual(items[0].Tags, []string{"a", "b", "c"}) {
		t.Errorf("Tags did not round trip: %v", items[0].Tags)
	}
	if !items[0].CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("created_at did not round trip: %v vs %v", items[0].CreatedAt, created.CreatedAt)
	}
}

func TestInspirationNilTags(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	if _, err := s.CreateInspiration(ctx, models.CreateInspirationRequest{Content: "bare"}); err != nil {
		t.Fatalf("CreateInspiration failed: %v", err)
	}
	items, _ := s.ListInspirations(ctx)
	if items[0].Tags == nil || len(items[0].Tags) != 0 {
		t.Errorf("Expected empty tag list, got %#v", items[0].Tags)
	}
}

func TestInspirationValidation(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	_, err := s.CreateInspiration(context.Background(), models.CreateInspirationRequest{Content: " "})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Expected ErrInvalid, got %v", err)
	}
}

func TestListInspirationsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	for _, c := range []string{"first", "second", "third"} {
		if _, err := s.CreateInspiration(ctx, models.CreateInspirationRequest{Content: c}); err != nil {
			t.Fatalf("CreateInspiration failed: %v", err)
		}
	}

	items, err := s.ListInspirations(ctx)
	if err != nil {
		t.Fatalf("ListInspirations failed: %v", err)
	}
	got := []string{items[0].Content, items[1].Content, items[2].Content}
	want := []string{"third", "second", "first"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestSearchInspirations(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	ship, _ := s.CreateInspiration(ctx, models.CreateInspirationRequest{Content: "ship fast", Tags: []string{"startup", "speed"}})
	s.CreateInspiration(ctx, models.CreateInspirationRequest{Content: "read more", Tags: []string{"habits"}})

	items, err := s.SearchInspirations(ctx, "ship")
	if err != nil {
		t.Fatalf("SearchInspirations failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != ship.ID {
		t.Errorf("Expected only 'ship fast', got %+v", items)
	}

	items, _ = s.SearchInspirations(ctx, "slow")
	if len(items) != 0 {
		t.Errorf("Expected no match for 'slow', got %+v", items)
	}

	items, _ = s.SearchInspirations(ctx, "startup")
	if len(items) != 1 || items[0].ID != ship.ID {
		t.Errorf("Expected tag match, got %+v", items)
	}

	items, _ = s.SearchInspirations(ctx, "")
	if len(items) != 2 {
		t.Errorf("Empty query should match everything, got %d", len(items))
	}
}

func TestSearchInspirationsCaseSensitive(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	s.CreateInspiration(ctx, models.CreateInspirationRequest{Content: "Ship Fast"})

	if items, _ := s.SearchInspirations(ctx, "ship"); len(items) != 0 {
		t.Errorf("Expected case-sensitive miss, got %+v", items)
	}
	if items, _ := s.SearchInspirations(ctx, "Ship"); len(items) != 1 {
		t.Errorf("Expected exact-case hit, got %+v", items)
	}
}

func TestSearchInspirationsTagsWithMarkup(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	s.CreateInspiration(ctx, models.CreateInspirationRequest{Content: "html", Tags: []string{"<b>&co"}})

	items, err := s.SearchInspirations(ctx, "<b>&co")
	if err != nil {
		t.Fatalf("SearchInspirations failed: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("Expected tag with markup characters to be searchable, got %+v", items)
	}
}

func TestDeleteInspirationIdempotent(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	item, _ := s.CreateInspiration(ctx, models.CreateInspirationRequest{Content: "gone"})
	for i := 0; i < 2; i++ {
		if err := s.DeleteInspiration(ctx, item.ID); err != nil {
			t.Errorf("Delete %d failed: %v", i+1, err)
		}
	}
	items, _ := s.ListInspirations(ctx)
	if len(items) != 0 {
		t.Errorf("Expected no inspirations, got %d", len(items))
	}
}
