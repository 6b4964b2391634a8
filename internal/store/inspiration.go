package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/zstar1003/Tosticker/internal/models"
)

const inspirationColumns = `id, content, tags, created_at`

// CreateInspiration inserts a new inspiration note.
func (s *Store) CreateInspiration(ctx context.Context, req models.CreateInspirationRequest) (*models.Inspiration, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalid)
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := encodeTags(tags)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	item := &models.Inspiration{
		ID:        uuid.New().String(),
		Content:   req.Content,
		Tags:      tags,
		CreatedAt: now,
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO inspirations (`+inspirationColumns+`) VALUES (?, ?, ?, ?)`,
		item.ID, item.Content, tagsJSON, formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert inspiration: %w", err)
	}
	return item, nil
}

// ListInspirations returns all inspirations, newest first.
func (s *Store) ListInspirations(ctx context.Context) ([]models.Inspiration, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+inspirationColumns+` FROM inspirations ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query inspirations: %w", err)
	}
	return collectInspirations(rows)
}

// SearchInspirations returns inspirations whose content or serialized tags
// contain query, compared case-sensitively. An empty query matches all.
func (s *Store) SearchInspirations(ctx context.Context, query string) ([]models.Inspiration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+inspirationColumns+` FROM inspirations
		WHERE instr(content, ?1) > 0 OR instr(tags, ?1) > 0
		ORDER BY created_at DESC`,
		query,
	)
	if err != nil {
		return nil, fmt.Errorf("search inspirations: %w", err)
	}
	return collectInspirations(rows)
}

// DeleteInspiration removes an inspiration. Deleting a missing id is not an error.
func (s *Store) DeleteInspiration(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM inspirations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete inspiration: %w", err)
	}
	return nil
}

func collectInspirations(rows *sql.Rows) ([]models.Inspiration, error) {
	defer rows.Close()

	items := []models.Inspiration{}
	for rows.Next() {
		item, err := scanInspiration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inspiration: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanInspiration(row rowScanner) (models.Inspiration, error) {
	var item models.Inspiration
	var tagsJSON, createdAt string

	if err := row.Scan(&item.ID, &item.Content, &tagsJSON, &createdAt); err != nil {
		return item, err
	}
	if err := json.Unmarshal([]byte(tagsJSON), &item.Tags); err != nil {
		return item, fmt.Errorf("decode tags: %w", err)
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	created, err := parseTime(createdAt)
	if err != nil {
		return item, fmt.Errorf("parse created_at: %w", err)
	}
	item.CreatedAt = created
	return item, nil
}

// encodeTags writes tags as a JSON array without HTML escaping so that the
// stored text contains the tags verbatim for substring search.
func encodeTags(tags []string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tags); err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
