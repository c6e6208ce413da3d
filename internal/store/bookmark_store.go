package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/studyhub/internal/model"
)

func validateBookmark(b model.Bookmark) error {
	if _, ok := model.ParseContentType(string(b.ContentType)); !ok {
		return fmt.Errorf("unknown content type %q", b.ContentType)
	}
	if strings.TrimSpace(b.ContentID) == "" {
		return fmt.Errorf("bookmark content id must not be empty")
	}
	return nil
}

// AddBookmark saves b unless the same content is already bookmarked, in
// which case the existing bookmark is returned unchanged.
func (s *SQLiteStore) AddBookmark(
	ctx context.Context,
	b model.Bookmark,
) (model.Bookmark, error) {
	if err := validateBookmark(b); err != nil {
		return model.Bookmark{}, err
	}
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookmarks (id, content_type, content_id, title, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(content_type, content_id) DO NOTHING`,
		b.ID, string(b.ContentType), b.ContentID, b.Title, b.CreatedAt.UTC(),
	)
	if err != nil {
		return model.Bookmark{}, fmt.Errorf("adding bookmark: %w", err)
	}

	return s.getBookmark(ctx, b.ContentType, b.ContentID)
}

// ToggleBookmark removes the bookmark for b's content when present and
// adds it otherwise. It returns whether the content is now bookmarked.
func (s *SQLiteStore) ToggleBookmark(
	ctx context.Context,
	b model.Bookmark,
) (bool, error) {
	if err := validateBookmark(b); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"DELETE FROM bookmarks WHERE content_type = ? AND content_id = ?",
		string(b.ContentType), b.ContentID,
	)
	if err != nil {
		return false, fmt.Errorf("toggling bookmark: %w", err)
	}
	removed, _ := result.RowsAffected()

	if removed == 0 {
		if b.ID == "" {
			b.ID = uuid.New().String()
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO bookmarks (id, content_type, content_id, title, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			b.ID, string(b.ContentType), b.ContentID, b.Title, time.Now().UTC(),
		)
		if err != nil {
			return false, fmt.Errorf("toggling bookmark: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing bookmark toggle: %w", err)
	}
	return removed == 0, nil
}

// DeleteBookmark removes the bookmark for the given content.
func (s *SQLiteStore) DeleteBookmark(
	ctx context.Context,
	t model.ContentType,
	contentID string,
) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM bookmarks WHERE content_type = ? AND content_id = ?",
		string(t), contentID,
	)
	if err != nil {
		return fmt.Errorf("deleting bookmark %s/%s: %w", t, contentID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("bookmark %s/%s: %w", t, contentID, ErrNotFound)
	}
	return nil
}

// IsBookmarked reports whether the given content is bookmarked.
func (s *SQLiteStore) IsBookmarked(
	ctx context.Context,
	t model.ContentType,
	contentID string,
) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM bookmarks WHERE content_type = ? AND content_id = ?",
		string(t), contentID,
	)
	if err != nil {
		return false, fmt.Errorf("checking bookmark %s/%s: %w", t, contentID, err)
	}
	return n > 0, nil
}

// ListBookmarks retrieves bookmarks matching filter, newest first by
// default.
func (s *SQLiteStore) ListBookmarks(
	ctx context.Context,
	filter BookmarkFilter,
) ([]model.Bookmark, error) {
	var conditions []string
	var args []any

	if filter.ContentType != nil {
		conditions = append(conditions, "content_type = ?")
		args = append(args, string(*filter.ContentType))
	}
	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions, "title LIKE ?")
		args = append(args, "%"+*filter.Query+"%")
	}

	query := "SELECT id, content_type, content_id, title, created_at FROM bookmarks"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	sortBy := "created_at"
	direction := "DESC"
	if filter.SortBy == "title" || filter.SortBy == "created_at" {
		sortBy = filter.SortBy
		direction = "ASC"
		if filter.SortDesc {
			direction = "DESC"
		}
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id ASC", sortBy, direction)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}

	bookmarks := []model.Bookmark{}
	if err := s.db.SelectContext(ctx, &bookmarks, query, args...); err != nil {
		return nil, fmt.Errorf("querying bookmarks: %w", err)
	}
	return bookmarks, nil
}

// BookmarkSet returns every bookmarked content key.
func (s *SQLiteStore) BookmarkSet(ctx context.Context) (map[BookmarkKey]bool, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT content_type, content_id FROM bookmarks")
	if err != nil {
		return nil, fmt.Errorf("querying bookmarks: %w", err)
	}
	defer rows.Close()

	set := make(map[BookmarkKey]bool)
	for rows.Next() {
		var t, id string
		if err := rows.Scan(&t, &id); err != nil {
			return nil, fmt.Errorf("scanning bookmark row: %w", err)
		}
		set[BookmarkKey{Type: model.ContentType(t), ID: id}] = true
	}
	return set, rows.Err()
}

func (s *SQLiteStore) getBookmark(
	ctx context.Context,
	t model.ContentType,
	contentID string,
) (model.Bookmark, error) {
	var b model.Bookmark
	err := s.db.GetContext(ctx, &b, `
		SELECT id, content_type, content_id, title, created_at
		FROM bookmarks WHERE content_type = ? AND content_id = ?`,
		string(t), contentID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bookmark{}, fmt.Errorf("bookmark %s/%s: %w", t, contentID, ErrNotFound)
	}
	if err != nil {
		return model.Bookmark{}, fmt.Errorf("getting bookmark %s/%s: %w", t, contentID, err)
	}
	return b, nil
}
