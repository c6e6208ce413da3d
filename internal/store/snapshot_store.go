package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nhle/studyhub/internal/model"
)

// SaveSnapshot replaces the cached snapshot.
func (s *SQLiteStore) SaveSnapshot(
	ctx context.Context,
	snap model.Snapshot,
	fetchedAt time.Time,
) error {
	data, err := json.Marshal(snap.Normalized())
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO snapshot_cache (id, data, fetched_at) VALUES (1, ?, ?)",
		string(data), fetchedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the cached snapshot and when it was fetched, or
// ErrNotFound when nothing has been cached yet.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context) (model.Snapshot, time.Time, error) {
	var row struct {
		Data      string    `db:"data"`
		FetchedAt time.Time `db:"fetched_at"`
	}
	err := s.db.GetContext(ctx, &row, "SELECT data, fetched_at FROM snapshot_cache WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return model.Snapshot{}, time.Time{}, fmt.Errorf("snapshot cache: %w", ErrNotFound)
	}
	if err != nil {
		return model.Snapshot{}, time.Time{}, fmt.Errorf("loading snapshot: %w", err)
	}

	var snap model.Snapshot
	if err := json.Unmarshal([]byte(row.Data), &snap); err != nil {
		return model.Snapshot{}, time.Time{}, fmt.Errorf("decoding cached snapshot: %w", err)
	}
	return snap.Normalized(), row.FetchedAt.UTC(), nil
}
