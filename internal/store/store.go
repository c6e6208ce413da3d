package store

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/studyhub/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// BookmarkFilter controls filtering, sorting, and pagination for bookmark
// queries.
type BookmarkFilter struct {
	ContentType *model.ContentType // nil for all types
	Query       *string            // search title
	SortBy      string             // "created_at" or "title"
	SortDesc    bool
	Limit       int
	Offset      int
}

// BookmarkKey identifies bookmarked content independent of the local row.
type BookmarkKey struct {
	Type model.ContentType
	ID   string
}

// Store defines the local persistence interface: bookmarks and the last
// fetched content snapshot.
type Store interface {
	// === Bookmarks ===

	AddBookmark(ctx context.Context, b model.Bookmark) (model.Bookmark, error)
	ToggleBookmark(ctx context.Context, b model.Bookmark) (bool, error)
	DeleteBookmark(ctx context.Context, t model.ContentType, contentID string) error
	IsBookmarked(ctx context.Context, t model.ContentType, contentID string) (bool, error)
	ListBookmarks(ctx context.Context, filter BookmarkFilter) ([]model.Bookmark, error)
	BookmarkSet(ctx context.Context) (map[BookmarkKey]bool, error)

	// === Snapshot cache ===

	SaveSnapshot(ctx context.Context, s model.Snapshot, fetchedAt time.Time) error
	LoadSnapshot(ctx context.Context) (model.Snapshot, time.Time, error)

	Close() error
}
