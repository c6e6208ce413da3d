package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhle/studyhub/internal/model"
	"github.com/nhle/studyhub/internal/store"
)

// NewTestStore opens an in-memory studyhub database with every migration
// applied and closes it when the test ends.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err, "opening test store")

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// SeedBookmarks saves bms in order and returns them as stored.
func SeedBookmarks(t *testing.T, s store.Store, bms ...model.Bookmark) []model.Bookmark {
	t.Helper()

	out := make([]model.Bookmark, 0, len(bms))
	for _, b := range bms {
		saved, err := s.AddBookmark(context.Background(), b)
		require.NoError(t, err, "seeding bookmark %s %s", b.ContentType, b.ContentID)
		out = append(out, saved)
	}
	return out
}

// SampleSnapshot has a March 2024 note liked by u1 and u2, a January blog
// and a resolved January doubt with no upvotes.
func SampleSnapshot() model.Snapshot {
	return model.Snapshot{
		Notes: []model.Note{
			{
				ID:        "n1",
				Title:     "Cell biology",
				Subject:   model.ObjectRef("s1", "Biology"),
				Author:    model.ObjectRef("u1", "Asha"),
				Tags:      model.TagsText("bio, exam"),
				Likes:     model.IDList{"u1", "u2"},
				CreatedAt: "2024-03-15T00:00:00Z",
			},
		},
		Blogs: []model.Blog{
			{
				ID:        "b1",
				Title:     "Study tips",
				Author:    model.TextRef("Ben"),
				Tags:      model.TagsList(model.NamedTag("t1", "habits")),
				CreatedAt: "2024-01-05T00:00:00Z",
			},
		},
		Doubts: []model.Doubt{
			{
				ID:         "d1",
				Question:   "What is entropy?",
				Upvotes:    model.IDList{},
				IsResolved: true,
				CreatedAt:  "2024-01-06T00:00:00Z",
			},
		},
		Forums: []model.Forum{},
	}
}
