package activity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/studyhub/internal/model"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{in: "2024-03-15T00:00:00Z", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{in: "2024-03-15T10:20:30.123Z", want: time.Date(2024, 3, 15, 10, 20, 30, 123000000, time.UTC), ok: true},
		{in: "2024-01-01T02:00:00+05:30", want: time.Date(2023, 12, 31, 20, 30, 0, 0, time.UTC), ok: true},
		{in: "2024-01-05", want: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), ok: true},
		{in: "2024-07-04T08:00:00", want: time.Date(2024, 7, 4, 8, 0, 0, 0, time.UTC), ok: true},
		{in: "", ok: false},
		{in: "yesterday", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			}
		})
	}
}

func TestMonthlyTrendsEmpty(t *testing.T) {
	buckets := MonthlyTrends(model.Snapshot{}, 2024)

	require.Len(t, buckets, 12)
	for i, b := range buckets {
		assert.Equal(t, model.MonthLabels[i], b.Month)
		assert.Zero(t, b.Total())
	}
	assert.Equal(t, "Jan", buckets[0].Month)
	assert.Equal(t, "Dec", buckets[11].Month)
}

func TestMonthlyTrendsSingleNote(t *testing.T) {
	s := model.Snapshot{
		Notes: []model.Note{{ID: "1", CreatedAt: "2024-03-15T00:00:00Z"}},
	}

	buckets := MonthlyTrends(s, 2024)
	for i, b := range buckets {
		if i == 2 {
			assert.Equal(t, model.MonthlyBucket{Month: "Mar", Notes: 1}, b)
			continue
		}
		assert.Zero(t, b.Total(), "month %s", b.Month)
	}
}

func TestMonthlyTrendsFiltersYearAndBadTimestamps(t *testing.T) {
	s := model.Snapshot{
		Notes:  []model.Note{{ID: "n1", CreatedAt: "2023-03-15T00:00:00Z"}, {ID: "n2", CreatedAt: "not a date"}},
		Blogs:  []model.Blog{{ID: "b1", CreatedAt: "2024-12-31T23:59:59Z"}, {ID: "b2", CreatedAt: "2025-01-01T00:00:00Z"}},
		Doubts: []model.Doubt{{ID: "d1", CreatedAt: "2024-06-01"}, {ID: "d2", CreatedAt: "2024-06-30T12:00:00Z"}},
		Forums: []model.Forum{{ID: "f1", CreatedAt: ""}},
	}

	buckets := MonthlyTrends(s, 2024)

	assert.Equal(t, 1, buckets[11].Blogs)
	assert.Equal(t, 2, buckets[5].Doubts)

	total := 0
	for _, b := range buckets {
		total += b.Total()
	}
	assert.Equal(t, 3, total)
}

func TestMonthlyTrendsIndependentOfInputOrder(t *testing.T) {
	a := model.Snapshot{Forums: []model.Forum{
		{ID: "1", CreatedAt: "2024-11-01"},
		{ID: "2", CreatedAt: "2024-02-01"},
	}}
	b := model.Snapshot{Forums: []model.Forum{a.Forums[1], a.Forums[0]}}

	assert.Equal(t, MonthlyTrends(a, 2024), MonthlyTrends(b, 2024))
}

func TestSplitDoubts(t *testing.T) {
	tests := []struct {
		name   string
		doubts []model.Doubt
		want   model.DoubtSplit
	}{
		{name: "nil", doubts: nil, want: model.DoubtSplit{}},
		{name: "empty", doubts: []model.Doubt{}, want: model.DoubtSplit{}},
		{
			name: "mixed",
			doubts: []model.Doubt{
				{ID: "1", IsResolved: true},
				{ID: "2", IsResolved: false},
				{ID: "3"},
				{ID: "4", IsResolved: true},
			},
			want: model.DoubtSplit{Resolved: 2, Unresolved: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitDoubts(tt.doubts)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.doubts), got.Total())
		})
	}
}

func TestRecentActivityOrderAndLimit(t *testing.T) {
	s := model.Snapshot{
		Notes:  []model.Note{{ID: "n1", Title: "Old note", CreatedAt: "2024-01-01T00:00:00Z"}},
		Blogs:  []model.Blog{{ID: "b1", Title: "Blog", CreatedAt: "2024-05-01T00:00:00Z"}},
		Doubts: []model.Doubt{{ID: "d1", Question: "Q?", CreatedAt: "2024-03-01T00:00:00Z"}},
		Forums: []model.Forum{{ID: "f1", Name: "Forum", CreatedAt: "2024-04-01T00:00:00Z"}},
	}

	items := RecentActivity(s, 3)

	require.Len(t, items, 3)
	assert.Equal(t, []string{"Blog", "Forum", "Q?"}, []string{items[0].Title, items[1].Title, items[2].Title})
	assert.Equal(t, model.ContentForum, items[1].Type)
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].Timestamp.After(items[i-1].Timestamp))
	}
}

func TestRecentActivityStableTies(t *testing.T) {
	ts := "2024-02-02T10:00:00Z"
	s := model.Snapshot{
		Notes:  []model.Note{{ID: "n1", Title: "first", CreatedAt: ts}, {ID: "n2", Title: "second", CreatedAt: ts}},
		Forums: []model.Forum{{ID: "f1", Name: "third", CreatedAt: ts}},
	}

	items := RecentActivity(s, 6)

	require.Len(t, items, 3)
	assert.Equal(t, "first", items[0].Title)
	assert.Equal(t, "second", items[1].Title)
	assert.Equal(t, "third", items[2].Title)
}

func TestRecentActivityUnparseableLast(t *testing.T) {
	s := model.Snapshot{
		Notes: []model.Note{
			{ID: "n1", Title: "broken", CreatedAt: "??"},
			{ID: "n2", Title: "dated", CreatedAt: "2020-01-01"},
		},
	}

	items := RecentActivity(s, 6)

	require.Len(t, items, 2)
	assert.Equal(t, "dated", items[0].Title)
	assert.Equal(t, "broken", items[1].Title)
	assert.True(t, items[1].Timestamp.IsZero())
}

func TestRecentActivityEdgeLimits(t *testing.T) {
	s := model.Snapshot{Notes: []model.Note{{ID: "n1", CreatedAt: "2024-01-01"}}}

	assert.Empty(t, RecentActivity(s, 0))
	assert.Empty(t, RecentActivity(s, -1))
	assert.Empty(t, RecentActivity(model.Snapshot{}, 6))
	assert.Len(t, RecentActivity(s, 6), 1)
}

func TestRecentActivityDoesNotMutateInput(t *testing.T) {
	s := model.Snapshot{
		Notes: []model.Note{
			{ID: "a", CreatedAt: "2024-01-01"},
			{ID: "b", CreatedAt: "2024-06-01"},
		},
	}

	_ = RecentActivity(s, 1)

	assert.Equal(t, "a", s.Notes[0].ID)
	assert.Equal(t, "b", s.Notes[1].ID)
}

func TestDeriveEndToEnd(t *testing.T) {
	raw := `{
		"notes": [],
		"blogs": [{"_id": "b1", "title": "Study tips", "createdAt": "2024-01-05"}],
		"doubts": [{"_id": "d1", "question": "What is entropy?", "createdAt": "2024-01-06", "isResolved": true}],
		"forums": []
	}`

	var s model.Snapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	d := Derive(s, 2024, DefaultRecentLimit)

	assert.Equal(t, model.MonthlyBucket{Month: "Jan", Notes: 0, Blogs: 1, Doubts: 1, Forums: 0}, d.Months[0])
	assert.Equal(t, model.DoubtSplit{Resolved: 1, Unresolved: 0}, d.Doubts)
	require.Len(t, d.Recent, 2)
	assert.Equal(t, model.ContentDoubt, d.Recent[0].Type)
	assert.Equal(t, "What is entropy?", d.Recent[0].Title)
	assert.Equal(t, model.ContentBlog, d.Recent[1].Type)
	assert.Equal(t, model.Totals{Blogs: 1, Doubts: 1}, d.Totals)
	assert.Equal(t, 2024, d.Year)
}

func TestSplitDoubtsTruthyFlags(t *testing.T) {
	raw := `[{"_id":"a","isResolved":"yes"},{"_id":"b","isResolved":0},{"_id":"c","isResolved":""},{"_id":"d","isResolved":1}]`

	var doubts []model.Doubt
	require.NoError(t, json.Unmarshal([]byte(raw), &doubts))

	assert.Equal(t, model.DoubtSplit{Resolved: 2, Unresolved: 2}, SplitDoubts(doubts))
}
