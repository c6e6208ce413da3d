package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{name: "zero", t: time.Time{}, want: ""},
		{name: "seconds", t: now.Add(-30 * time.Second), want: "just now"},
		{name: "future", t: now.Add(time.Hour), want: "just now"},
		{name: "minutes", t: now.Add(-5 * time.Minute), want: "5m ago"},
		{name: "hours", t: now.Add(-3 * time.Hour), want: "3h ago"},
		{name: "days", t: now.Add(-2 * 24 * time.Hour), want: "2d ago"},
		{name: "weeks", t: now.Add(-21 * 24 * time.Hour), want: "3w ago"},
		{name: "date", t: time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC), want: "Jan 05 2023"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTime(tt.t, now))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly", Truncate("exactly", 7))
	assert.Equal(t, "a long…", Truncate("a long title", 7))
	assert.Equal(t, "…", Truncate("abc", 1))
	assert.Equal(t, "", Truncate("abc", 0))
}
