package model

import "time"

// Bookmark is a locally saved reference to a piece of platform content.
type Bookmark struct {
	ID          string      `json:"id" db:"id"`
	ContentType ContentType `json:"content_type" db:"content_type"`
	ContentID   string      `json:"content_id" db:"content_id"`
	Title       string      `json:"title" db:"title"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// LeaderboardEntry is one ranked contributor.
type LeaderboardEntry struct {
	ID     string  `json:"_id"`
	Name   string  `json:"name"`
	User   NameRef `json:"user"`
	Points int     `json:"points"`
	Rank   int     `json:"rank,omitempty"`
}
