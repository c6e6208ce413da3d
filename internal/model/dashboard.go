package model

import "time"

// MonthLabels are the fixed bucket labels in calendar order.
var MonthLabels = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// MonthlyBucket holds per-type content counts for one calendar month.
type MonthlyBucket struct {
	Month  string `json:"month"`
	Notes  int    `json:"notes"`
	Blogs  int    `json:"blogs"`
	Doubts int    `json:"doubts"`
	Forums int    `json:"forums"`
}

// Total returns the sum of all counts in the bucket.
func (b MonthlyBucket) Total() int {
	return b.Notes + b.Blogs + b.Doubts + b.Forums
}

// Count returns the counter for one content type.
func (b MonthlyBucket) Count(t ContentType) int {
	switch t {
	case ContentNote:
		return b.Notes
	case ContentBlog:
		return b.Blogs
	case ContentDoubt:
		return b.Doubts
	case ContentForum:
		return b.Forums
	default:
		return 0
	}
}

// DoubtSplit counts doubts by resolution state.
type DoubtSplit struct {
	Resolved   int `json:"resolved"`
	Unresolved int `json:"unresolved"`
}

// Total returns Resolved + Unresolved.
func (s DoubtSplit) Total() int {
	return s.Resolved + s.Unresolved
}

// ActivityItem is one entry of the recent-activity feed.
type ActivityItem struct {
	Type      ContentType `json:"type"`
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Timestamp time.Time   `json:"timestamp"`
}

// Totals counts records per content type across all time.
type Totals struct {
	Notes  int `json:"notes"`
	Blogs  int `json:"blogs"`
	Doubts int `json:"doubts"`
	Forums int `json:"forums"`
}

// Dashboard bundles every aggregate derived from one snapshot.
type Dashboard struct {
	Year   int               `json:"year"`
	Months [12]MonthlyBucket `json:"months"`
	Doubts DoubtSplit        `json:"doubts"`
	Recent []ActivityItem    `json:"recent"`
	Totals Totals            `json:"totals"`
}
