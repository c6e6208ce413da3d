package activity

import (
	"github.com/nhle/studyhub/internal/model"
)

// MonthlyTrends counts the records created in each month of year, per
// content type. The result always has twelve buckets labelled Jan..Dec
// in calendar order; records from other years or with unparseable
// timestamps are skipped.
func MonthlyTrends(s model.Snapshot, year int) [12]model.MonthlyBucket {
	var buckets [12]model.MonthlyBucket
	for i := range buckets {
		buckets[i].Month = model.MonthLabels[i]
	}

	for _, r := range s.Records() {
		t, ok := ParseTimestamp(r.RecordCreatedAt())
		if !ok || t.Year() != year {
			continue
		}

		b := &buckets[int(t.Month())-1]
		switch r.RecordType() {
		case model.ContentNote:
			b.Notes++
		case model.ContentBlog:
			b.Blogs++
		case model.ContentDoubt:
			b.Doubts++
		case model.ContentForum:
			b.Forums++
		}
	}

	return buckets
}

// SplitDoubts counts resolved and unresolved doubts. A doubt whose
// isResolved flag is missing or falsy is unresolved.
func SplitDoubts(doubts []model.Doubt) model.DoubtSplit {
	var split model.DoubtSplit
	for _, d := range doubts {
		if d.Resolved() {
			split.Resolved++
		} else {
			split.Unresolved++
		}
	}
	return split
}

// CountTotals counts every record per content type regardless of date.
func CountTotals(s model.Snapshot) model.Totals {
	return model.Totals{
		Notes:  len(s.Notes),
		Blogs:  len(s.Blogs),
		Doubts: len(s.Doubts),
		Forums: len(s.Forums),
	}
}
