package activity

import (
	"slices"

	"github.com/nhle/studyhub/internal/model"
)

// RecentActivity merges every record into a feed ordered newest first and
// truncated to limit. Records with equal timestamps keep their snapshot
// order (notes, blogs, doubts, forums); records whose timestamp cannot be
// parsed go last. The snapshot is not modified.
func RecentActivity(s model.Snapshot, limit int) []model.ActivityItem {
	if limit <= 0 {
		return []model.ActivityItem{}
	}

	type entry struct {
		item  model.ActivityItem
		valid bool
	}

	records := s.Records()
	entries := make([]entry, 0, len(records))
	for _, r := range records {
		t, ok := ParseTimestamp(r.RecordCreatedAt())
		entries = append(entries, entry{
			item: model.ActivityItem{
				Type:      r.RecordType(),
				ID:        r.RecordID(),
				Title:     r.RecordTitle(),
				Timestamp: t,
			},
			valid: ok,
		})
	}

	slices.SortStableFunc(entries, func(a, b entry) int {
		if a.valid != b.valid {
			if a.valid {
				return -1
			}
			return 1
		}
		return b.item.Timestamp.Compare(a.item.Timestamp)
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}

	items := make([]model.ActivityItem, len(entries))
	for i, e := range entries {
		items[i] = e.item
	}
	return items
}
