package activity

import (
	"github.com/nhle/studyhub/internal/model"
)

// DefaultRecentLimit is the feed size used by the dashboard when the
// caller does not ask for a specific one.
const DefaultRecentLimit = 6

// Derive computes every dashboard aggregate from one snapshot.
func Derive(s model.Snapshot, year, limit int) model.Dashboard {
	return model.Dashboard{
		Year:   year,
		Months: MonthlyTrends(s, year),
		Doubts: SplitDoubts(s.Doubts),
		Recent: RecentActivity(s, limit),
		Totals: CountTotals(s),
	}
}
