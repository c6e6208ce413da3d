// Package activity derives reporting aggregates from a content snapshot:
// monthly trends per content type, the doubt resolution split and the
// recent-activity feed. Every function is pure and tolerates empty input.
package activity

import (
	"strings"
	"time"
)

// timestampLayouts are the createdAt formats seen from the platform API,
// tried in order.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 createdAt value into UTC. Values
// without a zone are read as UTC. The boolean is false when s cannot be
// parsed.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}
