package normalize

import "github.com/nhle/studyhub/internal/model"

// DisplayName resolves a subject or author reference to a display string.
// Absent, empty or unsupported references yield fallback. Any other
// string, including one of only spaces, is returned as is.
func DisplayName(ref model.NameRef, fallback string) string {
	var name string
	switch ref.Kind {
	case model.RefObject:
		name = ref.Name
	case model.RefText:
		name = ref.Text
	}

	if name == "" {
		return fallback
	}
	return name
}

// LeaderName returns the display name of a leaderboard entry, preferring
// its own name over the embedded user reference.
func LeaderName(e model.LeaderboardEntry) string {
	if e.Name != "" {
		return e.Name
	}
	return DisplayName(e.User, UnknownAuthor)
}
