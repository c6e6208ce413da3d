package normalize

import (
	"time"

	"github.com/nhle/studyhub/internal/model"
)

// Fallback labels for references that cannot be resolved.
const (
	UnknownAuthor  = "Anonymous"
	UnknownSubject = "General"
)

// Entry is a record reduced to display-ready text.
type Entry struct {
	Type      model.ContentType
	ID        string
	Title     string
	Subject   string
	Author    string
	Tags      []string
	CreatedAt time.Time
}

// FromRecord normalizes r. parse converts the raw createdAt value; a false
// result leaves CreatedAt zero.
func FromRecord(r model.Record, parse func(string) (time.Time, bool)) Entry {
	e := Entry{
		Type:    r.RecordType(),
		ID:      r.RecordID(),
		Title:   r.RecordTitle(),
		Subject: DisplayName(r.RecordSubject(), UnknownSubject),
		Author:  DisplayName(r.RecordAuthor(), UnknownAuthor),
		Tags:    Tags(r.RecordTags()),
	}
	if parse != nil {
		if t, ok := parse(r.RecordCreatedAt()); ok {
			e.CreatedAt = t
		}
	}
	return e
}

// Entries normalizes every record of s in snapshot order. When only is
// non-empty, records of other types are skipped.
func Entries(s model.Snapshot, only model.ContentType, parse func(string) (time.Time, bool)) []Entry {
	records := s.Records()
	out := make([]Entry, 0, len(records))
	for _, r := range records {
		if only != "" && r.RecordType() != only {
			continue
		}
		out = append(out, FromRecord(r, parse))
	}
	return out
}
