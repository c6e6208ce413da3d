// Package normalize turns the loosely typed reference fields sent by the
// platform API into canonical display values.
package normalize

import (
	"strings"

	"github.com/nhle/studyhub/internal/model"
)

// Tags returns the display tags of a field: trimmed, non-empty, in their
// original order. Duplicates are kept.
func Tags(field model.TagField) []string {
	switch field.Kind {
	case model.TagText:
		return TagsFromText(field.Text)
	case model.TagList:
		out := make([]string, 0, len(field.Elems))
		for _, e := range field.Elems {
			if e.Kind == model.TagElemOther {
				continue
			}
			if v := strings.TrimSpace(e.Value); v != "" {
				out = append(out, v)
			}
		}
		return out
	default:
		return []string{}
	}
}

// TagsFromText splits a comma-separated tag string.
func TagsFromText(s string) []string {
	out := []string{}
	if s == "" {
		return out
	}
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// JoinTags renders tags on a single line.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
