package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/studyhub/internal/model"
)

func TestEntries(t *testing.T) {
	raw := `{
		"notes": [{"_id":"n1","title":"Cells","subject":{"_id":"s1","name":"Biology"},"uploadedBy":"Asha","tags":"bio, exam","createdAt":"2024-03-15"}],
		"forums": [{"_id":"f1","name":"Study group","createdBy":null,"tags":[{"name":"group"}, 3]}]
	}`
	var s model.Snapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	parse := func(v string) (time.Time, bool) {
		t, err := time.Parse("2006-01-02", v)
		return t, err == nil
	}

	all := Entries(s, "", parse)
	require.Len(t, all, 2)

	assert.Equal(t, Entry{
		Type:      model.ContentNote,
		ID:        "n1",
		Title:     "Cells",
		Subject:   "Biology",
		Author:    "Asha",
		Tags:      []string{"bio", "exam"},
		CreatedAt: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}, all[0])

	assert.Equal(t, UnknownAuthor, all[1].Author)
	assert.Equal(t, UnknownSubject, all[1].Subject)
	assert.Equal(t, []string{"group", "3"}, all[1].Tags)
	assert.True(t, all[1].CreatedAt.IsZero())

	forums := Entries(s, model.ContentForum, nil)
	require.Len(t, forums, 1)
	assert.Equal(t, "Study group", forums[0].Title)
}
