package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/studyhub/internal/model"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		fallback string
		want     string
	}{
		{name: "object with name", raw: `{"_id":"u1","name":"Asha"}`, fallback: "Anonymous", want: "Asha"},
		{name: "plain string", raw: `"Physics"`, fallback: "General", want: "Physics"},
		{name: "empty string", raw: `""`, fallback: "General", want: "General"},
		{name: "whitespace string", raw: `"   "`, fallback: "General", want: "   "},
		{name: "object with whitespace name", raw: `{"name":" "}`, fallback: "Anonymous", want: " "},
		{name: "object without name", raw: `{"_id":"u1"}`, fallback: "Anonymous", want: "Anonymous"},
		{name: "object with empty name", raw: `{"name":""}`, fallback: "Anonymous", want: "Anonymous"},
		{name: "object with numeric name", raw: `{"name":12}`, fallback: "Anonymous", want: "Anonymous"},
		{name: "null", raw: `null`, fallback: "Unknown", want: "Unknown"},
		{name: "number", raw: `7`, fallback: "Unknown", want: "Unknown"},
		{name: "list", raw: `["a"]`, fallback: "Unknown", want: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref model.NameRef
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &ref))
			assert.Equal(t, tt.want, DisplayName(ref, tt.fallback))
		})
	}
}

func TestDisplayNameZeroValue(t *testing.T) {
	assert.Equal(t, "General", DisplayName(model.NameRef{}, "General"))
	assert.Equal(t, "Chem", DisplayName(model.TextRef("Chem"), "General"))
	assert.Equal(t, "Ravi", DisplayName(model.ObjectRef("u2", "Ravi"), "Anonymous"))
}

func TestDisplayNameInsideRecord(t *testing.T) {
	var doubt model.Doubt
	raw := `{"_id":"d1","question":"Why?","subject":{"_id":"s1","name":"Maths"},"askedBy":"Kiran"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &doubt))

	assert.Equal(t, "Maths", DisplayName(doubt.Subject, "General"))
	assert.Equal(t, "Kiran", DisplayName(doubt.Author, "Anonymous"))
	assert.Equal(t, "s1", doubt.Subject.ID)
}

func TestLeaderName(t *testing.T) {
	assert.Equal(t, "Asha", LeaderName(model.LeaderboardEntry{Name: "Asha", User: model.ObjectRef("u1", "Ignored")}))
	assert.Equal(t, "Ravi", LeaderName(model.LeaderboardEntry{Name: "", User: model.ObjectRef("u2", "Ravi")}))
	assert.Equal(t, UnknownAuthor, LeaderName(model.LeaderboardEntry{}))
}
