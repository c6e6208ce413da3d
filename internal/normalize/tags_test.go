package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/studyhub/internal/model"
)

func decodeTags(t *testing.T, raw string) model.TagField {
	t.Helper()

	var f model.TagField
	require.NoError(t, json.Unmarshal([]byte(raw), &f))
	return f
}

func TestTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "null", raw: `null`, want: []string{}},
		{name: "empty list", raw: `[]`, want: []string{}},
		{name: "empty string", raw: `""`, want: []string{}},
		{name: "comma string", raw: `"a, b,,c"`, want: []string{"a", "b", "c"}},
		{name: "whitespace parts", raw: `"  ,  x ,  "`, want: []string{"x"}},
		{name: "string list", raw: `["go", " rust ", ""]`, want: []string{"go", "rust"}},
		{name: "mixed objects and strings", raw: `[{"id":"1","name":"X"}, "Y"]`, want: []string{"X", "Y"}},
		{name: "duplicates kept", raw: `["a", "a", {"_id":"9","name":"a"}]`, want: []string{"a", "a", "a"}},
		{name: "numbers and booleans coerced", raw: `[3, true, "z"]`, want: []string{"3", "true", "z"}},
		{name: "nameless and null elements dropped", raw: `[{"id":"1"}, null, {"name":7}, ["n"], "k"]`, want: []string{"k"}},
		{name: "number", raw: `42`, want: []string{}},
		{name: "boolean", raw: `true`, want: []string{}},
		{name: "object", raw: `{"name":"x"}`, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tags(decodeTags(t, tt.raw))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTagsZeroValue(t *testing.T) {
	assert.Equal(t, []string{}, Tags(model.TagField{}))
}

func TestTagsConstructed(t *testing.T) {
	field := model.TagsList(model.NamedTag("1", " Physics "), model.ScalarTag("exam"))
	assert.Equal(t, []string{"Physics", "exam"}, Tags(field))
	assert.Equal(t, []string{"a", "b"}, Tags(model.TagsText("a,b")))
}

func TestTagsIsPure(t *testing.T) {
	field := decodeTags(t, `[" a ", {"id":"2","name":"b"}]`)
	first := Tags(field)
	second := Tags(field)

	assert.Equal(t, first, second)
	assert.Equal(t, " a ", field.Elems[0].Value)
}

func TestTagsRoundTripThroughText(t *testing.T) {
	tags := Tags(decodeTags(t, `["x", " y "]`))
	assert.Equal(t, tags, TagsFromText(JoinTags(tags)))
}

func TestTagsFieldInsideRecord(t *testing.T) {
	var note model.Note
	raw := `{"_id":"n1","title":"Kinematics","tags":"physics, mechanics","createdAt":"2024-03-15T00:00:00Z"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &note))

	assert.Equal(t, []string{"physics", "mechanics"}, Tags(note.Tags))
}

func TestTagsMissingFromRecord(t *testing.T) {
	var blog model.Blog
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"b1","title":"Hello"}`), &blog))

	assert.Equal(t, []string{}, Tags(blog.Tags))
}
