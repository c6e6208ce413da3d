package detail

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/studyhub/internal/engagement"
	"github.com/nhle/studyhub/internal/keys"
	"github.com/nhle/studyhub/internal/model"
	"github.com/nhle/studyhub/internal/normalize"
)

func TestFromRecordPicksBody(t *testing.T) {
	doubt := model.Doubt{ID: "d1", Question: "Why?", Description: "Because.", IsResolved: true}
	it := FromRecord(doubt, normalize.FromRecord(doubt, nil))

	assert.Equal(t, "Because.", it.Body)
	require.NotNil(t, it.Resolved)
	assert.True(t, *it.Resolved)

	blog := model.Blog{ID: "b1", Content: "Long read"}
	it = FromRecord(blog, normalize.FromRecord(blog, nil))
	assert.Equal(t, "Long read", it.Body)
	assert.Nil(t, it.Resolved)
}

func TestViewRendersEntry(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 30)
	assert.Contains(t, m.View(), "Nothing selected")

	m.SetItem(Item{
		Entry: normalize.Entry{Type: model.ContentNote, ID: "n1", Title: "Cells", Subject: "Biology", Author: "Ada", Tags: []string{"bio", "cells"}},
		Body:  "Mitochondria",
	})
	out := m.View()
	assert.Contains(t, out, "Cells")
	assert.Contains(t, out, "Biology")
	assert.Contains(t, out, "bio, cells")
	assert.Contains(t, out, "Mitochondria")

	m.Refresh(&engagement.State{Count: 3, Active: true}, true)
	out = m.View()
	assert.Contains(t, out, "3 likes")
	assert.Contains(t, out, "★")
}

func TestKeysEmitActions(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 30)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	assert.Nil(t, cmd, "no action without an item")

	entry := normalize.Entry{Type: model.ContentForum, ID: "f1", Title: "Club"}
	m.SetItem(Item{Entry: entry})

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	require.NotNil(t, cmd)
	assert.Equal(t, ActionMsg{Action: ActionBookmark, Entry: entry}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	assert.Nil(t, cmd, "forums cannot be liked")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}
