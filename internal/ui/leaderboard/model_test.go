package leaderboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/studyhub/internal/model"
)

func TestLeaderboardStates(t *testing.T) {
	m := New(60, 20)
	m.SetLoading()
	assert.Contains(t, m.View(), "Loading leaderboard")
	assert.False(t, m.Loaded())

	m.SetEntries([]model.LeaderboardEntry{
		{Rank: 1, Name: "Asha", Points: 120},
		{Rank: 2, User: model.ObjectRef("u2", "Ravi"), Points: 80},
	}, nil)
	assert.True(t, m.Loaded())
	out := m.View()
	assert.Contains(t, out, "Asha")
	assert.Contains(t, out, "Ravi")
	assert.Contains(t, out, "120")

	m.SetEntries(nil, errors.New("boom"))
	assert.Contains(t, m.View(), "boom")
	assert.True(t, m.Loaded())
}

func TestLeaderboardEmpty(t *testing.T) {
	m := New(60, 20)
	m.SetEntries(nil, nil)
	assert.Contains(t, m.View(), "No contributors ranked yet.")
}
