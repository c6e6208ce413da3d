package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCommands = []Command{
	{Name: "refresh", Description: "refetch"},
	{Name: "feed", Description: "open feed"},
	{Name: "filter notes", Description: "only notes"},
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestMatching(t *testing.T) {
	m := New(testCommands, 80, 20)
	assert.Len(t, m.Matching(), 3)

	m = typeText(m, "f")
	names := []string{}
	for _, c := range m.Matching() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"feed", "filter notes"}, names)
}

func TestEnterEmitsNormalizedCommand(t *testing.T) {
	m := New(testCommands, 80, 20)
	m = typeText(m, " Refresh ")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, CommandMsg("refresh"), cmd())
	assert.Len(t, m.Matching(), 3, "input is cleared after submit")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}
