package leaderboard

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/studyhub/internal/model"
	"github.com/nhle/studyhub/internal/normalize"
	"github.com/nhle/studyhub/internal/theme"
	"github.com/nhle/studyhub/internal/ui"
)

// Model is the contributor leaderboard view.
type Model struct {
	table   table.Model
	entries []model.LeaderboardEntry
	loading bool
	loaded  bool
	err     error
	width   int
	height  int
}

// New creates a new leaderboard view model.
func New(width, height int) Model {
	t := table.New(
		table.WithColumns(columns(width)),
		table.WithFocused(true),
		table.WithHeight(max(height-2, 1)),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.ColorBorder).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(theme.ColorBlue).
		Bold(true)
	t.SetStyles(styles)

	return Model{
		table:  t,
		width:  width,
		height: height,
	}
}

func columns(width int) []table.Column {
	nameWidth := max(width-8-10-6, 10)
	return []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Name", Width: nameWidth},
		{Title: "Points", Width: 8},
	}
}

// SetLoading marks a fetch as in flight.
func (m *Model) SetLoading() {
	m.loading = true
}

// Loaded reports whether entries have been fetched at least once.
func (m Model) Loaded() bool {
	return m.loaded
}

// SetEntries replaces the leaderboard. A non-nil err is shown instead of
// the table and keeps any previously loaded rows.
func (m *Model) SetEntries(entries []model.LeaderboardEntry, err error) {
	m.loading = false
	m.err = err
	if err != nil {
		return
	}
	m.loaded = true
	m.entries = entries

	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{
			strconv.Itoa(e.Rank),
			normalize.LeaderName(e),
			strconv.Itoa(e.Points),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Update handles messages for the leaderboard view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the leaderboard view.
func (m Model) View() string {
	switch {
	case m.err != nil:
		return ui.Centered(m.width, m.height, "Could not load the leaderboard.\n\n"+m.err.Error(), theme.ColorRed)
	case m.loading && !m.loaded:
		return ui.Centered(m.width, m.height, "Loading leaderboard...", theme.ColorGray)
	case len(m.entries) == 0:
		return ui.Centered(m.width, m.height, "No contributors ranked yet.", theme.ColorGray)
	}

	title := theme.HeaderStyle.Render("Leaderboard")
	return lipgloss.JoinVertical(lipgloss.Left, title, m.table.View())
}

// SetSize updates the table dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetColumns(columns(width))
	m.table.SetHeight(max(height-2, 1))
}
