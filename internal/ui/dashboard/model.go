package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/studyhub/internal/keys"
	"github.com/nhle/studyhub/internal/model"
	"github.com/nhle/studyhub/internal/theme"
	"github.com/nhle/studyhub/internal/ui"
)

// YearChangedMsg asks the parent to re-derive the dashboard for Year.
type YearChangedMsg struct {
	Year int
}

// SelectedActivityMsg is sent when the user opens a recent-activity item.
type SelectedActivityMsg struct {
	Item model.ActivityItem
}

// Model is the dashboard view: monthly trends, doubt resolution and the
// recent-activity feed for one year.
type Model struct {
	keys      *keys.KeyMap
	viewport  viewport.Model
	dash      model.Dashboard
	fetchedAt time.Time
	degraded  bool
	loaded    bool
	cursor    int
	now       func() time.Time
	width     int
	height    int
}

// New creates a new dashboard view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height)
	vp.Style = lipgloss.NewStyle()

	return Model{
		keys:     k,
		viewport: vp,
		now:      time.Now,
		width:    width,
		height:   height,
	}
}

// SetDashboard replaces the displayed aggregates. degraded marks data that
// came from the empty fallback after a failed fetch.
func (m *Model) SetDashboard(d model.Dashboard, fetchedAt time.Time, degraded bool) {
	m.dash = d
	m.fetchedAt = fetchedAt
	m.degraded = degraded
	m.loaded = true
	if m.cursor >= len(d.Recent) {
		m.cursor = max(len(d.Recent)-1, 0)
	}
	m.refresh()
}

// Dashboard returns the aggregates currently shown.
func (m Model) Dashboard() model.Dashboard {
	return m.dash
}

// Year returns the charted year.
func (m Model) Year() int {
	return m.dash.Year
}

// Update handles messages for the dashboard view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.loaded {
		switch {
		case key.Matches(msg, m.keys.PrevYear):
			year := m.dash.Year - 1
			return m, func() tea.Msg { return YearChangedMsg{Year: year} }

		case key.Matches(msg, m.keys.NextYear):
			year := m.dash.Year + 1
			return m, func() tea.Msg { return YearChangedMsg{Year: year} }

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.dash.Recent)-1 {
				m.cursor++
				m.refresh()
			}
			return m, nil

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.refresh()
			}
			return m, nil

		case key.Matches(msg, m.keys.Select):
			if m.cursor < len(m.dash.Recent) {
				item := m.dash.Recent[m.cursor]
				return m, func() tea.Msg { return SelectedActivityMsg{Item: item} }
			}
			return m, nil
		}
	}

	// Delegate to viewport for page scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the dashboard.
func (m Model) View() string {
	if !m.loaded {
		return ui.Centered(m.width, m.height, "Loading dashboard...", theme.ColorGray)
	}
	return m.viewport.View()
}

// SetSize updates the dashboard dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.refresh()
}

func (m *Model) refresh() {
	if !m.loaded {
		return
	}
	m.viewport.SetContent(m.render())
}

// render builds the full dashboard content string for the viewport.
func (m Model) render() string {
	width := max(m.width-4, 20)
	now := m.now()

	var sections []string

	if m.degraded {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.ColorYellow).
			Render("⚠ Could not reach the platform; showing empty data."))
	}

	sections = append(sections,
		renderTotals(m.dash.Totals),
		theme.SectionTitleStyle.Render("Monthly activity "+yearLabel(m.dash.Year)),
		renderLegend(),
		renderTrends(m.dash.Months, width),
		"",
		theme.SectionTitleStyle.Render("Doubt resolution"),
		renderSplit(m.dash.Doubts, width),
		"",
		theme.SectionTitleStyle.Render("Recent activity"),
		renderRecent(m.dash.Recent, m.cursor, width, now),
	)

	if !m.fetchedAt.IsZero() {
		sections = append(sections, "", theme.HelpStyle.Render("updated "+ui.RelativeTime(m.fetchedAt, now)))
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}
