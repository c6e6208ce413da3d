package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/studyhub/internal/engagement"
	"github.com/nhle/studyhub/internal/keys"
	"github.com/nhle/studyhub/internal/model"
	"github.com/nhle/studyhub/internal/normalize"
	"github.com/nhle/studyhub/internal/theme"
	"github.com/nhle/studyhub/internal/ui"
)

// BackMsg signals the parent to navigate back to the previous view.
type BackMsg struct{}

// Action names carried by ActionMsg.
const (
	ActionBookmark = "bookmark"
	ActionReact    = "react"
)

// ActionMsg signals the parent to execute an action on the shown entry.
type ActionMsg struct {
	Action string
	Entry  normalize.Entry
}

// Item is everything the detail view shows about one record.
type Item struct {
	Entry      normalize.Entry
	Body       string
	Resolved   *bool
	Reaction   *engagement.State
	Bookmarked bool
}

// FromRecord builds an Item from a snapshot record.
func FromRecord(r model.Record, entry normalize.Entry) Item {
	it := Item{Entry: entry}
	switch rec := r.(type) {
	case model.Note:
		it.Body = rec.Description
	case model.Blog:
		it.Body = rec.Content
	case model.Doubt:
		it.Body = rec.Description
		resolved := rec.Resolved()
		it.Resolved = &resolved
	case model.Forum:
		it.Body = rec.Description
	}
	return it
}

// Model is the entry detail view component.
type Model struct {
	item     *Item
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Bookmark):
			return m, m.action(ActionBookmark)

		case key.Matches(msg, m.keys.React):
			if m.item != nil && engagement.Reactable(m.item.Entry.Type) {
				return m, m.action(ActionReact)
			}
			return m, nil
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) action(name string) tea.Cmd {
	if m.item == nil {
		return nil
	}
	entry := m.item.Entry
	return func() tea.Msg {
		return ActionMsg{Action: name, Entry: entry}
	}
}

// View renders the detail view.
func (m Model) View() string {
	if m.item == nil {
		return ui.Centered(m.width, m.height, "Nothing selected", theme.ColorGray)
	}
	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.item == nil {
		return ""
	}

	it := m.item
	e := it.Entry
	var sections []string

	// Title
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	title := e.Title
	if it.Bookmarked {
		title = theme.BookmarkStyle.Render("★ ") + title
	}
	sections = append(sections, titleStyle.Render(title))

	// Badges line: type + resolution + reaction
	badges := []string{theme.TypeLabelStyle(string(e.Type)).Render(strings.ToUpper(string(e.Type)))}
	if it.Resolved != nil {
		label := "UNRESOLVED"
		if *it.Resolved {
			label = "RESOLVED"
		}
		badges = append(badges, "  ", theme.ResolvedStyle(*it.Resolved).Render(label))
	}
	if it.Reaction != nil {
		noun := "likes"
		if e.Type == model.ContentDoubt {
			noun = "upvotes"
		}
		badges = append(badges, "  ", theme.ReactionStyle(it.Reaction.Active).
			Render(fmt.Sprintf("%d %s", it.Reaction.Count, noun)))
	}
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, badges...), "")

	// Metadata table
	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	row := func(label, value string) string {
		return fmt.Sprintf("%s %s", metaStyle.Render(fmt.Sprintf("%-9s", label+":")), valStyle.Render(value))
	}

	sections = append(sections, row("Subject", e.Subject), row("Author", e.Author))
	if len(e.Tags) > 0 {
		sections = append(sections, row("Tags", strings.Join(e.Tags, ", ")))
	}
	if !e.CreatedAt.IsZero() {
		sections = append(sections, row("Created", e.CreatedAt.Format("2006-01-02 15:04")))
	}
	sections = append(sections, row("ID", e.ID))

	// Separator
	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 1)))
	sections = append(sections, "", separator, "")

	body := it.Body
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description")
	} else {
		body = lipgloss.NewStyle().Width(max(m.width-4, 20)).Render(body)
	}
	sections = append(sections, body)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetItem updates the entry being displayed and scrolls to the top.
func (m *Model) SetItem(it Item) {
	m.item = &it
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Refresh updates the shown entry's marks without moving the scroll position.
func (m *Model) Refresh(reaction *engagement.State, bookmarked bool) {
	if m.item == nil {
		return
	}
	m.item.Reaction = reaction
	m.item.Bookmarked = bookmarked
	m.viewport.SetContent(m.renderContent())
}

// Current returns the entry being displayed.
func (m Model) Current() (normalize.Entry, bool) {
	if m.item == nil {
		return normalize.Entry{}, false
	}
	return m.item.Entry, true
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if m.item != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
