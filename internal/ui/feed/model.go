package feed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/studyhub/internal/engagement"
	"github.com/nhle/studyhub/internal/keys"
	"github.com/nhle/studyhub/internal/model"
	"github.com/nhle/studyhub/internal/normalize"
	"github.com/nhle/studyhub/internal/store"
	"github.com/nhle/studyhub/internal/theme"
	"github.com/nhle/studyhub/internal/ui"
)

// SelectedEntryMsg is sent when the user opens an entry.
type SelectedEntryMsg struct {
	Entry normalize.Entry
}

// ToggleBookmarkMsg asks the parent to add or remove a bookmark.
type ToggleBookmarkMsg struct {
	Entry normalize.Entry
}

// ReactMsg asks the parent to toggle the user's like or upvote.
type ReactMsg struct {
	Entry normalize.Entry
}

// typeCycle defines the type filters cycled by the CycleType key. The
// empty type shows everything.
var typeCycle = []model.ContentType{
	"",
	model.ContentNote,
	model.ContentBlog,
	model.ContentDoubt,
	model.ContentForum,
}

// Model is the content feed view.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	entries     []normalize.Entry
	marks       *Marks
	typeIndex   int
	query       string
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new feed model.
func New(k *keys.KeyMap, width, height int) Model {
	marks := newMarks()
	l := list.New([]list.Item{}, ItemDelegate{marks: marks}, width, height-2)
	l.Title = "Feed"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search titles, subjects, authors, tags..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		keys:        k,
		marks:       marks,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query = strings.TrimSpace(m.searchInput.Value())
		return m, m.applyFilters()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query = ""
		return m, m.applyFilters()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		return m, m.emitSelected(func(e normalize.Entry) tea.Msg { return SelectedEntryMsg{Entry: e} })

	case key.Matches(msg, m.keys.Bookmark):
		return m, m.emitSelected(func(e normalize.Entry) tea.Msg { return ToggleBookmarkMsg{Entry: e} })

	case key.Matches(msg, m.keys.React):
		e, ok := m.SelectedEntry()
		if !ok || !engagement.Reactable(e.Type) {
			return m, nil
		}
		return m, func() tea.Msg { return ReactMsg{Entry: e} }

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleType):
		m.typeIndex = (m.typeIndex + 1) % len(typeCycle)
		return m, m.applyFilters()
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) emitSelected(build func(normalize.Entry) tea.Msg) tea.Cmd {
	e, ok := m.SelectedEntry()
	if !ok {
		return nil
	}
	return func() tea.Msg { return build(e) }
}

// SelectedEntry returns the entry under the cursor.
func (m Model) SelectedEntry() (normalize.Entry, bool) {
	it, ok := m.list.SelectedItem().(Item)
	if !ok {
		return normalize.Entry{}, false
	}
	return it.Entry, true
}

// SetEntries replaces the feed content and reapplies the active filters.
func (m *Model) SetEntries(entries []normalize.Entry) tea.Cmd {
	m.entries = entries
	return m.applyFilters()
}

// SetTypeFilter restricts the feed to one content type; the empty type
// clears the restriction.
func (m *Model) SetTypeFilter(t model.ContentType) tea.Cmd {
	for i, ct := range typeCycle {
		if ct == t {
			m.typeIndex = i
			break
		}
	}
	return m.applyFilters()
}

// ClearFilters removes the type filter and the search query.
func (m *Model) ClearFilters() tea.Cmd {
	m.typeIndex = 0
	m.query = ""
	m.searchInput.Reset()
	return m.applyFilters()
}

// SetBookmarks replaces the set of bookmarked entries.
func (m *Model) SetBookmarks(set map[store.BookmarkKey]bool) {
	if set == nil {
		set = make(map[store.BookmarkKey]bool)
	}
	m.marks.Bookmarked = set
}

// SetReaction records the reaction state shown for k.
func (m *Model) SetReaction(k engagement.Key, st engagement.State, pending bool) {
	m.marks.Reactions[k] = st
	if pending {
		m.marks.Pending[k] = true
	} else {
		delete(m.marks.Pending, k)
	}
}

// ResetReactions drops every reaction shown in the feed.
func (m *Model) ResetReactions() {
	m.marks.Reactions = make(map[engagement.Key]engagement.State)
	m.marks.Pending = make(map[engagement.Key]bool)
}

// Visible returns the entries that pass the current filters, in order.
func (m Model) Visible() []normalize.Entry {
	items := m.list.Items()
	out := make([]normalize.Entry, 0, len(items))
	for _, it := range items {
		if fi, ok := it.(Item); ok {
			out = append(out, fi.Entry)
		}
	}
	return out
}

// FilterSummary describes the active filters for the status bar.
func (m Model) FilterSummary() string {
	var parts []string
	if t := typeCycle[m.typeIndex]; t != "" {
		parts = append(parts, "type: "+string(t))
	}
	if m.query != "" {
		parts = append(parts, fmt.Sprintf("search: %q", m.query))
	}
	return strings.Join(parts, " | ")
}

func (m *Model) applyFilters() tea.Cmd {
	only := typeCycle[m.typeIndex]
	query := strings.ToLower(m.query)

	items := make([]list.Item, 0, len(m.entries))
	for _, e := range m.entries {
		if only != "" && e.Type != only {
			continue
		}
		if query != "" && !matches(e, query) {
			continue
		}
		items = append(items, Item{Entry: e})
	}

	m.list.Title = "Feed"
	if only != "" {
		m.list.Title = "Feed · " + string(only) + "s"
	}
	return m.list.SetItems(items)
}

// matches reports whether the lower-cased query occurs in the entry's
// title, subject, author or any tag.
func matches(e normalize.Entry, query string) bool {
	fields := append([]string{e.Title, e.Subject, e.Author}, e.Tags...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// View renders the feed view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when nothing is listed.
func (m Model) renderEmptyState() string {
	if m.FilterSummary() != "" {
		return ui.Centered(m.width, m.height, "No matching content.\nTry adjusting your filters.", theme.ColorGray)
	}
	return ui.Centered(m.width, m.height, "Nothing here yet.\n\nPress r to refresh.", theme.ColorGray)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.searchMode
}
