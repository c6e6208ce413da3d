package bookmarks

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/studyhub/internal/keys"
	"github.com/nhle/studyhub/internal/model"
	"github.com/nhle/studyhub/internal/theme"
	"github.com/nhle/studyhub/internal/ui"
)

// OpenMsg is sent when the user opens a bookmarked entry.
type OpenMsg struct {
	Bookmark model.Bookmark
}

// RemoveMsg asks the parent to delete a bookmark.
type RemoveMsg struct {
	Bookmark model.Bookmark
}

// item wraps a bookmark for the bubbles list.
type item struct {
	b model.Bookmark
}

func (i item) FilterValue() string { return i.b.Title }

type delegate struct {
	now func() time.Time
}

func (d delegate) Height() int                             { return 1 }
func (d delegate) Spacing() int                            { return 0 }
func (d delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d delegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	it, ok := li.(item)
	if !ok {
		return
	}
	b := it.b

	badge := theme.TypeLabelStyle(string(b.ContentType)).Render(fmt.Sprintf("%-5s", b.ContentType))
	saved := theme.DimmedStyle.Render("saved " + ui.RelativeTime(b.CreatedAt, d.now()))
	title := b.Title
	if title == "" {
		title = b.ContentID
	}
	title = ui.Truncate(title, max(m.Width()-30, 10))

	line := fmt.Sprintf("%s %s %s  %s", theme.BookmarkStyle.Render("★"), badge, title, saved)
	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}
	fmt.Fprint(w, line)
}

// Model is the local bookmarks view.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a new bookmarks view model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, delegate{now: time.Now}, width, height-2)
	l.Title = "Bookmarks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetBookmarks replaces the listed bookmarks.
func (m *Model) SetBookmarks(bookmarks []model.Bookmark) tea.Cmd {
	items := make([]list.Item, len(bookmarks))
	for i, b := range bookmarks {
		items[i] = item{b: b}
	}
	return m.list.SetItems(items)
}

// Len returns the number of listed bookmarks.
func (m Model) Len() int {
	return len(m.list.Items())
}

// Update handles messages for the bookmarks view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Select):
			if it, ok := m.list.SelectedItem().(item); ok {
				return m, func() tea.Msg { return OpenMsg{Bookmark: it.b} }
			}
			return m, nil

		case key.Matches(msg, m.keys.Remove), key.Matches(msg, m.keys.Bookmark):
			if it, ok := m.list.SelectedItem().(item); ok {
				return m, func() tea.Msg { return RemoveMsg{Bookmark: it.b} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the bookmarks view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return ui.Centered(m.width, m.height,
			"No bookmarks yet.\n\nPress b on a feed entry to save it.", theme.ColorGray)
	}
	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
