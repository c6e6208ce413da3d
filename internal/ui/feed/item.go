package feed

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/studyhub/internal/engagement"
	"github.com/nhle/studyhub/internal/model"
	"github.com/nhle/studyhub/internal/normalize"
	"github.com/nhle/studyhub/internal/store"
	"github.com/nhle/studyhub/internal/theme"
	"github.com/nhle/studyhub/internal/ui"
)

// maxTags is how many tags a row shows before eliding the rest.
const maxTags = 3

// Item wraps a normalized entry so it can be used in a bubbles/list.
type Item struct {
	Entry normalize.Entry
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Entry.Title }

// Marks is the per-entry state the feed decorates rows with. It is shared
// by reference between the Model and its delegate.
type Marks struct {
	Bookmarked map[store.BookmarkKey]bool
	Reactions  map[engagement.Key]engagement.State
	Pending    map[engagement.Key]bool
	Now        func() time.Time
}

func newMarks() *Marks {
	return &Marks{
		Bookmarked: make(map[store.BookmarkKey]bool),
		Reactions:  make(map[engagement.Key]engagement.State),
		Pending:    make(map[engagement.Key]bool),
		Now:        time.Now,
	}
}

func (mk *Marks) bookmarked(e normalize.Entry) bool {
	return mk.Bookmarked[store.BookmarkKey{Type: e.Type, ID: e.ID}]
}

func (mk *Marks) reaction(e normalize.Entry) (engagement.State, bool) {
	st, ok := mk.Reactions[engagement.Key{Type: e.Type, ID: e.ID}]
	return st, ok
}

// ItemDelegate implements list.ItemDelegate for rendering feed rows.
type ItemDelegate struct {
	marks *Marks
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws one feed row: a title line and a byline.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}
	e := it.Entry
	width := max(m.Width()-4, 20)

	mark := " "
	if d.marks.bookmarked(e) {
		mark = theme.BookmarkStyle.Render("★")
	}
	badge := theme.TypeLabelStyle(string(e.Type)).Render(fmt.Sprintf("%-5s", e.Type))
	reaction := d.renderReaction(e)
	age := theme.DimmedStyle.Render(ui.RelativeTime(e.CreatedAt, d.marks.Now()))

	fixed := lipgloss.Width(mark) + lipgloss.Width(badge) + lipgloss.Width(reaction) + lipgloss.Width(age) + 6
	title := ui.Truncate(e.Title, max(width-fixed, 8))

	head := fmt.Sprintf("%s %s %s  %s %s", mark, badge, title, reaction, age)
	byline := theme.DimmedStyle.Render(ui.Truncate(byline(e), width-8))

	var line string
	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(lipgloss.JoinVertical(lipgloss.Left, head, "        "+byline))
	} else {
		line = theme.ListItemStyle.Render(lipgloss.JoinVertical(lipgloss.Left, head, "        "+byline))
	}

	fmt.Fprint(w, line)
}

// renderReaction shows the like or upvote count. Entries without seeded
// state get a dash; a trailing ellipsis marks a toggle awaiting the server.
func (d ItemDelegate) renderReaction(e normalize.Entry) string {
	if !engagement.Reactable(e.Type) {
		return ""
	}
	st, ok := d.marks.reaction(e)
	if !ok {
		return theme.DimmedStyle.Render(reactionGlyph(e.Type) + " -")
	}
	text := fmt.Sprintf("%s %d", reactionGlyph(e.Type), st.Count)
	if d.marks.Pending[engagement.Key{Type: e.Type, ID: e.ID}] {
		text += "…"
	}
	return theme.ReactionStyle(st.Active).Render(text)
}

func reactionGlyph(t model.ContentType) string {
	if t == model.ContentDoubt {
		return "▲"
	}
	return "♥"
}

// byline joins subject, author and tags for the second row.
func byline(e normalize.Entry) string {
	parts := []string{e.Subject, "by " + e.Author}
	if len(e.Tags) > 0 {
		tags := e.Tags
		more := ""
		if len(tags) > maxTags {
			more = fmt.Sprintf(" +%d", len(tags)-maxTags)
			tags = tags[:maxTags]
		}
		parts = append(parts, "#"+strings.Join(tags, " #")+more)
	}
	return strings.Join(parts, " · ")
}
