package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/studyhub/internal/engagement"
	"github.com/nhle/studyhub/internal/model"
	"github.com/nhle/studyhub/internal/normalize"
	"github.com/nhle/studyhub/internal/platform"
	"github.com/nhle/studyhub/internal/session"
	"github.com/nhle/studyhub/internal/store"
)

// requestTimeout bounds every call made on behalf of a key press.
const requestTimeout = 15 * time.Second

// bookmarksLoadedMsg carries the saved bookmarks and their lookup set.
type bookmarksLoadedMsg struct {
	list []model.Bookmark
	set  map[store.BookmarkKey]bool
	err  error
}

// bookmarkToggledMsg is sent after a bookmark is added or removed.
type bookmarkToggledMsg struct {
	entry normalize.Entry
	on    bool
	err   error
}

// reactionResultMsg carries the server's answer to a like or upvote.
type reactionResultMsg struct {
	key   engagement.Key
	reply engagement.Reply
	err   error
}

// leaderboardLoadedMsg carries the fetched leaderboard.
type leaderboardLoadedMsg struct {
	entries []model.LeaderboardEntry
	err     error
}

// loginResultMsg is sent when a sign-in attempt finishes.
type loginResultMsg struct {
	session session.Session
	err     error
}

// loadBookmarks returns a command that reads every bookmark, newest first.
func (m Model) loadBookmarks() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		list, err := s.ListBookmarks(ctx, store.BookmarkFilter{SortBy: "created_at", SortDesc: true})
		if err != nil {
			return bookmarksLoadedMsg{err: err}
		}
		set := make(map[store.BookmarkKey]bool, len(list))
		for _, b := range list {
			set[store.BookmarkKey{Type: b.ContentType, ID: b.ContentID}] = true
		}
		return bookmarksLoadedMsg{list: list, set: set}
	}
}

// toggleBookmark adds e to the bookmarks or removes it.
func (m Model) toggleBookmark(e normalize.Entry) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		on, err := s.ToggleBookmark(ctx, model.Bookmark{
			ContentType: e.Type,
			ContentID:   e.ID,
			Title:       e.Title,
		})
		return bookmarkToggledMsg{entry: e, on: on, err: err}
	}
}

// removeBookmark deletes the bookmark for b's content.
func (m Model) removeBookmark(b model.Bookmark) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := s.DeleteBookmark(ctx, b.ContentType, b.ContentID)
		return bookmarkToggledMsg{
			entry: normalize.Entry{Type: b.ContentType, ID: b.ContentID, Title: b.Title},
			on:    false,
			err:   err,
		}
	}
}

// sendReaction calls the platform for a toggle already applied locally.
func (m Model) sendReaction(k engagement.Key) tea.Cmd {
	client := m.conn.current()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var (
			r   platform.Reaction
			err error
		)
		if k.Type == model.ContentDoubt {
			r, err = client.Upvote(ctx, k.ID)
		} else {
			r, err = client.ToggleLike(ctx, k.Type, k.ID)
		}
		return reactionResultMsg{
			key: k,
			reply: engagement.Reply{
				State:     engagement.State{Count: r.Count, Active: r.Active},
				HasCount:  r.HasCount,
				HasActive: r.HasActive,
			},
			err: err,
		}
	}
}

// loadLeaderboard fetches the contributor ranking.
func (m Model) loadLeaderboard() tea.Cmd {
	client := m.conn.current()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		entries, err := client.Leaderboard(ctx)
		return leaderboardLoadedMsg{entries: entries, err: err}
	}
}

// login signs in with the submitted credentials.
func (m Model) login(email, password string) tea.Cmd {
	c := m.conn
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		s, err := c.Login(ctx, email, password)
		return loginResultMsg{session: s, err: err}
	}
}
