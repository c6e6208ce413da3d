package app

import (
	"time"

	studysync "github.com/nhle/studyhub/internal/sync"
	"github.com/nhle/studyhub/internal/ui"
)

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.syncStatus())
	tabs := m.layout.RenderTabs(tabLabels, int(m.mainView))
	content := m.renderContent()

	var bar string
	if m.authErrorMessage != "" && m.currentView != ViewLogin {
		bar = m.layout.RenderErrorBar(m.authErrorMessage)
	} else {
		bar = m.layout.RenderStatusBar(m.keyHints())
	}

	return m.layout.RenderWithFrame(header, tabs, content, bar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDashboard:
		return m.dashboard.View()
	case ViewFeed:
		return m.feed.View()
	case ViewBookmarks:
		return m.bookmarks.View()
	case ViewLeaderboard:
		return m.leaderboard.View()
	case ViewDetail:
		return m.detail.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewLogin:
		return m.loginView.View()
	default:
		return ""
	}
}

func (m Model) headerTitle() string {
	s := m.conn.Session()
	if !s.Valid() {
		return "StudyHub · signed out"
	}
	return "StudyHub · " + displayUser(s)
}

// syncStatus returns a short string describing the refresh state.
func (m Model) syncStatus() string {
	status := m.poller.Status()
	switch {
	case status.State == studysync.SyncRunning:
		return "syncing..."
	case status.State == studysync.SyncError:
		return "⚠ offline"
	case m.fetchedAt.IsZero():
		return "idle"
	case m.cached:
		return "cached " + ui.RelativeTime(m.fetchedAt, time.Now())
	default:
		return "updated " + ui.RelativeTime(m.fetchedAt, time.Now())
	}
}

// keyHints returns keyboard shortcut hints for the status bar. A pending
// status message takes their place until the next key press.
func (m Model) keyHints() string {
	if m.status != "" {
		return m.status
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewLogin:
		return "enter next/submit | esc cancel"
	case ViewDetail:
		return "esc back | b bookmark | l like/upvote | j/k scroll"
	case ViewDashboard:
		return "q quit | ? help | [ ] year | enter open | r refresh | tab next view"
	case ViewBookmarks:
		return "enter open | d remove | r refresh | tab next view"
	case ViewLeaderboard:
		return "j/k move | r refresh | tab next view"
	default:
		if summary := m.feed.FilterSummary(); summary != "" {
			return summary + " | : clear"
		}
		return "/ search | t type | b bookmark | l like/upvote | enter open"
	}
}
