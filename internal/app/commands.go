package app

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/studyhub/internal/model"
	"github.com/nhle/studyhub/internal/ui/command"
)

// paletteCommands lists what the command palette offers.
var paletteCommands = []command.Command{
	{Name: "refresh", Description: "refetch content now"},
	{Name: "dashboard", Description: "monthly trends and recent activity"},
	{Name: "feed", Description: "browse all content"},
	{Name: "notes", Description: "feed filtered to notes"},
	{Name: "blogs", Description: "feed filtered to blogs"},
	{Name: "doubts", Description: "feed filtered to doubts"},
	{Name: "forums", Description: "feed filtered to forums"},
	{Name: "clear", Description: "clear feed filters"},
	{Name: "bookmarks", Description: "saved content"},
	{Name: "leaderboard", Description: "top contributors"},
	{Name: "year", Description: "chart a year, e.g. year 2023"},
	{Name: "login", Description: "sign in"},
	{Name: "logout", Description: "sign out and forget the session"},
	{Name: "quit", Description: "exit"},
}

// executeCommand handles a command string from the command palette.
func (m Model) executeCommand(cmd string) (Model, tea.Cmd) {
	if rest, ok := strings.CutPrefix(cmd, "year"); ok {
		return m.executeYear(strings.TrimSpace(rest))
	}

	switch cmd {
	case "refresh", "sync":
		return m, m.refresh()
	case "dashboard":
		return m.switchTo(ViewDashboard)
	case "feed":
		return m.switchTo(ViewFeed)
	case "notes", "blogs", "doubts", "forums":
		t, _ := model.ParseContentType(cmd)
		var switched tea.Cmd
		m, switched = m.switchTo(ViewFeed)
		return m, tea.Batch(switched, m.feed.SetTypeFilter(t))
	case "clear", "clear filters":
		return m, m.feed.ClearFilters()
	case "bookmarks":
		return m.switchTo(ViewBookmarks)
	case "leaderboard":
		return m.switchTo(ViewLeaderboard)
	case "login":
		return m.openLogin()
	case "logout":
		if err := m.conn.Logout(); err != nil {
			m.status = "Logout failed: " + err.Error()
			return m, nil
		}
		m.status = "Signed out"
		return m, m.refresh()
	case "quit", "q":
		m.poller.Stop()
		return m, tea.Quit
	default:
		m.status = fmt.Sprintf("Unknown command %q", cmd)
		return m, nil
	}
}

func (m Model) executeYear(arg string) (Model, tea.Cmd) {
	year, err := strconv.Atoi(arg)
	if err != nil || year < 1970 || year > 9999 {
		m.status = "Usage: year <yyyy>"
		return m, nil
	}
	m = m.setYear(year)
	return m.switchTo(ViewDashboard)
}
