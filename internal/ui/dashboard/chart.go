package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/studyhub/internal/model"
	"github.com/nhle/studyhub/internal/theme"
	"github.com/nhle/studyhub/internal/ui"
)

const (
	barRune    = "█"
	monthWidth = 4
	countWidth = 6
)

// scale maps n out of peak onto width cells. Non-zero counts always get at
// least one cell so small months stay visible.
func scale(n, peak, width int) int {
	if n <= 0 || peak <= 0 || width <= 0 {
		return 0
	}
	cells := n * width / peak
	if cells == 0 {
		cells = 1
	}
	return cells
}

func bar(cells int, color lipgloss.TerminalColor) string {
	if cells <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat(barRune, cells))
}

func yearLabel(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}

func renderTotals(t model.Totals) string {
	counts := []struct {
		t model.ContentType
		n int
	}{
		{model.ContentNote, t.Notes},
		{model.ContentBlog, t.Blogs},
		{model.ContentDoubt, t.Doubts},
		{model.ContentForum, t.Forums},
	}

	cards := make([]string, len(counts))
	for i, c := range counts {
		label := theme.TypeLabelStyle(string(c.t)).Render(strings.ToUpper(string(c.t)) + "S")
		cards[i] = theme.BorderStyle.
			Padding(0, 1).
			Render(lipgloss.JoinVertical(lipgloss.Center, label, strconv.Itoa(c.n)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func renderLegend() string {
	parts := make([]string, len(model.ContentTypes))
	for i, t := range model.ContentTypes {
		parts[i] = bar(1, theme.TypeColor(string(t))) + " " + string(t)
	}
	return theme.DimmedStyle.Render(strings.Join(parts, "  "))
}

// renderTrends draws one stacked horizontal bar per month, scaled so the
// busiest month fills the available width.
func renderTrends(months [12]model.MonthlyBucket, width int) string {
	barWidth := max(width-monthWidth-countWidth, 1)

	peak := 0
	for _, b := range months {
		peak = max(peak, b.Total())
	}

	lines := make([]string, len(months))
	for i, b := range months {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%-*s", monthWidth, b.Month))
		for _, t := range model.ContentTypes {
			sb.WriteString(bar(scale(b.Count(t), peak, barWidth), theme.TypeColor(string(t))))
		}
		sb.WriteString(theme.DimmedStyle.Render(fmt.Sprintf(" %d", b.Total())))
		lines[i] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// renderSplit draws resolved and unresolved doubts as one proportional bar.
func renderSplit(s model.DoubtSplit, width int) string {
	total := s.Total()
	if total == 0 {
		return theme.DimmedStyle.Render("No doubts yet.")
	}

	resolved := s.Resolved * width / total
	unresolved := width - resolved

	chart := bar(resolved, theme.ColorGreen) + bar(unresolved, theme.ColorRed)
	label := fmt.Sprintf("%s %d (%d%%)   %s %d (%d%%)",
		theme.ResolvedStyle(true).Render("Resolved"), s.Resolved, s.Resolved*100/total,
		theme.ResolvedStyle(false).Render("Unresolved"), s.Unresolved, s.Unresolved*100/total,
	)
	return lipgloss.JoinVertical(lipgloss.Left, chart, label)
}

func renderRecent(items []model.ActivityItem, cursor, width int, now time.Time) string {
	if len(items) == 0 {
		return theme.DimmedStyle.Render("No activity yet.")
	}

	lines := make([]string, len(items))
	for i, it := range items {
		badge := theme.TypeLabelStyle(string(it.Type)).Render(fmt.Sprintf("%-5s", it.Type))
		age := theme.DimmedStyle.Render(ui.RelativeTime(it.Timestamp, now))
		title := ui.Truncate(it.Title, max(width-lipgloss.Width(badge)-lipgloss.Width(age)-4, 8))

		line := fmt.Sprintf("%s %s  %s", badge, title, age)
		if i == cursor {
			line = theme.SelectedItemStyle.Render(line)
		} else {
			line = theme.ListItemStyle.Render(line)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
