package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/nhle/studyhub/internal/model"
	"github.com/nhle/studyhub/internal/normalize"
)

const timeLayout = "2006-01-02 15:04"

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func renderTrends(w io.Writer, year int, months [12]model.MonthlyBucket) {
	t := newTable(w)
	t.SetTitle(fmt.Sprintf("Activity %d", year))
	t.AppendHeader(table.Row{"Month", "Notes", "Blogs", "Doubts", "Forums", "Total"})

	var total model.MonthlyBucket
	for _, b := range months {
		t.AppendRow(table.Row{b.Month, b.Notes, b.Blogs, b.Doubts, b.Forums, b.Total()})
		total.Notes += b.Notes
		total.Blogs += b.Blogs
		total.Doubts += b.Doubts
		total.Forums += b.Forums
	}
	t.AppendFooter(table.Row{"Total", total.Notes, total.Blogs, total.Doubts, total.Forums, total.Total()})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	t.Render()
}

func renderActivity(w io.Writer, items []model.ActivityItem) {
	t := newTable(w)
	t.AppendHeader(table.Row{"When", "Type", "Title", "ID"})
	for _, it := range items {
		when := "unknown"
		if !it.Timestamp.IsZero() {
			when = it.Timestamp.Format(timeLayout)
		}
		t.AppendRow(table.Row{when, it.Type, truncate(it.Title, 60), it.ID})
	}
	if len(items) == 0 {
		t.AppendRow(table.Row{"-", "-", "no activity", "-"})
	}
	t.Render()
}

func renderSplit(w io.Writer, split model.DoubtSplit) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Status", "Doubts", "Share"})
	t.AppendRow(table.Row{"Resolved", split.Resolved, percent(split.Resolved, split.Total())})
	t.AppendRow(table.Row{"Unresolved", split.Unresolved, percent(split.Unresolved, split.Total())})
	t.AppendFooter(table.Row{"Total", split.Total(), ""})
	t.Render()
}

func renderFeed(w io.Writer, entries []normalize.Entry, marked func(model.ContentType, string) bool) {
	t := newTable(w)
	t.AppendHeader(table.Row{"", "Type", "Title", "Subject", "Author", "Tags", "ID"})
	for _, e := range entries {
		mark := ""
		if marked != nil && marked(e.Type, e.ID) {
			mark = "*"
		}
		t.AppendRow(table.Row{
			mark, e.Type, truncate(e.Title, 48), e.Subject, e.Author,
			truncate(normalize.JoinTags(e.Tags), 32), e.ID,
		})
	}
	t.Render()
}

func renderLeaderboard(w io.Writer, entries []model.LeaderboardEntry) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Rank", "Name", "Points"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Rank, normalize.LeaderName(e), e.Points})
	}
	t.Render()
}

func renderBookmarks(w io.Writer, bookmarks []model.Bookmark) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Saved", "Type", "Title", "Content ID"})
	for _, b := range bookmarks {
		t.AppendRow(table.Row{b.CreatedAt.Local().Format(timeLayout), b.ContentType, truncate(b.Title, 60), b.ContentID})
	}
	t.Render()
}

func percent(n, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.0f%%", float64(n)*100/float64(total))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
