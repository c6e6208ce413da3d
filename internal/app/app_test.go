package app

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/99designs/keyring"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/studyhub/internal/engagement"
	"github.com/nhle/studyhub/internal/metrics"
	"github.com/nhle/studyhub/internal/model"
	"github.com/nhle/studyhub/internal/normalize"
	"github.com/nhle/studyhub/internal/session"
	"github.com/nhle/studyhub/internal/store"
	studysync "github.com/nhle/studyhub/internal/sync"
	"github.com/nhle/studyhub/internal/ui/bookmarks"
	"github.com/nhle/studyhub/internal/ui/dashboard"
	"github.com/nhle/studyhub/internal/ui/feed"
	"github.com/nhle/studyhub/internal/ui/login"
	"github.com/nhle/studyhub/tests/testutil"
)

type fixture struct {
	api      *httptest.Server
	store    *store.SQLiteStore
	sessions *session.Store
	metrics  *metrics.Metrics
}

func newFixture(t *testing.T, signedIn bool) *fixture {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/notes/n1/like", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"likes":["u1"],"liked":false}`)
	})
	mux.HandleFunc("/api/blogs/b1/like", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"message":"Blog liked"}`)
	})
	mux.HandleFunc("/api/doubts/d1/upvote", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"message":"database down"}`)
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"token":"tok-2","user":{"_id":"u9","name":"Lin"}}`)
	})
	mux.HandleFunc("/api/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"_id":"u1","name":"Asha","points":42}]`)
	})
	api := httptest.NewServer(mux)
	t.Cleanup(api.Close)

	sessions := session.NewStore(keyring.NewArrayKeyring(nil))
	if signedIn {
		require.NoError(t, sessions.Save(session.Session{
			BaseURL:  api.URL,
			Token:    "tok-1",
			UserID:   "u1",
			UserName: "Asha",
		}))
	}

	return &fixture{
		api:      api,
		store:    testutil.NewTestStore(t),
		sessions: sessions,
		metrics:  metrics.New(),
	}
}

func (f *fixture) model() Model {
	cfg := model.DefaultAppConfig()
	cfg.API.BaseURL = f.api.URL
	cfg.Dashboard.Year = 2024

	m := New(Options{
		Config:   cfg,
		Metrics:  f.metrics,
		Store:    f.store,
		Sessions: f.sessions,
	})
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func seeded(t *testing.T, f *fixture) Model {
	t.Helper()
	m := f.model()
	m, _ = update(m, studysync.DashboardMsg{Snapshot: testutil.SampleSnapshot(), FetchedAt: time.Now()})
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func entry(t model.ContentType, id string) normalize.Entry {
	return normalize.Entry{Type: t, ID: id}
}

func TestApplySnapshot(t *testing.T) {
	f := newFixture(t, true)
	m := seeded(t, f)

	assert.Equal(t, 2024, m.dashboard.Year())
	assert.Equal(t, 1, m.dashboard.Dashboard().Months[2].Notes)

	var ids []string
	for _, e := range m.feed.Visible() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"n1", "d1", "b1"}, ids, "feed is newest first")

	st, ok := m.tracker.Get(engagement.Key{Type: model.ContentNote, ID: "n1"})
	require.True(t, ok)
	assert.Equal(t, engagement.State{Count: 2, Active: true}, st)
}

func TestFailedFetchShowsEmptyDefaults(t *testing.T) {
	f := newFixture(t, true)
	m := seeded(t, f)

	m, _ = update(m, studysync.DashboardMsg{
		Snapshot:  model.Snapshot{}.Normalized(),
		Error:     assert.AnError,
		AuthError: &studysync.AuthErrorMsg{Message: sessionExpired},
	})

	assert.True(t, m.degraded)
	assert.Equal(t, sessionExpired, m.authErrorMessage)
	assert.Empty(t, m.feed.Visible())
	_, ok := m.tracker.Get(engagement.Key{Type: model.ContentNote, ID: "n1"})
	assert.False(t, ok, "reseeding drops reactions for content that is gone")
	assert.Contains(t, m.View(), sessionExpired)
}

func TestReactReconcilesWithServer(t *testing.T) {
	f := newFixture(t, true)
	m := seeded(t, f)
	k := engagement.Key{Type: model.ContentNote, ID: "n1"}

	m, cmd := update(m, feed.ReactMsg{Entry: entry(model.ContentNote, "n1")})
	require.NotNil(t, cmd)

	st, _ := m.tracker.Get(k)
	assert.Equal(t, engagement.State{Count: 1, Active: false}, st, "optimistic unlike")
	assert.True(t, m.tracker.Pending(k))

	res, ok := cmd().(reactionResultMsg)
	require.True(t, ok)
	require.NoError(t, res.err)

	m, _ = update(m, res)
	st, _ = m.tracker.Get(k)
	assert.Equal(t, engagement.State{Count: 1, Active: false}, st)
	assert.False(t, m.tracker.Pending(k))
}

func TestReactKeepsOptimisticStateWhenReplyHasNoCount(t *testing.T) {
	f := newFixture(t, true)
	m := seeded(t, f)
	k := engagement.Key{Type: model.ContentBlog, ID: "b1"}

	m, cmd := update(m, feed.ReactMsg{Entry: entry(model.ContentBlog, "b1")})
	require.NotNil(t, cmd)

	res, ok := cmd().(reactionResultMsg)
	require.True(t, ok)
	require.NoError(t, res.err)
	assert.False(t, res.reply.HasCount)

	m, _ = update(m, res)
	st, _ := m.tracker.Get(k)
	assert.Equal(t, engagement.State{Count: 1, Active: true}, st)
	assert.False(t, m.tracker.Pending(k))
}

func TestReactReplyAfterRefreshKeepsFreshCounts(t *testing.T) {
	f := newFixture(t, true)
	m := seeded(t, f)
	k := engagement.Key{Type: model.ContentNote, ID: "n1"}

	m, cmd := update(m, feed.ReactMsg{Entry: entry(model.ContentNote, "n1")})
	require.NotNil(t, cmd)

	fresh := testutil.SampleSnapshot()
	fresh.Notes[0].Likes = model.IDList{"u1", "u2", "u3", "u4", "u5"}
	m, _ = update(m, studysync.DashboardMsg{Snapshot: fresh, FetchedAt: time.Now()})

	m, _ = update(m, cmd())
	st, _ := m.tracker.Get(k)
	assert.Equal(t, engagement.State{Count: 5, Active: true}, st)
}

func TestReactRollsBackOnFailure(t *testing.T) {
	f := newFixture(t, true)
	m := seeded(t, f)
	k := engagement.Key{Type: model.ContentDoubt, ID: "d1"}

	m, cmd := update(m, feed.ReactMsg{Entry: entry(model.ContentDoubt, "d1")})
	require.NotNil(t, cmd)
	st, _ := m.tracker.Get(k)
	assert.Equal(t, engagement.State{Count: 1, Active: true}, st)

	m, _ = update(m, cmd())
	st, _ = m.tracker.Get(k)
	assert.Equal(t, engagement.State{Count: 0, Active: false}, st)
	assert.Contains(t, m.status, "database down")
}

func TestReactWhilePendingIsRejected(t *testing.T) {
	f := newFixture(t, true)
	m := seeded(t, f)

	m, cmd := update(m, feed.ReactMsg{Entry: entry(model.ContentNote, "n1")})
	require.NotNil(t, cmd)

	m, cmd = update(m, feed.ReactMsg{Entry: entry(model.ContentNote, "n1")})
	assert.Nil(t, cmd)
	assert.Equal(t, "Still waiting for the last reaction", m.status)
}

func TestReactRequiresLogin(t *testing.T) {
	f := newFixture(t, false)
	m := seeded(t, f)

	m, cmd := update(m, feed.ReactMsg{Entry: entry(model.ContentNote, "n1")})
	assert.Nil(t, cmd)
	assert.Contains(t, m.status, "Log in")
	assert.Contains(t, m.View(), "signed out")
}

func TestBookmarkFlow(t *testing.T) {
	f := newFixture(t, true)
	m := seeded(t, f)

	m, cmd := update(m, feed.ToggleBookmarkMsg{Entry: normalize.Entry{Type: model.ContentBlog, ID: "b1", Title: "Study tips"}})
	require.NotNil(t, cmd)

	m, cmd = update(m, cmd())
	assert.Equal(t, "Bookmarked Study tips", m.status)
	require.NotNil(t, cmd)

	m, _ = update(m, cmd())
	assert.True(t, m.bookmarkSet[store.BookmarkKey{Type: model.ContentBlog, ID: "b1"}])
	assert.Equal(t, 1, m.bookmarks.Len())

	saved, err := f.store.ListBookmarks(t.Context(), store.BookmarkFilter{})
	require.NoError(t, err)
	require.Len(t, saved, 1)

	m, cmd = update(m, bookmarks.RemoveMsg{Bookmark: saved[0]})
	m, cmd = update(m, cmd())
	assert.Equal(t, "Removed bookmark", m.status)
	m, _ = update(m, cmd())
	assert.Empty(t, m.bookmarkSet)
	assert.Equal(t, 0, m.bookmarks.Len())
}

func TestStoredBookmarksLoadOnStart(t *testing.T) {
	f := newFixture(t, true)
	testutil.SeedBookmarks(t, f.store, model.Bookmark{ContentType: model.ContentNote, ContentID: "n1", Title: "Cell biology"})
	m := seeded(t, f)

	m, cmd := update(m, m.loadBookmarks()())
	require.NotNil(t, cmd)

	assert.True(t, m.bookmarkSet[store.BookmarkKey{Type: model.ContentNote, ID: "n1"}])
	assert.Equal(t, 1, m.bookmarks.Len())

	m, _ = update(m, feed.SelectedEntryMsg{Entry: entry(model.ContentNote, "n1")})
	assert.Contains(t, m.View(), "Cell biology")
}

func TestOpenEntryAndBack(t *testing.T) {
	f := newFixture(t, true)
	m := seeded(t, f)

	m, _ = update(m, runes("2"))
	require.Equal(t, ViewFeed, m.currentView)

	m, _ = update(m, feed.SelectedEntryMsg{Entry: entry(model.ContentDoubt, "d1")})
	assert.Equal(t, ViewDetail, m.currentView)
	assert.Contains(t, m.View(), "What is entropy?")
	assert.Contains(t, m.View(), "RESOLVED")

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	m, _ = update(m, cmd())
	assert.Equal(t, ViewFeed, m.currentView)

	m, _ = update(m, feed.SelectedEntryMsg{Entry: entry(model.ContentNote, "missing")})
	assert.Equal(t, ViewFeed, m.currentView)
	assert.Contains(t, m.status, "not in the current snapshot")
}

func TestYearChangeRederives(t *testing.T) {
	f := newFixture(t, true)
	m := seeded(t, f)

	m, _ = update(m, dashboard.YearChangedMsg{Year: 2023})
	assert.Equal(t, 2023, m.dashboard.Year())
	assert.Zero(t, m.dashboard.Dashboard().Months[2].Notes)

	m, _ = update(m, studysync.DashboardMsg{
		Snapshot:  testutil.SampleSnapshot(),
		Dashboard: model.Dashboard{Year: 2024},
	})
	assert.Equal(t, 2023, m.dashboard.Year(), "chosen year survives refreshes")
}

func TestLoginFlow(t *testing.T) {
	f := newFixture(t, false)
	m := seeded(t, f)

	m, _ = update(m, runes("L"))
	assert.Equal(t, ViewLogin, m.currentView)

	m, cmd := update(m, login.SubmitMsg{Email: "lin@example.com", Password: "pw"})
	require.NotNil(t, cmd)

	m, _ = update(m, cmd())
	assert.Equal(t, ViewDashboard, m.currentView)
	assert.Equal(t, "Signed in as Lin", m.status)

	s, err := f.sessions.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-2", s.Token)
	assert.Equal(t, f.api.URL, s.BaseURL)
	assert.Contains(t, m.View(), "StudyHub · Lin")
}

func TestLeaderboardLoadsOnFirstVisit(t *testing.T) {
	f := newFixture(t, true)
	m := seeded(t, f)

	m, cmd := update(m, runes("4"))
	assert.Equal(t, ViewLeaderboard, m.currentView)
	require.NotNil(t, cmd)

	m, _ = update(m, cmd())
	assert.Contains(t, m.View(), "Asha")

	_, cmd = update(m, runes("4"))
	assert.Nil(t, cmd, "already loaded")
}

func TestKeyNavigation(t *testing.T) {
	f := newFixture(t, true)
	m := seeded(t, f)

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ViewFeed, m.currentView)

	m, _ = update(m, runes("?"))
	assert.Equal(t, ViewHelp, m.currentView)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewFeed, m.currentView)

	m, _ = update(m, runes(":"))
	assert.Equal(t, ViewCommand, m.currentView)
	m, _ = update(m, runes("q"))
	assert.Equal(t, ViewCommand, m.currentView, "q is typed into the palette")
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewFeed, m.currentView)

	_, cmd := update(m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestPaletteCommands(t *testing.T) {
	f := newFixture(t, true)
	m := seeded(t, f)

	m, _ = m.executeCommand("doubts")
	assert.Equal(t, ViewFeed, m.currentView)
	require.Len(t, m.feed.Visible(), 1)
	assert.Equal(t, "d1", m.feed.Visible()[0].ID)

	m, _ = m.executeCommand("year 2023")
	assert.Equal(t, ViewDashboard, m.currentView)
	assert.Equal(t, 2023, m.dashboard.Year())

	m, _ = m.executeCommand("year soon")
	assert.Equal(t, "Usage: year <yyyy>", m.status)

	m, _ = m.executeCommand("bogus")
	assert.Contains(t, m.status, "Unknown command")

	m, _ = m.executeCommand("logout")
	assert.Equal(t, "Signed out", m.status)
	_, err := f.sessions.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)
	assert.False(t, m.conn.Session().Valid())
}

func TestSortNewestFirst(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	entries := []normalize.Entry{
		{ID: "undated"},
		{ID: "old", CreatedAt: day(1)},
		{ID: "new", CreatedAt: day(9)},
		{ID: "tie-a", CreatedAt: day(5)},
		{ID: "tie-b", CreatedAt: day(5)},
	}

	sortNewestFirst(entries)

	var ids []string
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"new", "tie-a", "tie-b", "old", "undated"}, ids)
}
