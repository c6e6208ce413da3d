// Package app is the root Bubble Tea model of the terminal dashboard. It
// routes messages between views and owns the connection, the refresh
// poller, the reaction tracker and the bookmark store.
package app

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/studyhub/internal/activity"
	"github.com/nhle/studyhub/internal/engagement"
	"github.com/nhle/studyhub/internal/keys"
	"github.com/nhle/studyhub/internal/logging"
	"github.com/nhle/studyhub/internal/metrics"
	"github.com/nhle/studyhub/internal/model"
	"github.com/nhle/studyhub/internal/normalize"
	"github.com/nhle/studyhub/internal/platform"
	"github.com/nhle/studyhub/internal/session"
	"github.com/nhle/studyhub/internal/store"
	studysync "github.com/nhle/studyhub/internal/sync"
	"github.com/nhle/studyhub/internal/ui"
	"github.com/nhle/studyhub/internal/ui/bookmarks"
	"github.com/nhle/studyhub/internal/ui/command"
	"github.com/nhle/studyhub/internal/ui/dashboard"
	"github.com/nhle/studyhub/internal/ui/detail"
	"github.com/nhle/studyhub/internal/ui/feed"
	helpview "github.com/nhle/studyhub/internal/ui/help"
	"github.com/nhle/studyhub/internal/ui/leaderboard"
	"github.com/nhle/studyhub/internal/ui/login"
)

// sessionExpired is shown when the platform rejects the token.
const sessionExpired = "Session expired. Press 'L' to log in again."

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewDashboard ViewState = iota
	ViewFeed
	ViewBookmarks
	ViewLeaderboard
	ViewDetail
	ViewHelp
	ViewCommand
	ViewLogin
)

// tabLabels name the main views in tab order; the index matches ViewState.
var tabLabels = []string{"Dashboard", "Feed", "Bookmarks", "Leaderboard"}

// Options supplies the dependencies of the root model.
type Options struct {
	Config   *model.AppConfig
	Logger   logging.Logger
	Metrics  *metrics.Metrics
	Store    store.Store
	Sessions *session.Store

	// NewClient builds platform clients. Defaults to platform.NewClient.
	NewClient ClientFactory

	// NewRefresher wraps the connection in a snapshot refresher. Defaults
	// to one using Config, Logger, Metrics and Store as the cache.
	NewRefresher func(studysync.Fetcher) *studysync.Refresher
}

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the platform and the local store.
type Model struct {
	currentView  ViewState
	previousView ViewState
	mainView     ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	logger       logging.Logger
	metrics      *metrics.Metrics
	store        store.Store
	conn         *conn
	poller       *studysync.Poller
	tracker      *engagement.Tracker

	year        int
	recentLimit int
	snapshot    model.Snapshot
	fetchedAt   time.Time
	cached      bool
	degraded    bool
	bookmarkSet map[store.BookmarkKey]bool

	dashboard   dashboard.Model
	feed        feed.Model
	detail      detail.Model
	bookmarks   bookmarks.Model
	leaderboard leaderboard.Model
	loginView   login.Model
	helpView    helpview.Model
	commandView command.Model

	ready            bool
	status           string
	authErrorMessage string
}

// New creates the root application model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = model.DefaultAppConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	newClient := opts.NewClient
	if newClient == nil {
		newClient = func(baseURL, token string) *platform.Client {
			return platform.NewClient(baseURL, token)
		}
	}
	newRefresher := opts.NewRefresher
	if newRefresher == nil {
		newRefresher = func(f studysync.Fetcher) *studysync.Refresher {
			return studysync.NewRefresher(f,
				studysync.WithCache(opts.Store),
				studysync.WithLogger(logger),
				studysync.WithMetrics(opts.Metrics),
				studysync.WithDashboard(cfg.Dashboard.Year, cfg.Dashboard.RecentLimit),
			)
		}
	}

	c := newConn(cfg.API.BaseURL, opts.Sessions, newClient, logger)
	refresher := newRefresher(c)
	k := keys.DefaultKeyMap()

	return Model{
		currentView: ViewDashboard,
		mainView:    ViewDashboard,
		keys:        k,
		logger:      logger,
		metrics:     opts.Metrics,
		store:       opts.Store,
		conn:        c,
		poller:      studysync.New(refresher, time.Duration(cfg.Dashboard.PollIntervalSec)*time.Second),
		tracker:     engagement.NewTracker(),
		year:        refresher.Year(),
		recentLimit: refresher.RecentLimit(),
		bookmarkSet: make(map[store.BookmarkKey]bool),
		dashboard:   dashboard.New(k, 80, 24),
		feed:        feed.New(k, 80, 24),
		detail:      detail.New(k, 80, 24),
		bookmarks:   bookmarks.New(k, 80, 24),
		leaderboard: leaderboard.New(80, 24),
		loginView:   login.New(c.BaseURL(), 80, 24),
		helpView:    helpview.New(k, paletteCommands, 80, 24),
		commandView: command.New(paletteCommands, 80, 24),
	}
}

// Init starts polling and loads the bookmarks.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.poller.Start(),
		m.loadBookmarks(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.dashboard.SetSize(w, h)
		m.feed.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.bookmarks.SetSize(w, h)
		m.leaderboard.SetSize(w, h)
		m.loginView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case studysync.DashboardMsg:
		var cmd tea.Cmd
		m, cmd = m.applySnapshot(msg)
		return m, tea.Batch(cmd, m.poller.WaitForNextResult())

	case bookmarksLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("loading bookmarks failed", logging.Err(msg.err))
			m.status = "Could not load bookmarks: " + msg.err.Error()
			return m, nil
		}
		m.bookmarkSet = msg.set
		m.feed.SetBookmarks(msg.set)
		m.refreshDetail()
		return m, m.bookmarks.SetBookmarks(msg.list)

	case bookmarkToggledMsg:
		if msg.err != nil {
			m.logger.Warn("updating bookmark failed", logging.Err(msg.err))
			m.status = "Bookmark failed: " + msg.err.Error()
			return m, nil
		}
		if msg.on {
			m.status = "Bookmarked " + ui.Truncate(msg.entry.Title, 40)
		} else {
			m.status = "Removed bookmark"
		}
		return m, m.loadBookmarks()

	case reactionResultMsg:
		return m.applyReaction(msg), nil

	case leaderboardLoadedMsg:
		m.leaderboard.SetEntries(msg.entries, msg.err)
		if platform.IsAuthError(msg.err) {
			m.authErrorMessage = sessionExpired
		}
		return m, nil

	case loginResultMsg:
		if msg.err != nil {
			m.logger.Warn("sign-in failed", logging.Err(msg.err))
			return m, m.loginView.Failed(msg.err)
		}
		m.currentView = m.mainView
		m.authErrorMessage = ""
		m.status = "Signed in as " + displayUser(msg.session)
		return m, m.refresh()

	case dashboard.YearChangedMsg:
		return m.setYear(msg.Year), nil

	case dashboard.SelectedActivityMsg:
		return m.openEntry(msg.Item.Type, msg.Item.ID), nil

	case feed.SelectedEntryMsg:
		return m.openEntry(msg.Entry.Type, msg.Entry.ID), nil

	case feed.ToggleBookmarkMsg:
		return m, m.toggleBookmark(msg.Entry)

	case feed.ReactMsg:
		return m.react(msg.Entry)

	case detail.BackMsg:
		m.currentView = m.mainView
		return m, nil

	case detail.ActionMsg:
		switch msg.Action {
		case detail.ActionBookmark:
			return m, m.toggleBookmark(msg.Entry)
		case detail.ActionReact:
			return m.react(msg.Entry)
		}
		return m, nil

	case bookmarks.OpenMsg:
		return m.openEntry(msg.Bookmark.ContentType, msg.Bookmark.ContentID), nil

	case bookmarks.RemoveMsg:
		return m, m.removeBookmark(msg.Bookmark)

	case login.SubmitMsg:
		return m, m.login(msg.Email, msg.Password)

	case login.CancelMsg:
		m.currentView = m.mainView
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(string(msg))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.poller.Stop()
			return m, tea.Quit
		}
		m.status = ""

		if m.capturingInput() {
			if msg.String() == "esc" {
				switch m.currentView {
				case ViewCommand:
					m.currentView = m.previousView
					return m, nil
				case ViewLogin:
					if !m.loginView.Pending() {
						m.currentView = m.mainView
					}
					return m, nil
				}
			}
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.isMainView() {
				m.poller.Stop()
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.Help):
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case key.Matches(msg, m.keys.Command):
			m.previousView = m.currentView
			m.currentView = ViewCommand
			return m, m.commandView.Focus()

		case key.Matches(msg, m.keys.Back):
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}

		case key.Matches(msg, m.keys.Login):
			return m.openLogin()

		case key.Matches(msg, m.keys.Refresh):
			if m.isMainView() {
				return m, m.refresh()
			}

		case key.Matches(msg, m.keys.Dashboard):
			if m.canSwitch() {
				return m.switchTo(ViewDashboard)
			}

		case key.Matches(msg, m.keys.Feed):
			if m.canSwitch() {
				return m.switchTo(ViewFeed)
			}

		case key.Matches(msg, m.keys.Bookmarks):
			if m.canSwitch() {
				return m.switchTo(ViewBookmarks)
			}

		case key.Matches(msg, m.keys.Leaderboard):
			if m.canSwitch() {
				return m.switchTo(ViewLeaderboard)
			}

		case key.Matches(msg, m.keys.NextView):
			if m.canSwitch() {
				return m.switchTo((m.mainView + 1) % ViewState(len(tabLabels)))
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ViewFeed:
		m.feed, cmd = m.feed.Update(msg)
	case ViewBookmarks:
		m.bookmarks, cmd = m.bookmarks.Update(msg)
	case ViewLeaderboard:
		m.leaderboard, cmd = m.leaderboard.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	}

	return m, cmd
}

// isMainView reports whether one of the tabbed views is showing.
func (m Model) isMainView() bool {
	return m.currentView <= ViewLeaderboard
}

// canSwitch reports whether the tab keys switch views.
func (m Model) canSwitch() bool {
	return m.isMainView() || m.currentView == ViewDetail
}

// capturingInput reports whether keys belong to a text input.
func (m Model) capturingInput() bool {
	switch m.currentView {
	case ViewCommand, ViewLogin:
		return true
	case ViewFeed:
		return m.feed.Searching()
	default:
		return false
	}
}

func (m Model) switchTo(v ViewState) (Model, tea.Cmd) {
	m.currentView = v
	m.mainView = v
	if v == ViewLeaderboard && !m.leaderboard.Loaded() {
		m.leaderboard.SetLoading()
		return m, m.loadLeaderboard()
	}
	return m, nil
}

func (m Model) openLogin() (Model, tea.Cmd) {
	if m.currentView != ViewLogin {
		m.previousView = m.currentView
	}
	m.currentView = ViewLogin
	return m, m.loginView.Start(m.conn.BaseURL())
}

// refresh asks the poller for a fetch now and reloads local state.
func (m Model) refresh() tea.Cmd {
	m.poller.Refresh()
	cmds := []tea.Cmd{m.loadBookmarks()}
	if m.currentView == ViewLeaderboard || m.leaderboard.Loaded() {
		cmds = append(cmds, m.loadLeaderboard())
	}
	return tea.Batch(cmds...)
}

// applySnapshot replaces everything derived from the content snapshot.
// Reaction state is reseeded, which discards optimistic toggles.
func (m Model) applySnapshot(msg studysync.DashboardMsg) (Model, tea.Cmd) {
	m.snapshot = msg.Snapshot
	m.fetchedAt = msg.FetchedAt
	m.cached = msg.Cached
	m.degraded = msg.Error != nil

	if msg.AuthError != nil {
		m.authErrorMessage = msg.AuthError.Message
	} else if msg.Error == nil {
		m.authErrorMessage = ""
	}

	dash := msg.Dashboard
	if dash.Year != m.year {
		dash = activity.Derive(m.snapshot, m.year, m.recentLimit)
	}
	m.dashboard.SetDashboard(dash, m.fetchedAt, m.degraded)

	m.tracker.Seed(m.snapshot, m.conn.Session().UserID)

	entries := normalize.Entries(m.snapshot, "", activity.ParseTimestamp)
	sortNewestFirst(entries)

	m.feed.ResetReactions()
	for _, e := range entries {
		k := engagement.Key{Type: e.Type, ID: e.ID}
		if st, ok := m.tracker.Get(k); ok {
			m.feed.SetReaction(k, st, false)
		}
	}
	cmd := m.feed.SetEntries(entries)
	m.refreshDetail()
	return m, cmd
}

// sortNewestFirst orders entries by creation time, newest first, keeping
// undated entries last and ties in snapshot order.
func sortNewestFirst(entries []normalize.Entry) {
	slices.SortStableFunc(entries, func(a, b normalize.Entry) int {
		switch {
		case a.CreatedAt.IsZero() != b.CreatedAt.IsZero():
			if a.CreatedAt.IsZero() {
				return 1
			}
			return -1
		default:
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	})
}

func (m Model) setYear(year int) Model {
	m.year = year
	m.dashboard.SetDashboard(
		activity.Derive(m.snapshot, year, m.recentLimit),
		m.fetchedAt,
		m.degraded,
	)
	return m
}

// openEntry shows the detail view for a record of the current snapshot.
func (m Model) openEntry(t model.ContentType, id string) Model {
	r, ok := m.snapshot.Find(t, id)
	if !ok {
		m.status = fmt.Sprintf("That %s is not in the current snapshot", t)
		return m
	}

	it := detail.FromRecord(r, normalize.FromRecord(r, activity.ParseTimestamp))
	it.Bookmarked = m.bookmarkSet[store.BookmarkKey{Type: t, ID: id}]
	if st, ok := m.tracker.Get(engagement.Key{Type: t, ID: id}); ok {
		it.Reaction = &st
	}
	m.detail.SetItem(it)
	m.currentView = ViewDetail
	return m
}

// refreshDetail re-renders the detail view's bookmark and reaction marks.
func (m *Model) refreshDetail() {
	e, ok := m.detail.Current()
	if !ok {
		return
	}
	var reaction *engagement.State
	if st, ok := m.tracker.Get(engagement.Key{Type: e.Type, ID: e.ID}); ok {
		reaction = &st
	}
	m.detail.Refresh(reaction, m.bookmarkSet[store.BookmarkKey{Type: e.Type, ID: e.ID}])
}

// react applies a like or upvote locally and sends it to the platform.
func (m Model) react(e normalize.Entry) (Model, tea.Cmd) {
	if !m.conn.Session().Valid() {
		m.status = "Log in (L) to like or upvote"
		return m, nil
	}

	k := engagement.Key{Type: e.Type, ID: e.ID}
	st, err := m.tracker.Apply(k)
	if err != nil {
		if errors.Is(err, engagement.ErrPending) {
			m.status = "Still waiting for the last reaction"
		} else {
			m.status = err.Error()
		}
		return m, nil
	}

	m.feed.SetReaction(k, st, true)
	m.refreshDetail()
	return m, m.sendReaction(k)
}

// applyReaction reconciles a toggle with the server's answer, or rolls it
// back when the call failed. A reply without a count keeps the optimistic
// state.
func (m Model) applyReaction(msg reactionResultMsg) Model {
	m.metrics.RecordReaction(msg.key.Type, msg.err == nil)

	var st engagement.State
	if msg.err != nil {
		st = m.tracker.Rollback(msg.key)
		m.logger.Warn("reaction failed",
			logging.String("type", string(msg.key.Type)),
			logging.String("id", msg.key.ID),
			logging.Err(msg.err),
		)
		if platform.IsAuthError(msg.err) {
			m.authErrorMessage = sessionExpired
		} else {
			m.status = "Reaction failed: " + msg.err.Error()
		}
	} else {
		st = m.tracker.ReconcileReply(msg.key, msg.reply)
	}

	if _, seeded := m.tracker.Get(msg.key); seeded {
		m.feed.SetReaction(msg.key, st, false)
	}
	m.refreshDetail()
	return m
}

func displayUser(s session.Session) string {
	if s.UserName != "" {
		return s.UserName
	}
	return s.UserID
}
