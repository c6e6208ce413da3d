package sync

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/studyhub/internal/activity"
	"github.com/nhle/studyhub/internal/logging"
	"github.com/nhle/studyhub/internal/metrics"
	"github.com/nhle/studyhub/internal/model"
	"github.com/nhle/studyhub/internal/platform"
	"github.com/nhle/studyhub/internal/store"
)

// fetchTimeout is the maximum time allowed for a single fetch operation.
const fetchTimeout = 30 * time.Second

// Fetcher loads a full content snapshot. *platform.Client implements it.
type Fetcher interface {
	Snapshot(ctx context.Context) (model.Snapshot, error)
}

// SnapshotCache persists the last good snapshot. *store.SQLiteStore
// implements it.
type SnapshotCache interface {
	SaveSnapshot(ctx context.Context, s model.Snapshot, fetchedAt time.Time) error
	LoadSnapshot(ctx context.Context) (model.Snapshot, time.Time, error)
}

// DashboardMsg is a tea.Msg carrying a fetched snapshot and the dashboard
// derived from it. When Error is set the snapshot is empty and the
// dashboard holds empty defaults.
type DashboardMsg struct {
	Snapshot  model.Snapshot
	Dashboard model.Dashboard
	FetchedAt time.Time
	Error     error
	AuthError *AuthErrorMsg
	// Cached is true when the snapshot came from the local cache rather
	// than the API.
	Cached bool
}

// AuthErrorMsg is sent when the API rejects the session token.
type AuthErrorMsg struct {
	Message string
}

// Refresher fetches snapshots and turns them into dashboards.
type Refresher struct {
	fetcher Fetcher
	cache   SnapshotCache
	logger  logging.Logger
	metrics *metrics.Metrics
	year    int
	limit   int
	now     func() time.Time
}

// RefresherOption configures a Refresher.
type RefresherOption func(*Refresher)

// WithCache stores every successful snapshot in c.
func WithCache(c SnapshotCache) RefresherOption {
	return func(r *Refresher) { r.cache = c }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) RefresherOption {
	return func(r *Refresher) { r.logger = l }
}

// WithMetrics records fetch outcomes in m.
func WithMetrics(m *metrics.Metrics) RefresherOption {
	return func(r *Refresher) { r.metrics = m }
}

// WithDashboard sets the reporting year (0 for the current year) and the
// recent-activity size.
func WithDashboard(year, recentLimit int) RefresherOption {
	return func(r *Refresher) {
		r.year = year
		r.limit = recentLimit
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) RefresherOption {
	return func(r *Refresher) { r.now = now }
}

// NewRefresher creates a Refresher around f.
func NewRefresher(f Fetcher, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		fetcher: f,
		logger:  logging.Nop(),
		limit:   activity.DefaultRecentLimit,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Year returns the reporting year in effect.
func (r *Refresher) Year() int {
	if r.year > 0 {
		return r.year
	}
	return r.now().UTC().Year()
}

// RecentLimit returns the recent-activity size in effect.
func (r *Refresher) RecentLimit() int {
	return r.limit
}

// Fetch loads a snapshot and derives the dashboard. Failures are reported
// in the message alongside empty defaults; Fetch itself never fails.
func (r *Refresher) Fetch(ctx context.Context) DashboardMsg {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	start := r.now()
	snap, err := r.fetcher.Snapshot(ctx)
	elapsed := r.now().Sub(start)

	if err != nil {
		msg := r.build(model.Snapshot{}.Normalized(), time.Time{})
		msg.Error = err

		if platform.IsAuthError(err) {
			r.metrics.RecordFetch(metrics.OutcomeAuth, elapsed, model.Snapshot{})
			r.logger.Warn("snapshot fetch rejected", logging.Err(err))
			msg.AuthError = &AuthErrorMsg{
				Message: "Session expired. Press 'L' to log in again.",
			}
			return msg
		}

		r.metrics.RecordFetch(metrics.OutcomeFailure, elapsed, model.Snapshot{})
		r.logger.Error("snapshot fetch failed",
			logging.Err(err),
			logging.Duration("elapsed", elapsed),
		)
		return msg
	}

	snap = snap.Normalized()
	fetchedAt := r.now().UTC()
	r.metrics.RecordFetch(metrics.OutcomeSuccess, elapsed, snap)
	r.logger.Info("snapshot fetched",
		logging.Int("records", snap.Len()),
		logging.Duration("elapsed", elapsed),
	)

	if r.cache != nil {
		if cacheErr := r.cache.SaveSnapshot(ctx, snap, fetchedAt); cacheErr != nil {
			r.logger.Warn("caching snapshot failed", logging.Err(cacheErr))
		}
	}

	return r.build(snap, fetchedAt)
}

// Cached returns the dashboard for the locally cached snapshot. The
// boolean is false when there is no cache or nothing has been stored.
func (r *Refresher) Cached(ctx context.Context) (DashboardMsg, bool) {
	if r.cache == nil {
		return DashboardMsg{}, false
	}

	snap, fetchedAt, err := r.cache.LoadSnapshot(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			r.logger.Warn("reading snapshot cache failed", logging.Err(err))
		}
		return DashboardMsg{}, false
	}

	msg := r.build(snap, fetchedAt)
	msg.Cached = true
	return msg, true
}

func (r *Refresher) build(s model.Snapshot, fetchedAt time.Time) DashboardMsg {
	return DashboardMsg{
		Snapshot:  s,
		Dashboard: activity.Derive(s, r.Year(), r.limit),
		FetchedAt: fetchedAt,
	}
}
