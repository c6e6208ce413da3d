package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/nhle/studyhub/internal/logging"
	"github.com/nhle/studyhub/internal/metrics"
	"github.com/nhle/studyhub/internal/model"
	"github.com/nhle/studyhub/internal/platform"
	"github.com/nhle/studyhub/internal/session"
	"github.com/nhle/studyhub/internal/store"
	studysync "github.com/nhle/studyhub/internal/sync"
)

// Deps holds what subcommands share. Expensive pieces are opened on
// first use and released by Close.
type Deps struct {
	Config  *model.AppConfig
	Logger  logging.Logger
	Metrics *metrics.Metrics

	sessions *session.Store
	store    *store.SQLiteStore
}

// Sessions returns the session store, opening the OS keyring on first use.
func (d *Deps) Sessions() (*session.Store, error) {
	if d.sessions != nil {
		return d.sessions, nil
	}
	st, err := session.OpenStore()
	if err != nil {
		return nil, err
	}
	d.sessions = st
	return st, nil
}

// Session returns the signed-in session.
func (d *Deps) Session() (session.Session, error) {
	st, err := d.Sessions()
	if err != nil {
		return session.Session{}, err
	}
	s, err := st.Load()
	if errors.Is(err, session.ErrNoSession) {
		return session.Session{}, fmt.Errorf("%w: run `studyhub login` first", err)
	}
	return s, err
}

// NewClient builds a platform client for baseURL and token using the
// configured timeout and retry policy.
func (d *Deps) NewClient(baseURL, token string) *platform.Client {
	return platform.NewClient(baseURL, token,
		platform.WithTimeout(time.Duration(d.Config.API.TimeoutSec)*time.Second),
		platform.WithMaxRetries(d.Config.API.MaxRetries),
	)
}

// AuthedClient returns a client for the signed-in session.
func (d *Deps) AuthedClient() (*platform.Client, session.Session, error) {
	s, err := d.Session()
	if err != nil {
		return nil, session.Session{}, err
	}
	return d.NewClient(s.BaseURL, s.Token), s, nil
}

// Store opens the local database on first use.
func (d *Deps) Store() (*store.SQLiteStore, error) {
	if d.store != nil {
		return d.store, nil
	}
	st, err := store.NewSQLiteStore(d.Config.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}
	d.store = st
	return st, nil
}

// Refresher builds a snapshot refresher around f. The local snapshot
// cache is attached when the store can be opened.
func (d *Deps) Refresher(f studysync.Fetcher) *studysync.Refresher {
	opts := []studysync.RefresherOption{
		studysync.WithLogger(d.Logger),
		studysync.WithMetrics(d.Metrics),
		studysync.WithDashboard(d.Config.Dashboard.Year, d.Config.Dashboard.RecentLimit),
	}
	if st, err := d.Store(); err == nil {
		opts = append(opts, studysync.WithCache(st))
	} else {
		d.Logger.Warn("snapshot cache unavailable", logging.Err(err))
	}
	return studysync.NewRefresher(f, opts...)
}

// Close releases the store and flushes the logger.
func (d *Deps) Close() error {
	var errs []error
	if d.store != nil {
		errs = append(errs, d.store.Close())
		d.store = nil
	}
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}
	return errors.Join(errs...)
}
