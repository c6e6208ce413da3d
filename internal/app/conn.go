package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nhle/studyhub/internal/logging"
	"github.com/nhle/studyhub/internal/model"
	"github.com/nhle/studyhub/internal/platform"
	"github.com/nhle/studyhub/internal/session"
)

// ClientFactory builds a platform client for baseURL and token.
type ClientFactory func(baseURL, token string) *platform.Client

// conn is the live connection to the platform. Signing in or out swaps
// the client, so the poller picks up the new token on its next fetch.
type conn struct {
	mu        sync.RWMutex
	client    *platform.Client
	sess      session.Session
	sessions  *session.Store
	newClient ClientFactory
	logger    logging.Logger
}

// newConn restores the stored session when there is one; otherwise the
// client talks to baseURL without a token until the user signs in.
func newConn(baseURL string, sessions *session.Store, newClient ClientFactory, logger logging.Logger) *conn {
	c := &conn{sessions: sessions, newClient: newClient, logger: logger}

	if sessions != nil {
		s, err := sessions.Load()
		switch {
		case err == nil:
			c.sess = s
			c.client = newClient(s.BaseURL, s.Token)
			return c
		case !errors.Is(err, session.ErrNoSession):
			logger.Warn("loading session failed", logging.Err(err))
		}
	}

	c.client = newClient(baseURL, "")
	return c
}

// Snapshot implements sync.Fetcher using the current client.
func (c *conn) Snapshot(ctx context.Context) (model.Snapshot, error) {
	return c.current().Snapshot(ctx)
}

func (c *conn) current() *platform.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

// Session returns the signed-in session, which is zero when signed out.
func (c *conn) Session() session.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sess
}

// BaseURL returns the platform the connection talks to.
func (c *conn) BaseURL() string {
	return c.current().BaseURL()
}

// Login signs in and switches to the new token. The session is persisted
// when a session store is configured; failing to persist it only logs.
func (c *conn) Login(ctx context.Context, email, password string) (session.Session, error) {
	baseURL := c.BaseURL()

	res, err := c.newClient(baseURL, "").Login(ctx, email, password)
	if err != nil {
		return session.Session{}, fmt.Errorf("signing in: %w", err)
	}

	s := session.Session{
		BaseURL:  baseURL,
		Token:    res.Token,
		UserID:   res.User.ID,
		UserName: res.User.Name,
	}
	if c.sessions != nil {
		if err := c.sessions.Save(s); err != nil {
			c.logger.Warn("saving session failed", logging.Err(err))
		}
	}

	c.mu.Lock()
	c.sess = s
	c.client = c.newClient(baseURL, s.Token)
	c.mu.Unlock()

	c.logger.Info("signed in", logging.String("user_id", s.UserID))
	return s, nil
}

// Logout forgets the session and drops the token.
func (c *conn) Logout() error {
	if c.sessions != nil {
		if err := c.sessions.Delete(); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess = session.Session{}
	c.client = c.client.WithToken("")
	return nil
}
