package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nhle/studyhub/internal/model"
)

// Login exchanges credentials for a session token via POST /api/auth/login.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var res LoginResult
	req := LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := c.Post(ctx, "/api/auth/login", req, &res); err != nil {
		return LoginResult{}, fmt.Errorf("logging in: %w", err)
	}
	if res.Token == "" {
		return LoginResult{}, fmt.Errorf("logging in: response carried no token")
	}
	return res, nil
}

// Me returns the account the current token belongs to.
func (c *Client) Me(ctx context.Context) (User, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, "/api/auth/me", &raw); err != nil {
		return User{}, fmt.Errorf("fetching current user: %w", err)
	}

	// Some deployments wrap the account as {"user": {...}}.
	var wrapped struct {
		User *User `json:"user"`
	}
	if json.Unmarshal(raw, &wrapped) == nil && wrapped.User != nil {
		return *wrapped.User, nil
	}

	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return User{}, fmt.Errorf("decoding current user: %w", err)
	}
	return u, nil
}

// SchemaDump fetches every collection in one call via GET /api/admin/schema.
// The endpoint is restricted to administrators.
func (c *Client) SchemaDump(ctx context.Context) (model.Snapshot, error) {
	var s model.Snapshot
	if err := c.Get(ctx, "/api/admin/schema", &s); err != nil {
		return model.Snapshot{}, fmt.Errorf("fetching schema dump: %w", err)
	}
	return s.Normalized(), nil
}

// Snapshot fetches all four collections. It prefers the schema dump and
// falls back to the per-collection endpoints, fetched concurrently, when
// the dump is forbidden or missing.
func (c *Client) Snapshot(ctx context.Context) (model.Snapshot, error) {
	s, err := c.SchemaDump(ctx)
	if err == nil {
		return s, nil
	}
	if !isForbiddenOrMissing(err) {
		return model.Snapshot{}, err
	}

	var out model.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Notes, err = c.ListNotes(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Blogs, err = c.ListBlogs(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Doubts, err = c.ListDoubts(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Forums, err = c.ListForums(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Snapshot{}, fmt.Errorf("fetching collections: %w", err)
	}
	return out.Normalized(), nil
}

// ListNotes fetches GET /api/notes.
func (c *Client) ListNotes(ctx context.Context) ([]model.Note, error) {
	return listCollection[model.Note](ctx, c, "notes")
}

// ListBlogs fetches GET /api/blogs.
func (c *Client) ListBlogs(ctx context.Context) ([]model.Blog, error) {
	return listCollection[model.Blog](ctx, c, "blogs")
}

// ListDoubts fetches GET /api/doubts.
func (c *Client) ListDoubts(ctx context.Context) ([]model.Doubt, error) {
	return listCollection[model.Doubt](ctx, c, "doubts")
}

// ListForums fetches GET /api/forums.
func (c *Client) ListForums(ctx context.Context) ([]model.Forum, error) {
	return listCollection[model.Forum](ctx, c, "forums")
}

func listCollection[T any](ctx context.Context, c *Client, name string) ([]T, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, "/api/"+name, &raw); err != nil {
		return nil, fmt.Errorf("listing %s: %w", name, err)
	}
	return decodeList[T](raw, name)
}

// ToggleLike likes or unlikes a note or blog and returns the server's
// resulting reaction.
func (c *Client) ToggleLike(ctx context.Context, t model.ContentType, id string) (Reaction, error) {
	var collection string
	switch t {
	case model.ContentNote:
		collection = "notes"
	case model.ContentBlog:
		collection = "blogs"
	default:
		return Reaction{}, fmt.Errorf("liking %s: only notes and blogs can be liked", t)
	}
	if id == "" {
		return Reaction{}, fmt.Errorf("liking %s: empty id", t)
	}

	var r Reaction
	path := fmt.Sprintf("/api/%s/%s/like", collection, url.PathEscape(id))
	if err := c.Post(ctx, path, nil, &r); err != nil {
		return Reaction{}, fmt.Errorf("liking %s %s: %w", t, id, err)
	}
	return r, nil
}

// Upvote toggles the caller's upvote on a doubt.
func (c *Client) Upvote(ctx context.Context, doubtID string) (Reaction, error) {
	if doubtID == "" {
		return Reaction{}, fmt.Errorf("upvoting doubt: empty id")
	}

	var r Reaction
	path := fmt.Sprintf("/api/doubts/%s/upvote", url.PathEscape(doubtID))
	if err := c.Post(ctx, path, nil, &r); err != nil {
		return Reaction{}, fmt.Errorf("upvoting doubt %s: %w", doubtID, err)
	}
	return r, nil
}

// Leaderboard fetches the ranked contributor list.
func (c *Client) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, "/api/leaderboard", &raw); err != nil {
		return nil, fmt.Errorf("fetching leaderboard: %w", err)
	}
	entries, err := decodeList[model.LeaderboardEntry](raw, "leaderboard")
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].Rank == 0 {
			entries[i].Rank = i + 1
		}
	}
	return entries, nil
}
