package cli_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/studyhub/internal/cli"
	"github.com/nhle/studyhub/internal/logging"
	"github.com/nhle/studyhub/internal/session"
)

const schemaDump = `{
	"notes": [{"_id":"n1","title":"Cell biology","subject":{"_id":"s1","name":"Biology"},"uploadedBy":{"_id":"u1","name":"Asha"},"tags":"bio, exam","createdAt":"2024-03-15T00:00:00Z"}],
	"blogs": [{"_id":"b1","title":"Study tips","author":"Ben","tags":[{"id":"t1","name":"habits"}],"createdAt":"2024-01-05T00:00:00Z"}],
	"doubts": [{"_id":"d1","question":"What is entropy?","askedBy":null,"isResolved":true,"createdAt":"2024-01-06T00:00:00Z"}],
	"forums": []
}`

type harness struct {
	t        *testing.T
	api      *httptest.Server
	sessions *session.Store
	config   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"token":"tok-1","user":{"_id":"u1","name":"Asha"}}`)
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"_id":"u1","name":"Asha","email":"asha@example.com"}`)
	})
	mux.HandleFunc("/api/admin/schema", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, schemaDump)
	})
	mux.HandleFunc("/api/blogs/b1/like", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"likes":["u1"],"liked":true}`)
	})
	mux.HandleFunc("/api/notes/n1/like", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"message":"Note liked"}`)
	})
	mux.HandleFunc("/api/doubts/d1/upvote", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"upvotes":0,"upvoted":false}`)
	})
	mux.HandleFunc("/api/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"_id":"u1","name":"Asha","points":42}]`)
	})
	api := httptest.NewServer(mux)
	t.Cleanup(api.Close)

	dir := t.TempDir()
	t.Setenv("STUDYHUB_STORE_PATH", filepath.Join(dir, "studyhub.db"))
	t.Setenv("STUDYHUB_API_BASE_URL", api.URL)
	t.Setenv("STUDYHUB_DASHBOARD_YEAR", "2024")

	return &harness{
		t:        t,
		api:      api,
		sessions: session.NewStore(keyring.NewArrayKeyring(nil)),
		config:   filepath.Join(dir, "config.yaml"),
	}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	root := cli.NewRootCommand(
		cli.WithSessionStore(h.sessions),
		cli.WithLogger(logging.Nop()),
	)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", h.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) login() {
	h.t.Helper()
	out, err := h.run("login", "--email", "asha@example.com", "--password", "pw")
	require.NoError(h.t, err)
	require.Contains(h.t, out, "Logged in as Asha")
}

func TestCommandsRequireLogin(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("trends")

	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestLoginWhoamiLogout(t *testing.T) {
	h := newHarness(t)
	h.login()

	s, err := h.sessions.Load()
	require.NoError(t, err)
	assert.Equal(t, h.api.URL, s.BaseURL)
	assert.Equal(t, "tok-1", s.Token)

	out, err := h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Asha <asha@example.com>")

	_, err = h.run("logout")
	require.NoError(t, err)
	_, err = h.sessions.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestTrendsActivityDoubts(t *testing.T) {
	h := newHarness(t)
	h.login()

	out, err := h.run("trends")
	require.NoError(t, err)
	assert.Contains(t, out, "Activity 2024")
	assert.Contains(t, out, "Mar")

	out, err = h.run("activity", "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Cell biology")
	assert.Contains(t, out, "What is entropy?")
	assert.NotContains(t, out, "Study tips")

	out, err = h.run("doubts")
	require.NoError(t, err)
	assert.Contains(t, out, "Resolved")
	assert.Contains(t, out, "100%")
}

func TestFeedAndBookmarks(t *testing.T) {
	h := newHarness(t)
	h.login()

	out, err := h.run("feed", "--type", "notes")
	require.NoError(t, err)
	assert.Contains(t, out, "Cell biology")
	assert.Contains(t, out, "Biology")
	assert.Contains(t, out, "bio, exam")
	assert.NotContains(t, out, "Study tips")

	out, err = h.run("bookmarks", "add", "note", "n1")
	require.NoError(t, err)
	assert.Contains(t, out, "Bookmarked note n1")

	out, err = h.run("bookmarks", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Cell biology")

	_, err = h.run("bookmarks", "remove", "note", "n1")
	require.NoError(t, err)

	out, err = h.run("bookmarks", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No bookmarks")

	_, err = h.run("bookmarks", "remove", "note", "n1")
	assert.Error(t, err)

	_, err = h.run("feed", "--type", "videos")
	assert.Error(t, err)
}

func TestReactionsAndLeaderboard(t *testing.T) {
	h := newHarness(t)
	h.login()

	out, err := h.run("like", "blog", "b1")
	require.NoError(t, err)
	assert.Contains(t, out, "Liked (1 likes)")

	out, err = h.run("like", "note", "n1")
	require.NoError(t, err)
	assert.Equal(t, "Toggled\n", out)

	_, err = h.run("like", "doubt", "d1")
	assert.Error(t, err)

	out, err = h.run("upvote", "d1")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed upvote (0 upvotes)")

	out, err = h.run("leaderboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Asha")
	assert.Contains(t, out, "42")
}
