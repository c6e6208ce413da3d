package engagement

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/studyhub/internal/model"
)

func seededTracker() *Tracker {
	tr := NewTracker()
	tr.Seed(model.Snapshot{
		Notes:  []model.Note{{ID: "n1", Likes: model.IDList{"u1", "u2"}}},
		Blogs:  []model.Blog{{ID: "b1"}},
		Doubts: []model.Doubt{{ID: "d1", Upvotes: model.IDList{"u2"}}},
		Forums: []model.Forum{{ID: "f1"}},
	}, "u1")
	return tr
}

func TestSeed(t *testing.T) {
	tr := seededTracker()

	st, ok := tr.Get(Key{model.ContentNote, "n1"})
	require.True(t, ok)
	assert.Equal(t, State{Count: 2, Active: true}, st)

	st, ok = tr.Get(Key{model.ContentDoubt, "d1"})
	require.True(t, ok)
	assert.Equal(t, State{Count: 1, Active: false}, st)

	_, ok = tr.Get(Key{model.ContentForum, "f1"})
	assert.False(t, ok)
}

func TestApplyFlipsOptimistically(t *testing.T) {
	tr := seededTracker()
	k := Key{model.ContentNote, "n1"}

	st, err := tr.Apply(k)
	require.NoError(t, err)
	assert.Equal(t, State{Count: 1, Active: false}, st)
	assert.True(t, tr.Pending(k))

	_, err = tr.Apply(k)
	assert.ErrorIs(t, err, ErrPending)
}

func TestApplyRejectsUnknownAndForums(t *testing.T) {
	tr := seededTracker()

	_, err := tr.Apply(Key{model.ContentBlog, "missing"})
	assert.ErrorIs(t, err, ErrUnknown)

	_, err = tr.Apply(Key{model.ContentForum, "f1"})
	assert.ErrorIs(t, err, ErrNotReactable)

	_, ok := tr.Get(Key{model.ContentBlog, "missing"})
	assert.False(t, ok)
}

func TestReconcileUsesServerCount(t *testing.T) {
	tr := seededTracker()
	k := Key{model.ContentBlog, "b1"}

	_, err := tr.Apply(k)
	require.NoError(t, err)

	st := tr.Reconcile(k, State{Count: 5, Active: true})

	assert.Equal(t, State{Count: 5, Active: true}, st)
	got, _ := tr.Get(k)
	assert.Equal(t, st, got)
	assert.False(t, tr.Pending(k))
}

func TestRollbackRestoresPrevious(t *testing.T) {
	tr := seededTracker()
	k := Key{model.ContentDoubt, "d1"}

	_, err := tr.Apply(k)
	require.NoError(t, err)

	st := tr.Rollback(k)

	assert.Equal(t, State{Count: 1, Active: false}, st)
	got, _ := tr.Get(k)
	assert.Equal(t, st, got)
	assert.False(t, tr.Pending(k))
}

func TestSeedDropsPendingReplies(t *testing.T) {
	tr := seededTracker()
	k := Key{model.ContentBlog, "b1"}
	_, err := tr.Apply(k)
	require.NoError(t, err)

	tr.Seed(model.Snapshot{}, "u1")
	tr.Reconcile(k, State{Count: 9, Active: true})

	_, ok := tr.Get(k)
	assert.False(t, ok)
}

func TestReconcileIgnoresReplyOvertakenBySeed(t *testing.T) {
	tr := NewTracker()
	k := Key{model.ContentNote, "n1"}
	tr.Seed(model.Snapshot{Notes: []model.Note{{ID: "n1", Likes: model.IDList{"u2"}}}}, "u1")

	_, err := tr.Apply(k)
	require.NoError(t, err)

	tr.Seed(model.Snapshot{Notes: []model.Note{{ID: "n1", Likes: model.IDList{"u2", "u3", "u4", "u5", "u6"}}}}, "u1")
	st := tr.Reconcile(k, State{Count: 2, Active: true})

	assert.Equal(t, State{Count: 5, Active: false}, st)
	got, _ := tr.Get(k)
	assert.Equal(t, State{Count: 5, Active: false}, got)
}

func TestReconcileReplyKeepsMissingFields(t *testing.T) {
	tr := NewTracker()
	k := Key{model.ContentNote, "n1"}
	tr.Seed(model.Snapshot{Notes: []model.Note{{ID: "n1", Likes: model.IDList{"u2", "u3", "u4"}}}}, "u1")

	st, err := tr.Apply(k)
	require.NoError(t, err)
	require.Equal(t, State{Count: 4, Active: true}, st)

	st = tr.ReconcileReply(k, Reply{})
	assert.Equal(t, State{Count: 4, Active: true}, st)
	assert.False(t, tr.Pending(k))

	_, err = tr.Apply(k)
	require.NoError(t, err)
	st = tr.ReconcileReply(k, Reply{State: State{Count: 7}, HasCount: true})
	assert.Equal(t, State{Count: 7, Active: false}, st, "count from the server, flag kept from the toggle")

	_, err = tr.Apply(k)
	require.NoError(t, err)
	st = tr.ReconcileReply(k, Reply{State: State{Count: -3, Active: false}, HasCount: true, HasActive: true})
	assert.Equal(t, State{Count: 0, Active: false}, st)
}

func TestToggle(t *testing.T) {
	tr := seededTracker()
	k := Key{model.ContentBlog, "b1"}

	st, err := tr.Toggle(context.Background(), k, func(context.Context) (State, error) {
		mid, _ := tr.Get(k)
		assert.Equal(t, State{Count: 1, Active: true}, mid)
		return State{Count: 3, Active: true}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, State{Count: 3, Active: true}, st)

	boom := errors.New("boom")
	st, err = tr.Toggle(context.Background(), k, func(context.Context) (State, error) {
		return State{}, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, State{Count: 3, Active: true}, st)
}

func TestConcurrentToggles(t *testing.T) {
	tr := seededTracker()
	keys := []Key{{model.ContentNote, "n1"}, {model.ContentBlog, "b1"}, {model.ContentDoubt, "d1"}}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		k := keys[i%len(keys)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := tr.Apply(k); err == nil {
				tr.Rollback(k)
			}
		}()
	}
	wg.Wait()

	st, _ := tr.Get(Key{model.ContentNote, "n1"})
	assert.Equal(t, State{Count: 2, Active: true}, st)
}
