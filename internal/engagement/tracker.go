// Package engagement tracks likes and upvotes with optimistic local
// updates that are reconciled against the server's reply.
package engagement

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nhle/studyhub/internal/model"
)

var (
	// ErrUnknown is returned when toggling content that was never seeded.
	ErrUnknown = errors.New("content not loaded")
	// ErrPending is returned when a toggle is already in flight for the
	// same content.
	ErrPending = errors.New("reaction already pending")
	// ErrNotReactable is returned for content types without reactions.
	ErrNotReactable = errors.New("content type has no reactions")
)

// Key identifies reactable content.
type Key struct {
	Type model.ContentType
	ID   string
}

// State is the reaction count on a piece of content and whether the
// current user is among the reactors.
type State struct {
	Count  int
	Active bool
}

// Reactable reports whether t carries likes (notes, blogs) or upvotes
// (doubts).
func Reactable(t model.ContentType) bool {
	return t == model.ContentNote || t == model.ContentBlog || t == model.ContentDoubt
}

// Tracker holds reaction state for the loaded snapshot. It is safe for
// concurrent use.
type Tracker struct {
	mu      sync.Mutex
	states  map[Key]State
	pending map[Key]State // state before the in-flight toggle
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		states:  make(map[Key]State),
		pending: make(map[Key]State),
	}
}

// Seed replaces all state with the reactions in s as seen by userID.
// In-flight toggles are forgotten; their replies will be ignored.
func (t *Tracker) Seed(s model.Snapshot, userID string) {
	states := make(map[Key]State, len(s.Notes)+len(s.Blogs)+len(s.Doubts))
	for _, n := range s.Notes {
		states[Key{model.ContentNote, n.ID}] = stateOf(n.Likes, userID)
	}
	for _, b := range s.Blogs {
		states[Key{model.ContentBlog, b.ID}] = stateOf(b.Likes, userID)
	}
	for _, d := range s.Doubts {
		states[Key{model.ContentDoubt, d.ID}] = stateOf(d.Upvotes, userID)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.states = states
	t.pending = make(map[Key]State)
}

func stateOf(ids model.IDList, userID string) State {
	return State{
		Count:  len(ids),
		Active: userID != "" && ids.Contains(userID),
	}
}

// Get returns the current state for k.
func (t *Tracker) Get(k Key) (State, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.states[k]
	return st, ok
}

// Pending reports whether a toggle for k is awaiting the server.
func (t *Tracker) Pending(k Key) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.pending[k]
	return ok
}

// Apply optimistically flips the user's reaction on k and returns the
// new local state.
func (t *Tracker) Apply(k Key) (State, error) {
	if !Reactable(k.Type) {
		return State{}, fmt.Errorf("reacting to %s: %w", k.Type, ErrNotReactable)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.states[k]
	if !ok {
		return State{}, fmt.Errorf("reacting to %s %s: %w", k.Type, k.ID, ErrUnknown)
	}
	if _, busy := t.pending[k]; busy {
		return st, fmt.Errorf("reacting to %s %s: %w", k.Type, k.ID, ErrPending)
	}

	t.pending[k] = st
	next := State{Active: !st.Active, Count: st.Count}
	if next.Active {
		next.Count++
	} else if next.Count > 0 {
		next.Count--
	}
	t.states[k] = next
	return next, nil
}

// Reply is the server's answer to a toggle. HasCount and HasActive are
// false when the reply left that field out.
type Reply struct {
	State
	HasCount  bool
	HasActive bool
}

// Reconcile replaces the optimistic state for k with the server's.
func (t *Tracker) Reconcile(k Key, server State) State {
	return t.ReconcileReply(k, Reply{State: server, HasCount: true, HasActive: true})
}

// ReconcileReply settles the in-flight toggle for k. Fields the reply
// carries replace the optimistic values; missing ones keep them. Replies
// with no toggle in flight, such as those overtaken by a Seed, leave the
// state unchanged.
func (t *Tracker) ReconcileReply(k Key, r Reply) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := t.states[k]
	if _, busy := t.pending[k]; !busy {
		return cur
	}
	delete(t.pending, k)

	if r.HasCount {
		cur.Count = max(r.Count, 0)
	}
	if r.HasActive {
		cur.Active = r.Active
	}
	t.states[k] = cur
	return cur
}

// Rollback restores the state k had before its in-flight toggle.
func (t *Tracker) Rollback(k Key) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, ok := t.pending[k]
	if !ok {
		return t.states[k]
	}
	delete(t.pending, k)
	if _, seeded := t.states[k]; seeded {
		t.states[k] = prev
	}
	return prev
}

// Toggle applies an optimistic flip, calls the server, and reconciles or
// rolls back depending on the result.
func (t *Tracker) Toggle(
	ctx context.Context,
	k Key,
	call func(context.Context) (State, error),
) (State, error) {
	if _, err := t.Apply(k); err != nil {
		return State{}, err
	}

	server, err := call(ctx)
	if err != nil {
		return t.Rollback(k), err
	}
	return t.Reconcile(k, server), nil
}
