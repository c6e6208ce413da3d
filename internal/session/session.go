// Package session keeps the signed-in user's API token in the OS keyring.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/99designs/keyring"
)

// ErrNoSession is returned by Load when nobody is signed in.
var ErrNoSession = errors.New("not logged in")

const sessionKey = "session"

// Session identifies the signed-in user and the API they signed in to.
type Session struct {
	BaseURL  string `json:"base_url"`
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

// Valid reports whether s carries enough to authenticate requests.
func (s Session) Valid() bool {
	return strings.TrimSpace(s.Token) != "" && strings.TrimSpace(s.BaseURL) != ""
}

// Store persists a Session in a keyring.
type Store struct {
	ring keyring.Keyring
}

// NewStore wraps an already opened keyring.
func NewStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// OpenStore opens the system keyring.
func OpenStore() (*Store, error) {
	ring, err := openKeyring()
	if err != nil {
		return nil, err
	}
	return NewStore(ring), nil
}

// Save stores s, replacing any previous session.
func (st *Store) Save(s Session) error {
	if !s.Valid() {
		return fmt.Errorf("saving session: token and base URL are required")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	err = st.ring.Set(keyring.Item{
		Key:   sessionKey,
		Data:  data,
		Label: "StudyHub session",
	})
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Load returns the stored session, or ErrNoSession.
func (st *Store) Load() (Session, error) {
	item, err := st.ring.Get(sessionKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("loading session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(item.Data, &s); err != nil {
		return Session{}, fmt.Errorf("decoding session: %w", err)
	}
	if !s.Valid() {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Delete removes the stored session. Deleting when nobody is signed in
// is not an error.
func (st *Store) Delete() error {
	err := st.ring.Remove(sessionKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
