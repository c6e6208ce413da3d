package platform

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nhle/studyhub/internal/model"
)

// ErrorResponse is the error envelope the API returns on failure.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the account returned by the auth endpoints.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// LoginResult is the response of POST /api/auth/login.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Reaction is the server's view of a like or upvote after a toggle.
// HasCount and HasActive report whether the reply carried each field;
// some endpoints answer with only a message.
type Reaction struct {
	Count     int  `json:"count"`
	Active    bool `json:"active"`
	HasCount  bool `json:"-"`
	HasActive bool `json:"-"`
}

// UnmarshalJSON accepts the shapes the like and upvote endpoints return:
// the count may be a number or the list of reacting users, under
// "count", "likes" or "upvotes"; the state under "active", "liked" or
// "upvoted".
func (r *Reaction) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decoding reaction: %w", err)
	}

	*r = Reaction{}
	for _, key := range []string{"count", "likes", "upvotes"} {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		if n, ok := reactionCount(raw); ok {
			r.Count = n
			r.HasCount = true
			break
		}
	}
	for _, key := range []string{"active", "liked", "upvoted"} {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var b bool
		if json.Unmarshal(raw, &b) == nil {
			r.Active = b
			r.HasActive = true
			break
		}
	}
	return nil
}

func reactionCount(raw json.RawMessage) (int, bool) {
	var n int
	if json.Unmarshal(raw, &n) == nil {
		return n, true
	}
	var ids model.IDList
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) && json.Unmarshal(raw, &ids) == nil {
		return len(ids), true
	}
	return 0, false
}

// decodeList accepts either a bare JSON array or an object wrapping the
// array under key (e.g. {"notes": [...]}).
func decodeList[T any](data []byte, key string) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}

	var items []T
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", key, err)
		}
		return items, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	raw, ok := wrapper[key]
	if !ok {
		raw, ok = wrapper["data"]
	}
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return []T{}, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	return items, nil
}
