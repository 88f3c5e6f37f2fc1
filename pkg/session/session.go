package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is the server-side state behind a session cookie.
type Session struct {
	ID             uuid.UUID         `json:"id"`
	Token          string            `json:"token"`
	Identity       string            `json:"identity,omitempty"`
	Backend        string            `json:"backend,omitempty"` // how Identity was established, e.g. "passwordless"
	Data           map[string]string `json:"data,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	LastActivityAt time.Time         `json:"last_activity_at"`
	ExpiresAt      time.Time         `json:"expires_at"`
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Identity != ""
}

func (s *Session) IsExpired(now time.Time) bool {
	return s != nil && !now.Before(s.ExpiresAt)
}

func (s *Session) clone() *Session {
	c := *s
	if s.Data != nil {
		c.Data = make(map[string]string, len(s.Data))
		for k, v := range s.Data {
			c.Data[k] = v
		}
	}
	return &c
}

// expiry is the earlier of the idle deadline and the lifetime deadline.
func expiry(createdAt, lastActivity time.Time, idle, lifetime time.Duration) time.Time {
	idleAt := lastActivity.Add(idle)
	maxAt := createdAt.Add(lifetime)
	if maxAt.Before(idleAt) {
		return maxAt
	}
	return idleAt
}
