// Package session owns the locally held proof of authorization: a bearer
// token plus its expiry. The session record is the only mutable shared state
// in the host; all reads and writes go through the Manager, which serializes
// them so a logout racing an in-flight authorization cannot interleave.
package session

import (
	"errors"
	"time"
)

// StorageKey names the single secret-store entry holding the session.
const StorageKey = "bounty_session"

// Session is the persisted credential record.
type Session struct {
	AccessToken string `json:"accessToken"`
	ExpiresAt   int64  `json:"expiresAt"` // unix millis
}

// Valid reports whether the session has not expired. An expired session is
// indistinguishable from no session.
func (s Session) Valid(now time.Time) bool {
	return s.ExpiresAt > now.UnixMilli()
}

// ErrNotFound is returned by Store.Load when no session is persisted.
var ErrNotFound = errors.New("session: not found")

// Store persists a single opaque session record in durable secret storage.
type Store interface {
	Load() (Session, error)
	Save(Session) error
	// Clear removes the stored session. Clearing an absent session is not
	// an error.
	Clear() error
}
