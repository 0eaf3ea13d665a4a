package session

import (
	"log/slog"
	"sync"
	"time"
)

// Manager is the single owner of the in-memory session cell. Every
// read-modify-write happens under one mutex, so Save, Clear, and
// expiry-triggered purges are serialized.
type Manager struct {
	store Store

	mu      sync.Mutex
	session *Session
	loaded  bool

	now func() time.Time
}

// NewManager creates a manager over the given store. The persisted session
// is loaded lazily on first access.
func NewManager(store Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// load populates the cell from the store. Caller holds mu.
func (m *Manager) load() {
	if m.loaded {
		return
	}
	m.loaded = true

	s, err := m.store.Load()
	if err != nil {
		if err != ErrNotFound {
			slog.Warn("session load failed", "error", err)
		}
		return
	}
	m.session = &s
	slog.Debug("session loaded", "expiresAt", s.ExpiresAt)
}

// Current returns the valid session, or nil when none exists. An expired
// session is purged from the store and reported as absent.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentLocked()
}

func (m *Manager) currentLocked() *Session {
	m.load()
	if m.session == nil {
		return nil
	}
	if !m.session.Valid(m.now()) {
		slog.Info("session expired, purging")
		m.session = nil
		if err := m.store.Clear(); err != nil {
			slog.Warn("session purge failed", "error", err)
		}
		return nil
	}
	s := *m.session
	return &s
}

// Save persists a new session and replaces the cell.
func (m *Manager) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.load()

	if err := m.store.Save(s); err != nil {
		return err
	}
	m.session = &s
	slog.Info("session saved", "expiresIn", time.Until(time.UnixMilli(s.ExpiresAt)).Round(time.Second))
	return nil
}

// Clear removes the session from memory and from the store.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.load()

	m.session = nil
	return m.store.Clear()
}

// IsAuthenticated reports whether a valid session exists.
func (m *Manager) IsAuthenticated() bool {
	return m.Current() != nil
}

// AuthHeader returns the headers an authenticated remote call should carry.
// An absent session yields an empty map, never an error: unauthenticated
// calls are allowed to reach the server, which decides authorization.
func (m *Manager) AuthHeader() map[string]string {
	s := m.Current()
	if s == nil {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + s.AccessToken}
}
