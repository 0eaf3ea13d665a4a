package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// memStore is an in-memory Store for manager tests.
type memStore struct {
	session *Session
	saves   int
	clears  int
}

func (m *memStore) Load() (Session, error) {
	if m.session == nil {
		return Session{}, ErrNotFound
	}
	return *m.session, nil
}

func (m *memStore) Save(s Session) error {
	m.session = &s
	m.saves++
	return nil
}

func (m *memStore) Clear() error {
	m.session = nil
	m.clears++
	return nil
}

func futureMillis(d time.Duration) int64 {
	return time.Now().Add(d).UnixMilli()
}

func TestManager_SaveAndCurrent(t *testing.T) {
	store := &memStore{}
	m := NewManager(store)

	if m.IsAuthenticated() {
		t.Fatal("fresh manager should not be authenticated")
	}

	s := Session{AccessToken: "tok", ExpiresAt: futureMillis(time.Hour)}
	if err := m.Save(s); err != nil {
		t.Fatalf("save: %v", err)
	}

	cur := m.Current()
	if cur == nil {
		t.Fatal("expected current session")
	}
	if cur.AccessToken != "tok" {
		t.Errorf("token = %q", cur.AccessToken)
	}
	if !m.IsAuthenticated() {
		t.Error("expected authenticated")
	}
}

func TestManager_ExpiredSessionPurged(t *testing.T) {
	store := &memStore{session: &Session{AccessToken: "old", ExpiresAt: futureMillis(-time.Minute)}}
	m := NewManager(store)

	if m.Current() != nil {
		t.Error("expired session should read as absent")
	}
	if m.IsAuthenticated() {
		t.Error("expired session should not authenticate")
	}
	if store.clears != 1 {
		t.Errorf("expected 1 store purge, got %d", store.clears)
	}
	if store.session != nil {
		t.Error("store should be purged")
	}
}

func TestManager_AuthHeader(t *testing.T) {
	store := &memStore{}
	m := NewManager(store)

	h := m.AuthHeader()
	if len(h) != 0 {
		t.Errorf("absent session should yield empty headers, got %v", h)
	}

	m.Save(Session{AccessToken: "abc", ExpiresAt: futureMillis(time.Hour)})
	h = m.AuthHeader()
	if h["Authorization"] != "Bearer abc" {
		t.Errorf("Authorization = %q", h["Authorization"])
	}
}

func TestManager_Clear(t *testing.T) {
	store := &memStore{session: &Session{AccessToken: "tok", ExpiresAt: futureMillis(time.Hour)}}
	m := NewManager(store)

	if err := m.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if m.Current() != nil {
		t.Error("session should be gone after clear")
	}
	if store.session != nil {
		t.Error("store should be empty after clear")
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "session.json")
	fs := NewFileStore(path)

	if _, err := fs.Load(); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	want := Session{AccessToken: "tok", ExpiresAt: 12345}
	if err := fs.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := fs.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	if err := fs.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := fs.Load(); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after clear, got %v", err)
	}
	// Clearing twice is idempotent.
	if err := fs.Clear(); err != nil {
		t.Errorf("second clear: %v", err)
	}
}

func TestFileStore_CorruptFileTreatedAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	fs := NewFileStore(path)
	if err := fs.Save(Session{AccessToken: "x", ExpiresAt: 1}); err != nil {
		t.Fatal(err)
	}

	// Corrupt the file out-of-band.
	if err := os.WriteFile(path, []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Load(); err != ErrNotFound {
		t.Errorf("corrupt file should load as ErrNotFound, got %v", err)
	}
}
