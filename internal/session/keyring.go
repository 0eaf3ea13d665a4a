package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// keyringService is the service name under which the session is stored in
// the OS keychain (macOS Keychain, Secret Service on Linux, WinCred).
const keyringService = "bountyclaw"

// KeyringStore keeps the session in the system keychain.
type KeyringStore struct{}

// NewKeyringStore creates a keychain-backed store.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

func (k *KeyringStore) Load() (Session, error) {
	data, err := keyring.Get(keyringService, StorageKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return Session{}, ErrNotFound
		}
		return Session{}, fmt.Errorf("keyring get: %w", err)
	}

	var s Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		// Unreadable entries are treated as absent so a corrupt record
		// cannot wedge the login flow.
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (k *KeyringStore) Save(s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := keyring.Set(keyringService, StorageKey, string(data)); err != nil {
		return fmt.Errorf("keyring set: %w", err)
	}
	return nil
}

func (k *KeyringStore) Clear() error {
	err := keyring.Delete(keyringService, StorageKey)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring delete: %w", err)
	}
	return nil
}
