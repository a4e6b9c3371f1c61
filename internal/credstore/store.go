package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"rider-delivery-agent/internal/apperr"
	"rider-delivery-agent/internal/domain"
)

// Store persists the rider credential pair across restarts. It is the only
// durable client state; session and order data is always re-fetched.
type Store struct {
	path string
	mu   sync.RWMutex
	now  func() time.Time
}

// New creates a credential store backed by the file at path.
func New(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Save writes the credential. The file is written with owner-only
// permissions and swapped in atomically.
func (s *Store) Save(cred domain.Credential) error {
	if !cred.Valid() {
		return fmt.Errorf("%w: incomplete credential", apperr.ErrPrecondition)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("credstore: marshal: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("credstore: mkdir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("credstore: write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("credstore: rename: %w", err)
	}
	return nil
}

// Credential returns the stored credential. A missing file or an expired
// token is an authentication failure, not a transport one.
func (s *Store) Credential() (domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Credential{}, fmt.Errorf("%w: no stored credential", apperr.ErrUnauthenticated)
	}
	if err != nil {
		return domain.Credential{}, fmt.Errorf("credstore: read: %w", err)
	}

	var cred domain.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return domain.Credential{}, fmt.Errorf("credstore: decode: %w", err)
	}
	if !cred.Valid() {
		return domain.Credential{}, fmt.Errorf("%w: incomplete credential", apperr.ErrUnauthenticated)
	}
	if TokenExpired(cred.Token, s.now()) {
		return domain.Credential{}, fmt.Errorf("%w: token expired", apperr.ErrUnauthenticated)
	}
	return cred, nil
}

// Clear removes the stored credential. Clearing an absent credential is
// not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("credstore: remove: %w", err)
	}
	return nil
}
