package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Json604/labubu-ecom/internal/domain"
)

// Store holds the bearer credential and minimal user profile. The checkout
// flow only ever checks presence or absence; the contents stay opaque to it.
type Store interface {
	Token() string
	User() *domain.User
	Save(token string, user *domain.User) error
	Clear() error
}

type credentials struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user,omitempty"`
}

// FileStore persists credentials as a JSON file, the CLI analog of the
// browser's local storage.
type FileStore struct {
	path string

	mu    sync.RWMutex
	creds credentials
}

func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	if err := json.Unmarshal(data, &s.creds); err != nil {
		// A corrupt credentials file is treated as logged out.
		s.creds = credentials{}
	}
	return s, nil
}

func (s *FileStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Token
}

func (s *FileStore) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.User
}

func (s *FileStore) Save(token string, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = credentials{Token: token, User: user}
	data, err := json.Marshal(s.creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credentials dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = credentials{}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove credentials file: %w", err)
	}
	return nil
}

// MemStore is an in-memory Store for tests and embedded use.
type MemStore struct {
	mu    sync.RWMutex
	creds credentials
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Token
}

func (s *MemStore) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.User
}

func (s *MemStore) Save(token string, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = credentials{Token: token, User: user}
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = credentials{}
	return nil
}
