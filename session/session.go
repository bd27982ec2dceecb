// Package session persists the authenticated user's identity between
// runs. The catalog itself is ephemeral; this file is the only state
// that survives a restart.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhowell/biblio/model"
)

// Store reads and writes the session identity file.
type Store struct {
	path string
}

// NewStore returns a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// identity is the on-disk shape. The password hash never leaves the
// directory.
type identity struct {
	ID    int64      `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Phone string     `json:"phone,omitempty"`
	Role  model.Role `json:"role"`
}

// Load reads the persisted identity. A missing file is not an error;
// it simply means nobody is signed in.
func (s *Store) Load() (*model.User, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var id identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	return &model.User{
		ID:    id.ID,
		Name:  id.Name,
		Email: id.Email,
		Phone: id.Phone,
		Role:  id.Role,
	}, nil
}

// Save overwrites the persisted identity with u.
func (s *Store) Save(u *model.User) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(identity{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
		Role:  u.Role,
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Clear removes the persisted identity. Clearing an absent file is
// fine.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
