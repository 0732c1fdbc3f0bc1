package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/skpot/biryani-console/internal/domain/auth"
)

// profile is the durable session marker: the last known user, read once at
// startup for instant UI state and overwritten on login. It is never the
// source of truth after the in-memory session hydrates.
type profile struct {
	User    auth.User `json:"user"`
	SavedAt time.Time `json:"savedAt"`
}

// Storage persists the session profile to a single JSON file. Only the
// Manager writes it; stores never touch durable state.
type Storage struct {
	path string
}

// NewStorage creates a Storage rooted at path.
func NewStorage(path string) *Storage {
	return &Storage{path: path}
}

// DefaultPath places the profile under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "biryani-console", "session.json"), nil
}

// Load reads the persisted profile. A missing file is not an error; it
// returns a nil user.
func (s *Storage) Load() (*auth.User, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var p profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	if p.User.ID == "" {
		return nil, nil
	}
	return &p.User, nil
}

// Save overwrites the profile.
func (s *Storage) Save(user auth.User) error {
	data, err := json.MarshalIndent(profile{User: user, SavedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Clear removes the profile. A file that is already gone is fine.
func (s *Storage) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
