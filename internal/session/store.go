package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
)

// record is the on-disk form of a session.
type record struct {
	Token string `json:"token"`
	User  struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// FileStore keeps the current session in a JSON file readable only by its owner.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string {
	return f.path
}

// Load returns ErrNoSession when nothing has been saved.
func (f *FileStore) Load() (Session, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Session{}, ErrNoSession
	}

	if err != nil {
		return Session{}, fmt.Errorf("reading session file: %w", err)
	}

	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return Session{}, fmt.Errorf("decoding session file: %w", err)
	}

	if r.Token == "" {
		return Session{}, ErrNoSession
	}

	s := Session{
		Token: r.Token,
		User:  ledger.User{ID: r.User.ID, Name: r.User.Name, Email: r.User.Email},
	}

	if r.ExpiresAt != nil {
		s.ExpiresAt = *r.ExpiresAt
	}

	return s, nil
}

func (f *FileStore) Save(s Session) error {
	var r record

	r.Token = s.Token
	r.User.ID = s.User.ID
	r.User.Name = s.User.Name
	r.User.Email = s.User.Email

	if !s.ExpiresAt.IsZero() {
		r.ExpiresAt = new(s.ExpiresAt)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}

	return nil
}

// Clear removes the saved session. Clearing an absent session is not an error.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}

	return nil
}
