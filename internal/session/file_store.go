// internal/session/file_store.go
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps the token in a single file, created with 0600 since
// the token grants full account access.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed token store at the given path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted token. A missing file means no token.
func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token, creating the parent directory if needed
func (s *FileStore) Save(token string) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Clear removes the persisted token. Clearing an absent token is not
// an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
