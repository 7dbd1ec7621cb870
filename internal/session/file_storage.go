package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStorage persists the session as a JSON file owned by the current
// user. Writes go through a temp file and rename so a crash never
// leaves a half-written session behind.
type FileStorage struct {
	path string
}

// NewFileStorage constructs a FileStorage at path. An empty path
// resolves to the default location under the user config directory.
func NewFileStorage(path string) (*FileStorage, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(dir, "wageflow", "session.json")
	}
	return &FileStorage{path: path}, nil
}

// Path returns the backing file location.
func (f *FileStorage) Path() string {
	return f.path
}

// Load reads the persisted record. A missing file is an empty session,
// not an error.
func (f *FileStorage) Load(ctx context.Context) (Record, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Record{}, nil
		}
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		// A corrupt session file is treated as logged out rather than
		// wedging the client.
		return Record{}, nil
	}
	return rec, nil
}

// Save writes the record atomically with user-only permissions.
func (f *FileStorage) Save(ctx context.Context, rec Record) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// Clear removes the session file. Clearing an absent session is a
// no-op.
func (f *FileStorage) Clear(ctx context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
