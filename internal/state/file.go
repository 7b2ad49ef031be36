package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"tubepost/internal/fileutil"
)

// FileStore keeps the identifier in a text file.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store. The file and its parent directory
// are created on the first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get reads the file. A missing or blank file is the absent state.
func (s *FileStore) Get(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, wrapStateErr("get", "", err)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, wrapStateErr("get", fmt.Sprintf("read %s", s.path), err)
	}
	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", false, nil
	}
	return value, true, nil
}

// Set replaces the file contents atomically.
func (s *FileStore) Set(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return wrapStateErr("set", "", err)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return wrapStateErr("set", "identifier required", nil)
	}
	if err := fileutil.WriteFileAtomic(s.path, []byte(id+"\n"), 0o644); err != nil {
		return wrapStateErr("set", fmt.Sprintf("write %s", s.path), err)
	}
	return nil
}

// Clear removes the file.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return wrapStateErr("clear", "", err)
	}
	if _, err := fileutil.RemoveIfExists(s.path); err != nil {
		return wrapStateErr("clear", fmt.Sprintf("remove %s", s.path), err)
	}
	return nil
}

// Describe implements Store.
func (s *FileStore) Describe() string {
	return "file " + s.path
}

// Close implements Store.
func (s *FileStore) Close() error { return nil }
