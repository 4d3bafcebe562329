// Package store reads and writes the plan file as raw text.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/planloop/planloop/internal/plan"
)

// Store is a byte-level adapter for one plan file path. A missing file
// reads as an empty document; writes are temp-then-rename so a crash
// mid-write never leaves a half-written file behind.
type Store struct {
	path string
}

// New creates a store for the given path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the plan file path.
func (s *Store) Path() string {
	return s.path
}

// Read returns the raw plan text. A missing file is an empty plan, not
// an error.
func (s *Store) Read() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", ioError("read", s.path, err)
	}
	return string(data), nil
}

// Write atomically replaces the plan file with text, creating missing
// parent directories first. The stored document is always either the
// previous version or the new one, never a mixture.
func (s *Store) Write(text string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return ioError("create directory for", s.path, err)
	}

	tmp, err := os.CreateTemp(dir, ".plan-*.tmp")
	if err != nil {
		return ioError("create temp file for", s.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return ioError("write", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return ioError("write", s.path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return ioError("write", s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return ioError("replace", s.path, err)
	}
	return nil
}

func ioError(op, path string, err error) error {
	return &plan.Error{
		Kind:   plan.ErrIOFailure,
		Detail: fmt.Sprintf("%s %s: %v", op, path, err),
	}
}
