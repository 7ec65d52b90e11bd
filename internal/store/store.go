// Package store is the filesystem adapter used by the ADJ engine. It wraps
// an afero.Fs with the handful of operations the engine needs and maps
// filesystem failures onto the error kinds in pkg/types.
//
// Writes are atomic per file: data goes to a temp file in the target
// directory, is synced, and is renamed over the destination.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/mesh-intelligence/adjvalet/pkg/types"
)

const (
	filePerm = 0o644
	dirPerm  = 0o755
)

// Store performs file operations against an afero filesystem.
type Store struct {
	fs afero.Fs
}

// New returns a Store backed by fsys.
func New(fsys afero.Fs) *Store {
	return &Store{fs: fsys}
}

// NewOS returns a Store backed by the host filesystem.
func NewOS() *Store {
	return New(afero.NewOsFs())
}

// ReadFile returns the contents of path. A missing file yields an error
// wrapping types.ErrNotFound; any other failure wraps types.ErrIO.
func (s *Store) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", types.ErrNotFound, path, err)
		}
		return nil, fmt.Errorf("%w: reading %s: %w", types.ErrIO, path, err)
	}
	return data, nil
}

// ReadJSON decodes the JSON document at path into v. Decode failures wrap
// types.ErrParse.
func (s *Store) ReadJSON(path string, v any) error {
	data, err := s.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %w", types.ErrParse, path, err)
	}
	return nil
}

// WriteFile atomically replaces path with data using the temp-file, fsync,
// rename pattern.
func (s *Store) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := afero.TempFile(s.fs, dir, ".adj-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp file in %s: %w", types.ErrIO, dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("%w: writing %s: %w", types.ErrIO, path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("%w: syncing %s: %w", types.ErrIO, path, err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("%w: closing temp file for %s: %w", types.ErrIO, path, err)
	}
	if err := s.fs.Chmod(tmpName, filePerm); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("%w: chmod %s: %w", types.ErrIO, path, err)
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("%w: renaming temp file to %s: %w", types.ErrIO, path, err)
	}
	return nil
}

// WriteJSON encodes v as two-space indented JSON, without HTML escaping
// and without a trailing newline, and writes it atomically to path.
func (s *Store) WriteJSON(path string, v any) error {
	data, err := EncodeJSON(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return s.WriteFile(path, data)
}

// EncodeJSON renders v in the on-disk format used for every ADJ file.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Exists reports whether path exists.
func (s *Store) Exists(path string) (bool, error) {
	ok, err := afero.Exists(s.fs, path)
	if err != nil {
		return false, fmt.Errorf("%w: stat %s: %w", types.ErrIO, path, err)
	}
	return ok, nil
}

// IsDir reports whether path exists and is a directory.
func (s *Store) IsDir(path string) (bool, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: stat %s: %w", types.ErrIO, path, err)
	}
	return info.IsDir(), nil
}

// IsFile reports whether path exists and is not a directory.
func (s *Store) IsFile(path string) (bool, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: stat %s: %w", types.ErrIO, path, err)
	}
	return !info.IsDir(), nil
}

// MkdirAll creates path and any missing parents.
func (s *Store) MkdirAll(path string) error {
	if err := s.fs.MkdirAll(path, dirPerm); err != nil {
		return fmt.Errorf("%w: creating directory %s: %w", types.ErrIO, path, err)
	}
	return nil
}

// Rename moves oldPath to newPath.
func (s *Store) Rename(oldPath, newPath string) error {
	if err := s.fs.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("%w: renaming %s to %s: %w", types.ErrIO, oldPath, newPath, err)
	}
	return nil
}

// RenameIfExists renames oldPath when it exists and reports whether it did.
func (s *Store) RenameIfExists(oldPath, newPath string) (bool, error) {
	ok, err := s.Exists(oldPath)
	if err != nil || !ok {
		return false, err
	}
	if err := s.Rename(oldPath, newPath); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveIfExists deletes the file at path. A missing file is not an error.
func (s *Store) RemoveIfExists(path string) (bool, error) {
	err := s.fs.Remove(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist), os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("%w: removing %s: %w", types.ErrIO, path, err)
	}
}

// ListDirs returns the names of the immediate subdirectories of path in
// lexical order. A missing directory yields an empty list.
func (s *Store) ListDirs(path string) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: listing %s: %w", types.ErrIO, path, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
