package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/adjvalet/pkg/types"
)

func TestWriteFileAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	s := NewOS()
	path := filepath.Join(dir, "general_info.json")

	require.NoError(t, s.WriteFile(path, []byte("first")))
	require.NoError(t, s.WriteFile(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestWriteFileMissingDirectory(t *testing.T) {
	s := NewOS()
	err := s.WriteFile(filepath.Join(t.TempDir(), "missing", "x.json"), []byte("{}"))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrIO)
}

func TestEncodeJSON(t *testing.T) {
	data, err := EncodeJSON(map[string]any{"b": []string{"<x>"}, "a": 1})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": [\n    \"<x>\"\n  ]\n}", string(data))
}

func TestReadFileErrors(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s := New(fsys)

	_, err := s.ReadFile("/nope.json")
	assert.ErrorIs(t, err, types.ErrNotFound)

	require.NoError(t, afero.WriteFile(fsys, "/bad.json", []byte("{"), 0o644))
	var v map[string]any
	err = s.ReadJSON("/bad.json", &v)
	assert.ErrorIs(t, err, types.ErrParse)
}

func TestStatHelpers(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s := New(fsys)
	require.NoError(t, s.MkdirAll("/root/boards/a"))
	require.NoError(t, afero.WriteFile(fsys, "/root/file.json", []byte("{}"), 0o644))

	ok, err := s.IsDir("/root/boards")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.IsDir("/root/file.json")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.IsFile("/root/file.json")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.IsDir("/root/missing")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Exists("/root/file.json")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestListDirs(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s := New(fsys)
	require.NoError(t, s.MkdirAll("/root/boards/LCU"))
	require.NoError(t, s.MkdirAll("/root/boards/BMSL"))
	require.NoError(t, afero.WriteFile(fsys, "/root/boards/notes.txt", []byte("x"), 0o644))

	names, err := s.ListDirs("/root/boards")
	require.NoError(t, err)
	assert.Equal(t, []string{"BMSL", "LCU"}, names)

	names, err = s.ListDirs("/root/none")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRenameAndRemoveIfExists(t *testing.T) {
	dir := t.TempDir()
	s := NewOS()
	oldPath := filepath.Join(dir, "old.json")
	newPath := filepath.Join(dir, "new.json")

	renamed, err := s.RenameIfExists(oldPath, newPath)
	require.NoError(t, err)
	assert.False(t, renamed)

	require.NoError(t, os.WriteFile(oldPath, []byte("{}"), 0o644))
	renamed, err = s.RenameIfExists(oldPath, newPath)
	require.NoError(t, err)
	assert.True(t, renamed)
	assert.FileExists(t, newPath)
	assert.NoFileExists(t, oldPath)

	removed, err := s.RemoveIfExists(newPath)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.RemoveIfExists(newPath)
	require.NoError(t, err)
	assert.False(t, removed)
}
