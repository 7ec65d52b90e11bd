package adjvalet_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/adjvalet/pkg/adjvalet"
	"github.com/mesh-intelligence/adjvalet/pkg/types"
)

func TestSaveLoadRename(t *testing.T) {
	root := t.TempDir()
	cfg := &types.Configuration{
		GeneralInfo: types.GeneralInfo{Ports: map[string]uint16{"UDP": 8000}},
		Boards: []types.BoardRecord{
			{Name: "sensor1", Board: types.Board{BoardID: 1, BoardIP: "127.0.0.1"}},
		},
	}
	require.NoError(t, adjvalet.Save(cfg, root))

	loaded, warnings, err := adjvalet.Load(root)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"sensor1"}, loaded.BoardNames())

	_, err = adjvalet.Rename(loaded, "sensor1", "sensor2", root)
	require.NoError(t, err)
	require.NoError(t, adjvalet.Save(loaded, root))
	assert.FileExists(t, filepath.Join(root, "boards", "sensor2", "sensor2.json"))

	_, _, err = adjvalet.Load(filepath.Join(root, "missing"))
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestLoadReturnsWarnings(t *testing.T) {
	root := t.TempDir()
	cfg := &types.Configuration{
		GeneralInfo: types.GeneralInfo{Ports: map[string]uint16{"UDP": 8000}},
		Boards:      []types.BoardRecord{{Name: "LCU"}},
	}
	require.NoError(t, adjvalet.Save(cfg, root))

	// Index an extra board whose manifest does not exist.
	data := `{"LCU": "boards/LCU/LCU.json", "GHOST": "boards/GHOST/GHOST.json"}`
	require.NoError(t, os.WriteFile(filepath.Join(root, "boards.json"), []byte(data), 0o644))

	loaded, warnings, err := adjvalet.Load(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"LCU"}, loaded.BoardNames())
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], types.ErrNotFound)
}

func TestLoadKeepsEveryWarning(t *testing.T) {
	root := t.TempDir()
	cfg := &types.Configuration{
		GeneralInfo: types.GeneralInfo{Ports: map[string]uint16{"UDP": 8000}},
		Boards:      []types.BoardRecord{{Name: "LCU"}},
	}
	require.NoError(t, adjvalet.Save(cfg, root))

	data := `{"GHOST1": "boards/GHOST1/GHOST1.json", "LCU": "boards/LCU/LCU.json", "GHOST2": "boards/GHOST2/GHOST2.json"}`
	require.NoError(t, os.WriteFile(filepath.Join(root, "boards.json"), []byte(data), 0o644))

	_, warnings, err := adjvalet.Load(root)
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0].Error(), "GHOST1")
	assert.Contains(t, warnings[1].Error(), "GHOST2")
	for _, w := range warnings {
		assert.ErrorIs(t, w, types.ErrNotFound)
	}
}
