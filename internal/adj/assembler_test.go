package adj

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/adjvalet/pkg/types"
)

const generalInfoJSON = `{
  "ports": {"UDP": 8000},
  "addresses": {"backend": "127.0.0.9"},
  "units": {},
  "message_ids": {"add_state_order": 5}
}`

func TestLoadFollowsIndexOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"general_info.json": generalInfoJSON,
		"boards.json":       `{"VCU": "boards/VCU/VCU.json", "BMSL": "custom/bmsl.json"}`,
		"boards/VCU/VCU.json": `{"board_id": 2, "board_ip": "127.0.0.6",
			"measurements": ["meas.json"], "packets": ["packets.json", "orders.json"]}`,
		"boards/VCU/meas.json":    `[{"id": "v", "name": "Voltage", "type": "float32", "safeRange": [0, 400]}]`,
		"boards/VCU/packets.json": `[{"type": "data", "name": "status", "variables": ["v"], "id": 249}]`,
		"boards/VCU/orders.json":  `[{"type": "order", "name": "start", "variables": []}]`,
		"custom/bmsl.json":        `{"board_id": 5, "measurements": ["bmsl_m.json"]}`,
		"custom/bmsl_m.json":      `[{"id": "soc", "name": "SoC", "type": "uint8"}]`,
	})

	e, _ := observedEngine()
	cfg, rep, err := e.Load(root)
	require.NoError(t, err)
	assert.Zero(t, rep.Len(), "unexpected warnings: %v", rep.Err())

	assert.Equal(t, []string{"VCU", "BMSL"}, cfg.BoardNames())
	assert.Equal(t, []string{"VCU", "BMSL"}, cfg.BoardIndex.Names())
	assert.Equal(t, uint16(8000), cfg.GeneralInfo.Ports["UDP"])

	vcu, _, _ := cfg.Board("VCU")
	assert.Equal(t, uint32(2), vcu.Board.BoardID)
	require.Len(t, vcu.Board.Measurements, 1)
	assert.Equal(t, &types.Range{0, 400}, vcu.Board.Measurements[0].SafeRange)
	require.Len(t, vcu.Board.Packets, 2)
	assert.Equal(t, uint32(249), *vcu.Board.Packets[0].ID)
	assert.True(t, vcu.Board.Packets[1].IsOrder())

	// Paths in a manifest are relative to the manifest's own directory.
	bmsl, _, _ := cfg.Board("BMSL")
	assert.Equal(t, types.DefaultBoardIP, bmsl.Board.BoardIP)
	require.Len(t, bmsl.Board.Measurements, 1)
	assert.Equal(t, "soc", bmsl.Board.Measurements[0].ID)
	assert.NotNil(t, bmsl.Board.Packets)
}

func TestLoadSkipsIndexedBoardWithoutManifest(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"general_info.json":   generalInfoJSON,
		"boards.json":         `{"GHOST": "boards/GHOST/GHOST.json", "LCU": "boards/LCU/LCU.json"}`,
		"boards/LCU/LCU.json": `{"board_id": 1}`,
	})

	e, logs := observedEngine()
	cfg, rep, err := e.Load(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"LCU"}, cfg.BoardNames())
	require.Equal(t, 1, rep.Len())
	assert.Equal(t, "GHOST", rep.Warnings[0].Board)

	warned := logs.FilterMessage("skipped ADJ input").All()
	require.Len(t, warned, 1)
	assert.Equal(t, "GHOST", warned[0].ContextMap()["board"])
}

func TestLoadFallbackScan(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"general_info.json":                  generalInfoJSON,
		"boards/LCU/LCU.json":                `{"board_id": 3, "board_ip": "127.0.0.3", "packets": ["packets.json"]}`,
		"boards/LCU/packets.json":            `[{"type": "data", "name": "lcu_status", "variables": []}]`,
		"boards/BMSL/BMSL.json":              `{"board_id": 5, "measurements": ["BMSL_measurements.json"]}`,
		"boards/BMSL/BMSL_measurements.json": `[{"id": "soc", "name": "SoC", "type": "uint8"}]`,
		"boards/EMPTY/readme.txt":            "no manifest here",
	})

	e, _ := observedEngine()
	cfg, rep, err := e.Load(root)
	require.NoError(t, err)
	assert.Zero(t, rep.Len())

	assert.Equal(t, []string{"BMSL", "EMPTY", "LCU"}, cfg.BoardNames())
	assert.Zero(t, cfg.BoardIndex.Len(), "fallback mode keeps the loaded (empty) index")

	lcu, _, _ := cfg.Board("LCU")
	assert.Equal(t, uint32(3), lcu.Board.BoardID)
	assert.Len(t, lcu.Board.Packets, 1)

	bmsl, _, _ := cfg.Board("BMSL")
	assert.Len(t, bmsl.Board.Measurements, 1)
}

func TestLoadToleratesMissingManifest(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"general_info.json":   generalInfoJSON,
		"boards/OK/OK.json":   `{"board_id": 9, "board_ip": "10.0.0.9"}`,
		"boards/BARE/.keep":   "",
		"boards/BAD/BAD.json": `{"board_id": `,
	})

	e, _ := observedEngine()
	cfg, rep, err := e.Load(root)
	require.NoError(t, err)
	require.Len(t, cfg.Boards, 3)

	for _, name := range []string{"BARE", "BAD"} {
		rec, _, ok := cfg.Board(name)
		require.True(t, ok, name)
		assert.Equal(t, types.DefaultBoardID, rec.Board.BoardID)
		assert.Equal(t, types.DefaultBoardIP, rec.Board.BoardIP)
		assert.Empty(t, rec.Board.Measurements)
		assert.Empty(t, rec.Board.Packets)
	}
	good, _, _ := cfg.Board("OK")
	assert.Equal(t, uint32(9), good.Board.BoardID)

	require.Equal(t, 1, rep.Len(), "only the malformed manifest is reported")
	assert.Equal(t, "BAD", rep.Warnings[0].Board)
}

func TestLoadBrokenIndexFallsBackToScan(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"general_info.json":   generalInfoJSON,
		"boards.json":         `{"LCU": `,
		"boards/LCU/LCU.json": `{"board_id": 1}`,
	})

	e, _ := observedEngine()
	cfg, rep, err := e.Load(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"LCU"}, cfg.BoardNames())
	assert.Equal(t, 1, rep.Len())
}

func TestLoadSkipsUnreadableBoard(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"general_info.json":   generalInfoJSON,
		"boards.json":         `{"A": "boards/A/A.json", "LCU": "boards/LCU/LCU.json"}`,
		"boards/A":            "a regular file where a directory should be",
		"boards/LCU/LCU.json": `{"board_id": 3}`,
	})

	e, _ := observedEngine()
	cfg, rep, err := e.Load(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"LCU"}, cfg.BoardNames())
	require.Equal(t, 1, rep.Len())
	assert.Equal(t, "A", rep.Warnings[0].Board)
}

func TestLoadSkipsInvalidIndexNames(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"general_info.json":   generalInfoJSON,
		"boards.json":         `{"a/b": "boards/a/b/b.json", "LCU": "boards/LCU/LCU.json"}`,
		"boards/a/b/b.json":   `{"board_id": 9}`,
		"boards/LCU/LCU.json": `{"board_id": 3}`,
	})

	e, _ := observedEngine()
	cfg, rep, err := e.Load(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"LCU"}, cfg.BoardNames())
	require.Equal(t, 1, rep.Len())
	assert.ErrorIs(t, rep.Warnings[0], types.ErrBadRequest)

	require.NoError(t, e.Save(cfg, root), "the loaded configuration can be saved back")
}

func TestLoadScanWithUnlistableBoardsDir(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"general_info.json": generalInfoJSON,
		"boards":            "not a directory",
	})

	e, _ := observedEngine()
	cfg, rep, err := e.Load(root)
	require.NoError(t, err)
	assert.Empty(t, cfg.Boards)
	assert.Equal(t, 1, rep.Len())
}

func TestLoadFatalErrors(t *testing.T) {
	e, _ := observedEngine()

	_, _, err := e.Load(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, types.ErrNotFound)

	root := t.TempDir()
	writeTree(t, root, map[string]string{"boards/LCU/LCU.json": `{}`})
	_, _, err = e.Load(root)
	assert.ErrorIs(t, err, types.ErrNotFound)

	writeTree(t, root, map[string]string{"general_info.json": `{"ports": [}`})
	_, _, err = e.Load(root)
	assert.ErrorIs(t, err, types.ErrParse)
}

func TestLoadWithoutBoards(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"general_info.json": `{}`})

	e, _ := observedEngine()
	cfg, _, err := e.Load(root)
	require.NoError(t, err)
	assert.NotNil(t, cfg.Boards)
	assert.Empty(t, cfg.Boards)
	assert.NotNil(t, cfg.GeneralInfo.Ports)
}
