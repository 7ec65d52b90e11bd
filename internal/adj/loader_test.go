package adj

import (
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/adjvalet/internal/store"
	"github.com/mesh-intelligence/adjvalet/pkg/types"
)

func memEngine(t *testing.T, files map[string]string) *Engine {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}
	return New(store.New(fsys), nil)
}

func TestManifestDefaults(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Manifest
	}{
		{
			name: "complete",
			json: `{"board_id": 7, "board_ip": "10.0.0.1", "measurements": ["m.json"], "packets": ["p.json", "o.json"]}`,
			want: Manifest{BoardID: 7, BoardIP: "10.0.0.1", Measurements: []string{"m.json"}, Packets: []string{"p.json", "o.json"}},
		},
		{
			name: "empty object",
			json: `{}`,
			want: DefaultManifest(),
		},
		{
			name: "wrong types",
			json: `{"board_id": "seven", "board_ip": 3, "measurements": "m.json", "packets": {"a": 1}}`,
			want: DefaultManifest(),
		},
		{
			name: "negative id",
			json: `{"board_id": -1, "board_ip": "1.2.3.4"}`,
			want: Manifest{BoardID: 0, BoardIP: "1.2.3.4", Measurements: []string{}, Packets: []string{}},
		},
		{
			name: "id out of range",
			json: `{"board_id": 4294967296}`,
			want: DefaultManifest(),
		},
		{
			name: "non-string list items dropped",
			json: `{"measurements": ["a.json", 1, null, "b.json"]}`,
			want: Manifest{BoardIP: types.DefaultBoardIP, Measurements: []string{"a.json", "b.json"}, Packets: []string{}},
		},
		{
			name: "null fields take defaults",
			json: `{"board_id": null, "board_ip": null, "measurements": null, "packets": [null, "p.json"]}`,
			want: Manifest{BoardIP: types.DefaultBoardIP, Measurements: []string{}, Packets: []string{"p.json"}},
		},
		{
			name: "null ip keeps id",
			json: `{"board_id": 3, "board_ip": null}`,
			want: Manifest{BoardID: 3, BoardIP: types.DefaultBoardIP, Measurements: []string{}, Packets: []string{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Manifest
			require.NoError(t, json.Unmarshal([]byte(tt.json), &m))
			assert.Equal(t, tt.want, m)
		})
	}
}

func TestManifestRejectsNonObject(t *testing.T) {
	for _, doc := range []string{`[1, 2]`, `null`, `"LCU"`} {
		var m Manifest
		assert.Error(t, json.Unmarshal([]byte(doc), &m), doc)
	}
}

func TestLoadManifestFallsBackToDefaults(t *testing.T) {
	e := memEngine(t, map[string]string{"/b/broken.json": "{not json"})

	m, rep := e.LoadManifest("/b/broken.json")
	assert.Equal(t, DefaultManifest(), m)
	require.Equal(t, 1, rep.Len())
	assert.ErrorIs(t, rep.Warnings[0], types.ErrParse)

	m, rep = e.LoadManifest("/b/missing.json")
	assert.Equal(t, DefaultManifest(), m)
	require.Equal(t, 1, rep.Len())
	assert.ErrorIs(t, rep.Err(), types.ErrNotFound)
}

func TestLoadGeneralInfoIsMandatory(t *testing.T) {
	e := memEngine(t, map[string]string{"/bad/general_info.json": `{"ports": `})

	_, err := e.LoadGeneralInfo("/missing")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = e.LoadGeneralInfo("/bad")
	assert.ErrorIs(t, err, types.ErrParse)
}

func TestLoadBoardIndex(t *testing.T) {
	e := memEngine(t, map[string]string{
		"/ok/boards.json":     `{"LCU": "boards/LCU/LCU.json", "BMSL": "boards/BMSL/BMSL.json"}`,
		"/broken/boards.json": `["LCU"]`,
	})

	idx, found, rep := e.LoadBoardIndex("/ok")
	assert.True(t, found)
	assert.Zero(t, rep.Len())
	assert.Equal(t, []string{"LCU", "BMSL"}, idx.Names())

	idx, found, rep = e.LoadBoardIndex("/absent")
	assert.False(t, found)
	assert.Zero(t, rep.Len())
	assert.Zero(t, idx.Len())

	idx, found, rep = e.LoadBoardIndex("/broken")
	assert.False(t, found)
	assert.Equal(t, 1, rep.Len())
	assert.Zero(t, idx.Len())
}

func TestLoadListsSkipBadFiles(t *testing.T) {
	e := memEngine(t, map[string]string{
		"/b/first.json":   `[{"id": "a", "name": "A", "type": "uint8"}]`,
		"/b/empty.json":   "  \n",
		"/b/object.json":  `{"id": "x"}`,
		"/b/second.json":  `[{"id": "b", "name": "B", "type": "bool"}, {"id": "c", "name": "C", "type": "float32"}]`,
		"/b/packets.json": `[{"type": "data", "name": "status", "variables": ["a"]}, {"type": "order", "name": "go"}]`,
	})

	ms, rep := e.LoadMeasurements([]string{"first.json", "missing.json", "empty.json", "object.json", "second.json"}, "/b")
	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Equal(t, 3, rep.Len())
	assert.ErrorIs(t, rep.Warnings[0], types.ErrNotFound)
	assert.ErrorIs(t, rep.Warnings[1], errEmptyFile)
	assert.ErrorIs(t, rep.Warnings[2], types.ErrParse)

	ps, rep := e.LoadPackets([]string{"packets.json"}, "/b")
	assert.Zero(t, rep.Len())
	require.Len(t, ps, 2)
	assert.False(t, ps[0].IsOrder())
	assert.True(t, ps[1].IsOrder())
	assert.Nil(t, ps[1].ID)

	ps, rep = e.LoadPackets(nil, "/b")
	assert.NotNil(t, ps)
	assert.Empty(t, ps)
	assert.Zero(t, rep.Len())
}

func TestLoadListsSkipWrongRecordType(t *testing.T) {
	e := memEngine(t, map[string]string{
		"/b/packets.json": `[{"type": "data", "name": "status", "variables": ["a"]}]`,
		"/b/junk.json":    `[{}, {}]`,
		"/b/meas.json":    `[{"id": "a", "name": "A", "type": "uint8"}]`,
	})

	ms, rep := e.LoadMeasurements([]string{"packets.json", "junk.json", "meas.json"}, "/b")
	require.Len(t, ms, 1)
	assert.Equal(t, "a", ms[0].ID)
	require.Equal(t, 2, rep.Len())
	assert.ErrorIs(t, rep.Warnings[0], types.ErrParse)
	assert.ErrorIs(t, rep.Warnings[1], types.ErrParse)

	ps, rep := e.LoadPackets([]string{"junk.json"}, "/b")
	assert.Empty(t, ps)
	assert.Equal(t, 1, rep.Len())
}

func TestLoadPacketsAbsentPartitions(t *testing.T) {
	e := memEngine(t, map[string]string{
		"/b/orders.json": `[{"type": "order", "name": "brake", "variables": []}]`,
	})

	ps, rep := e.LoadPackets([]string{"packets.json", "orders.json", "extra.json"}, "/b")
	require.Len(t, ps, 1)
	assert.Equal(t, "brake", ps[0].Name)
	require.Equal(t, 1, rep.Len(), "only the non-partition file is reported")
	assert.Contains(t, rep.Warnings[0].Path, "extra.json")
	assert.ErrorIs(t, rep.Warnings[0], types.ErrNotFound)
}

func TestReportErr(t *testing.T) {
	var rep Report
	assert.NoError(t, rep.Err())

	rep.Warn("LCU", "/x/a.json", types.ErrParse)
	rep.Warn("", "/x/b.json", types.ErrNotFound)
	err := rep.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrParse)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Contains(t, err.Error(), "board LCU")
}

func TestEngineSharesStore(t *testing.T) {
	st := store.New(afero.NewMemMapFs())
	e := New(st, nil)
	assert.Same(t, st, e.Store())

	require.NoError(t, e.Store().WriteFile("/port", []byte("8000")))
	cfg, rep, err := e.Load("/missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Nil(t, cfg)
	assert.Zero(t, rep.Len())
}
