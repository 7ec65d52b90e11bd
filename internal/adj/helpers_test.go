package adj

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mesh-intelligence/adjvalet/pkg/types"
)

// writeTree creates files under root from a relative-path → content map.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// observedEngine returns an OS-backed engine whose warnings can be inspected.
func observedEngine() (*Engine, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewOS(zap.New(core)), logs
}

func u32(v uint32) *uint32 { return &v }

// sampleConfig is a well-formed configuration with two boards, one of which
// has both packet kinds.
func sampleConfig() *types.Configuration {
	return &types.Configuration{
		GeneralInfo: types.GeneralInfo{
			Ports:      map[string]uint16{"UDP": 8000, "TCP_SERVER": 50500},
			Addresses:  map[string]string{"backend": "127.0.0.9"},
			Units:      map[string]string{"V": "#*1"},
			MessageIDs: map[string]uint32{"add_state_order": 5},
		},
		Boards: []types.BoardRecord{
			{
				Name: "VCU",
				Board: types.Board{
					BoardID: 2,
					BoardIP: "127.0.0.6",
					Measurements: []types.Measurement{
						{ID: "vcu_state", Name: "State", Type: "enum", EnumValues: []string{"IDLE", "RUN"}},
						{ID: "voltage", Name: "Voltage", Type: "float32", PodUnits: "V", DisplayUnits: "V",
							SafeRange: &types.Range{0, 400}, WarningRange: &types.Range{10, 390}},
					},
					Packets: []types.Packet{
						{Type: "data", Name: "vcu_status", Variables: []string{"vcu_state", "voltage"}, ID: u32(249)},
						{Type: types.PacketTypeOrder, Name: "start", Variables: []string{}, ID: u32(250)},
					},
				},
			},
			{
				Name: "BMSL",
				Board: types.Board{
					BoardID:      5,
					BoardIP:      "127.0.0.7",
					Measurements: []types.Measurement{{ID: "soc", Name: "SoC", Type: "uint8"}},
					Packets: []types.Packet{
						{Type: "data", Name: "bmsl_status", Variables: []string{"soc"}},
					},
				},
			},
		},
	}
}
