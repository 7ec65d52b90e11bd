package adj

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/mesh-intelligence/adjvalet/pkg/types"
)

// Manifest is a board's primary file: its identity plus the measurement
// and packet files it references, relative to the manifest's directory.
//
// Decoding substitutes defaults field by field instead of failing:
//   - board_id: 0 when absent, null, not an unsigned integer, or out of range
//   - board_ip: "0.0.0.0" when absent, null or not a string
//   - measurements, packets: empty when absent, null or not an array;
//     elements that are not strings, including null, are dropped
type Manifest struct {
	BoardID      uint32   `json:"board_id"`
	BoardIP      string   `json:"board_ip"`
	Measurements []string `json:"measurements"`
	Packets      []string `json:"packets"`
}

// DefaultManifest is the manifest assumed for a board with no manifest file.
func DefaultManifest() Manifest {
	return Manifest{
		BoardID:      types.DefaultBoardID,
		BoardIP:      types.DefaultBoardIP,
		Measurements: []string{},
		Packets:      []string{},
	}
}

// canonicalManifest is the manifest the writer regenerates for a board.
func canonicalManifest(name string, b types.Board) Manifest {
	return Manifest{
		BoardID:      b.BoardID,
		BoardIP:      b.BoardIP,
		Measurements: []string{MeasurementsFileName(name)},
		Packets:      []string{DataPacketsFile, OrderPacketsFile},
	}
}

// UnmarshalJSON requires a JSON object; individual fields fall back to
// their defaults.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("manifest is null")
	}
	*m = DefaultManifest()

	if v, ok := raw["board_id"]; ok && !isNull(v) {
		var id uint32
		if json.Unmarshal(v, &id) == nil {
			m.BoardID = id
		}
	}
	if v, ok := raw["board_ip"]; ok && !isNull(v) {
		var ip string
		if json.Unmarshal(v, &ip) == nil {
			m.BoardIP = ip
		}
	}
	m.Measurements = stringList(raw["measurements"])
	m.Packets = stringList(raw["packets"])
	return nil
}

func stringList(v json.RawMessage) []string {
	out := []string{}
	if v == nil || isNull(v) {
		return out
	}
	var items []json.RawMessage
	if json.Unmarshal(v, &items) != nil {
		return out
	}
	for _, item := range items {
		if isNull(item) {
			continue
		}
		var s string
		if json.Unmarshal(item, &s) == nil {
			out = append(out, s)
		}
	}
	return out
}

// isNull reports whether v is the JSON literal null, which json.Unmarshal
// accepts into any type without changing it.
func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
