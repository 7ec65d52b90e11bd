package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Default manifest values substituted when a board's manifest is missing
// or a field is absent or has the wrong type.
const (
	DefaultBoardID uint32 = 0
	DefaultBoardIP        = "0.0.0.0"
)

// Board is the body of one hardware board's configuration.
type Board struct {
	BoardID      uint32        `json:"board_id"`
	BoardIP      string        `json:"board_ip"`
	Measurements []Measurement `json:"measurements"`
	Packets      []Packet      `json:"packets"`
}

// BoardRecord is a Board together with its name. Name uniqueness is
// enforced by Configuration, not here.
//
// On the wire a record is a single-key object: {"<name>": Board}.
type BoardRecord struct {
	Name  string
	Board Board
}

// MarshalJSON encodes the record as {"<name>": {...}}.
func (r BoardRecord) MarshalJSON() ([]byte, error) {
	b := r.Board
	b.normalize()
	return json.Marshal(map[string]Board{r.Name: b})
}

// UnmarshalJSON decodes a single-key object. Objects with zero or several
// keys are rejected.
func (r *BoardRecord) UnmarshalJSON(data []byte) error {
	var m map[string]Board
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if len(m) != 1 {
		return fmt.Errorf("%w: board entry must have exactly one key, got %d", ErrBadRequest, len(m))
	}
	for name, board := range m {
		r.Name = name
		r.Board = board
	}
	return nil
}

// OrderPackets returns the board's order packets in their original order.
func (b Board) OrderPackets() []Packet {
	var out []Packet
	for _, p := range b.Packets {
		if p.IsOrder() {
			out = append(out, p)
		}
	}
	return out
}

// DataPackets returns every packet that is not an order, in order.
func (b Board) DataPackets() []Packet {
	var out []Packet
	for _, p := range b.Packets {
		if !p.IsOrder() {
			out = append(out, p)
		}
	}
	return out
}

func (b *Board) normalize() {
	if b.Measurements == nil {
		b.Measurements = []Measurement{}
	}
	if b.Packets == nil {
		b.Packets = []Packet{}
	}
	for i := range b.Packets {
		if b.Packets[i].Variables == nil {
			b.Packets[i].Variables = []string{}
		}
	}
}

func (b Board) clone() Board {
	out := b
	if b.Measurements != nil {
		out.Measurements = make([]Measurement, len(b.Measurements))
		for i, m := range b.Measurements {
			out.Measurements[i] = m.clone()
		}
	}
	if b.Packets != nil {
		out.Packets = make([]Packet, len(b.Packets))
		for i, p := range b.Packets {
			out.Packets[i] = p.clone()
		}
	}
	return out
}

// ValidateBoardName rejects names that cannot be used as a directory name
// under boards/.
func ValidateBoardName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: board name must not be empty", ErrBadRequest)
	case name == "." || name == "..":
		return fmt.Errorf("%w: invalid board name %q", ErrBadRequest, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: board name %q must not contain path separators", ErrBadRequest, name)
	}
	return nil
}
