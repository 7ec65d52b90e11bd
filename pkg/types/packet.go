package types

import (
	"encoding/json"
	"slices"
)

// PacketTypeOrder marks a command packet. Order packets are persisted to
// orders.json; every other type goes to packets.json.
const PacketTypeOrder = "order"

// Packet is one message definition with its ordered variable list.
type Packet struct {
	Type      string   `json:"type"`
	Name      string   `json:"name"`
	Variables []string `json:"variables"`
	ID        *uint32  `json:"id,omitempty"`
}

// IsOrder reports whether the packet is an order (command) packet.
func (p Packet) IsOrder() bool {
	return p.Type == PacketTypeOrder
}

// UnmarshalJSON requires type and name; variables and id are optional.
func (p *Packet) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "packet", "type", "name"); err != nil {
		return err
	}
	type fields Packet
	var f fields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*p = Packet(f)
	return nil
}

func (p Packet) clone() Packet {
	out := p
	out.Variables = slices.Clone(p.Variables)
	if p.ID != nil {
		id := *p.ID
		out.ID = &id
	}
	return out
}
