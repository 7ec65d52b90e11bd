package types

import "maps"

// GeneralInfo holds the project-wide lookup tables stored in
// general_info.json. The fields are purely descriptive.
type GeneralInfo struct {
	Ports      map[string]uint16 `json:"ports"`
	Addresses  map[string]string `json:"addresses"`
	Units      map[string]string `json:"units"`
	MessageIDs map[string]uint32 `json:"message_ids"`
}

// normalize replaces nil maps with empty ones so the encoded form always
// carries all four objects.
func (g *GeneralInfo) normalize() {
	if g.Ports == nil {
		g.Ports = map[string]uint16{}
	}
	if g.Addresses == nil {
		g.Addresses = map[string]string{}
	}
	if g.Units == nil {
		g.Units = map[string]string{}
	}
	if g.MessageIDs == nil {
		g.MessageIDs = map[string]uint32{}
	}
}

func (g GeneralInfo) clone() GeneralInfo {
	return GeneralInfo{
		Ports:      maps.Clone(g.Ports),
		Addresses:  maps.Clone(g.Addresses),
		Units:      maps.Clone(g.Units),
		MessageIDs: maps.Clone(g.MessageIDs),
	}
}
