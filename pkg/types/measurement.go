package types

import (
	"encoding/json"
	"slices"
)

// Range is a [min, max] interval. The engine does not enforce min <= max.
type Range [2]float64

// Measurement is one sensor or telemetry value definition.
type Measurement struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	PodUnits     string   `json:"podUnits,omitempty"`
	DisplayUnits string   `json:"displayUnits,omitempty"`
	EnumValues   []string `json:"enumValues,omitempty"`
	SafeRange    *Range   `json:"safeRange,omitempty"`
	WarningRange *Range   `json:"warningRange,omitempty"`
}

// UnmarshalJSON requires id, name and type; the remaining fields are
// optional.
func (m *Measurement) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "measurement", "id", "name", "type"); err != nil {
		return err
	}
	type fields Measurement
	var f fields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*m = Measurement(f)
	return nil
}

func (m Measurement) clone() Measurement {
	out := m
	out.EnumValues = slices.Clone(m.EnumValues)
	if m.SafeRange != nil {
		r := *m.SafeRange
		out.SafeRange = &r
	}
	if m.WarningRange != nil {
		r := *m.WarningRange
		out.WarningRange = &r
	}
	return out
}
