package types

import (
	"encoding/json"
	"fmt"
)

// requireFields returns an error unless data is a JSON object holding every
// key in keys with a non-null value.
func requireFields(data []byte, kind string, keys ...string) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("%s must be an object", kind)
	}
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || string(v) == "null" {
			return fmt.Errorf("%s: missing field %q", kind, k)
		}
	}
	return nil
}
