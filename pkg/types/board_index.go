package types

import (
	"bytes"
	"fmt"
	"path"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// BoardIndex maps board names to manifest paths relative to the ADJ root,
// in the order the entries appear in boards.json. The zero value is an
// empty index ready to use.
type BoardIndex struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewBoardIndex returns an index holding pairs in the given order. It
// panics on an odd number of arguments.
func NewBoardIndex(pairs ...string) BoardIndex {
	if len(pairs)%2 != 0 {
		panic("types: NewBoardIndex needs name/path pairs")
	}
	var idx BoardIndex
	for i := 0; i < len(pairs); i += 2 {
		idx.Set(pairs[i], pairs[i+1])
	}
	return idx
}

// CanonicalBoardPath returns the manifest path the writer uses for a board:
// boards/<name>/<name>.json, slash-separated.
func CanonicalBoardPath(name string) string {
	return path.Join("boards", name, name+".json")
}

func (idx *BoardIndex) init() {
	if idx.m == nil {
		idx.m = orderedmap.New[string, string]()
	}
}

// Get returns the relative manifest path for name.
func (idx BoardIndex) Get(name string) (string, bool) {
	if idx.m == nil {
		return "", false
	}
	return idx.m.Get(name)
}

// Has reports whether name has an entry.
func (idx BoardIndex) Has(name string) bool {
	_, ok := idx.Get(name)
	return ok
}

// Set inserts or replaces an entry. Replacing keeps the original position.
func (idx *BoardIndex) Set(name, relPath string) {
	idx.init()
	idx.m.Set(name, relPath)
}

// Delete removes name and reports whether it was present.
func (idx *BoardIndex) Delete(name string) bool {
	if idx.m == nil {
		return false
	}
	_, ok := idx.m.Delete(name)
	return ok
}

// Len returns the number of entries.
func (idx BoardIndex) Len() int {
	if idx.m == nil {
		return 0
	}
	return idx.m.Len()
}

// Names returns the board names in index order.
func (idx BoardIndex) Names() []string {
	names := make([]string, 0, idx.Len())
	idx.Each(func(name, _ string) {
		names = append(names, name)
	})
	return names
}

// Each calls fn for every entry in index order.
func (idx BoardIndex) Each(fn func(name, relPath string)) {
	if idx.m == nil {
		return
	}
	for pair := idx.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Clone returns an independent copy.
func (idx BoardIndex) Clone() BoardIndex {
	var out BoardIndex
	idx.Each(func(name, relPath string) {
		out.Set(name, relPath)
	})
	return out
}

// MarshalJSON encodes the index as a JSON object in index order.
func (idx BoardIndex) MarshalJSON() ([]byte, error) {
	if idx.m == nil || idx.m.Len() == 0 {
		return []byte("{}"), nil
	}
	return idx.m.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object of string values, keeping key order.
// A JSON null decodes to an empty index.
func (idx *BoardIndex) UnmarshalJSON(data []byte) error {
	idx.m = orderedmap.New[string, string]()
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("board index must be a JSON object")
	}
	return idx.m.UnmarshalJSON(trimmed)
}
