package types

import "fmt"

// Configuration is the in-memory ADJ configuration: general info, the
// ordered board list and the board index loaded from boards.json.
type Configuration struct {
	GeneralInfo GeneralInfo   `json:"general_info"`
	BoardIndex  BoardIndex    `json:"board_list"`
	Boards      []BoardRecord `json:"boards"`
}

// Board returns the record named name and its position in Boards.
func (c *Configuration) Board(name string) (*BoardRecord, int, bool) {
	for i := range c.Boards {
		if c.Boards[i].Name == name {
			return &c.Boards[i], i, true
		}
	}
	return nil, -1, false
}

// BoardNames returns the board names in list order.
func (c *Configuration) BoardNames() []string {
	names := make([]string, len(c.Boards))
	for i, r := range c.Boards {
		names[i] = r.Name
	}
	return names
}

// CanonicalIndex builds the index the writer persists: one entry per board,
// in board order, pointing at boards/<name>/<name>.json.
func (c *Configuration) CanonicalIndex() BoardIndex {
	var idx BoardIndex
	for _, r := range c.Boards {
		idx.Set(r.Name, CanonicalBoardPath(r.Name))
	}
	return idx
}

// Validate applies the minimal sanity checks run before a configuration
// received from a client is written to disk. An update with no ports and
// no boards is treated as incomplete data.
func (c *Configuration) Validate() error {
	if len(c.GeneralInfo.Ports) == 0 && len(c.Boards) == 0 {
		return fmt.Errorf("%w: invalid configuration: empty ports and boards", ErrBadRequest)
	}
	seen := make(map[string]bool, len(c.Boards))
	for _, r := range c.Boards {
		if err := ValidateBoardName(r.Name); err != nil {
			return err
		}
		if seen[r.Name] {
			return fmt.Errorf("%w: duplicate board %q", ErrBadRequest, r.Name)
		}
		seen[r.Name] = true
	}
	return nil
}

// Normalize replaces nil maps and slices with empty ones so that every
// collection encodes as {} or [] rather than null.
func (c *Configuration) Normalize() {
	c.GeneralInfo.normalize()
	if c.Boards == nil {
		c.Boards = []BoardRecord{}
	}
	for i := range c.Boards {
		c.Boards[i].Board.normalize()
	}
}

// Clone returns a deep copy.
func (c *Configuration) Clone() *Configuration {
	out := &Configuration{
		GeneralInfo: c.GeneralInfo.clone(),
		BoardIndex:  c.BoardIndex.Clone(),
	}
	if c.Boards != nil {
		out.Boards = make([]BoardRecord, len(c.Boards))
		for i, r := range c.Boards {
			out.Boards[i] = BoardRecord{Name: r.Name, Board: r.Board.clone()}
		}
	}
	return out
}
