package hybrid

// InsertEntry creates a new entry on the dynamic side and returns a merged
// cursor positioned at it.
func (h *Dict) InsertEntry(keyword string) (*Cursor, error) {
	d, err := h.d.InsertEntry(keyword)
	if err != nil {
		return nil, err
	}
	s, _, err := h.s.FindEntry(keyword)
	if err != nil {
		return nil, err
	}
	return &Cursor{dict: h, s: s, d: d}, nil
}

// UpdateEntry sets the description of the entry the cursor points to. If
// the keyword only exists on the static side, it is first materialized
// into the dynamic side so the static file stays immutable.
func (h *Dict) UpdateEntry(c *Cursor, description string) error {
	keyword := c.Keyword()

	target, matches, err := h.d.FindEntry(keyword)
	if err != nil {
		return err
	}
	if !matches {
		target, err = h.d.InsertEntry(keyword)
		if err != nil {
			return err
		}
	}
	return h.d.UpdateEntry(target, description)
}

// RemoveEntry deletes the entry from the dynamic side. A static-only entry
// with the same keyword, if any, remains visible afterward.
func (h *Dict) RemoveEntry(c *Cursor) error {
	return h.d.RemoveEntry(c.d)
}
