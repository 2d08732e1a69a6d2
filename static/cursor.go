package static

import (
	"fmt"
	"math/rand/v2"
)

// Cursor is a position within a static dictionary's sorted keyword space.
// Rather than compare against a sentinel "past the end" keyword (spec §9's
// design note flags this as the reference implementation's approach), a
// Cursor exposes an explicit AtEnd state.
type Cursor struct {
	dict   *Dict
	offset int64
	next   int64 // -1 if unknown

	rec     *record
	subword bool
	atEnd   bool
}

// AtEnd reports whether the cursor has advanced past the last entry.
func (c *Cursor) AtEnd() bool { return c.atEnd }

// Keyword returns the cursor's current keyword. Undefined once AtEnd.
func (c *Cursor) Keyword() string { return c.rec.keyword }

// Description returns the cursor's current description, decoding it (and
// running it through the SHCM model, if any) on first access.
func (c *Cursor) Description() string {
	s, err := c.rec.resolveDescription()
	if err != nil {
		c.dict.err = err
		return ""
	}
	return s
}

// Subword reports whether the most recent FindEntry landed on a keyword
// that has the query as a proper prefix without being an exact match.
func (c *Cursor) Subword() bool { return c.subword }

// Next advances the cursor to the following entry in collation order. It
// returns false once the cursor has moved past the last entry.
func (c *Cursor) Next() (bool, error) {
	if c.atEnd {
		return false, nil
	}
	if c.offset >= c.dict.lastEntryPos {
		c.atEnd = true
		return false, nil
	}

	next := c.next
	if next < 0 {
		next = c.dict.findNext(c.offset + 1)
	}

	rec, totalLen, err := c.dict.readEntry(next)
	if err != nil {
		return false, err
	}

	c.offset = next
	c.next = next + totalLen + 1
	c.rec = rec
	c.subword = false
	return true, nil
}

// Previous is unsupported by the static engine's forward-only cursor.
func (c *Cursor) Previous() (bool, error) { return false, nil }

// Begin returns a cursor at the first entry in collation order.
func (d *Dict) Begin() (*Cursor, error) {
	rec, totalLen, err := d.readEntry(d.firstEntryPos)
	if err != nil {
		return nil, err
	}
	return &Cursor{dict: d, offset: d.firstEntryPos, next: d.firstEntryPos + totalLen + 1, rec: rec}, nil
}

// End returns a cursor already positioned past the last entry.
func (d *Dict) End() *Cursor {
	return &Cursor{dict: d, atEnd: true}
}

// LastEntry returns a cursor at the last entry in collation order.
func (d *Dict) LastEntry() (*Cursor, error) {
	rec, totalLen, err := d.readEntry(d.lastEntryPos)
	if err != nil {
		return nil, err
	}
	return &Cursor{dict: d, offset: d.lastEntryPos, next: d.lastEntryPos + totalLen + 1, rec: rec}, nil
}

// RandomEntry returns a cursor at an entry chosen uniformly over the
// entry region's byte range and snapped forward to the next entry start,
// the redesigned behavior of spec §9 (the reference implementation's
// expression for this is acknowledged as broken).
func (d *Dict) RandomEntry() (*Cursor, error) {
	span := d.lastEntryPos - d.firstEntryPos
	var offset int64
	if span > 0 {
		offset = d.firstEntryPos + rand.Int64N(span+1)
	} else {
		offset = d.firstEntryPos
	}

	snapped := d.findNext(offset)
	rec, totalLen, err := d.readEntry(snapped)
	if err != nil {
		return nil, err
	}
	return &Cursor{dict: d, offset: snapped, next: snapped + totalLen + 1, rec: rec}, nil
}

// CheckIntegrity performs the two structural checks of spec §4.4: a
// well-formed trailer, and a sample of index anchors that each land
// immediately after a 0x00 entry delimiter.
func (d *Dict) CheckIntegrity() error {
	size := d.r.Size()
	if size < 1 {
		return fmt.Errorf("static: %w", ErrBadTrailer)
	}

	tail := make([]byte, 2)
	n, err := d.r.Read(size-2, tail)
	if err != nil {
		return err
	}
	ok := (n == 2 && tail[0] == 0x00 && tail[1] == '\n') || (n >= 1 && tail[n-1] == 0x00)
	if !ok {
		return ErrBadTrailer
	}

	if d.idx == nil || d.idx.Len() == 0 {
		return nil
	}

	const samples = 7
	step := d.idx.Len() / samples
	if step < 1 {
		step = 1
	}
	for i := 0; i < d.idx.Len(); i += step {
		a := d.idx.At(i)
		if a.offset <= d.firstEntryPos {
			continue
		}
		b := make([]byte, 1)
		if _, err := d.r.Read(a.offset-1, b); err != nil {
			return err
		}
		if b[0] != 0x00 {
			return fmt.Errorf("static: %w at index entry %d (offset %d)", ErrBadAnchor, i, a.offset)
		}
	}
	return nil
}
