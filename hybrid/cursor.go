package hybrid

import (
	"github.com/mukoan/libbedic/dynamic"
	"github.com/mukoan/libbedic/static"
)

// subCursor is the shape both static.Cursor and dynamic.Cursor satisfy
// structurally; the merging iterator only ever needs to hold "whichever
// side is currently first" as this common shape.
type subCursor interface {
	AtEnd() bool
	Keyword() string
	Description() string
	Subword() bool
	Next() (bool, error)
}

type order int

const (
	noOrder order = iota
	staticFirst
	dynamicFirst
	bothSame
)

// Cursor is a merged position over a hybrid dictionary's static and
// dynamic sub-cursors. order is computed lazily on first access after
// construction or a Next, per spec §4.6's getFirstIterator.
type Cursor struct {
	dict *Dict

	s *static.Cursor
	d *dynamic.Cursor

	order order
}

// resolve returns the sub-cursor that is currently "first" — the one whose
// keyword would be reported by Keyword/Description/Subword. A dynamic
// entry always shadows a static one with the same canonicalized keyword.
func (c *Cursor) resolve() subCursor {
	switch c.order {
	case staticFirst:
		return c.s
	case dynamicFirst, bothSame:
		return c.d
	}

	sEnd, dEnd := c.s.AtEnd(), c.d.AtEnd()
	switch {
	case sEnd && dEnd:
		c.order = bothSame
		return c.d
	case sEnd:
		c.order = dynamicFirst
		return c.d
	case dEnd:
		c.order = staticFirst
		return c.s
	}

	col := c.dict.s.Collation()
	switch res := col.Compare(col.Canonicalize(c.s.Keyword()), col.Canonicalize(c.d.Keyword())); {
	case res == 0:
		c.order = bothSame
		return c.d
	case res < 0:
		c.order = staticFirst
		return c.s
	default:
		c.order = dynamicFirst
		return c.d
	}
}

// AtEnd reports whether the cursor has advanced past the last entry on
// both sides.
func (c *Cursor) AtEnd() bool { return c.resolve().AtEnd() }

// Keyword returns the cursor's current keyword. Undefined once AtEnd.
func (c *Cursor) Keyword() string { return c.resolve().Keyword() }

// Description returns the cursor's current description. Undefined once
// AtEnd.
func (c *Cursor) Description() string { return c.resolve().Description() }

// Subword reports whether the most recent FindEntry landed on a
// proper-prefix, non-exact match on whichever side is first.
func (c *Cursor) Subword() bool { return c.resolve().Subword() }

// Next advances whichever sub-cursor is first; if both sides are
// positioned at the same canonicalized keyword, both advance together so
// the shadowed static entry is skipped.
func (c *Cursor) Next() (bool, error) {
	first := c.resolve()
	ok, err := first.Next()
	if err != nil {
		return false, err
	}
	if c.order == bothSame {
		if _, err := c.s.Next(); err != nil {
			return false, err
		}
	}
	c.order = noOrder
	return ok, nil
}

// Previous is unsupported by the hybrid engine's forward-only cursor.
func (c *Cursor) Previous() (bool, error) { return false, nil }

// Begin returns a cursor at the first entry in the merged collation order.
func (h *Dict) Begin() (*Cursor, error) {
	s, err := h.s.Begin()
	if err != nil {
		return nil, err
	}
	d, err := h.d.Begin()
	if err != nil {
		return nil, err
	}
	return &Cursor{dict: h, s: s, d: d}, nil
}

// End returns a cursor already positioned past the last entry on both
// sides.
func (h *Dict) End() *Cursor {
	return &Cursor{dict: h, s: h.s.End(), d: h.d.End()}
}

// FindEntry searches both sides and composes the result: matches is true
// if either side has an exact match.
func (h *Dict) FindEntry(word string) (*Cursor, bool, error) {
	s, matchesStatic, err := h.s.FindEntry(word)
	if err != nil {
		return nil, false, err
	}
	d, matchesDynamic, err := h.d.FindEntry(word)
	if err != nil {
		return nil, false, err
	}
	return &Cursor{dict: h, s: s, d: d}, matchesStatic || matchesDynamic, nil
}
