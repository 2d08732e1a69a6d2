package dynamic

import (
	"database/sql"
	"errors"
)

// Cursor is a position within a dynamic dictionary's collated keyword
// space. Rather than compare against a sentinel "terminal" keyword (spec
// §9's design note flags this as the reference implementation's approach),
// a Cursor exposes an explicit AtEnd state.
type Cursor struct {
	dict *Dict

	keyword     string
	description string
	decoded     bool
	atEnd       bool
}

// AtEnd reports whether the cursor has advanced past the last entry.
func (c *Cursor) AtEnd() bool { return c.atEnd }

// Keyword returns the cursor's current keyword. Undefined once AtEnd.
func (c *Cursor) Keyword() string { return c.keyword }

// Description returns the cursor's current description, querying it on
// first access.
func (c *Cursor) Description() string {
	if c.decoded {
		return c.description
	}
	var desc string
	err := c.dict.db.QueryRow(`select description from entries where keyword = ?1`, c.keyword).Scan(&desc)
	if err != nil {
		c.dict.err = err
		return ""
	}
	c.description = desc
	c.decoded = true
	return c.description
}

// Subword always reports false: the dynamic engine has no notion of
// prefix-only matches, only exact-or-nearest.
func (c *Cursor) Subword() bool { return false }

// Next advances the cursor to the following entry in collation order. It
// returns false once the cursor has moved past the last entry.
func (c *Cursor) Next() (bool, error) {
	if c.atEnd {
		return false, nil
	}
	next, ok, err := c.dict.findNextGT(c.keyword)
	if err != nil {
		return false, err
	}
	if !ok {
		c.atEnd = true
		return false, nil
	}
	c.keyword = next
	c.description = ""
	c.decoded = false
	return true, nil
}

// Previous is unsupported by the dynamic engine's forward-only cursor.
func (c *Cursor) Previous() (bool, error) { return false, nil }

// findNextGE returns the smallest stored keyword that is >= key under the
// dictionary's registered collation.
func (d *Dict) findNextGE(key string) (string, bool, error) {
	var kw string
	err := d.db.QueryRow(`select keyword from entries where keyword >= ?1 limit 1`, key).Scan(&kw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		d.err = err
		return "", false, err
	}
	return kw, true, nil
}

// findNextGT returns the smallest stored keyword that is strictly > key
// under the dictionary's registered collation.
func (d *Dict) findNextGT(key string) (string, bool, error) {
	var kw string
	err := d.db.QueryRow(`select keyword from entries where keyword > ?1 limit 1`, key).Scan(&kw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		d.err = err
		return "", false, err
	}
	return kw, true, nil
}

// Begin returns a cursor at the first entry in collation order.
func (d *Dict) Begin() (*Cursor, error) {
	kw, ok, err := d.findNextGE("")
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Cursor{dict: d, atEnd: true}, nil
	}
	return &Cursor{dict: d, keyword: kw}, nil
}

// End returns a cursor already positioned past the last entry.
func (d *Dict) End() *Cursor { return &Cursor{dict: d, atEnd: true} }

// FindEntry returns a cursor at the nearest stored keyword that is >= word,
// along with whether it is an exact match.
func (d *Dict) FindEntry(word string) (*Cursor, bool, error) {
	kw, ok, err := d.findNextGE(word)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return &Cursor{dict: d, atEnd: true}, false, nil
	}
	return &Cursor{dict: d, keyword: kw}, kw == word, nil
}
