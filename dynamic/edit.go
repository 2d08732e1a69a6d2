package dynamic

import (
	"fmt"
	"time"
)

// InsertEntry creates a new entry with an empty description and returns a
// cursor positioned at it. It fails if the keyword already exists.
func (d *Dict) InsertEntry(keyword string) (*Cursor, error) {
	now := time.Now().Unix()
	_, err := d.db.Exec(
		`insert into entries (keyword, create_date, modif_date) values (?1, ?2, ?2)`,
		keyword, now,
	)
	if err != nil {
		d.err = err
		return nil, err
	}
	return &Cursor{dict: d, keyword: keyword, description: "", decoded: true}, nil
}

// UpdateEntry sets the description of the entry the cursor points to.
func (d *Dict) UpdateEntry(c *Cursor, description string) error {
	now := time.Now().Unix()
	res, err := d.db.Exec(
		`update entries set description = ?2, modif_date = ?3 where keyword = ?1`,
		c.keyword, description, now,
	)
	if err != nil {
		d.err = err
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("dynamic: updateEntry: keyword %q does not exist", c.keyword)
	}
	c.description = description
	c.decoded = true
	return nil
}

// RemoveEntry deletes the entry the cursor points to.
func (d *Dict) RemoveEntry(c *Cursor) error {
	_, err := d.db.Exec(`delete from entries where keyword = ?1`, c.keyword)
	if err != nil {
		d.err = err
	}
	return err
}
