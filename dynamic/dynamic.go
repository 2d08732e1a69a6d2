// Package dynamic implements the SQL-backed dynamic dictionary backend
// (C2/§4.5): an editable keyword/description store with a user-registered
// collation controlling both ordering and range scans.
package dynamic

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/mattn/go-sqlite3"

	"github.com/mukoan/libbedic/internal/collate"
)

var (
	ErrMissingID   = errors.New("dynamic: header missing required \"id\" property")
	ErrFileExists  = errors.New("dynamic: file already exists")
	ErrFileMissing = errors.New("dynamic: file does not exist")
)

const schema = `
create table entries (
  keyword varchar(200) primary key collate bedic,
  description varchar(1024000),
  create_date integer,
  modif_date integer
);
create table properties (
  tag varchar(200) primary key,
  value varchar(1024000)
);
`

var driverSeq int64

// collationSlot holds the collation a registered sqlite3 driver consults on
// every "bedic" comparison. It exists because the driver must be registered
// (and its ConnectHook wired) before the collation definition is known: the
// definition itself lives in the properties table the driver's own
// connection is used to read.
type collationSlot struct {
	col atomic.Pointer[collate.Collation]
}

// registerDriver registers a fresh sqlite3 driver whose connections expose a
// "bedic" collation backed by slot. A fresh driver name is required per
// dictionary because go-sqlite3 collations are wired at the driver level via
// ConnectHook, and database/sql has no API to unregister a driver, so
// driverSeq grows for the life of the process — one entry per dictionary
// ever opened, which is the accepted cost of per-database custom
// collations with this driver (see DESIGN.md).
func registerDriver(slot *collationSlot) string {
	name := fmt.Sprintf("sqlite3_bedic_%d", atomic.AddInt64(&driverSeq, 1))
	sql.Register(name, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterCollation("bedic", func(a, b string) int {
				col := slot.col.Load()
				return col.Compare(col.Canonicalize(a), col.Canonicalize(b))
			})
		},
	})
	return name
}

// Dict is an open dynamic dictionary.
type Dict struct {
	path string
	db   *sql.DB
	slot *collationSlot
	col  *collate.Collation
	name string
	err  error
}

// Create initializes a new, empty dynamic dictionary at path. It fails if a
// file already exists there.
func Create(path, name, collationDef, searchIgnoreChars string) (*Dict, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, ErrFileExists
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	col := collate.New(collationDef, searchIgnoreChars)
	slot := &collationSlot{}
	slot.col.Store(col)

	db, err := sql.Open(registerDriver(slot), path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		os.Remove(path)
		return nil, fmt.Errorf("dynamic: creating schema: %w", err)
	}

	d := &Dict{path: path, db: db, slot: slot, col: col, name: name}
	for _, prop := range [][2]string{
		{"id", name},
		{"collation", collationDef},
		{"search-ignore-chars", searchIgnoreChars},
	} {
		if err := d.SetProperty(prop[0], prop[1]); err != nil {
			db.Close()
			os.Remove(path)
			return nil, err
		}
	}
	return d, nil
}

// Open loads an existing dynamic dictionary at path, reading its "id" and
// "collation" properties to rebuild the collation the store was created
// with.
func Open(path string) (*Dict, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrFileMissing
		}
		return nil, err
	}

	slot := &collationSlot{}
	slot.col.Store(collate.New("", ""))

	db, err := sql.Open(registerDriver(slot), path)
	if err != nil {
		return nil, err
	}

	d := &Dict{path: path, db: db, slot: slot}

	name, ok, err := d.GetProperty("id")
	if err != nil {
		db.Close()
		return nil, err
	}
	if !ok || name == "" {
		db.Close()
		return nil, ErrMissingID
	}
	d.name = name

	collationDef, _, err := d.GetProperty("collation")
	if err != nil {
		db.Close()
		return nil, err
	}
	searchIgnoreChars, _, err := d.GetProperty("search-ignore-chars")
	if err != nil {
		db.Close()
		return nil, err
	}

	d.col = collate.New(collationDef, searchIgnoreChars)
	slot.col.Store(d.col)

	return d, nil
}

// GetProperty returns a dictionary-level property by name.
func (d *Dict) GetProperty(name string) (string, bool, error) {
	var value string
	err := d.db.QueryRow(`select value from properties where tag = ?1`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		d.err = err
		return "", false, err
	}
	return value, true, nil
}

// SetProperty creates or overwrites a dictionary-level property.
func (d *Dict) SetProperty(name, value string) error {
	_, err := d.db.Exec(`insert or replace into properties (tag, value) values (?1, ?2)`, name, value)
	if err != nil {
		d.err = err
	}
	return err
}

// Name returns the dictionary's "id" property.
func (d *Dict) Name() string { return d.name }

// FileName returns the path the dictionary was opened from.
func (d *Dict) FileName() string { return d.path }

// ErrorMessage returns the message of the last sticky error, or "" if none.
func (d *Dict) ErrorMessage() string {
	if d.err == nil {
		return ""
	}
	return d.err.Error()
}

// Collation returns the collation this dictionary was opened with, shared
// with a static engine when composed into a hybrid dictionary.
func (d *Dict) Collation() *collate.Collation { return d.col }

// IsDynamic reports whether this backend supports mutation. Dynamic
// dictionaries always do.
func (d *Dict) IsDynamic() bool { return true }

// IsMetaEditable reports whether this backend's properties can be edited in
// place. Dynamic dictionaries always allow this.
func (d *Dict) IsMetaEditable() bool { return true }

// CheckIntegrity delegates to SQLite's own structural check, the SQL-native
// analog of the static engine's trailer/anchor scan.
func (d *Dict) CheckIntegrity() error {
	var result string
	if err := d.db.QueryRow(`pragma integrity_check`).Scan(&result); err != nil {
		return err
	}
	if result != "ok" {
		return fmt.Errorf("dynamic: integrity check failed: %s", result)
	}
	return nil
}

// Close releases the dictionary's underlying database handle.
func (d *Dict) Close() error { return d.db.Close() }
