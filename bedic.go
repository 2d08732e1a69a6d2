package bedic

import (
	"fmt"
	"strings"

	"github.com/mukoan/libbedic/dynamic"
	"github.com/mukoan/libbedic/hybrid"
	"github.com/mukoan/libbedic/internal/collate"
	"github.com/mukoan/libbedic/static"
)

// Cursor is a position within a dictionary's collation-ordered keyword
// space. Rather than compare against a sentinel "past the end" keyword,
// implementations expose an explicit AtEnd state.
type Cursor interface {
	AtEnd() bool
	Keyword() string
	Description() string
	Subword() bool
	Next() (bool, error)
	Previous() (bool, error)
}

// Dictionary is the read-only capability set common to every backend.
type Dictionary interface {
	Name() string
	FileName() string
	Property(name string) (string, bool)
	ErrorMessage() string
	Collation() *collate.Collation
	IsDynamic() bool
	IsMetaEditable() bool
	CheckIntegrity() error
	Close() error

	Begin() (Cursor, error)
	End() Cursor
	FindEntry(word string) (Cursor, bool, error)
}

// Editable extends Dictionary with the mutation operations available on
// the dynamic and hybrid backends.
type Editable interface {
	Dictionary
	InsertEntry(keyword string) (Cursor, error)
	UpdateEntry(cur Cursor, description string) error
	RemoveEntry(cur Cursor) error
	SetProperty(name, value string) error
}

// Open loads the dictionary at path, selecting a backend by filename
// suffix: ".edic" loads a dynamic dictionary, ".hdic" loads a hybrid
// dictionary, any other suffix loads a static dictionary.
func Open(path string) (Dictionary, error) {
	switch {
	case strings.HasSuffix(path, ".edic"):
		d, err := dynamic.Open(path)
		if err != nil {
			return nil, err
		}
		return dynamicAdapter{d}, nil
	case strings.HasSuffix(path, ".hdic"):
		d, err := hybrid.Open(path)
		if err != nil {
			return nil, err
		}
		return hybridAdapter{d}, nil
	default:
		d, err := static.Open(path)
		if err != nil {
			return nil, err
		}
		return staticAdapter{d}, nil
	}
}

// OpenEditable is Open, further requiring the resolved backend to be
// editable. It fails on a plain static dictionary.
func OpenEditable(path string) (Editable, error) {
	d, err := Open(path)
	if err != nil {
		return nil, err
	}
	e, ok := d.(Editable)
	if !ok {
		d.Close()
		return nil, fmt.Errorf("bedic: %s is not an editable dictionary", path)
	}
	return e, nil
}
