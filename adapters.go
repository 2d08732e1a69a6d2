package bedic

import (
	"errors"

	"github.com/mukoan/libbedic/dynamic"
	"github.com/mukoan/libbedic/hybrid"
	"github.com/mukoan/libbedic/static"
)

// ErrForeignCursor is returned when an Editable method is called with a
// Cursor obtained from a different dictionary or a different backend.
var ErrForeignCursor = errors.New("bedic: cursor does not belong to this dictionary's backend")

// The three backend packages (static, dynamic, hybrid) never import this
// package: each exposes a Begin/End/FindEntry that returns its own
// concrete *Cursor type rather than the Cursor interface here, since Go
// requires exact method signatures for interface satisfaction and a
// covariant return would break that. These adapters are the thin
// translation layer that boxes each backend's concrete cursor into the
// Cursor interface; every other Dictionary method is promoted unchanged
// through struct embedding because its signature already matches.

type staticAdapter struct{ *static.Dict }

func (a staticAdapter) Begin() (Cursor, error) {
	c, err := a.Dict.Begin()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (a staticAdapter) End() Cursor { return a.Dict.End() }

func (a staticAdapter) FindEntry(word string) (Cursor, bool, error) {
	c, matches, err := a.Dict.FindEntry(word)
	if err != nil {
		return nil, false, err
	}
	return c, matches, nil
}

type dynamicAdapter struct{ *dynamic.Dict }

func (a dynamicAdapter) Property(name string) (string, bool) {
	v, ok, err := a.Dict.GetProperty(name)
	if err != nil {
		return "", false
	}
	return v, ok
}

func (a dynamicAdapter) Begin() (Cursor, error) {
	c, err := a.Dict.Begin()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (a dynamicAdapter) End() Cursor { return a.Dict.End() }

func (a dynamicAdapter) FindEntry(word string) (Cursor, bool, error) {
	c, matches, err := a.Dict.FindEntry(word)
	if err != nil {
		return nil, false, err
	}
	return c, matches, nil
}

func (a dynamicAdapter) InsertEntry(keyword string) (Cursor, error) {
	c, err := a.Dict.InsertEntry(keyword)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (a dynamicAdapter) UpdateEntry(cur Cursor, description string) error {
	c, ok := cur.(*dynamic.Cursor)
	if !ok {
		return ErrForeignCursor
	}
	return a.Dict.UpdateEntry(c, description)
}

func (a dynamicAdapter) RemoveEntry(cur Cursor) error {
	c, ok := cur.(*dynamic.Cursor)
	if !ok {
		return ErrForeignCursor
	}
	return a.Dict.RemoveEntry(c)
}

type hybridAdapter struct{ *hybrid.Dict }

func (a hybridAdapter) Begin() (Cursor, error) {
	c, err := a.Dict.Begin()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (a hybridAdapter) End() Cursor { return a.Dict.End() }

func (a hybridAdapter) FindEntry(word string) (Cursor, bool, error) {
	c, matches, err := a.Dict.FindEntry(word)
	if err != nil {
		return nil, false, err
	}
	return c, matches, nil
}

func (a hybridAdapter) InsertEntry(keyword string) (Cursor, error) {
	c, err := a.Dict.InsertEntry(keyword)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (a hybridAdapter) UpdateEntry(cur Cursor, description string) error {
	c, ok := cur.(*hybrid.Cursor)
	if !ok {
		return ErrForeignCursor
	}
	return a.Dict.UpdateEntry(c, description)
}

func (a hybridAdapter) RemoveEntry(cur Cursor) error {
	c, ok := cur.(*hybrid.Cursor)
	if !ok {
		return ErrForeignCursor
	}
	return a.Dict.RemoveEntry(c)
}
