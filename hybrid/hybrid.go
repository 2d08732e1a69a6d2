// Package hybrid implements the hybrid dictionary backend (C3): a dynamic
// overlay on top of a static dictionary, presenting one merged, sorted
// view while confining all mutation to the dynamic side.
package hybrid

import (
	"errors"
	"strings"

	"github.com/mukoan/libbedic/dynamic"
	"github.com/mukoan/libbedic/internal/collate"
	"github.com/mukoan/libbedic/static"
)

var ErrInvalidSuffix = errors.New("hybrid: filename does not end in \".hdic\"")

const staticSuffix = ".dic.dz"

// Dict is an open hybrid dictionary: one static engine and one dynamic
// engine sharing a collation, composed by exclusive ownership.
type Dict struct {
	s *static.Dict
	d *dynamic.Dict
}

// Create builds a new hybrid dictionary at path, backed by an existing open
// static dictionary. It creates a fresh, empty dynamic overlay at path
// carrying the static side's collation definition.
func Create(path string, staticDict *static.Dict) (*Dict, error) {
	if !strings.HasSuffix(path, ".hdic") {
		return nil, ErrInvalidSuffix
	}

	charPrecedence, _ := staticDict.Property("char-precedence")
	searchIgnoreChars, ok := staticDict.Property("search-ignore-chars")
	if ok && searchIgnoreChars == "" {
		searchIgnoreChars = "-."
	}

	d, err := dynamic.Create(path, staticDict.Name(), charPrecedence, searchIgnoreChars)
	if err != nil {
		return nil, err
	}
	return &Dict{s: staticDict, d: d}, nil
}

// Open loads a hybrid dictionary from its ".hdic" overlay file, resolving
// the static side from the sibling "<basename>.dic.dz".
func Open(path string) (*Dict, error) {
	if !strings.HasSuffix(path, ".hdic") {
		return nil, ErrInvalidSuffix
	}
	staticPath := strings.TrimSuffix(path, ".hdic") + staticSuffix

	d, err := dynamic.Open(path)
	if err != nil {
		return nil, err
	}
	s, err := static.Open(staticPath)
	if err != nil {
		d.Close()
		return nil, err
	}
	return &Dict{s: s, d: d}, nil
}

// Name returns the static side's "id" property.
func (h *Dict) Name() string { return h.s.Name() }

// FileName returns the dynamic overlay's path.
func (h *Dict) FileName() string { return h.d.FileName() }

// Property tries the dynamic side first, falling back to the static side
// if the dynamic side has no non-empty value for name.
func (h *Dict) Property(name string) (string, bool) {
	if v, ok, err := h.d.GetProperty(name); err == nil && ok && v != "" {
		return v, true
	}
	return h.s.Property(name)
}

// SetProperty writes only to the dynamic side; the static file stays
// immutable.
func (h *Dict) SetProperty(name, value string) error {
	return h.d.SetProperty(name, value)
}

// ErrorMessage returns the static side's error if it has one, else the
// dynamic side's.
func (h *Dict) ErrorMessage() string {
	if msg := h.s.ErrorMessage(); msg != "" {
		return msg
	}
	return h.d.ErrorMessage()
}

// Collation returns the shared collation both sides were opened with.
func (h *Dict) Collation() *collate.Collation { return h.s.Collation() }

// IsDynamic reports whether this backend supports mutation. Hybrid
// dictionaries always do (via the dynamic overlay).
func (h *Dict) IsDynamic() bool { return true }

// IsMetaEditable reports whether this backend's properties can be edited in
// place. Hybrid dictionaries never allow this at the composed level (the
// dynamic side's own properties are still reachable through SetProperty).
func (h *Dict) IsMetaEditable() bool { return false }

// CheckIntegrity checks both sides.
func (h *Dict) CheckIntegrity() error {
	if err := h.s.CheckIntegrity(); err != nil {
		return err
	}
	return h.d.CheckIntegrity()
}

// Close releases both sides' underlying handles.
func (h *Dict) Close() error {
	errS := h.s.Close()
	errD := h.d.Close()
	if errS != nil {
		return errS
	}
	return errD
}
