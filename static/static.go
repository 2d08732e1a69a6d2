// Package static implements the static-file dictionary backend (C1): a
// read-only lookup engine over a single file holding an escaped header, a
// sparse position index, and a sequence of delimiter-framed entries,
// optionally carried inside a dictzip container and optionally compressed
// per-field with the SHCM codec.
package static

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/mukoan/libbedic/internal/block"
	"github.com/mukoan/libbedic/internal/collate"
	"github.com/mukoan/libbedic/internal/escape"
	"github.com/mukoan/libbedic/internal/index"
	"github.com/mukoan/libbedic/internal/shcm"
)

// Sentinel errors surfaced by Open and integrity checks. Per-call I/O and
// format failures are reported inline (spec §7's error taxonomy); these
// four are the class of error that prevents a dictionary from opening or
// passing CheckIntegrity at all.
var (
	ErrMissingID       = errors.New("static: header missing required \"id\" property")
	ErrHeaderUnterminated = errors.New("static: header has no terminating 0x00")
	ErrMissingSHCMTree = errors.New("static: compression-method=shcm but shcm-tree is missing")
	ErrBadTrailer      = errors.New("static: file does not end in 0x00 (or 0x00 0x0A)")
	ErrBadAnchor       = errors.New("static: index anchor does not point to an entry start")
)

const (
	defaultMaxWordLength  = 50
	defaultMaxEntryLength = 16384
	wordLengthSafety      = 5
	entryLengthSafety     = 10
)

// anchor is one entry of the sparse position index: a canonicalized
// keyword paired with the byte offset (relative to the start of the file)
// of the entry it names.
type anchor struct {
	key    collate.Word
	offset int64
}

// Dict is an open static dictionary.
type Dict struct {
	path string
	r    *block.Reader

	props map[string]string
	col   *collate.Collation
	idx   *index.Index[anchor, collate.Word]
	model *shcm.Model // nil when compression-method is "none"

	firstEntryPos  int64
	lastEntryPos   int64
	maxWordLength  int
	maxEntryLength int

	err error
}

// Open reads and parses the header of the static dictionary file at path
// and prepares it for lookups. The file is not fully read into memory;
// entries are decoded on demand.
func Open(path string) (*Dict, error) {
	r, err := block.Open(path)
	if err != nil {
		return nil, err
	}

	rawProps, firstEntryPos, err := parseHeader(r)
	if err != nil {
		r.Close()
		return nil, err
	}

	id, ok := rawProps["id"]
	if !ok || id == "" {
		r.Close()
		return nil, ErrMissingID
	}

	charPrecedence := rawProps["char-precedence"]
	searchIgnoreChars, explicit := rawProps["search-ignore-chars"]
	if !explicit {
		if charPrecedence == "" {
			searchIgnoreChars = "-."
		} else {
			searchIgnoreChars = ""
		}
	}
	col := collate.New(charPrecedence, searchIgnoreChars)

	maxWordLength := propInt(rawProps, "max-word-length", defaultMaxWordLength) + wordLengthSafety
	maxEntryLength := propInt(rawProps, "max-entry-length", defaultMaxEntryLength) + entryLengthSafety

	d := &Dict{
		path:           path,
		r:              r,
		props:          rawProps,
		col:            col,
		firstEntryPos:  firstEntryPos,
		maxWordLength:  maxWordLength,
		maxEntryLength: maxEntryLength,
	}

	switch method := rawProps["compression-method"]; method {
	case "", "none":
	case "shcm":
		tree, ok := rawProps["shcm-tree"]
		if !ok {
			r.Close()
			return nil, ErrMissingSHCMTree
		}
		model, err := decodeSHCMTree(tree)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("static: decoding shcm-tree: %w", err)
		}
		d.model = model
	default:
		r.Close()
		return nil, fmt.Errorf("static: unknown compression-method %q", method)
	}

	if err := d.locateLastEntry(); err != nil {
		r.Close()
		return nil, err
	}

	if raw, ok := rawProps["index"]; ok {
		if idx, ok := parseIndex(raw, col, firstEntryPos); ok {
			d.idx = idx
		}
		// A malformed index is discarded silently: lookups still work via
		// plain binary search over [firstEntryPos, lastEntryPos].
	}
	delete(rawProps, "index")

	return d, nil
}

// decodeSHCMTree tolerates both the cleanly-written single-escaped form and
// the reference implementation's occasional double-escaped form (spec §9's
// "Escape-layer idempotence" note): the header parser already unescaped
// the property value once, so it is tried as-is first and, on failure,
// unescaped a second time.
func decodeSHCMTree(prop string) (*shcm.Model, error) {
	if model, err := shcm.NewModel([]byte(prop)); err == nil {
		return model, nil
	}
	return shcm.NewModel([]byte(escape.Unescape(prop)))
}

func propInt(props map[string]string, name string, def int) int {
	v, ok := props[name]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// parseHeader reads name=value lines terminated by '\n' until a 0x00 byte
// ends the header, per spec §4.4. It returns the unescaped property map and
// the offset of the first byte past the terminating 0x00.
func parseHeader(r *block.Reader) (map[string]string, int64, error) {
	props := map[string]string{}
	var line []byte
	var offset int64

	buf := make([]byte, 4096)
	for {
		n, err := r.Read(offset, buf)
		if n == 0 {
			if err != nil {
				return nil, 0, err
			}
			return nil, 0, ErrHeaderUnterminated
		}
		for i := 0; i < n; i++ {
			b := buf[i]
			offset++
			switch b {
			case 0x00:
				return props, offset, nil
			case '\n':
				if len(line) > 0 {
					addHeaderLine(props, line)
				}
				line = line[:0]
			default:
				line = append(line, b)
			}
		}
	}
}

func addHeaderLine(props map[string]string, line []byte) {
	i := bytes.IndexByte(line, '=')
	if i < 0 {
		return
	}
	name := escape.Unescape(string(line[:i]))
	value := escape.Unescape(string(line[i+1:]))
	props[name] = value
}

// Name returns the dictionary's "id" property.
func (d *Dict) Name() string { return d.props["id"] }

// FileName returns the path the dictionary was opened from.
func (d *Dict) FileName() string { return d.path }

// Property returns a header property by name. The "index" property is
// never exposed here; it is consumed entirely at Open time.
func (d *Dict) Property(name string) (string, bool) {
	v, ok := d.props[name]
	return v, ok
}

// ErrorMessage returns the message of the last sticky error, or "" if the
// dictionary has not recorded a failure.
func (d *Dict) ErrorMessage() string {
	if d.err == nil {
		return ""
	}
	return d.err.Error()
}

// Collation returns the collation this dictionary was opened with, shared
// with a dynamic engine when composed into a hybrid dictionary.
func (d *Dict) Collation() *collate.Collation { return d.col }

// IsDynamic reports whether this backend supports mutation. Static
// dictionaries never do.
func (d *Dict) IsDynamic() bool { return false }

// IsMetaEditable reports whether this backend's properties can be edited
// in place. Static dictionaries never allow this.
func (d *Dict) IsMetaEditable() bool { return false }

// Close releases the dictionary's underlying file handle.
func (d *Dict) Close() error { return d.r.Close() }
