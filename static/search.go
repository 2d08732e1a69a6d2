package static

import (
	"bytes"
	"fmt"

	"github.com/mukoan/libbedic/internal/collate"
	"github.com/mukoan/libbedic/internal/escape"
)

const findWindow = 256

// record is one decoded (keyword, description) pair. The description is
// decoded lazily on first call to description(), matching spec §4.4's
// "keyword decoded eagerly, description lazily" rule: keywords are needed
// for every comparison during a search, descriptions only once a match is
// found.
type record struct {
	keyword string

	rawDescription string // unescaped, still SHCM-encoded if a model is active
	description    string
	decoded        bool

	dict *Dict
}

func (r *record) resolveDescription() (string, error) {
	if r.decoded {
		return r.description, nil
	}
	if r.dict.model == nil {
		r.description = r.rawDescription
	} else {
		b, err := r.dict.model.Decode([]byte(r.rawDescription))
		if err != nil {
			return "", fmt.Errorf("static: decoding description: %w", err)
		}
		r.description = string(b)
	}
	r.decoded = true
	return r.description, nil
}

// locateLastEntry determines lastEntryPos by inspecting the file's final
// bytes, per spec §4.4: a lone trailing '\n' after the last entry's 0x00
// terminator is tolerated and skipped over.
func (d *Dict) locateLastEntry() error {
	size := d.r.Size()
	if size <= d.firstEntryPos {
		return fmt.Errorf("static: %w", ErrBadTrailer)
	}

	tail := make([]byte, 2)
	n, err := d.r.Read(size-2, tail)
	if err != nil {
		return err
	}

	var terminatorPos int64
	switch {
	case n == 2 && tail[0] == 0x00 && tail[1] == '\n':
		terminatorPos = size - 2
	case n >= 1 && tail[n-1] == 0x00:
		terminatorPos = size - 1
	default:
		return ErrBadTrailer
	}

	d.lastEntryPos = d.scanBackwardForZero(terminatorPos)
	return nil
}

// scanBackwardForZero finds the offset one past the nearest 0x00 strictly
// before p, without clamping to [firstEntryPos, lastEntryPos] (lastEntryPos
// is not yet known when this is used from locateLastEntry).
func (d *Dict) scanBackwardForZero(p int64) int64 {
	pos := p
	for pos > d.firstEntryPos {
		start := pos - findWindow
		if start < d.firstEntryPos {
			start = d.firstEntryPos
		}
		buf := make([]byte, pos-start)
		n, err := d.r.Read(start, buf)
		if err != nil {
			break
		}
		for i := n - 1; i >= 0; i-- {
			if buf[i] == 0x00 {
				return start + int64(i) + 1
			}
		}
		pos = start
	}
	return d.firstEntryPos
}

// findPrev scans backward for the most recent 0x00 strictly before p and
// returns the offset of the following byte (an entry start), clamped to
// [firstEntryPos, lastEntryPos].
func (d *Dict) findPrev(p int64) int64 {
	if p <= d.firstEntryPos {
		return d.firstEntryPos
	}
	result := d.scanBackwardForZero(p)
	if result > d.lastEntryPos {
		result = d.lastEntryPos
	}
	return result
}

// findNext scans forward from p for the next 0x00 and returns the offset
// of the following byte (the start of the next entry), clamped to
// lastEntryPos.
func (d *Dict) findNext(p int64) int64 {
	if p >= d.lastEntryPos {
		return d.lastEntryPos
	}

	pos := p
	size := d.r.Size()
	for pos < d.lastEntryPos {
		n := int64(findWindow)
		if pos+n > size {
			n = size - pos
		}
		if n <= 0 {
			break
		}
		buf := make([]byte, n)
		rn, err := d.r.Read(pos, buf)
		if err != nil || rn == 0 {
			break
		}
		if i := bytes.IndexByte(buf[:rn], 0x00); i >= 0 {
			result := pos + int64(i) + 1
			if result > d.lastEntryPos {
				result = d.lastEntryPos
			}
			return result
		}
		pos += int64(rn)
	}
	return d.lastEntryPos
}

// readEntry reads the entry starting at p and returns the decoded record
// plus the entry's payload length (keyword + '\n' + description, excluding
// the terminating 0x00).
func (d *Dict) readEntry(p int64) (*record, int64, error) {
	chunk := d.maxEntryLength / 4
	if chunk < 64 {
		chunk = 64
	}

	var buf []byte
	for {
		tmp := make([]byte, chunk)
		n, err := d.r.Read(p+int64(len(buf)), tmp)
		if n == 0 {
			if err != nil {
				return nil, 0, err
			}
			return nil, 0, fmt.Errorf("static: unterminated entry at offset %d", p)
		}
		if i := bytes.IndexByte(tmp[:n], 0x00); i >= 0 {
			buf = append(buf, tmp[:i]...)
			break
		}
		buf = append(buf, tmp[:n]...)
		if len(buf) > d.maxEntryLength {
			return nil, 0, fmt.Errorf("static: entry at offset %d exceeds max-entry-length", p)
		}
	}

	sep := bytes.IndexByte(buf, '\n')
	if sep < 0 {
		return nil, 0, fmt.Errorf("static: entry at offset %d has no keyword/description separator", p)
	}

	keyword := escape.Unescape(string(buf[:sep]))
	if d.model != nil {
		decoded, err := d.model.Decode([]byte(keyword))
		if err != nil {
			return nil, 0, fmt.Errorf("static: decoding keyword at offset %d: %w", p, err)
		}
		keyword = string(decoded)
	}

	rec := &record{
		keyword:        keyword,
		rawDescription: escape.Unescape(string(buf[sep+1:])),
		dict:           d,
	}
	return rec, int64(len(buf)), nil
}

// FindEntry runs the sparse-index-bracketed binary search of spec §4.4 and
// returns a cursor positioned at the nearest entry whose canonicalized
// keyword is >= the canonicalized query, along with whether it is an exact
// match. It converges to the first record start whose keyword is not less
// than the query (a lower bound), snapping every probe to a real record
// start via findPrev/findNext so the search never lands mid-record.
func (d *Dict) FindEntry(word string) (*Cursor, bool, error) {
	query := d.col.Canonicalize(word)

	lo, hi := d.firstEntryPos, d.lastEntryPos+1
	if d.idx != nil && d.idx.Len() > 0 {
		ilo, ihi := d.idx.Bracket(query)
		if ilo >= 0 {
			lo = d.idx.At(ilo).offset
		}
		if ihi < d.idx.Len() {
			hi = d.idx.At(ihi).offset
		}
	}

	for lo < hi {
		mid := lo + (hi-lo)/2
		pos := d.findPrev(mid + 1)
		if pos < lo {
			pos = lo
		}

		rec, _, err := d.readEntry(pos)
		if err != nil {
			return nil, false, err
		}

		if d.col.Compare(d.col.Canonicalize(rec.keyword), query) < 0 {
			lo = d.findNext(pos + 1)
		} else {
			hi = pos
		}
	}

	final := lo
	if final > d.lastEntryPos {
		final = d.lastEntryPos
	}
	rec, totalLen, err := d.readEntry(final)
	if err != nil {
		return nil, false, err
	}

	matches := d.col.Compare(d.col.Canonicalize(rec.keyword), query) == 0
	subword := !matches && hasPrefix(rec.keyword, word, d.col)

	cur := &Cursor{
		dict:    d,
		offset:  final,
		next:    final + totalLen + 1,
		rec:     rec,
		subword: subword,
	}
	return cur, matches, nil
}

// hasPrefix reports whether canon(found) starts with canon(query), the
// redesigned subword computation of spec §9 (the reference implementation
// disables this check entirely).
func hasPrefix(found, query string, col *collate.Collation) bool {
	f, q := col.Canonicalize(found), col.Canonicalize(query)
	if len(q) > len(f) {
		return false
	}
	return col.Compare(f[:len(q)], q) == 0
}
