package collate

import (
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// ignoreFolder is a transform.Transformer that erases every occurrence of
// any of a fixed set of ignore-strings from its input. It mirrors the
// streaming, rune-at-a-time style of a whitespace folder: at each position
// it either matches the longest configured ignore-string and skips it, or
// copies one rune through unchanged.
type ignoreFolder struct {
	ignore []string

	// pending holds source bytes that might be a prefix of an ignore-string
	// but need more input to confirm; only relevant when atEOF is false and
	// more bytes are needed, which for this implementation collapses to
	// waiting for one more rune (ignore-strings are matched a full rune at a
	// time from the front of src).
}

func newIgnoreFolder(ignore []string) *ignoreFolder {
	return &ignoreFolder{ignore: ignore}
}

// Transform implements transform.Transformer.
func (f *ignoreFolder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		switch m := f.matchIgnore(src[nSrc:], atEOF); {
		case m > 0:
			nSrc += m
			continue
		case m < 0:
			// A prefix of an ignore-string might still be completed by more
			// input.
			return nDst, nSrc, transform.ErrShortSrc
		}

		c, size := utf8.DecodeRune(src[nSrc:])
		if c == utf8.RuneError && size == 1 && !atEOF {
			return nDst, nSrc, transform.ErrShortSrc
		}

		if nDst+size > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		copy(dst[nDst:], src[nSrc:nSrc+size])
		nDst += size
		nSrc += size
	}
	return nDst, nSrc, nil
}

// matchIgnore reports the byte length of an ignore-string match at the
// front of b, 0 if there is no match, or -1 if b is a strict, incomplete
// prefix of some ignore-string and more input is needed to decide (only
// possible when !atEOF).
func (f *ignoreFolder) matchIgnore(b []byte, atEOF bool) int {
	best := 0
	for _, s := range f.ignore {
		if len(b) >= len(s) {
			if string(b[:len(s)]) == s && len(s) > best {
				best = len(s)
			}
			continue
		}
		if !atEOF && len(s) > 0 && string(b) == s[:len(b)] {
			return -1
		}
	}
	return best
}

// Reset implements transform.Transformer.
func (f *ignoreFolder) Reset() {}
