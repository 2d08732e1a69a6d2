// Package escape implements the delimiter-escaping scheme used to store
// keywords, descriptions, and header property values in the static
// dictionary format. Two bytes must never appear literally in an encoded
// field: '\n' (the word/field delimiter) and '\x00' (the entry delimiter).
package escape

import "strings"

const (
	// introducer marks the start of a two-byte escape sequence.
	introducer = 0x1B

	wordDelimiter = '\n'
	dataDelimiter = 0x00
)

// Escape returns s with WordDelimiter, DataDelimiter, and the introducer
// itself replaced by their two-byte escape sequences.
func Escape(s string) string {
	if !strings.ContainsAny(s, "\n\x00\x1b") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case wordDelimiter:
			b.WriteByte(introducer)
			b.WriteByte('n')
		case dataDelimiter:
			b.WriteByte(introducer)
			b.WriteByte('0')
		case introducer:
			b.WriteByte(introducer)
			b.WriteByte('e')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Unescape is the inverse of Escape. An introducer followed by an
// unrecognized byte is treated as a corrupt-but-recoverable sequence: the
// introducer is silently elided and the following byte is emitted as-is.
func Unescape(s string) string {
	if !strings.ContainsRune(s, introducer) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != introducer {
			b.WriteByte(s[i])
			continue
		}
		i++
		if i >= len(s) {
			break
		}
		switch s[i] {
		case '0':
			b.WriteByte(dataDelimiter)
		case 'n':
			b.WriteByte(wordDelimiter)
		case 'e':
			b.WriteByte(introducer)
		default:
			// Unknown escape: drop the introducer, keep the byte.
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
