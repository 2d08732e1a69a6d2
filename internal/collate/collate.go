// Package collate implements the user-defined character-precedence
// collation shared by the static engine, the dynamic store's comparator,
// and the hybrid merge: canonicalization of UTF-8 input into a comparison
// key, and a total order over those keys.
package collate

import (
	"math"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// Word is a canonicalized comparison key: a sequence of 16-bit precedence
// codes derived from a UTF-8 string under a Collation.
type Word []uint16

// Collation holds the character-precedence table, group assignments, and
// ignore-character set that define an ordering over UTF-8 strings.
//
// The zero value is not usable; construct with New.
type Collation struct {
	ignore []string

	useCharPrecedence bool
	charPrecedence    map[rune]uint16
	precedenceGroups  []uint16
	unknownPrecedence uint16

	ignoreFolder func() transform.Transformer
}

// unknownCap is the ceiling applied to charPrecedenceUnknown+codepoint so it
// never overflows a uint16 comparison key. Spec §9 notes the reference
// implementation does not clamp; this implementation does.
const unknownCap = math.MaxUint16 - 1

// New builds a Collation from a precedence definition and an ignore-chars
// string, following the on-disk `char-precedence`/`search-ignore-chars`
// property syntax (spec §4.3).
//
// precedenceDef may contain `{`/`}` brackets to mark equivalence groups;
// characters outside any group each get their own group. An empty
// precedenceDef disables character-precedence comparison entirely, falling
// back to ASCII-extended-uppercase lexicographic comparison.
//
// ic is decoded into its component UTF-8 scalar strings; any occurrence of
// one of those substrings is elided from input before canonicalization.
func New(precedenceDef, ic string) *Collation {
	c := &Collation{
		charPrecedence: map[rune]uint16{},
	}

	if precedenceDef != "" {
		c.useCharPrecedence = true

		var order uint16
		var group uint16 = 1
		inGroup := false
		for _, r := range precedenceDef {
			switch r {
			case '{':
				inGroup = true
				continue
			case '}':
				inGroup = false
				group++
				continue
			}
			c.charPrecedence[r] = order
			c.precedenceGroups = append(c.precedenceGroups, group)
			if !inGroup {
				group++
			}
			order++
		}
		// Reserve one precedence index for characters outside the table.
		c.precedenceGroups = append(c.precedenceGroups, group)
		c.unknownPrecedence = order
	}

	for _, r := range ic {
		c.ignore = append(c.ignore, string(r))
	}
	c.ignoreFolder = func() transform.Transformer {
		return newIgnoreFolder(c.ignore)
	}

	return c
}

// UsesCharPrecedence reports whether this Collation was configured with a
// non-empty character-precedence table.
func (c *Collation) UsesCharPrecedence() bool {
	return c.useCharPrecedence
}

// Canonicalize deletes every occurrence of each ignore-string from s
// (left-to-right, greedy) and maps the remaining code points into a Word
// comparison key.
func (c *Collation) Canonicalize(s string) Word {
	folded, _, err := transform.String(c.ignoreFolder(), s)
	if err != nil {
		// The ignore-string folder never returns a non-nil error for
		// well-formed UTF-8 input; fall back to the unfolded string rather
		// than lose data.
		folded = s
	}

	w := make(Word, 0, utf8.RuneCountInString(folded))
	for _, r := range folded {
		if c.useCharPrecedence {
			if idx, ok := c.charPrecedence[r]; ok {
				w = append(w, idx)
				continue
			}
			v := uint32(c.unknownPrecedence) + uint32(r)
			if v > unknownCap {
				v = unknownCap
			}
			w = append(w, uint16(v))
		} else {
			w = append(w, uint16(toUpper(r)))
		}
	}
	return w
}

// Compare returns a negative number if a sorts before b, zero if they are
// equivalent under this Collation, and a positive number if a sorts after
// b.
func (c *Collation) Compare(a, b Word) int {
	if c.useCharPrecedence {
		return c.compareGrouped(a, b)
	}
	return compareLexicographic(a, b)
}

func (c *Collation) compareGrouped(a, b Word) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		ga, gb := c.group(a[i]), c.group(b[i])
		if ga != gb {
			if ga < gb {
				return -1
			}
			return 1
		}
	}
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	// Groups tied over the whole string: break ties on raw precedence
	// indices (the "secondary weight").
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// group returns the equivalence-group id for a canonicalized code, capping
// out-of-table codes to the reserved "unknown" slot.
func (c *Collation) group(code uint16) uint16 {
	idx := code
	if idx >= c.unknownPrecedence {
		idx = c.unknownPrecedence
	}
	if int(idx) >= len(c.precedenceGroups) {
		return c.unknownPrecedence
	}
	return c.precedenceGroups[idx]
}

func compareLexicographic(a, b Word) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	if len(a) == len(b) {
		return 0
	}
	if len(a) < len(b) {
		return -1
	}
	return 1
}

// toUpper implements the ASCII-extended-uppercase fallback mapping used
// when no character-precedence table is configured. This is deliberately
// not full Unicode case folding (spec Non-goals): only the Latin-1
// supplement range is folded, matching the original implementation's
// `Utf8::runetoupper`.
func toUpper(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return r - ('a' - 'A')
	case r >= 0xE0 && r <= 0xFE && r != 0xF7:
		return r - 0x20
	default:
		return r
	}
}
