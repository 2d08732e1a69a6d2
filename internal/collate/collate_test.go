package collate_test

import (
	"testing"

	"github.com/mukoan/libbedic/internal/collate"
)

// TestCollation_Grouping tests that grouped characters tie on the primary
// pass and only break ties on the secondary pass, per spec §4.3's example.
func TestCollation_Grouping(t *testing.T) {
	t.Parallel()

	c := collate.New("{aá}{B}", "-")

	a := c.Canonicalize("a")
	acute := c.Canonicalize("á")
	if got := c.Compare(a, acute); got != 0 {
		t.Fatalf("Compare(a, á) = %d, want 0 (same group)", got)
	}

	if got := c.Compare(c.Canonicalize("a-b"), c.Canonicalize("ab")); got != 0 {
		t.Fatalf("Compare(a-b, ab) = %d, want 0 (ignore chars elided)", got)
	}

	if got := c.Compare(c.Canonicalize("B"), c.Canonicalize("a")); got <= 0 {
		t.Fatalf("Compare(B, a) = %d, want > 0", got)
	}
}

// TestCollation_NoPrecedence tests the fallback lexicographic-uppercase
// comparison used when no char-precedence table is configured.
func TestCollation_NoPrecedence(t *testing.T) {
	t.Parallel()

	c := collate.New("", "")

	if got := c.Compare(c.Canonicalize("abc"), c.Canonicalize("ABC")); got != 0 {
		t.Fatalf("Compare(abc, ABC) = %d, want 0", got)
	}
	if got := c.Compare(c.Canonicalize("abc"), c.Canonicalize("abd")); got >= 0 {
		t.Fatalf("Compare(abc, abd) = %d, want < 0", got)
	}
	if got := c.Compare(c.Canonicalize("ab"), c.Canonicalize("abc")); got >= 0 {
		t.Fatalf("Compare(ab, abc) = %d, want < 0 (prefix sorts first)", got)
	}
}

// TestCollation_Totality tests reflexivity, antisymmetry, and transitivity
// of Compare over a small canonicalized word set.
func TestCollation_Totality(t *testing.T) {
	t.Parallel()

	c := collate.New("{aá}{B}bcdefgh", "-.")
	words := []string{"alpha", "beta", "b-eta", "gamma", "a", "á", "zzz"}

	canon := make([]collate.Word, len(words))
	for i, w := range words {
		canon[i] = c.Canonicalize(w)
	}

	for i := range canon {
		if got := c.Compare(canon[i], canon[i]); got != 0 {
			t.Errorf("Compare(%q, %q) = %d, want 0 (reflexive)", words[i], words[i], got)
		}
		for j := range canon {
			if i == j {
				continue
			}
			a, b := c.Compare(canon[i], canon[j]), c.Compare(canon[j], canon[i])
			if sign(a) != -sign(b) {
				t.Errorf("Compare(%q,%q)=%d but Compare(%q,%q)=%d: not antisymmetric", words[i], words[j], a, words[j], words[i], b)
			}
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// TestCollation_IgnoreCharsMultiByte tests that ignore-strings composed of
// multi-byte UTF-8 scalars are elided correctly.
func TestCollation_IgnoreCharsMultiByte(t *testing.T) {
	t.Parallel()

	c := collate.New("", "·") // middle dot as an ignore char
	if got := c.Compare(c.Canonicalize("a·b"), c.Canonicalize("ab")); got != 0 {
		t.Fatalf("Compare = %d, want 0", got)
	}
}
