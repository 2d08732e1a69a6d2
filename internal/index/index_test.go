package index_test

import (
	"testing"

	"github.com/mukoan/libbedic/internal/index"
)

type anchor struct {
	word   int
	offset int64
}

func cmpInt(a, b int) int {
	return a - b
}

// TestIndex_Bracket tests that Bracket narrows to the enclosing pair of
// anchors for values between, before, and after the indexed set.
func TestIndex_Bracket(t *testing.T) {
	t.Parallel()

	anchors := []anchor{
		{word: 10, offset: 100},
		{word: 20, offset: 200},
		{word: 30, offset: 300},
	}
	idx := index.New(anchors, func(a anchor) int { return a.word }, cmpInt)

	tests := []struct {
		name    string
		query   int
		wantLo  int
		wantHi  int
	}{
		{name: "before all", query: 5, wantLo: -1, wantHi: 0},
		{name: "exact match", query: 20, wantLo: 1, wantHi: 2},
		{name: "between", query: 15, wantLo: 0, wantHi: 1},
		{name: "after all", query: 100, wantLo: 2, wantHi: 3},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			lo, hi := idx.Bracket(test.query)
			if lo != test.wantLo || hi != test.wantHi {
				t.Fatalf("Bracket(%d) = (%d, %d), want (%d, %d)", test.query, lo, hi, test.wantLo, test.wantHi)
			}
		})
	}
}
