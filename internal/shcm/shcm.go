// Package shcm implements the static prefix-code byte compressor ("SHCM")
// used to compress keyword and description fields in a static dictionary
// file. A model is built once per dictionary (two-pass: accumulate byte
// frequencies, then compute a canonical Huffman code) and embedded in the
// dictionary header as a packed tree; readers reconstruct the same model
// from that packed tree to decode.
package shcm

import (
	"container/heap"
	"errors"
	"fmt"
)

// MaxCodeLength is the longest canonical code length this codec will ever
// assign or accept, per spec §4.2's length-limited Huffman procedure.
const MaxCodeLength = 31

// cacheBits is the width of the fast-path decode cache: the top cacheBits
// bits of the bit window are looked up directly for any code no longer
// than cacheBits; longer codes fall back to a linear scan of the
// per-length base/offs tables.
const cacheBits = 8

var (
	// ErrTruncated indicates an encoded byte stream ended before the tail
	// padding byte promised.
	ErrTruncated = errors.New("shcm: truncated encoded data")

	// ErrTree indicates a packed tree is malformed or expands to a code
	// longer than 32 bits.
	ErrTree = errors.New("shcm: invalid tree")

	// ErrEmptyModel indicates an attempt to encode or decode with a model
	// that has no symbols (e.g. built from zero bytes of training data).
	ErrEmptyModel = errors.New("shcm: empty model")
)

// Model is an immutable, built-or-loaded SHCM codebook: a 256-entry
// symbol → (code, bit-length) table plus the decode-side lookup structures
// derived from it. A Model is safe to share by reference across
// goroutines; it is never mutated after Builder.Finish or NewModel return.
type Model struct {
	length [256]uint8
	code   [256]uint32
	used   [256]bool

	// Decode-side tables, indexed by code length.
	symb  []byte
	base  []uint32
	offs  []uint32
	cache [256]uint8

	maxLen int
}

// Builder accumulates byte frequencies across many payloads (the
// "preencode" pass) before computing a canonical Huffman code (the
// "endPreEncode" pass).
type Builder struct {
	freq [256]uint64
}

// NewBuilder returns a Builder with an empty frequency table.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add accumulates the byte frequencies of data into the builder's running
// totals. It may be called any number of times before Finish.
func (b *Builder) Add(data []byte) {
	for _, c := range data {
		b.freq[c]++
	}
}

// Finish computes a canonical, length-limited Huffman code over the
// accumulated frequencies and returns the resulting Model along with its
// packed-tree wire representation (suitable for storing, escaped, in the
// dictionary header's shcm-tree property).
func (b *Builder) Finish() (*Model, []byte, error) {
	symbols, lengths := computeLengths(b.freq, MaxCodeLength)
	if len(symbols) == 0 {
		return nil, nil, ErrEmptyModel
	}

	m := newModelFromLengths(symbols, lengths)
	tree, err := packTree(symbols, lengths)
	if err != nil {
		return nil, nil, err
	}
	return m, tree, nil
}

// NewModel reconstructs a Model from a packed tree, as read from a static
// dictionary file's shcm-tree property (decode mode).
func NewModel(tree []byte) (*Model, error) {
	symbols, lengths, err := unpackTree(tree)
	if err != nil {
		return nil, err
	}
	if len(symbols) == 0 {
		return nil, ErrEmptyModel
	}
	return newModelFromLengths(symbols, lengths), nil
}

// newModelFromLengths builds the full encode+decode Model from a
// (symbol, length) assignment by computing canonical codes and the
// decode-side base/offs/cache tables.
func newModelFromLengths(symbols []byte, lengths []uint8) *Model {
	order := canonicalOrder(symbols, lengths)

	m := &Model{}
	maxLen := 0
	for _, l := range lengths {
		if int(l) > maxLen {
			maxLen = int(l)
		}
	}
	m.maxLen = maxLen
	m.symb = make([]byte, len(order))
	m.base = make([]uint32, maxLen+1)
	m.offs = make([]uint32, maxLen+1)
	for i := range m.base {
		m.base[i] = 1<<31 - 1 // sentinel: no symbol at this length.
	}

	code := uint32(0)
	prevLen := 0
	for i, sym := range order {
		l := int(lengths[sym])
		code <<= uint(l - prevLen)
		prevLen = l

		m.length[sym] = uint8(l)
		m.code[sym] = code
		m.used[sym] = true
		m.symb[i] = sym

		if m.base[l] == 1<<31-1 {
			m.base[l] = code
			m.offs[l] = uint32(i)
		}

		code++
	}

	m.buildCache()
	return m
}

// canonicalOrder returns symbols sorted by (length ascending, symbol value
// ascending) — the order canonical Huffman codes are assigned in, and the
// order the decode-side symbol table is stored in.
func canonicalOrder(symbols []byte, lengths []uint8) []byte {
	order := make([]byte, len(symbols))
	copy(order, symbols)
	// Simple insertion sort is fine: at most 256 symbols.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0; j-- {
			a, b := order[j-1], order[j]
			if lengths[a] < lengths[b] || (lengths[a] == lengths[b] && a <= b) {
				break
			}
			order[j-1], order[j] = order[j], order[j-1]
		}
	}
	return order
}

// buildCache fills the fast-path decode cache: for every possible top-
// cacheBits-bit prefix, either the exact code length if it resolves within
// cacheBits bits, or a sentinel telling Decode to fall back to the
// base/offs scan.
func (m *Model) buildCache() {
	const fallback = cacheBits + 1
	for i := range m.cache {
		m.cache[i] = fallback
	}
	for sym := 0; sym < 256; sym++ {
		if !m.used[byte(sym)] {
			continue
		}
		l := int(m.length[byte(sym)])
		if l > cacheBits {
			continue
		}
		lo := m.code[byte(sym)] << uint(cacheBits-l)
		hi := lo + (1 << uint(cacheBits-l))
		for p := lo; p < hi; p++ {
			m.cache[p] = uint8(l)
		}
	}
}

// Encode returns the SHCM encoding of s: a leading tail-padding byte
// followed by little-endian 32-bit code-bit words (spec §4.2).
func (m *Model) Encode(s []byte) ([]byte, error) {
	if len(m.symb) == 0 {
		return nil, ErrEmptyModel
	}

	ret := make([]byte, 1, len(s)+8)

	var bitbuf uint32
	bits := uint32(31)
	for _, c := range s {
		if !m.used[c] {
			return nil, fmt.Errorf("%w: byte %#x not in model", ErrTree, c)
		}
		symblen := uint32(m.length[c])
		symbcode := m.code[c]
		if symblen <= bits {
			bitbuf <<= symblen
			bitbuf |= symbcode
			bits -= symblen
		} else {
			bitbuf <<= bits
			bitbuf |= symbcode >> (symblen - bits)
			ret = append(ret, byte(bitbuf), byte(bitbuf>>8), byte(bitbuf>>16), byte(bitbuf>>24))
			bitbuf = symbcode
			bits += 32 - symblen
		}
	}

	ret[0] = byte(bits)
	if bits < 32 {
		ret = append(ret, byte(bitbuf))
	}
	if bits < 24 {
		ret = append(ret, byte(bitbuf>>8))
	}
	if bits < 16 {
		ret = append(ret, byte(bitbuf>>16))
	}
	if bits < 8 {
		ret = append(ret, byte(bitbuf>>24))
	}
	return ret, nil
}

// Decode is the inverse of Encode.
func (m *Model) Decode(enc []byte) ([]byte, error) {
	if len(m.symb) == 0 {
		return nil, ErrEmptyModel
	}
	if len(enc) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrTruncated)
	}

	lbits := uint32(enc[0])
	if lbits > 31 {
		return nil, fmt.Errorf("%w: invalid tail padding %d", ErrTruncated, lbits)
	}

	body := enc[1:]
	var words []uint32
	i := 0
	for ; i+4 <= len(body); i += 4 {
		words = append(words, uint32(body[i])|uint32(body[i+1])<<8|uint32(body[i+2])<<16|uint32(body[i+3])<<24)
	}
	if rem := len(body) - i; rem > 0 {
		var bitbuf uint32
		var shift uint32
		for ; i < len(body); i++ {
			bitbuf |= uint32(body[i]) << shift
			shift += 8
		}
		bitbuf <<= lbits
		words = append(words, bitbuf)
	} else if len(words) == 0 {
		// No data at all was ever encoded (empty source string).
		return nil, nil
	}
	words = append(words, 0)

	var ret []byte
	bits := 31
	pos := 0
	bitbuf := words[pos]
	pos++
	last := len(words) - 1
	for pos <= last {
		if pos == last && uint32(bits) == lbits {
			break
		}

		var frame uint32
		if bits != 0 {
			frame = (bitbuf << uint(32-bits)) | (words[pos] >> uint(bits))
		} else {
			frame = words[pos]
		}

		codelen := uint32(m.cache[frame>>(32-cacheBits)])
		if codelen > cacheBits {
			for codelen <= uint32(m.maxLen) && (frame>>(32-codelen)) < m.base[codelen] {
				codelen++
			}
			if codelen > uint32(m.maxLen) {
				return nil, fmt.Errorf("%w: no matching code", ErrTree)
			}
		}
		if codelen > 32 {
			return nil, fmt.Errorf("%w: code length %d exceeds 32", ErrTree, codelen)
		}

		idx := (frame >> (32 - codelen)) - m.base[codelen] + m.offs[codelen]
		if int(idx) >= len(m.symb) {
			return nil, fmt.Errorf("%w: symbol index out of range", ErrTree)
		}
		symbol := m.symb[idx]

		if codelen <= uint32(bits) {
			bits -= int(codelen)
		} else {
			bits += 32 - int(codelen)
			pos++
			if pos < len(words) {
				bitbuf = words[pos]
			}
		}

		ret = append(ret, symbol)
	}
	return ret, nil
}

// --- Huffman length computation -------------------------------------------------

type huffNode struct {
	weight   uint64
	sym      byte
	isLeaf   bool
	children [2]*huffNode
}

// huffHeap is a container/heap of *huffNode ordered by ascending weight,
// with ties broken by insertion order (via a monotonically increasing
// sequence number) to keep the tree construction deterministic.
type huffHeapItem struct {
	node *huffNode
	seq  int
}

type huffHeap []huffHeapItem

func (h huffHeap) Len() int { return len(h) }
func (h huffHeap) Less(i, j int) bool {
	if h[i].node.weight != h[j].node.weight {
		return h[i].node.weight < h[j].node.weight
	}
	return h[i].seq < h[j].seq
}
func (h huffHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *huffHeap) Push(x any)        { *h = append(*h, x.(huffHeapItem)) }
func (h *huffHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// computeLengths returns the symbols with non-zero frequency and a
// canonical, length-limited (to maxLen bits) Huffman code length for each,
// in the same order.
func computeLengths(freq [256]uint64, maxLen int) ([]byte, []uint8) {
	var symbols []byte
	for s := 0; s < 256; s++ {
		if freq[s] > 0 {
			symbols = append(symbols, byte(s))
		}
	}
	if len(symbols) == 0 {
		return nil, nil
	}
	if len(symbols) == 1 {
		return symbols, []uint8{1}
	}

	depth := map[byte]int{}
	h := &huffHeap{}
	heap.Init(h)
	seq := 0
	for _, s := range symbols {
		heap.Push(h, huffHeapItem{node: &huffNode{weight: freq[s], sym: s, isLeaf: true}, seq: seq})
		seq++
	}
	for h.Len() > 1 {
		a := heap.Pop(h).(huffHeapItem).node
		b := heap.Pop(h).(huffHeapItem).node
		parent := &huffNode{weight: a.weight + b.weight, children: [2]*huffNode{a, b}}
		heap.Push(h, huffHeapItem{node: parent, seq: seq})
		seq++
	}
	root := (*h)[0].node
	measureDepth(root, 0, depth)

	lengths := make([]uint8, 256)
	for _, s := range symbols {
		lengths[s] = uint8(depth[s])
	}

	limitLengths(symbols, lengths, maxLen)

	out := make([]uint8, len(symbols))
	for i, s := range symbols {
		out[i] = lengths[s]
	}
	return symbols, out
}

func measureDepth(n *huffNode, d int, depth map[byte]int) {
	if n.isLeaf {
		if d == 0 {
			d = 1 // a single-node tree still needs one bit.
		}
		depth[n.sym] = d
		return
	}
	measureDepth(n.children[0], d+1, depth)
	measureDepth(n.children[1], d+1, depth)
}

// limitLengths clamps the Huffman lengths of symbols (indexed by lengths[])
// to maxLen bits, using the standard Kraft-sum overflow correction: any
// mass pushed past maxLen is borrowed back from the shallowest level that
// can absorb it, preserving the Kraft-McMillan inequality (sum 2^-l <= 1)
// so the result is still a valid prefix code.
func limitLengths(symbols []byte, lengths []uint8, maxLen int) {
	count := make([]int64, maxLen+2)
	overflowed := false
	for _, s := range symbols {
		l := int(lengths[s])
		if l > maxLen {
			lengths[s] = uint8(maxLen)
			overflowed = true
			l = maxLen
		}
		count[l]++
	}
	if !overflowed {
		return
	}

	var kraft int64
	for l := 1; l <= maxLen; l++ {
		kraft += count[l] << uint(maxLen-l)
	}
	full := int64(1) << uint(maxLen)
	for kraft > full {
		l := maxLen - 1
		for l > 0 && count[l] == 0 {
			l--
		}
		count[l]--
		count[l+1] += 2
		count[maxLen]--
		kraft--
	}

	// Reassign lengths from the fixed histogram, giving the shortest
	// lengths to the symbols with the largest original (pre-clamp) length
	// rank preserved by frequency: sort by original length ascending, ties
	// broken by symbol value, and hand out lengths bucket by bucket.
	order := make([]byte, len(symbols))
	copy(order, symbols)
	for i := 1; i < len(order); i++ {
		for j := i; j > 0; j-- {
			a, b := order[j-1], order[j]
			if lengths[a] < lengths[b] || (lengths[a] == lengths[b] && a <= b) {
				break
			}
			order[j-1], order[j] = order[j], order[j-1]
		}
	}
	i := 0
	for l := 1; l <= maxLen; l++ {
		for c := int64(0); c < count[l]; c++ {
			lengths[order[i]] = uint8(l)
			i++
		}
	}
}

// --- Packed tree wire format -----------------------------------------------------
//
// The packed tree is a sequence of 32-bit little-endian words: a header
// word giving the number of distinct symbols, followed by ceil(n/2) words
// each packing two (symbol, length) byte pairs. Decoding recomputes
// canonical codes purely from this (symbol, length) multiset, so the wire
// format never needs to carry codes directly.

func packTree(symbols []byte, lengths []uint8) ([]byte, error) {
	n := len(symbols)
	if n > 256 {
		return nil, fmt.Errorf("%w: too many symbols", ErrTree)
	}

	words := make([]uint32, 0, 1+(n+1)/2)
	words = append(words, uint32(n))

	for i := 0; i < n; i += 2 {
		var w uint32
		w |= uint32(symbols[i]) << 24
		w |= uint32(lengths[i]) << 16
		if i+1 < n {
			w |= uint32(symbols[i+1]) << 8
			w |= uint32(lengths[i+1])
		}
		words = append(words, w)
	}

	if len(words) > 256 {
		return nil, fmt.Errorf("%w: packed tree exceeds 256 words", ErrTree)
	}

	buf := make([]byte, 4*len(words))
	for i, w := range words {
		buf[4*i] = byte(w)
		buf[4*i+1] = byte(w >> 8)
		buf[4*i+2] = byte(w >> 16)
		buf[4*i+3] = byte(w >> 24)
	}
	return buf, nil
}

func unpackTree(tree []byte) ([]byte, []uint8, error) {
	if len(tree) == 0 || len(tree)%4 != 0 {
		return nil, nil, fmt.Errorf("%w: tree length %d not a multiple of 4", ErrTree, len(tree))
	}
	words := make([]uint32, len(tree)/4)
	for i := range words {
		words[i] = uint32(tree[4*i]) | uint32(tree[4*i+1])<<8 | uint32(tree[4*i+2])<<16 | uint32(tree[4*i+3])<<24
	}
	if len(words) > 256 {
		return nil, nil, fmt.Errorf("%w: tree has %d words, want <= 256", ErrTree, len(words))
	}

	n := int(words[0])
	if n > 256 || n < 0 {
		return nil, nil, fmt.Errorf("%w: invalid symbol count %d", ErrTree, n)
	}

	symbols := make([]byte, 0, n)
	lengths := make([]uint8, 0, n)
	remaining := n
	for _, w := range words[1:] {
		if remaining <= 0 {
			break
		}
		sym1 := byte(w >> 24)
		len1 := uint8(w >> 16)
		symbols = append(symbols, sym1)
		lengths = append(lengths, len1)
		remaining--
		if remaining <= 0 {
			break
		}
		sym2 := byte(w >> 8)
		len2 := uint8(w)
		symbols = append(symbols, sym2)
		lengths = append(lengths, len2)
		remaining--
	}
	if remaining > 0 {
		return nil, nil, fmt.Errorf("%w: truncated symbol table", ErrTree)
	}
	for _, l := range lengths {
		if l == 0 || int(l) > MaxCodeLength {
			return nil, nil, fmt.Errorf("%w: invalid code length %d", ErrTree, l)
		}
	}

	byLen := make([]byte, len(symbols))
	full := make([]uint8, 256)
	for i, s := range symbols {
		byLen[i] = s
		full[s] = lengths[i]
	}
	return byLen, full, nil
}
