package builder

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/mukoan/libbedic/internal/collate"
	"github.com/mukoan/libbedic/internal/escape"
	"github.com/mukoan/libbedic/internal/shcm"
)

// indexSpacing is the minimum number of accumulated entry-region bytes
// between two sparse index anchors (spec §6).
const indexSpacing = 32768

// Options controls the domain-stack features layered on top of the plain
// on-disk format during Build.
type Options struct {
	// SHCM builds and applies an SHCM codebook over every keyword and
	// description before writing.
	SHCM bool
}

// Build canonicalizes and sorts entries under col, computes the
// max-word-length/max-entry-length/dict-size/items/builddate properties,
// emits a sparse index every indexSpacing bytes of accumulated
// entry-region offset, and writes the on-disk static format (header,
// 0x00, entries) to w. Canonical duplicates are reported as warnings, not
// errors.
func Build(w io.Writer, props map[string]string, entries []Entry, col *collate.Collation, opts Options) ([]string, error) {
	sorted, canon := sortEntries(entries, col)
	warnings := duplicateWarnings(sorted, canon, col)

	var model *shcm.Model
	var treeBytes []byte
	if opts.SHCM {
		b := shcm.NewBuilder()
		for _, e := range sorted {
			b.Add([]byte(e.Keyword))
			b.Add([]byte(e.Description))
		}
		m, tree, err := b.Finish()
		if err != nil {
			return warnings, fmt.Errorf("builder: building shcm model: %w", err)
		}
		model = m
		treeBytes = tree
	}

	type encoded struct {
		rawKeyword string // canonical raw keyword, used only for the sparse index
		keyword    string // escaped (and SHCM-encoded, if active) on-disk field
		desc       string
		length     int // keyword + '\n' + description, excluding the trailing 0x00
	}

	recs := make([]encoded, len(sorted))
	var maxWordLength, maxEntryLength int
	for i, e := range sorted {
		kw, desc := e.Keyword, e.Description
		if model != nil {
			kwBytes, err := model.Encode([]byte(kw))
			if err != nil {
				return warnings, fmt.Errorf("builder: encoding keyword %q: %w", e.Keyword, err)
			}
			descBytes, err := model.Encode([]byte(desc))
			if err != nil {
				return warnings, fmt.Errorf("builder: encoding description for %q: %w", e.Keyword, err)
			}
			kw, desc = string(kwBytes), string(descBytes)
		}
		kw, desc = escape.Escape(kw), escape.Escape(desc)

		if len(kw) > maxWordLength {
			maxWordLength = len(kw)
		}
		length := len(kw) + 1 + len(desc)
		if length > maxEntryLength {
			maxEntryLength = length
		}
		recs[i] = encoded{rawKeyword: e.Keyword, keyword: kw, desc: desc, length: length}
	}

	offsets := make([]int64, len(recs))
	var dictSize int64
	for i, r := range recs {
		offsets[i] = dictSize
		dictSize += int64(r.length) + 1
	}

	var idx bytes.Buffer
	lastAnchor := int64(-indexSpacing - 1)
	for i := 0; i < len(recs)-1; i++ {
		if lastAnchor+indexSpacing < offsets[i] {
			idx.WriteByte(0x00)
			fmt.Fprintf(&idx, "%s\n%d", recs[i].rawKeyword, offsets[i])
			lastAnchor = offsets[i]
		}
	}

	out := map[string]string{}
	for k, v := range props {
		out[k] = v
	}
	out["max-word-length"] = strconv.Itoa(maxWordLength)
	out["max-entry-length"] = strconv.Itoa(maxEntryLength)
	out["dict-size"] = strconv.FormatInt(dictSize, 10)
	out["items"] = strconv.Itoa(len(recs))
	out["builddate"] = time.Now().Format(time.RFC3339)
	if idx.Len() > 0 {
		out["index"] = idx.String()
	}
	if model != nil {
		out["compression-method"] = "shcm"
		out["shcm-tree"] = string(treeBytes)
	}

	if err := writeHeader(w, out); err != nil {
		return warnings, err
	}
	for _, r := range recs {
		if _, err := io.WriteString(w, r.keyword); err != nil {
			return warnings, err
		}
		if _, err := w.Write([]byte{'\n'}); err != nil {
			return warnings, err
		}
		if _, err := io.WriteString(w, r.desc); err != nil {
			return warnings, err
		}
		if _, err := w.Write([]byte{0x00}); err != nil {
			return warnings, err
		}
	}

	return warnings, nil
}

// sortEntries returns entries sorted by canonicalized keyword under col,
// alongside each sorted entry's canonicalization (index-aligned).
func sortEntries(entries []Entry, col *collate.Collation) ([]Entry, []collate.Word) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	canon := make([]collate.Word, len(sorted))
	for i, e := range sorted {
		canon[i] = col.Canonicalize(e.Keyword)
	}

	idx := make([]int, len(sorted))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		return col.Compare(canon[idx[i]], canon[idx[j]]) < 0
	})

	orderedEntries := make([]Entry, len(sorted))
	orderedCanon := make([]collate.Word, len(sorted))
	for i, j := range idx {
		orderedEntries[i] = sorted[j]
		orderedCanon[i] = canon[j]
	}
	return orderedEntries, orderedCanon
}

// duplicateWarnings reports one warning per entry whose canonicalized
// keyword equals its predecessor's, mirroring the reference builder's
// non-fatal duplicate check.
func duplicateWarnings(sorted []Entry, canon []collate.Word, col *collate.Collation) []string {
	var warnings []string
	for i := 1; i < len(sorted); i++ {
		if col.Compare(canon[i], canon[i-1]) == 0 {
			warnings = append(warnings, fmt.Sprintf("duplicate entry %q", sorted[i].Keyword))
		}
	}
	return warnings
}

// writeHeader writes "name=value\n" lines (escaping both sides) in
// deterministic, sorted-by-name order, followed by the header-terminating
// 0x00.
func writeHeader(w io.Writer, props map[string]string) error {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		line := escape.Escape(name) + "=" + escape.Escape(props[name]) + "\n"
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	_, err := w.Write([]byte{0x00})
	return err
}
