package static

import (
	"bytes"
	"strconv"

	"github.com/mukoan/libbedic/internal/collate"
	"github.com/mukoan/libbedic/internal/index"
)

// parseIndex decodes the "index" header property (spec §4.4): a sequence of
// 0x00-prefixed records, each "keyword '\n' ascii_decimal_offset". Offsets
// are relative to the start of the entry region and are adjusted here by
// dataStart to become absolute file offsets. It reports ok=false if any
// record fails to parse, in which case the caller discards the whole index
// rather than risk searching against a partially-trusted one.
func parseIndex(raw string, col *collate.Collation, dataStart int64) (*index.Index[anchor, collate.Word], bool) {
	records := bytes.Split([]byte(raw), []byte{0x00})

	var anchors []anchor
	for _, rec := range records {
		if len(rec) == 0 {
			continue
		}
		sep := bytes.IndexByte(rec, '\n')
		if sep < 0 {
			return nil, false
		}
		keyword := string(rec[:sep])
		offsetStr := string(rec[sep+1:])
		offset, err := strconv.ParseInt(offsetStr, 10, 64)
		if err != nil {
			return nil, false
		}
		anchors = append(anchors, anchor{
			key:    col.Canonicalize(keyword),
			offset: offset + dataStart,
		})
	}

	if len(anchors) == 0 {
		return nil, false
	}

	return index.New(anchors, func(a anchor) collate.Word { return a.key }, col.Compare), true
}
