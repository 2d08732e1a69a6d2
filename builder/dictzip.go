package builder

import (
	"io"

	"github.com/ianlewis/go-dictzip"

	"github.com/mukoan/libbedic/internal/collate"
)

// BuildDictzip is Build, wrapping w in a dictzip writer so the resulting
// static file is itself a valid random-access dictzip container (block.Open
// selects this transparently by the ".dz" filename suffix).
func BuildDictzip(w io.Writer, props map[string]string, entries []Entry, col *collate.Collation, opts Options) ([]string, error) {
	dz, err := dictzip.NewWriter(w)
	if err != nil {
		return nil, err
	}
	warnings, err := Build(dz, props, entries, col, opts)
	if err != nil {
		dz.Close()
		return warnings, err
	}
	return warnings, dz.Close()
}
