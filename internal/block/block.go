// Package block provides byte-addressable random access to a dictionary's
// backing file, transparently handling both plain files and dictzip
// (gzip with a random-access chunk index) containers behind one interface.
package block

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ianlewis/go-dictzip"
)

// ErrClosed is returned by Read and Size once the Reader has entered its
// sticky error state, either from an earlier I/O failure or an explicit
// Close.
var ErrClosed = errors.New("block: reader is closed or in an error state")

// randomAccess is the minimal surface both backing stores expose: an
// io.ReaderAt for arbitrary offset reads, plus the container's uncompressed
// size and a way to release its resources.
type randomAccess interface {
	io.ReaderAt
	io.Closer
	Size() int64
}

// Reader is a byte-addressable view over a dictionary file. Once any
// operation fails, the Reader is stuck in that failed state: it mirrors
// the original C++ implementation's sticky-errno file objects, since a
// caller looking up thousands of entries should not need to check every
// individual read for a transient error.
type Reader struct {
	ra  randomAccess
	err error
}

// Open opens path as a block reader. If path ends in ".dz" (any case), it
// is opened as a dictzip container; otherwise it is treated as a plain
// file. Passing "-" opens standard input as a plain, non-seekable source
// wrapped in memory, matching the builder's convention of "-" meaning
// stdio (spec §6).
func Open(path string) (*Reader, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("block: reading stdin: %w", err)
		}
		return &Reader{ra: &memoryFile{data: data}}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("block: opening %q: %w", path, err)
	}

	if strings.HasSuffix(strings.ToLower(path), ".dz") {
		info, statErr := f.Stat()
		if statErr != nil {
			f.Close()
			return nil, fmt.Errorf("block: statting %q: %w", path, statErr)
		}
		zr, zerr := dictzip.NewReader(f, info.Size())
		if zerr != nil {
			f.Close()
			return nil, fmt.Errorf("block: opening dictzip %q: %w", path, zerr)
		}
		return &Reader{ra: &dictzipFile{r: zr, f: f}}, nil
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("block: statting %q: %w", path, err)
	}
	return &Reader{ra: &plainFile{f: f, size: info.Size()}}, nil
}

// Size returns the reader's uncompressed size in bytes, or -1 once the
// reader has entered its sticky error state.
func (r *Reader) Size() int64 {
	if r.err != nil {
		return -1
	}
	return r.ra.Size()
}

// Err returns the error that put the reader into its sticky failure
// state, or nil if no operation has failed yet.
func (r *Reader) Err() error {
	return r.err
}

// Read fills buf with the bytes at [offset, offset+len(buf)) and returns
// the number of bytes actually read. Once Read (or any other operation)
// has failed once, every subsequent call is a no-op that returns 0 and the
// original error.
func (r *Reader) Read(offset int64, buf []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	if offset < 0 {
		r.err = fmt.Errorf("block: negative offset %d", offset)
		return 0, r.err
	}

	n, err := r.ra.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		r.err = fmt.Errorf("block: read at %d: %w", offset, err)
		return n, r.err
	}
	return n, nil
}

// Close releases the reader's underlying file handle. After Close, every
// operation returns ErrClosed.
func (r *Reader) Close() error {
	if r.err != nil {
		return r.err
	}
	err := r.ra.Close()
	r.err = ErrClosed
	return err
}

// plainFile is the randomAccess implementation for an uncompressed
// dictionary file.
type plainFile struct {
	f    *os.File
	size int64
}

func (p *plainFile) ReadAt(buf []byte, off int64) (int, error) { return p.f.ReadAt(buf, off) }
func (p *plainFile) Size() int64                               { return p.size }
func (p *plainFile) Close() error                              { return p.f.Close() }

// dictzipFile is the randomAccess implementation for a dictzip-compressed
// dictionary file, backed by github.com/ianlewis/go-dictzip's chunked
// random-access reader.
type dictzipFile struct {
	r *dictzip.Reader
	f *os.File
}

func (d *dictzipFile) ReadAt(buf []byte, off int64) (int, error) { return d.r.ReadAt(buf, off) }
func (d *dictzipFile) Size() int64                               { return d.r.Size() }
func (d *dictzipFile) Close() error                              { return d.f.Close() }

// memoryFile is the randomAccess implementation used for the "-" (stdin)
// pseudo-path, where the whole source has to be buffered up front since
// standard input isn't seekable.
type memoryFile struct {
	data []byte
}

func (m *memoryFile) ReadAt(buf []byte, off int64) (int, error) {
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(buf, m.data[off:])
	if n < len(buf) {
		return n, io.EOF
	}
	return n, nil
}
func (m *memoryFile) Size() int64 { return int64(len(m.data)) }
func (m *memoryFile) Close() error { return nil }
