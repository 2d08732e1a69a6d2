package block_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mukoan/libbedic/internal/block"
)

func writeTempFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReader_PlainFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	want := []byte("the quick brown fox jumps over the lazy dog")
	path := writeTempFile(t, dir, "test.dic", want)

	r, err := block.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	if got, want := r.Size(), int64(len(want)); got != want {
		t.Fatalf("Size() = %d, want %d", got, want)
	}

	tests := []struct {
		name   string
		offset int64
		length int
	}{
		{name: "from start", offset: 0, length: 9},
		{name: "middle", offset: 10, length: 5},
		{name: "to end", offset: int64(len(want)) - 3, length: 3},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			buf := make([]byte, test.length)
			n, err := r.Read(test.offset, buf)
			if err != nil {
				t.Fatalf("Read(%d, len=%d) error = %v", test.offset, test.length, err)
			}
			if n != test.length {
				t.Fatalf("Read(%d, len=%d) returned %d bytes", test.offset, test.length, n)
			}
			if diff := cmp.Diff(want[test.offset:test.offset+int64(test.length)], buf); diff != "" {
				t.Errorf("Read() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReader_StickyError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTempFile(t, dir, "test.dic", []byte("short"))

	r, err := block.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	// A negative offset trips the sticky error.
	if _, err := r.Read(-1, make([]byte, 1)); err == nil {
		t.Fatal("Read(-1, ...): want error, got nil")
	}

	// Every subsequent operation must fail with the same error.
	if _, err := r.Read(0, make([]byte, 1)); err == nil {
		t.Fatal("Read() after sticky error: want error, got nil")
	}
	if got := r.Size(); got != -1 {
		t.Fatalf("Size() after sticky error = %d, want -1", got)
	}
}

func TestReader_CloseThenRead(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTempFile(t, dir, "test.dic", []byte("data"))

	r, err := block.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := r.Read(0, make([]byte, 1)); err == nil {
		t.Fatal("Read() after Close(): want error, got nil")
	}
}

func TestOpen_Stdin(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTempFile(t, dir, "stdin.txt", []byte("piped content"))

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	oldStdin := os.Stdin
	os.Stdin = f
	defer func() { os.Stdin = oldStdin }()

	r, err := block.Open("-")
	if err != nil {
		t.Fatalf("Open(\"-\") error = %v", err)
	}
	buf := make([]byte, 13)
	if _, err := r.Read(0, buf); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if diff := cmp.Diff([]byte("piped content"), buf); diff != "" {
		t.Errorf("Read() mismatch (-want +got):\n%s", diff)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := block.Open(filepath.Join(t.TempDir(), "does-not-exist.dic")); err == nil {
		t.Fatal("Open() on a missing file: want error, got nil")
	}
}
