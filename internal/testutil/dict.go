// Package testutil provides fixture builders shared by _test.go files in
// packages that only exercise the static, dynamic, and hybrid engines
// through their public APIs (an internal package's own tests build
// fixtures by hand instead, to exercise header edge cases testutil does
// not need to know about).
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mukoan/libbedic/internal/escape"
)

// MakeStaticFile returns the on-disk bytes of a minimal, well-formed
// static dictionary file with id "Test" and the given (keyword,
// description) entries, in the order given (callers wanting sorted
// output should pass already-sorted entries).
func MakeStaticFile(entries [][2]string) []byte {
	var buf bytes.Buffer
	buf.WriteString("id=Test\n")
	buf.WriteByte(0x00)
	for _, e := range entries {
		buf.WriteString(escape.Escape(e[0]))
		buf.WriteByte('\n')
		buf.WriteString(escape.Escape(e[1]))
		buf.WriteByte(0x00)
	}
	return buf.Bytes()
}

// WriteStaticFile writes MakeStaticFile's output to a temp file under
// t.TempDir() named name and returns its path.
func WriteStaticFile(t *testing.T, name string, entries [][2]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, MakeStaticFile(entries), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
