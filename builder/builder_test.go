package builder_test

import (
	"bufio"
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/mukoan/libbedic/builder"
	"github.com/mukoan/libbedic/internal/collate"
	"github.com/mukoan/libbedic/static"
)

func TestReadHeaderAndEntries(t *testing.T) {
	t.Parallel()

	input := "id=Test\nchar-precedence=ABCabc\n\n" +
		"beta\nsecond letter\n\n" +
		"alpha\nfirst letter\n\n" +
		"gamma\nspans\ntwo lines\n\n"

	r := bufio.NewReader(strings.NewReader(input))
	props, err := builder.ReadHeader(r)
	if err != nil {
		t.Fatalf("ReadHeader() error = %v", err)
	}
	if got, want := props["id"], "Test"; got != want {
		t.Errorf("props[id] = %q, want %q", got, want)
	}

	entries, err := builder.ReadEntries(r)
	if err != nil {
		t.Fatalf("ReadEntries() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("ReadEntries() returned %d entries, want 3", len(entries))
	}
	if got, want := entries[2].Description, "spans two lines"; got != want {
		t.Errorf("entries[2].Description = %q, want %q", got, want)
	}
}

func TestBuild_ProducesOpenableStaticFile(t *testing.T) {
	t.Parallel()

	entries := []builder.Entry{
		{Keyword: "beta", Description: "b1"},
		{Keyword: "alpha", Description: "a1"},
		{Keyword: "gamma", Description: "g1"},
	}
	col := collate.New("", "-.")

	var buf bytes.Buffer
	warnings, err := builder.Build(&buf, map[string]string{"id": "Test"}, entries, col, builder.Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Build() warnings = %v, want none", warnings)
	}

	path := writeTempFile(t, buf.Bytes())
	d, err := static.Open(path)
	if err != nil {
		t.Fatalf("static.Open() error = %v", err)
	}
	defer d.Close()

	cur, matches, err := d.FindEntry("beta")
	if err != nil {
		t.Fatalf("FindEntry(beta) error = %v", err)
	}
	if !matches {
		t.Fatal("FindEntry(beta) matches = false, want true")
	}
	if got, want := cur.Description(), "b1"; got != want {
		t.Errorf("Description() = %q, want %q", got, want)
	}

	cur, err = d.Begin()
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	var got []string
	got = append(got, cur.Keyword())
	for {
		ok, err := cur.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if !ok {
			break
		}
		got = append(got, cur.Keyword())
	}
	want := []string{"alpha", "beta", "gamma"}
	if len(got) != len(want) {
		t.Fatalf("iterated %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("iterated %v, want %v", got, want)
			break
		}
	}
}

func TestBuild_WarnsOnCanonicalDuplicate(t *testing.T) {
	t.Parallel()

	entries := []builder.Entry{
		{Keyword: "cat", Description: "one"},
		{Keyword: "CAT", Description: "two"},
	}
	col := collate.New("", "")

	var buf bytes.Buffer
	warnings, err := builder.Build(&buf, map[string]string{"id": "Test"}, entries, col, builder.Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("Build() warnings = %v, want exactly 1", warnings)
	}
}

func TestBuild_SHCM(t *testing.T) {
	t.Parallel()

	entries := []builder.Entry{
		{Keyword: "alpha", Description: "a1"},
		{Keyword: "beta", Description: "b1"},
		{Keyword: "gamma", Description: "g1"},
	}
	col := collate.New("", "-.")

	var buf bytes.Buffer
	if _, err := builder.Build(&buf, map[string]string{"id": "Test"}, entries, col, builder.Options{SHCM: true}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	path := writeTempFile(t, buf.Bytes())
	d, err := static.Open(path)
	if err != nil {
		t.Fatalf("static.Open() error = %v", err)
	}
	defer d.Close()

	cur, matches, err := d.FindEntry("gamma")
	if err != nil {
		t.Fatalf("FindEntry(gamma) error = %v", err)
	}
	if !matches {
		t.Fatal("FindEntry(gamma) matches = false, want true")
	}
	if got, want := cur.Description(), "g1"; got != want {
		t.Errorf("Description() = %q, want %q", got, want)
	}
}

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	dir := t.TempDir()
	path := dir + "/built.dic"
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
