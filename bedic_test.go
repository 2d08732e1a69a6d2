package bedic_test

import (
	"path/filepath"
	"testing"

	"github.com/mukoan/libbedic"
	"github.com/mukoan/libbedic/dynamic"
	"github.com/mukoan/libbedic/internal/testutil"
)

func TestOpen_Static(t *testing.T) {
	t.Parallel()

	path := testutil.WriteStaticFile(t, "test.dic", [][2]string{{"alpha", "a1"}})

	d, err := bedic.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer d.Close()

	if got, want := d.Name(), "Test"; got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
	if d.IsDynamic() {
		t.Error("IsDynamic() = true for a static dictionary, want false")
	}

	cur, matches, err := d.FindEntry("alpha")
	if err != nil {
		t.Fatalf("FindEntry() error = %v", err)
	}
	if !matches {
		t.Fatal("FindEntry(alpha) matches = false, want true")
	}
	if got, want := cur.Description(), "a1"; got != want {
		t.Errorf("Description() = %q, want %q", got, want)
	}

	if _, err := bedic.OpenEditable(path); err == nil {
		t.Error("OpenEditable() on a static dictionary: want error, got nil")
	}
}

func TestOpen_Dynamic(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.edic")
	d, err := bedic.OpenEditable(mustCreateDynamic(t, path))
	if err != nil {
		t.Fatalf("OpenEditable() error = %v", err)
	}
	defer d.Close()

	if !d.IsDynamic() {
		t.Error("IsDynamic() = false for a dynamic dictionary, want true")
	}

	cur, err := d.InsertEntry("alpha")
	if err != nil {
		t.Fatalf("InsertEntry() error = %v", err)
	}
	if err := d.UpdateEntry(cur, "a1"); err != nil {
		t.Fatalf("UpdateEntry() error = %v", err)
	}

	found, matches, err := d.FindEntry("alpha")
	if err != nil {
		t.Fatalf("FindEntry() error = %v", err)
	}
	if !matches {
		t.Fatal("FindEntry(alpha) matches = false, want true")
	}
	if got, want := found.Description(), "a1"; got != want {
		t.Errorf("Description() = %q, want %q", got, want)
	}
}

// mustCreateDynamic creates an empty dynamic dictionary file at path and
// returns path, for use as an Open/OpenEditable fixture.
func mustCreateDynamic(t *testing.T, path string) string {
	t.Helper()
	d, err := dynamic.Create(path, "Test", "", "-.")
	if err != nil {
		t.Fatal(err)
	}
	d.Close()
	return path
}
