package dynamic_test

import (
	"path/filepath"
	"testing"

	"github.com/mukoan/libbedic/dynamic"
)

func TestCreateAndOpen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.edic")
	d, err := dynamic.Create(path, "Test", "", "-.")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := dynamic.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer reopened.Close()

	if got, want := reopened.Name(), "Test"; got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
	if !reopened.IsDynamic() {
		t.Error("IsDynamic() = false, want true")
	}
	if !reopened.IsMetaEditable() {
		t.Error("IsMetaEditable() = false, want true")
	}
}

func TestCreate_FileExists(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.edic")
	d, err := dynamic.Create(path, "Test", "", "-.")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	d.Close()

	if _, err := dynamic.Create(path, "Test", "", "-."); err == nil {
		t.Fatal("Create() over an existing file: want error, got nil")
	}
}

func TestOpen_Missing(t *testing.T) {
	t.Parallel()

	if _, err := dynamic.Open(filepath.Join(t.TempDir(), "missing.edic")); err == nil {
		t.Fatal("Open() of a missing file: want error, got nil")
	}
}

func TestInsertFindUpdateRemove(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.edic")
	d, err := dynamic.Create(path, "Test", "", "-.")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer d.Close()

	for _, kw := range []string{"beta", "alpha", "gamma"} {
		if _, err := d.InsertEntry(kw); err != nil {
			t.Fatalf("InsertEntry(%q) error = %v", kw, err)
		}
	}

	cur, matches, err := d.FindEntry("beta")
	if err != nil {
		t.Fatalf("FindEntry(beta) error = %v", err)
	}
	if !matches {
		t.Fatal("FindEntry(beta) matches = false, want true")
	}
	if err := d.UpdateEntry(cur, "second letter"); err != nil {
		t.Fatalf("UpdateEntry() error = %v", err)
	}
	if got, want := cur.Description(), "second letter"; got != want {
		t.Errorf("Description() = %q, want %q", got, want)
	}

	if err := d.RemoveEntry(cur); err != nil {
		t.Fatalf("RemoveEntry() error = %v", err)
	}
	if _, matches, err := d.FindEntry("beta"); err != nil {
		t.Fatalf("FindEntry(beta) error = %v", err)
	} else if matches {
		t.Error("FindEntry(beta) matches = true after RemoveEntry, want false")
	}
}

func TestIteration(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.edic")
	d, err := dynamic.Create(path, "Test", "", "-.")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer d.Close()

	for _, kw := range []string{"gamma", "alpha", "beta"} {
		if _, err := d.InsertEntry(kw); err != nil {
			t.Fatalf("InsertEntry(%q) error = %v", kw, err)
		}
	}

	cur, err := d.Begin()
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
	if !cur.AtEnd() {
		t.Error("AtEnd() = false after iterating past the last entry")
	}
}

func TestProperties(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.edic")
	d, err := dynamic.Create(path, "Test", "", "-.")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer d.Close()

	if err := d.SetProperty("builddate", "2024-01-01"); err != nil {
		t.Fatalf("SetProperty() error = %v", err)
	}
	got, ok, err := d.GetProperty("builddate")
	if err != nil {
		t.Fatalf("GetProperty() error = %v", err)
	}
	if !ok || got != "2024-01-01" {
		t.Errorf("GetProperty(builddate) = %q, %v, want \"2024-01-01\", true", got, ok)
	}

	if _, ok, err := d.GetProperty("does-not-exist"); err != nil {
		t.Fatalf("GetProperty() error = %v", err)
	} else if ok {
		t.Error("GetProperty(does-not-exist) ok = true, want false")
	}
}

func TestCheckIntegrity(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.edic")
	d, err := dynamic.Create(path, "Test", "", "-.")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer d.Close()

	if err := d.CheckIntegrity(); err != nil {
		t.Errorf("CheckIntegrity() error = %v", err)
	}
}
