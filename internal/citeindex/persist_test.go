package citeindex

import (
	"os"
	"path/filepath"
	"testing"
)

// Universal property 6: load(save(I)) == I as sets.
func TestSaveLoadRoundTrip(t *testing.T) {
	idx := New()
	idx.Insert("10.1234/a")
	idx.Insert("10.1234/b")
	idx.Insert("10.5678/c")

	path := filepath.Join(t.TempDir(), "index.bin")
	if err := Save(idx, path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Len() != idx.Len() {
		t.Errorf("Len() = %d, want %d", loaded.Len(), idx.Len())
	}
	for id := range idx.ids {
		if !loaded.Contains(id) {
			t.Errorf("loaded index missing %q", id)
		}
	}
	if loaded.PrefixCount() != idx.PrefixCount() {
		t.Errorf("PrefixCount() = %d, want %d", loaded.PrefixCount(), idx.PrefixCount())
	}
}

func TestLoadRebuildsMissingPrefixFile(t *testing.T) {
	idx := New()
	idx.Insert("10.1234/a")

	path := filepath.Join(t.TempDir(), "index.bin")
	if err := Save(idx, path); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(prefixesPath(path)); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !loaded.HasPrefix("10.1234") {
		t.Error("want prefix rebuilt from identifiers when prefix file absent")
	}
}

func TestBuildFromGzipJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl.gz")
	writeGzipLines(t, path, []string{
		`{"id":"10.1234/a"}`,
		`not json`,
		`{"id":"10.5678/b"}`,
		`{}`,
	})

	idx, failed, err := BuildFromGzipJSONL(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 2 {
		t.Errorf("Len() = %d, want 2", idx.Len())
	}
	if failed != 2 {
		t.Errorf("failed = %d, want 2", failed)
	}
}
