package partition

import (
	"path/filepath"
	"testing"

	"github.com/cometadata/crossref-citation-extraction/internal/citeid"
)

func TestWriterBasic(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, 10)
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Write(Row{
		CitingID: "10.1234/test",
		RefIndex: 0,
		RefJSON:  "{}",
		RawMatch: "arXiv:2403.12345",
		CitedID:  "2403.12345",
	}); err != nil {
		t.Fatal(err)
	}
	if err := w.FlushAll(); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadAll(filepath.Join(dir, "2403.parquet")); err != nil {
		t.Fatalf("expected 2403.parquet to exist and be readable: %v", err)
	}
}

func TestWriterMultiplePartitions(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, 100)
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Write(Row{CitingID: "10.1234/a", RefIndex: 0, RefJSON: "{}", RawMatch: "arXiv:2403.12345", CitedID: "2403.12345"}); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(Row{CitingID: "10.1234/b", RefIndex: 1, RefJSON: "{}", RawMatch: "arXiv:hep-ph/9901234", CitedID: "hep-ph/9901234"}); err != nil {
		t.Fatal(err)
	}
	if err := w.FlushAll(); err != nil {
		t.Fatal(err)
	}

	if w.PartitionCount() != 2 {
		t.Errorf("PartitionCount() = %d, want 2", w.PartitionCount())
	}
	if _, err := ReadAll(filepath.Join(dir, "2403.parquet")); err != nil {
		t.Errorf("2403.parquet: %v", err)
	}
	if _, err := ReadAll(filepath.Join(dir, "hep-.parquet")); err != nil {
		t.Errorf("hep-.parquet: %v", err)
	}
}

func TestWriteExtractedRef(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, 100)
	if err != nil {
		t.Fatal(err)
	}

	matches := []citeid.Match{
		{RawMatch: "arXiv:2403.12345", CitedID: "2403.12345", Provenance: citeid.Mined},
		{RawMatch: "arXiv:2403.67890", CitedID: "2403.67890", Provenance: citeid.Mined},
	}
	written, err := w.WriteExtractedRef("10.1234/test", 0, "{}", matches)
	if err != nil {
		t.Fatal(err)
	}
	if written != 2 {
		t.Errorf("written = %d, want 2", written)
	}
	if err := w.FlushAll(); err != nil {
		t.Fatal(err)
	}
}

func TestPartitionKeyInvariantAcrossFlush(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, 1)
	if err != nil {
		t.Fatal(err)
	}
	ids := []string{"10.1234/a", "10.1234/b", "10.5678/c"}
	for _, id := range ids {
		if err := w.Write(Row{CitingID: "10.9/x", RefIndex: 0, RefJSON: "{}", RawMatch: id, CitedID: id}); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.FlushAll(); err != nil {
		t.Fatal(err)
	}

	keys, err := ListFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range keys {
		rows, err := ReadAll(PathForKey(dir, key))
		if err != nil {
			t.Fatal(err)
		}
		for _, r := range rows {
			if Key(r.CitedID) != key {
				t.Errorf("row %+v in partition %s violates partition key invariant", r, key)
			}
		}
	}
}
