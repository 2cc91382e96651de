package corpus

import (
	"archive/tar"
	"bytes"
	"path/filepath"
	"testing"

	"github.com/klauspost/pgzip"

	"github.com/cometadata/crossref-citation-extraction/internal/citeindex"
	"github.com/cometadata/crossref-citation-extraction/internal/partition"
)

func writeArchive(t *testing.T, dir string, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, "archive.tar.gz")

	var buf bytes.Buffer
	gz := pgzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range entries {
		hdr := &tar.Header{Name: name, Size: int64(len(content)), Mode: 0o644}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	if err := writeFile(path, buf.Bytes()); err != nil {
		t.Fatal(err)
	}
	return path
}

// S1: a bare DOI mentioned in free text is mined.
func TestDriverScenarioBareInText(t *testing.T) {
	dir := t.TempDir()
	doc := `{"items":[{"DOI":"10.9/x","reference":[{"unstructured":"See 10.1234/Example-A, thanks"}]}]}`
	path := writeArchive(t, dir, map[string]string{"batch1.json": doc})

	w, err := partition.New(filepath.Join(dir, "partitions"), 1000)
	if err != nil {
		t.Fatal(err)
	}
	driver := &Driver{Writer: w, LocalIndex: citeindex.New(), Mode: ExtractDOI}
	if _, err := driver.ProcessArchive(path); err != nil {
		t.Fatal(err)
	}
	if err := w.FlushAll(); err != nil {
		t.Fatal(err)
	}

	rows := readAllPartitions(t, filepath.Join(dir, "partitions"))
	if len(rows) != 1 {
		t.Fatalf("want 1 row, got %d: %+v", len(rows), rows)
	}
	if rows[0].CitedID != "10.1234/example-a" {
		t.Errorf("CitedID = %q", rows[0].CitedID)
	}
	if rows[0].Provenance.String() != "mined" {
		t.Errorf("Provenance = %v", rows[0].Provenance)
	}
}

// S2: an asserted, publisher-tagged DOI classifies as Publisher.
func TestDriverScenarioAsserted(t *testing.T) {
	dir := t.TempDir()
	doc := `{"items":[{"DOI":"10.9/x","reference":[{"DOI":"10.1234/Y","doi-asserted-by":"publisher"}]}]}`
	path := writeArchive(t, dir, map[string]string{"batch1.json": doc})

	w, err := partition.New(filepath.Join(dir, "partitions"), 1000)
	if err != nil {
		t.Fatal(err)
	}
	driver := &Driver{Writer: w, LocalIndex: citeindex.New(), Mode: ExtractDOI}
	if _, err := driver.ProcessArchive(path); err != nil {
		t.Fatal(err)
	}
	if err := w.FlushAll(); err != nil {
		t.Fatal(err)
	}

	rows := readAllPartitions(t, filepath.Join(dir, "partitions"))
	if len(rows) != 1 {
		t.Fatalf("want 1 row, got %d", len(rows))
	}
	if rows[0].CitedID != "10.1234/y" || rows[0].Provenance.String() != "publisher" {
		t.Errorf("got %+v", rows[0])
	}
}

// S3: self-citation, both explicit and mined, is suppressed entirely.
func TestDriverScenarioSelfCitationSuppressed(t *testing.T) {
	dir := t.TempDir()
	doc := `{"items":[{"DOI":"10.1/self","reference":[{"DOI":"10.1/self","doi-asserted-by":"crossref","unstructured":"also see 10.1/self again"}]}]}`
	path := writeArchive(t, dir, map[string]string{"batch1.json": doc})

	w, err := partition.New(filepath.Join(dir, "partitions"), 1000)
	if err != nil {
		t.Fatal(err)
	}
	driver := &Driver{Writer: w, LocalIndex: citeindex.New(), Mode: ExtractDOI}
	if _, err := driver.ProcessArchive(path); err != nil {
		t.Fatal(err)
	}
	if err := w.FlushAll(); err != nil {
		t.Fatal(err)
	}

	rows := readAllPartitions(t, filepath.Join(dir, "partitions"))
	if len(rows) != 0 {
		t.Fatalf("want no rows emitted for self-citation, got %+v", rows)
	}
}

// S4: arXiv mode only matches identifiers gated by the "arxiv" literal.
func TestDriverScenarioArxivGating(t *testing.T) {
	dir := t.TempDir()
	doc := `{"items":[{"DOI":"10.9/x","reference":[{"unstructured":"see arXiv:2403.03542v3"}]}]}`
	path := writeArchive(t, dir, map[string]string{"batch1.json": doc})

	w, err := partition.New(filepath.Join(dir, "partitions"), 1000)
	if err != nil {
		t.Fatal(err)
	}
	driver := &Driver{Writer: w, LocalIndex: citeindex.New(), Mode: ExtractArxiv}
	if _, err := driver.ProcessArchive(path); err != nil {
		t.Fatal(err)
	}
	if err := w.FlushAll(); err != nil {
		t.Fatal(err)
	}

	rows := readAllPartitions(t, filepath.Join(dir, "partitions"))
	if len(rows) != 1 || rows[0].CitedID != "2403.03542" {
		t.Fatalf("got %+v", rows)
	}
	if partitionKeyOf(rows[0].CitedID) != "2403" {
		t.Errorf("partition key = %q", partitionKeyOf(rows[0].CitedID))
	}
}

func TestDriverRecordsLocalIndex(t *testing.T) {
	dir := t.TempDir()
	doc := `{"items":[{"DOI":"10.9/x","reference":[]}]}`
	path := writeArchive(t, dir, map[string]string{"batch1.json": doc})

	w, err := partition.New(filepath.Join(dir, "partitions"), 1000)
	if err != nil {
		t.Fatal(err)
	}
	idx := citeindex.New()
	driver := &Driver{Writer: w, LocalIndex: idx, Mode: ExtractDOI}
	if _, err := driver.ProcessArchive(path); err != nil {
		t.Fatal(err)
	}
	if !idx.Contains("10.9/x") {
		t.Error("want citing identifier recorded in local index")
	}
}

func TestDriverSkipsMalformedEntry(t *testing.T) {
	dir := t.TempDir()
	path := writeArchive(t, dir, map[string]string{"bad.json": "{not json"})

	w, err := partition.New(filepath.Join(dir, "partitions"), 1000)
	if err != nil {
		t.Fatal(err)
	}
	driver := &Driver{Writer: w, LocalIndex: citeindex.New(), Mode: ExtractDOI}
	stats, err := driver.ProcessArchive(path)
	if err != nil {
		t.Fatalf("malformed entry should be recovered, not fatal: %v", err)
	}
	if stats.MalformedEntries != 1 {
		t.Errorf("MalformedEntries = %d, want 1", stats.MalformedEntries)
	}
}
