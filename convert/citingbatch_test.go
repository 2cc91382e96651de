package convert

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/pgzip"
	"github.com/segmentio/encoding/json"
)

func writeRawArchive(t *testing.T, dir string, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, "raw.tar.gz")

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
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readArchiveItems(t *testing.T, path string) []citingWorkRecord {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	defer gz.Close()

	var out []citingWorkRecord
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			t.Fatal(err)
		}
		var doc citingBatchDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			t.Fatalf("entry %s: %v", hdr.Name, err)
		}
		for _, raw := range doc.Items {
			var rec citingWorkRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				t.Fatal(err)
			}
			out = append(out, rec)
		}
	}
	return out
}

func TestConvertCitingCorpusCleansDOIAndCountsReferences(t *testing.T) {
	dir := t.TempDir()
	doc := `{"items":[` +
		`{"DOI":"HTTPS://DOI.ORG/10.9999/Citing","reference":[{"DOI":"10.1234/cited","doi-asserted-by":"crossref"},{"unstructured":"no identifier here"}]}` +
		`]}`
	in := writeRawArchive(t, dir, map[string]string{"batch1.json": doc})
	out := filepath.Join(dir, "clean.tar.gz")

	stats, err := ConvertCitingCorpus(in, out)
	if err != nil {
		t.Fatal(err)
	}
	if stats.JSONFilesProcessed != 1 {
		t.Errorf("json files processed = %d, want 1", stats.JSONFilesProcessed)
	}
	if stats.TotalRecords != 1 {
		t.Errorf("total records = %d, want 1", stats.TotalRecords)
	}
	if stats.TotalReferences != 2 {
		t.Errorf("total references = %d, want 2", stats.TotalReferences)
	}
	if stats.ReferencesWithHint != 1 {
		t.Errorf("references with hint = %d, want 1", stats.ReferencesWithHint)
	}

	items := readArchiveItems(t, out)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].DOI != "10.9999/citing" {
		t.Errorf("cleaned DOI = %q, want 10.9999/citing", items[0].DOI)
	}
}

func TestConvertCitingCorpusTracksIndexedDateRange(t *testing.T) {
	dir := t.TempDir()
	doc := `{"items":[` +
		`{"DOI":"10.1234/a","reference":[],"indexed":{"date-time":"2024-03-15T10:22:33Z"}},` +
		`{"DOI":"10.1234/b","reference":[],"indexed":{"date-time":"2024-01-02T00:00:00Z"}}` +
		`]}`
	in := writeRawArchive(t, dir, map[string]string{"batch1.json": doc})
	out := filepath.Join(dir, "clean.tar.gz")

	stats, err := ConvertCitingCorpus(in, out)
	if err != nil {
		t.Fatal(err)
	}
	if got := stats.EarliestIndexed.Format("2006-01-02"); got != "2024-01-02" {
		t.Errorf("earliest indexed = %s, want 2024-01-02", got)
	}
	if got := stats.LatestIndexed.Format("2006-01-02"); got != "2024-03-15" {
		t.Errorf("latest indexed = %s, want 2024-03-15", got)
	}

	items := readArchiveItems(t, out)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	for _, item := range items {
		if item.Indexed == nil || item.Indexed.DateTime == "" {
			t.Errorf("indexed field not preserved for %s", item.DOI)
		}
	}
}

func TestConvertCitingCorpusDropsRecordsWithoutDOI(t *testing.T) {
	dir := t.TempDir()
	doc := `{"items":[` +
		`{"DOI":"not a doi","reference":[]},` +
		`{"DOI":"10.1234/ok","reference":[]}` +
		`]}`
	in := writeRawArchive(t, dir, map[string]string{"batch1.json": doc})
	out := filepath.Join(dir, "clean.tar.gz")

	stats, err := ConvertCitingCorpus(in, out)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalRecords != 1 {
		t.Errorf("total records = %d, want 1", stats.TotalRecords)
	}
	items := readArchiveItems(t, out)
	if len(items) != 1 || items[0].DOI != "10.1234/ok" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestConvertCitingCorpusSkipsMalformedEntry(t *testing.T) {
	dir := t.TempDir()
	in := writeRawArchive(t, dir, map[string]string{
		"bad.json":  `not json`,
		"good.json": `{"items":[{"DOI":"10.1234/ok","reference":[]}]}`,
	})
	out := filepath.Join(dir, "clean.tar.gz")

	stats, err := ConvertCitingCorpus(in, out)
	if err != nil {
		t.Fatal(err)
	}
	if stats.JSONFilesProcessed != 1 {
		t.Errorf("json files processed = %d, want 1", stats.JSONFilesProcessed)
	}
	items := readArchiveItems(t, out)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
}
