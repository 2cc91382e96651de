package pipeline

import (
	"archive/tar"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/pgzip"
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
	tw.Close()
	gz.Close()

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeGzipAuthority(t *testing.T, dir string, ids []string) string {
	t.Helper()
	path := filepath.Join(dir, "authority.jsonl.gz")

	var buf bytes.Buffer
	gz := pgzip.NewWriter(&buf)
	for _, id := range ids {
		gz.Write([]byte(`{"id":"` + id + `"}` + "\n"))
	}
	gz.Close()

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunCrossrefModeEndToEnd(t *testing.T) {
	dir := t.TempDir()
	doc := `{"items":[` +
		`{"DOI":"10.9/citing","reference":[{"DOI":"10.1234/cited","doi-asserted-by":"crossref"}]},` +
		`{"DOI":"10.1234/cited","reference":[]}` +
		`]}`
	archive := writeArchive(t, dir, map[string]string{"batch1.json": doc})

	opts := Options{
		Mode:             ModeCrossref,
		ArchivePath:      archive,
		TempDir:          filepath.Join(dir, "work"),
		OutputValidPath:  filepath.Join(dir, "valid.jsonl"),
		OutputFailedPath: filepath.Join(dir, "failed.jsonl"),
	}

	result, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if result.ValidCount != 1 {
		t.Errorf("valid count = %d, want 1", result.ValidCount)
	}
	if _, err := os.Stat(opts.OutputValidPath); err != nil {
		t.Errorf("missing valid output: %v", err)
	}
	if _, err := os.Stat(opts.TempDir); err == nil {
		t.Error("temp dir should be removed when KeepIntermediates is false")
	}
}

func TestRunDataciteModeUsesExternalIndex(t *testing.T) {
	dir := t.TempDir()
	doc := `{"items":[{"DOI":"10.9/citing","reference":[{"unstructured":"see 10.1234/cited for details"}]}]}`
	archive := writeArchive(t, dir, map[string]string{"batch1.json": doc})
	authority := writeGzipAuthority(t, dir, []string{"10.1234/cited"})

	opts := Options{
		Mode:                 ModeDatacite,
		ArchivePath:          archive,
		AuthorityRecordsPath: authority,
		TempDir:              filepath.Join(dir, "work"),
		KeepIntermediates:    true,
		OutputValidPath:      filepath.Join(dir, "valid.jsonl"),
		OutputFailedPath:     filepath.Join(dir, "failed.jsonl"),
	}

	result, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if result.ValidCount != 1 || result.FailedCount != 0 {
		t.Errorf("valid=%d failed=%d, want 1/0", result.ValidCount, result.FailedCount)
	}
}

func TestRunRejectsMissingPreconditions(t *testing.T) {
	_, err := Run(context.Background(), Options{Mode: ModeDatacite, ArchivePath: "archive.tar.gz"})
	if err == nil {
		t.Fatal("expected a precondition error for datacite mode without authority input")
	}
}

func TestRunRejectsMissingArchive(t *testing.T) {
	_, err := Run(context.Background(), Options{Mode: ModeCrossref})
	if err == nil {
		t.Fatal("expected a precondition error for a missing archive")
	}
}
