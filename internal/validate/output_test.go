package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cometadata/crossref-citation-extraction/internal/citeid"
	"github.com/cometadata/crossref-citation-extraction/internal/invert"
)

func TestWriteOutputsProducesBothStreams(t *testing.T) {
	dir := t.TempDir()
	valid := []invert.Record{{CitedID: "10.1/a", CitationCount: 1, ReferenceCount: 1,
		CitedBy: []invert.CitedByEntry{{CitingID: "10.9/x", Provenance: citeid.Mined, Matches: []invert.Match{{RawMatch: "m", Reference: []byte("{}")}}}}}}
	failed := []invert.Record{{CitedID: "10.1/b"}}

	validPath := filepath.Join(dir, "valid.jsonl")
	failedPath := filepath.Join(dir, "failed.jsonl")

	if err := WriteOutputs(valid, failed, validPath, failedPath, invert.OutputGeneric, false); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{validPath, failedPath} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing output file %s: %v", p, err)
		}
	}
}

func TestWriteOutputsSplitProducesSiblings(t *testing.T) {
	dir := t.TempDir()
	valid := []invert.Record{{
		CitedID:       "10.1/a",
		CitationCount: 2,
		CitedBy: []invert.CitedByEntry{
			{CitingID: "10.9/x", Provenance: citeid.Publisher, Matches: []invert.Match{{RawMatch: "m1", Reference: []byte("{}")}}},
			{CitingID: "10.9/y", Provenance: citeid.Mined, Matches: []invert.Match{{RawMatch: "m2", Reference: []byte("{}")}}},
		},
	}}
	validPath := filepath.Join(dir, "valid.jsonl")
	failedPath := filepath.Join(dir, "failed.jsonl")

	if err := WriteOutputs(valid, nil, validPath, failedPath, invert.OutputGeneric, true); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{validPath, validPath + "_asserted", validPath + "_mined"} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing split output %s: %v", p, err)
		}
	}
}
