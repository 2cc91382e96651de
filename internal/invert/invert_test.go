package invert

import (
	"testing"

	"github.com/cometadata/crossref-citation-extraction/internal/citeid"
	"github.com/cometadata/crossref-citation-extraction/internal/partition"
)

// S5: two citing works each cite the same work twice via different raw
// matches.
func TestInvertPartitionScenarioCountAndGroup(t *testing.T) {
	rows := []partition.Row{
		{CitingID: "10.a/1", RefIndex: 0, RawMatch: "10.b/x (first)", CitedID: "10.b/x", RefJSON: "{}", Provenance: citeid.Mined},
		{CitingID: "10.a/1", RefIndex: 1, RawMatch: "10.b/x (second)", CitedID: "10.b/x", RefJSON: "{}", Provenance: citeid.Mined},
		{CitingID: "10.a/2", RefIndex: 0, RawMatch: "10.b/x (third)", CitedID: "10.b/x", RefJSON: "{}", Provenance: citeid.Mined},
		{CitingID: "10.a/2", RefIndex: 1, RawMatch: "10.b/x (fourth)", CitedID: "10.b/x", RefJSON: "{}", Provenance: citeid.Mined},
	}

	records := InvertPartition(rows)
	if len(records) != 1 {
		t.Fatalf("want 1 record, got %d", len(records))
	}
	r := records[0]
	if r.CitationCount != 2 {
		t.Errorf("citation_count = %d, want 2", r.CitationCount)
	}
	if r.ReferenceCount != 4 {
		t.Errorf("reference_count = %d, want 4", r.ReferenceCount)
	}
	if len(r.CitedBy) != 2 {
		t.Fatalf("want 2 cited_by entries, got %d", len(r.CitedBy))
	}
	for _, e := range r.CitedBy {
		if len(e.Matches) != 2 {
			t.Errorf("cited_by entry %s has %d matches, want 2", e.CitingID, len(e.Matches))
		}
	}
}

func TestInvertPartitionDropsSelfCitation(t *testing.T) {
	rows := []partition.Row{
		{CitingID: "10.a/1", CitedID: "10.a/1", RawMatch: "x", RefJSON: "{}"},
		{CitingID: "10.a/1", CitedID: "10.b/2", RawMatch: "y", RefJSON: "{}"},
	}
	records := InvertPartition(rows)
	if len(records) != 1 || records[0].CitedID != "10.b/2" {
		t.Fatalf("got %+v", records)
	}
}

func TestInvertPartitionDedupesExactReplay(t *testing.T) {
	row := partition.Row{CitingID: "10.a/1", RefIndex: 0, CitedID: "10.b/2", RawMatch: "x", RefJSON: "{}"}
	records := InvertPartition([]partition.Row{row, row})
	if len(records) != 1 {
		t.Fatalf("want 1 record, got %d", len(records))
	}
	if records[0].ReferenceCount != 1 || records[0].CitationCount != 1 {
		t.Errorf("got %+v", records[0])
	}
}

func TestInvertPartitionEntryProvenanceIsMax(t *testing.T) {
	rows := []partition.Row{
		{CitingID: "10.a/1", RefIndex: 0, CitedID: "10.b/2", RawMatch: "x", RefJSON: "{}", Provenance: citeid.Mined},
		{CitingID: "10.a/1", RefIndex: 1, CitedID: "10.b/2", RawMatch: "y", RefJSON: "{}", Provenance: citeid.Publisher},
	}
	records := InvertPartition(rows)
	if records[0].CitedBy[0].Provenance != citeid.Publisher {
		t.Errorf("entry provenance = %v, want publisher", records[0].CitedBy[0].Provenance)
	}
}

func TestSortRecordsOrdering(t *testing.T) {
	records := []Record{
		{CitedID: "10.b/2", CitationCount: 3},
		{CitedID: "10.a/1", CitationCount: 5},
		{CitedID: "10.a/0", CitationCount: 5},
		{CitedID: "10.c/3", CitationCount: 1},
	}
	SortRecords(records)

	want := []string{"10.a/0", "10.a/1", "10.b/2", "10.c/3"}
	for i, id := range want {
		if records[i].CitedID != id {
			t.Errorf("position %d = %s, want %s", i, records[i].CitedID, id)
		}
	}
}

// Universal property: citation_count == |cited_by| and
// reference_count == sum of |matches|, and no cited_by entry equals the
// record's own identifier.
func TestInvertPartitionUniversalProperties(t *testing.T) {
	rows := []partition.Row{
		{CitingID: "10.a/1", CitedID: "10.a/1", RawMatch: "self", RefJSON: "{}"},
		{CitingID: "10.a/1", CitedID: "10.b/2", RawMatch: "m1", RefJSON: "{}"},
		{CitingID: "10.a/2", CitedID: "10.b/2", RawMatch: "m2", RefJSON: "{}"},
		{CitingID: "10.a/2", CitedID: "10.b/2", RawMatch: "m3", RefJSON: "{}"},
	}
	for _, r := range InvertPartition(rows) {
		if r.CitationCount != len(r.CitedBy) {
			t.Errorf("%s: citation_count %d != len(cited_by) %d", r.CitedID, r.CitationCount, len(r.CitedBy))
		}
		sum := 0
		for _, e := range r.CitedBy {
			if e.CitingID == r.CitedID {
				t.Errorf("%s: self-citation survived in cited_by", r.CitedID)
			}
			sum += len(e.Matches)
		}
		if sum != r.ReferenceCount {
			t.Errorf("%s: reference_count %d != sum(matches) %d", r.CitedID, r.ReferenceCount, sum)
		}
	}
}
