package citeid

import "testing"

// S2: an asserted DOI with a publisher tag classifies as Publisher.
func TestExtractReferenceDOIsScenarioAsserted(t *testing.T) {
	ref := Reference{"DOI": "10.1234/Y", "doi-asserted-by": "publisher"}
	matches := ExtractReferenceDOIs(ref)
	if len(matches) != 1 {
		t.Fatalf("got %d matches", len(matches))
	}
	if matches[0].CitedID != "10.1234/y" {
		t.Errorf("CitedID = %q", matches[0].CitedID)
	}
	if matches[0].Provenance != Publisher {
		t.Errorf("Provenance = %v, want Publisher", matches[0].Provenance)
	}
}

func TestExtractReferenceDOIsMinedByDefault(t *testing.T) {
	ref := Reference{"unstructured": "See 10.9999/other for details"}
	matches := ExtractReferenceDOIs(ref)
	if len(matches) != 1 || matches[0].Provenance != Mined {
		t.Fatalf("got %+v", matches)
	}
}

func TestExtractReferenceDOIsAssertedWithoutTag(t *testing.T) {
	ref := Reference{"DOI": "10.1234/Y"}
	matches := ExtractReferenceDOIs(ref)
	if len(matches) != 1 || matches[0].Provenance != Mined {
		t.Fatalf("want Mined absent a tag, got %+v", matches)
	}
}

func TestExtractReferenceDOIsMaxProvenanceAcrossPaths(t *testing.T) {
	ref := Reference{
		"DOI":             "10.1234/Y",
		"doi-asserted-by": "crossref",
		"unstructured":    "also mentions 10.1234/y in passing",
	}
	matches := ExtractReferenceDOIs(ref)
	if len(matches) != 1 {
		t.Fatalf("want a single deduplicated match, got %+v", matches)
	}
	if matches[0].Provenance != Crossref {
		t.Errorf("Provenance = %v, want Crossref", matches[0].Provenance)
	}
}

func TestExtractReferenceArxivIDs(t *testing.T) {
	ref := Reference{"unstructured": "see arXiv:2403.03542v1"}
	matches := ExtractReferenceArxivIDs(ref)
	if len(matches) != 1 || matches[0].CitedID != "2403.03542" {
		t.Fatalf("got %+v", matches)
	}
	if matches[0].Provenance != Mined {
		t.Errorf("Provenance = %v, want Mined", matches[0].Provenance)
	}
}
