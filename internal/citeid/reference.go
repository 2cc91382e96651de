package citeid

import "strings"

// Reference is a semi-structured citing-work reference, decoded as a
// plain JSON object. Field names follow the Crossref reference schema:
// "DOI" carries the asserted identifier, "doi-asserted-by" its origin
// tag, and any other string-valued field ("unstructured",
// "article-title", "journal-title", ...) may incidentally contain a
// mined identifier.
type Reference map[string]interface{}

// AssertedID returns the value of the reference's asserted-identifier
// field, or "" if absent or non-string.
func (r Reference) AssertedID() string {
	s, _ := r["DOI"].(string)
	return s
}

// AssertionTag returns the reference's assertion-origin tag, or "" if
// absent or non-string.
func (r Reference) AssertionTag() string {
	s, _ := r["doi-asserted-by"].(string)
	return s
}

// SearchText concatenates every string-valued field of the reference,
// including the asserted-identifier field itself, into one block of
// text suitable for identifier extraction.
func (r Reference) SearchText() string {
	var b strings.Builder
	for _, v := range r {
		if s, ok := v.(string); ok {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(s)
		}
	}
	return b.String()
}

// Match is one identifier found while scanning a reference, already
// classified by provenance.
type Match struct {
	RawMatch   string
	CitedID    string
	Provenance Provenance
}

// assertedProvenance decides the provenance a found identifier should
// carry given the reference's asserted field and tag: Publisher or
// Crossref if the identifier matches the asserted field (case
// insensitively, or as a substring of the canonical asserted form) and
// the tag names that authority; Mined otherwise.
func assertedProvenance(r Reference, canonicalID string) Provenance {
	asserted := r.AssertedID()
	if asserted == "" {
		return Mined
	}
	assertedLower := strings.ToLower(asserted)
	if assertedLower != canonicalID && !strings.Contains(assertedLower, canonicalID) {
		return Mined
	}
	return FromAssertionTag(r.AssertionTag())
}

// ExtractReferenceDOIs scans a reference's search text for DOIs and
// classifies each by provenance, taking the maximum provenance when
// the same canonical DOI is found via more than one path (e.g. it
// appears both in the asserted field and in free text).
func ExtractReferenceDOIs(r Reference) []Match {
	byID := make(map[string]*Match)
	var order []string
	for _, m := range ExtractDOIs(r.SearchText()) {
		prov := assertedProvenance(r, m.DOI)
		if existing, ok := byID[m.DOI]; ok {
			existing.Provenance = Max(existing.Provenance, prov)
			continue
		}
		byID[m.DOI] = &Match{RawMatch: m.Raw, CitedID: m.DOI, Provenance: prov}
		order = append(order, m.DOI)
	}
	out := make([]Match, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}

// ExtractReferenceArxivIDs scans a reference's search text for arXiv
// identifiers and classifies each by provenance against the asserted
// field's canonical DOI form (10.48550/arXiv.<id>).
func ExtractReferenceArxivIDs(r Reference) []Match {
	byID := make(map[string]*Match)
	var order []string
	for _, m := range ExtractArxivIDs(r.SearchText()) {
		prov := assertedProvenance(r, strings.ToLower(m.ArxivDOI))
		if existing, ok := byID[m.ID]; ok {
			existing.Provenance = Max(existing.Provenance, prov)
			continue
		}
		byID[m.ID] = &Match{RawMatch: m.Raw, CitedID: m.ID, Provenance: prov}
		order = append(order, m.ID)
	}
	out := make([]Match, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}
