package invert

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/segmentio/encoding/json"

	"github.com/cometadata/crossref-citation-extraction/internal/citeid"
)

type jsonMatch struct {
	RawMatch   string            `json:"raw_match"`
	Reference  json.RawMessage   `json:"reference"`
	Provenance citeid.Provenance `json:"provenance"`
}

type jsonCitedBy struct {
	DOI        string            `json:"doi"`
	Provenance citeid.Provenance `json:"provenance"`
	Matches    []jsonMatch       `json:"matches"`
}

type jsonRecord struct {
	DOI            string            `json:"doi"`
	ArxivID        string            `json:"arxiv_id,omitempty"`
	ArxivDOI       string            `json:"arxiv_doi,omitempty"`
	ReferenceCount int               `json:"reference_count"`
	CitationCount  int               `json:"citation_count"`
	CitedBy        []jsonCitedBy     `json:"cited_by"`
}

func toJSONRecord(r Record, mode OutputMode) jsonRecord {
	citedBy := make([]jsonCitedBy, 0, len(r.CitedBy))
	for _, e := range r.CitedBy {
		matches := make([]jsonMatch, 0, len(e.Matches))
		for _, m := range e.Matches {
			matches = append(matches, jsonMatch{
				RawMatch:   m.RawMatch,
				Reference:  m.Reference,
				Provenance: m.Provenance,
			})
		}
		citedBy = append(citedBy, jsonCitedBy{
			DOI:        e.CitingID,
			Provenance: e.Provenance,
			Matches:    matches,
		})
	}

	out := jsonRecord{
		DOI:            r.CitedID,
		ReferenceCount: r.ReferenceCount,
		CitationCount:  r.CitationCount,
		CitedBy:        citedBy,
	}
	if mode == OutputArxiv {
		out.ArxivID = r.CitedID
		out.ArxivDOI = citeid.ArxivDOI(r.CitedID)
		out.DOI = out.ArxivDOI
	}
	return out
}

// WriteJSONL writes records, already sorted by SortRecords, as the
// JSON-lines output format. The file is written to path+".tmp" and renamed
// to path once fully flushed.
func WriteJSONL(records []Record, path string, mode OutputMode) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("invert: creating %s: %w", tmp, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := writeJSONL(bw, records, mode); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("invert: closing %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}

func writeJSONL(w io.Writer, records []Record, mode OutputMode) error {
	for _, r := range records {
		line, err := json.Marshal(toJSONRecord(r, mode))
		if err != nil {
			return fmt.Errorf("invert: marshaling record %s: %w", r.CitedID, err)
		}
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("invert: writing record %s: %w", r.CitedID, err)
		}
		if _, err := w.Write([]byte("\n")); err != nil {
			return fmt.Errorf("invert: writing record %s: %w", r.CitedID, err)
		}
	}
	return nil
}

// FilterByProvenance keeps only cited_by entries whose provenance
// satisfies keep, recomputing citation_count and reference_count over the
// surviving entries. A record whose cited_by becomes empty is dropped.
func FilterByProvenance(records []Record, keep func(citeid.Provenance) bool) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		var filtered []CitedByEntry
		refCount := 0
		for _, e := range r.CitedBy {
			if !keep(e.Provenance) {
				continue
			}
			filtered = append(filtered, e)
			refCount += len(e.Matches)
		}
		if len(filtered) == 0 {
			continue
		}
		out = append(out, Record{
			CitedID:        r.CitedID,
			ReferenceCount: refCount,
			CitationCount:  len(filtered),
			CitedBy:        filtered,
		})
	}
	return out
}

// SplitAssertedMined partitions records into a publisher/crossref-asserted
// split and a mined split.
func SplitAssertedMined(records []Record) (asserted, mined []Record) {
	asserted = FilterByProvenance(records, citeid.Provenance.IsAsserted)
	mined = FilterByProvenance(records, func(p citeid.Provenance) bool { return !p.IsAsserted() })
	return asserted, mined
}

// WriteSplitJSONL writes basePath plus basePath+"_asserted" and
// basePath+"_mined".
func WriteSplitJSONL(records []Record, basePath string, mode OutputMode) error {
	if err := WriteJSONL(records, basePath, mode); err != nil {
		return err
	}
	asserted, mined := SplitAssertedMined(records)
	if err := WriteJSONL(asserted, basePath+"_asserted", mode); err != nil {
		return err
	}
	return WriteJSONL(mined, basePath+"_mined", mode)
}
