// Package invert groups extracted citation rows by cited identifier and
// aggregates them into inverted citation records, one per cited work.
package invert

import (
	"sort"

	"github.com/segmentio/encoding/json"

	"github.com/cometadata/crossref-citation-extraction/internal/citeid"
	"github.com/cometadata/crossref-citation-extraction/internal/partition"
)

// OutputMode selects the JSON record shape written for each record.
type OutputMode int

const (
	OutputGeneric OutputMode = iota
	OutputArxiv
)

// Match is one surviving (raw_match, reference) pair from a single citing
// work's reference list.
type Match struct {
	RawMatch   string          `json:"raw_match"`
	Reference  json.RawMessage `json:"reference"`
	Provenance citeid.Provenance `json:"provenance"`
}

// CitedByEntry groups every match contributed by one citing work.
type CitedByEntry struct {
	CitingID   string
	Provenance citeid.Provenance
	Matches    []Match
}

// Record is the aggregated form of one cited identifier.
type Record struct {
	CitedID        string
	ReferenceCount int
	CitationCount  int
	CitedBy        []CitedByEntry
}

// rowKey is the defence-in-depth dedup key: a row repeated verbatim (as
// could happen if a partial flush were replayed on resume) contributes
// nothing new and is dropped. Distinct raw matches from the same citing
// work against the same cited work are NOT duplicates and both survive.
type rowKey struct {
	citingID string
	citedID  string
	refIndex uint32
	rawMatch string
}

// InvertPartition runs the per-partition grouping algorithm over rows
// already known to share a single partition key, producing one Record per
// distinct cited_id.
func InvertPartition(rows []partition.Row) []Record {
	seen := make(map[rowKey]struct{}, len(rows))
	groups := make(map[string][]partition.Row)
	var order []string

	for _, r := range rows {
		if r.CitingID == r.CitedID {
			continue // self-citation, defence in depth
		}
		k := rowKey{r.CitingID, r.CitedID, r.RefIndex, r.RawMatch}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}

		if _, ok := groups[r.CitedID]; !ok {
			order = append(order, r.CitedID)
		}
		groups[r.CitedID] = append(groups[r.CitedID], r)
	}

	records := make([]Record, 0, len(order))
	for _, citedID := range order {
		records = append(records, buildRecord(citedID, groups[citedID]))
	}
	return records
}

func buildRecord(citedID string, rows []partition.Row) Record {
	citing := make(map[string]struct{})
	byCitingID := make(map[string]*CitedByEntry)
	var citingOrder []string

	for _, r := range rows {
		citing[r.CitingID] = struct{}{}

		e, ok := byCitingID[r.CitingID]
		if !ok {
			e = &CitedByEntry{CitingID: r.CitingID}
			byCitingID[r.CitingID] = e
			citingOrder = append(citingOrder, r.CitingID)
		}
		e.Matches = append(e.Matches, Match{
			RawMatch:   r.RawMatch,
			Reference:  json.RawMessage(r.RefJSON),
			Provenance: r.Provenance,
		})
		if r.Provenance > e.Provenance {
			e.Provenance = r.Provenance
		}
	}

	citedBy := make([]CitedByEntry, 0, len(citingOrder))
	for _, id := range citingOrder {
		citedBy = append(citedBy, *byCitingID[id])
	}

	return Record{
		CitedID:        citedID,
		ReferenceCount: len(rows),
		CitationCount:  len(citing),
		CitedBy:        citedBy,
	}
}

// SortRecords orders records by descending citation_count, ties broken by
// ascending cited_id.
func SortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].CitationCount != records[j].CitationCount {
			return records[i].CitationCount > records[j].CitationCount
		}
		return records[i].CitedID < records[j].CitedID
	})
}
