package corpus

import (
	"fmt"

	"github.com/segmentio/encoding/json"
	"github.com/sirupsen/logrus"

	"github.com/cometadata/crossref-citation-extraction/internal/citeid"
	"github.com/cometadata/crossref-citation-extraction/internal/citeindex"
	"github.com/cometadata/crossref-citation-extraction/internal/partition"
)

// ExtractMode selects which identifier kind the driver recognises:
// DOI-extracting modes look for DOIs, Arxiv mode looks for arXiv
// identifiers only.
type ExtractMode int

const (
	ExtractDOI ExtractMode = iota
	ExtractArxiv
)

// batchDoc is the shape of one archive entry: {"items": [...]}.
type batchDoc struct {
	Items []json.RawMessage `json:"items"`
}

// citingWork is the subset of a citing-work record the driver needs.
type citingWork struct {
	DOI       string                   `json:"DOI"`
	Reference []map[string]interface{} `json:"reference"`
}

// Stats accumulates run-level counters for one extraction pass.
type Stats struct {
	FilesProcessed        int
	RecordsProcessed      int
	ReferencesProcessed   int
	ReferencesWithMatches int
	IdentifiersExtracted  int
	MalformedEntries      int
	MalformedRecords      int
}

// Driver drives the archive streamer, extracts and classifies
// identifiers from every reference of every citing work, writes
// surviving rows to the partition writer, and records every citing
// identifier encountered into the local-authority index.
type Driver struct {
	Writer     *partition.Writer
	LocalIndex *citeindex.Index
	Mode       ExtractMode
}

// ProcessArchive walks the archive at path and returns accumulated
// statistics. It never holds more than one record's worth of state in
// memory beyond the partition writer's own buffers.
func (d *Driver) ProcessArchive(path string) (Stats, error) {
	var stats Stats

	err := WalkArchive(path, func(name string, data []byte) error {
		var doc batchDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			stats.MalformedEntries++
			return fmt.Errorf("corpus: malformed JSON entry %s: %w", name, err)
		}
		stats.FilesProcessed++

		for _, raw := range doc.Items {
			if err := d.processItem(raw, &stats); err != nil {
				stats.MalformedRecords++
				logrus.WithFields(logrus.Fields{"entry": name, "error": err}).
					Debug("skipping malformed record")
			}
		}
		return nil
	})
	if err != nil {
		return stats, err
	}
	return stats, nil
}

func (d *Driver) processItem(raw json.RawMessage, stats *Stats) error {
	var work citingWork
	if err := json.Unmarshal(raw, &work); err != nil {
		return fmt.Errorf("unmarshal citing work: %w", err)
	}

	citingID := citeid.NormalizeDOI(work.DOI)
	if citingID == "" {
		return fmt.Errorf("citing work missing asserted identifier")
	}
	stats.RecordsProcessed++
	d.LocalIndex.Insert(citingID)

	for i, refMap := range work.Reference {
		stats.ReferencesProcessed++
		ref := citeid.Reference(refMap)

		var matches []citeid.Match
		switch d.Mode {
		case ExtractArxiv:
			matches = citeid.ExtractReferenceArxivIDs(ref)
		default:
			matches = citeid.ExtractReferenceDOIs(ref)
		}

		var surviving []citeid.Match
		for _, m := range matches {
			if m.CitedID == citingID {
				continue // self-citation, dropped per the driver contract
			}
			surviving = append(surviving, m)
		}
		if len(surviving) == 0 {
			continue
		}
		stats.ReferencesWithMatches++
		stats.IdentifiersExtracted += len(surviving)

		refJSON, err := json.Marshal(refMap)
		if err != nil {
			return fmt.Errorf("marshal reference %d: %w", i, err)
		}

		if _, err := d.Writer.WriteExtractedRef(citingID, uint32(i), string(refJSON), surviving); err != nil {
			return fmt.Errorf("write reference %d: %w", i, err)
		}
	}
	return nil
}
