package convert

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/araddon/dateparse"
	"github.com/jinzhu/now"
	"github.com/klauspost/pgzip"
	"github.com/segmentio/encoding/json"
	"github.com/sirupsen/logrus"
)

// CitingBatchStats mirrors the reference implementation's conversion
// counters (json_files_processed, total_records, total_references,
// references_with_hint), plus the indexed-date range covered by the
// records kept.
type CitingBatchStats struct {
	JSONFilesProcessed int
	TotalRecords       int
	TotalReferences    int
	ReferencesWithHint int
	EarliestIndexed    time.Time
	LatestIndexed      time.Time
}

type citingBatchDoc struct {
	Items []json.RawMessage `json:"items"`
}

type indexedDate struct {
	DateTime string `json:"date-time"`
}

type citingWorkRecord struct {
	DOI       string                   `json:"DOI"`
	Reference []map[string]interface{} `json:"reference"`
	Indexed   *indexedDate             `json:"indexed,omitempty"`
}

// trackIndexedDate parses a Crossref "indexed.date-time" timestamp with
// dateparse (tolerant of the handful of RFC3339 variants Crossref has
// emitted over the years), normalises it to its day boundary the way
// WriteDaySlice buckets harvested data by day, and widens the stats'
// running [earliest, latest] indexed-date range.
func trackIndexedDate(rec citingWorkRecord, stats *CitingBatchStats) {
	if rec.Indexed == nil || rec.Indexed.DateTime == "" {
		return
	}
	t, err := dateparse.ParseAny(rec.Indexed.DateTime)
	if err != nil {
		return
	}
	day := now.With(t).BeginningOfDay()
	if stats.EarliestIndexed.IsZero() || day.Before(stats.EarliestIndexed) {
		stats.EarliestIndexed = day
	}
	if stats.LatestIndexed.IsZero() || day.After(stats.LatestIndexed) {
		stats.LatestIndexed = day
	}
}

// ConvertCitingCorpus reads a raw Crossref snapshot tar.gz at inputPath
// and writes a cleaned copy to outputPath with the same container shape
// (a gzipped tar of `{"items": [...]}` entries), dropping records whose
// asserted DOI doesn't survive cleanDOI and normalising the DOI field it
// keeps. It runs ahead of extraction for source modes that take a raw
// snapshot rather than an already-prepared archive.
func ConvertCitingCorpus(inputPath, outputPath string) (CitingBatchStats, error) {
	var stats CitingBatchStats

	in, err := os.Open(inputPath)
	if err != nil {
		return stats, fmt.Errorf("convert: open %s: %w", inputPath, err)
	}
	defer in.Close()

	gzIn, err := pgzip.NewReader(in)
	if err != nil {
		return stats, fmt.Errorf("convert: gzip reader for %s: %w", inputPath, err)
	}
	defer gzIn.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return stats, fmt.Errorf("convert: create %s: %w", outputPath, err)
	}
	defer out.Close()

	gzOut := pgzip.NewWriter(out)
	defer gzOut.Close()

	tw := tar.NewWriter(gzOut)
	defer tw.Close()

	tr := tar.NewReader(gzIn)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("convert: tar framing error in %s: %w", inputPath, err)
		}
		if hdr.Typeflag != tar.TypeReg || hdr.Size == 0 {
			continue
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return stats, fmt.Errorf("convert: reading entry %s: %w", hdr.Name, err)
		}

		cleaned, err := cleanBatchDoc(data, &stats)
		if err != nil {
			logrus.WithFields(logrus.Fields{"entry": hdr.Name, "error": err}).
				Warn("skipping malformed batch entry")
			continue
		}
		stats.JSONFilesProcessed++

		newHdr := &tar.Header{Name: hdr.Name, Mode: hdr.Mode, Size: int64(len(cleaned))}
		if err := tw.WriteHeader(newHdr); err != nil {
			return stats, fmt.Errorf("convert: writing header for %s: %w", hdr.Name, err)
		}
		if _, err := tw.Write(cleaned); err != nil {
			return stats, fmt.Errorf("convert: writing entry %s: %w", hdr.Name, err)
		}
	}

	return stats, nil
}

func cleanBatchDoc(data []byte, stats *CitingBatchStats) ([]byte, error) {
	var doc citingBatchDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal batch: %w", err)
	}

	cleaned := make([]json.RawMessage, 0, len(doc.Items))
	for _, raw := range doc.Items {
		var rec citingWorkRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		doi := cleanDOI(rec.DOI)
		if doi == "" {
			continue
		}
		stats.TotalRecords++
		stats.TotalReferences += len(rec.Reference)
		for _, ref := range rec.Reference {
			if hasAssertionHint(ref) {
				stats.ReferencesWithHint++
			}
		}
		trackIndexedDate(rec, stats)

		item, err := json.Marshal(citingWorkRecord{DOI: doi, Reference: rec.Reference, Indexed: rec.Indexed})
		if err != nil {
			continue
		}
		cleaned = append(cleaned, item)
	}

	return json.Marshal(citingBatchDoc{Items: cleaned})
}

func hasAssertionHint(ref map[string]interface{}) bool {
	for _, key := range []string{"DOI", "doi", "doi-asserted-by"} {
		if v, ok := ref[key].(string); ok && v != "" {
			return true
		}
	}
	return false
}
