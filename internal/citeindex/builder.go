package citeindex

import (
	"bufio"
	"fmt"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/segmentio/encoding/json"
	"github.com/sirupsen/logrus"
)

// progressInterval mirrors the reference index builder's log cadence.
const progressInterval = 500_000

type idRecord struct {
	ID string `json:"id"`
}

// BuildFromGzipJSONL builds an Index from a gzipped JSON-lines stream
// at path, one record per line, each exposing an idField key (default
// "id" when idField is ""). Malformed lines are counted and skipped,
// never fatal.
func BuildFromGzipJSONL(path string, idField string) (idx *Index, failedLines int, err error) {
	if idField == "" {
		idField = "id"
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("citeindex: open %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, 0, fmt.Errorf("citeindex: gzip reader for %s: %w", path, err)
	}
	defer gz.Close()

	idx = New()
	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<24)

	var lineNum int
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var id string
		if idField == "id" {
			var rec idRecord
			if err := json.Unmarshal(line, &rec); err != nil || rec.ID == "" {
				failedLines++
				continue
			}
			id = rec.ID
		} else {
			var rec map[string]interface{}
			if err := json.Unmarshal(line, &rec); err != nil {
				failedLines++
				continue
			}
			s, ok := rec[idField].(string)
			if !ok || s == "" {
				failedLines++
				continue
			}
			id = s
		}

		idx.Insert(id)

		if lineNum%progressInterval == 0 {
			logrus.WithFields(logrus.Fields{
				"lines_processed": lineNum,
				"identifiers":     idx.Len(),
			}).Info("building identifier index")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, failedLines, fmt.Errorf("citeindex: scan %s: %w", path, err)
	}
	return idx, failedLines, nil
}
