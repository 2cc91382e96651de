package partition

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cometadata/crossref-citation-extraction/internal/citeid"
	"github.com/cometadata/crossref-citation-extraction/internal/colbatch"
)

// ReadAll decodes every batch in the partition file at path and returns
// its rows in on-disk order.
func ReadAll(path string) ([]Row, error) {
	r, err := colbatch.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var rows []Row
	for {
		var b batch
		err := r.Next(&b)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("partition: read %s: %w", path, err)
		}
		for i := range b.CitingID {
			rows = append(rows, Row{
				CitingID:   b.CitingID[i],
				RefIndex:   b.RefIndex[i],
				RefJSON:    b.RefJSON[i],
				RawMatch:   b.RawMatch[i],
				CitedID:    b.CitedID[i],
				Provenance: citeid.Provenance(b.Provenance[i]),
			})
		}
	}
	return rows, nil
}

// ListFiles returns the sorted partition keys found as "<key>.parquet"
// files directly under dir.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("partition: list %s: %w", dir, err)
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".parquet") {
			keys = append(keys, strings.TrimSuffix(name, ".parquet"))
		}
	}
	return keys, nil
}

// PathForKey returns the conventional file path for a partition key
// under dir.
func PathForKey(dir, key string) string {
	return filepath.Join(dir, key+".parquet")
}
