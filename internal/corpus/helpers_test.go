package corpus

import (
	"os"
	"testing"

	"github.com/cometadata/crossref-citation-extraction/internal/partition"
)

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func readAllPartitions(t *testing.T, dir string) []partition.Row {
	t.Helper()
	keys, err := partition.ListFiles(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatal(err)
	}
	var rows []partition.Row
	for _, key := range keys {
		r, err := partition.ReadAll(partition.PathForKey(dir, key))
		if err != nil {
			t.Fatal(err)
		}
		rows = append(rows, r...)
	}
	return rows
}

func partitionKeyOf(id string) string {
	return partition.Key(id)
}
