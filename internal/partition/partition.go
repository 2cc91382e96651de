// Package partition shards extracted rows by cited-identifier prefix
// onto disk as columnar batches, and derives the partition key that
// name the shards.
package partition

import "strings"

// Key derives the partition key for a canonical cited identifier. DOIs
// key on their registrant prefix; arXiv identifiers key on their first
// four lowercase characters, with '/' mapped to '_'.
func Key(id string) string {
	if strings.HasPrefix(id, "10.") {
		if slash := strings.IndexByte(id, '/'); slash != -1 {
			return strings.ToLower(id[:slash])
		}
	}
	lower := strings.ToLower(id)
	runes := []rune(lower)
	if len(runes) > 4 {
		runes = runes[:4]
	}
	for i, r := range runes {
		if r == '/' {
			runes[i] = '_'
		}
	}
	return string(runes)
}
