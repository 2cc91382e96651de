// Package citeindex implements the identifier authority index: a set
// of canonical identifiers plus the set of their registrant prefixes,
// with a persistent columnar representation.
package citeindex

import (
	"strings"

	"github.com/cometadata/crossref-citation-extraction/internal/citeid"
)

// Index supports exact and prefix membership tests against a set of
// canonical identifiers built during an append-only phase. Capacity
// hints follow the expected cardinality of 10^7 identifiers and 10^5
// prefixes.
type Index struct {
	ids      map[string]struct{}
	prefixes map[string]struct{}
}

// New returns an empty Index sized for the expected authority-set
// cardinality.
func New() *Index {
	return &Index{
		ids:      make(map[string]struct{}, 10_000_000),
		prefixes: make(map[string]struct{}, 100_000),
	}
}

// Insert adds id (lowercased) to the index and derives its prefix, if
// it has one.
func (idx *Index) Insert(id string) {
	lower := strings.ToLower(id)
	idx.ids[lower] = struct{}{}
	if prefix := citeid.DOIPrefix(lower); prefix != "" {
		idx.prefixes[prefix] = struct{}{}
	}
}

// Contains reports exact (lowercase-normalised) membership.
func (idx *Index) Contains(id string) bool {
	_, ok := idx.ids[strings.ToLower(id)]
	return ok
}

// HasPrefix reports whether prefix (lowercase-normalised) is a known
// registrant prefix.
func (idx *Index) HasPrefix(prefix string) bool {
	_, ok := idx.prefixes[strings.ToLower(prefix)]
	return ok
}

// Len returns the number of distinct identifiers.
func (idx *Index) Len() int {
	return len(idx.ids)
}

// PrefixCount returns the number of distinct prefixes.
func (idx *Index) PrefixCount() int {
	return len(idx.prefixes)
}

// Merge folds other's identifiers and prefixes into idx.
func (idx *Index) Merge(other *Index) {
	for id := range other.ids {
		idx.ids[id] = struct{}{}
	}
	for p := range other.prefixes {
		idx.prefixes[p] = struct{}{}
	}
}

// Identifiers returns a snapshot slice of every canonical identifier in
// the index, in unspecified order.
func (idx *Index) Identifiers() []string {
	out := make([]string, 0, len(idx.ids))
	for id := range idx.ids {
		out = append(out, id)
	}
	return out
}
