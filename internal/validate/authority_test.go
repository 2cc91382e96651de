package validate

import (
	"testing"

	"github.com/cometadata/crossref-citation-extraction/internal/citeindex"
)

func buildIndex(ids ...string) *citeindex.Index {
	idx := citeindex.New()
	for _, id := range ids {
		idx.Insert(id)
	}
	return idx
}

func TestLookupOrderAll(t *testing.T) {
	idx := Indexes{Local: buildIndex(), External: buildIndex("10.1/x")}
	if a := LocalLookup("10.1/x", idx, ModeAll); a != AuthorityExternal {
		t.Errorf("got %v, want external", a)
	}
}

func TestLookupOrderPrefersLocalOverExternal(t *testing.T) {
	idx := Indexes{Local: buildIndex("10.1/x"), External: buildIndex("10.1/x")}
	if a := LocalLookup("10.1/x", idx, ModeAll); a != AuthorityLocal {
		t.Errorf("got %v, want local (checked first in all mode)", a)
	}
}

func TestLookupOrderCrossrefIgnoresExternal(t *testing.T) {
	idx := Indexes{Local: buildIndex(), External: buildIndex("10.1/x")}
	if a := LocalLookup("10.1/x", idx, ModeCrossref); a != AuthorityNone {
		t.Errorf("crossref mode must not consult the external index, got %v", a)
	}
}

func TestLookupOrderDataciteAndArxivUseExternalOnly(t *testing.T) {
	idx := Indexes{Local: buildIndex("10.1/x"), External: buildIndex()}
	if a := LocalLookup("10.1/x", idx, ModeDatacite); a != AuthorityNone {
		t.Errorf("datacite mode must not consult the local index, got %v", a)
	}
	if a := LocalLookup("10.1/x", idx, ModeArxiv); a != AuthorityNone {
		t.Errorf("arxiv mode must not consult the local index, got %v", a)
	}
}

func TestLookupOrderUnmatched(t *testing.T) {
	idx := Indexes{Local: buildIndex(), External: buildIndex()}
	if a := LocalLookup("10.1/x", idx, ModeAll); a != AuthorityNone {
		t.Errorf("got %v, want none", a)
	}
}
