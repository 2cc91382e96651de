// Package validate resolves InvertedRecords against local identifier
// indexes and, where configured, an HTTP fallback.
package validate

import (
	"github.com/cometadata/crossref-citation-extraction/internal/citeindex"
)

// Authority identifies which IdentifierIndex, if any, resolved a lookup.
type Authority int

const (
	// AuthorityNone means no index contained the identifier.
	AuthorityNone Authority = iota
	// AuthorityLocal is the citing-corpus-embedded index built online
	// during extraction.
	AuthorityLocal
	// AuthorityExternal is the external identifier index built ahead of
	// time from an authority records stream.
	AuthorityExternal
)

// Mode selects extraction target and local-lookup order per the
// source-mode table.
type Mode int

const (
	ModeAll Mode = iota
	ModeCrossref
	ModeDatacite
	ModeArxiv
)

// LookupOrder returns the authorities to consult, in order, for m.
func (m Mode) LookupOrder() []Authority {
	switch m {
	case ModeAll:
		return []Authority{AuthorityLocal, AuthorityExternal}
	case ModeCrossref:
		return []Authority{AuthorityLocal}
	case ModeDatacite, ModeArxiv:
		return []Authority{AuthorityExternal}
	default:
		return nil
	}
}

// ExtractsArxiv reports whether m targets arXiv identifiers rather than
// DOIs, per the source-mode table.
func (m Mode) ExtractsArxiv() bool {
	return m == ModeArxiv
}

// Indexes bundles the two possible authority indexes a lookup may
// consult. Either may be nil when its mode never needs it.
type Indexes struct {
	Local    *citeindex.Index
	External *citeindex.Index
}

func (idx Indexes) forAuthority(a Authority) *citeindex.Index {
	switch a {
	case AuthorityLocal:
		return idx.Local
	case AuthorityExternal:
		return idx.External
	default:
		return nil
	}
}

// LocalLookup consults idx in the order mode prescribes and returns the
// first authority whose index contains id, or AuthorityNone.
func LocalLookup(id string, idx Indexes, mode Mode) Authority {
	for _, a := range mode.LookupOrder() {
		index := idx.forAuthority(a)
		if index != nil && index.Contains(id) {
			return a
		}
	}
	return AuthorityNone
}
