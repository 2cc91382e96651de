package citeid

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// The four recognised arXiv surface forms. Each must be gated by the
// literal "arxiv" appearing somewhere in the search text; a bare
// modern-shaped number is not, on its own, evidence of an arXiv
// identifier.
var (
	arxivModernPattern = regexp.MustCompile(`(?i)(arxiv[.:\s]+(\d{4}\.\d{4,6}(?:v\d+)?))`)
	arxivOldPattern     = regexp.MustCompile(`(?i)(arxiv[.:\s]+([a-z][a-z0-9.-]*/\s*\d{7}(?:v\d+)?))`)
	arxivDOIPattern     = regexp.MustCompile(`(?i)(10\.48550/arxiv\.(\d{4}\.\d{4,6}(?:v\d+)?))`)
	arxivURLPattern     = regexp.MustCompile(`(?i)(arxiv\.org/(?:abs|pdf)/(\d{4}\.\d{4,6}(?:v\d+)?|[a-z][a-z0-9.-]*/\d{7}(?:v\d+)?))`)
)

var arxivPatternOrder = []*regexp.Regexp{arxivModernPattern, arxivOldPattern, arxivDOIPattern, arxivURLPattern}

// ArxivMatch is one arXiv identifier found in a block of text.
type ArxivMatch struct {
	ID      string // normalised: lowercase, no whitespace, no version suffix
	Raw     string // original matched substring
	ArxivDOI string // 10.48550/arXiv.<ID>
}

func newArxivMatch(id, raw string) ArxivMatch {
	return ArxivMatch{ID: id, Raw: raw, ArxivDOI: "10.48550/arXiv." + id}
}

// NormalizeArxivID lowercases, strips all whitespace, and removes a
// trailing vK version suffix.
func NormalizeArxivID(id string) string {
	id = strings.ToLower(id)
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	id = b.String()

	if pos := strings.IndexByte(id, 'v'); pos != -1 && pos+1 < len(id) {
		rest := id[pos+1:]
		allDigits := true
		for _, r := range rest {
			if r < '0' || r > '9' {
				allDigits = false
				break
			}
		}
		if allDigits {
			return id[:pos]
		}
	}
	return id
}

// ExtractArxivIDs finds every arXiv identifier in text across all four
// supported surface forms, in a fixed pattern order (modern, legacy,
// canonical DOI, URL) with first-match-wins per normalised identifier.
func ExtractArxivIDs(text string) []ArxivMatch {
	seen := make(map[string]bool)
	var matches []ArxivMatch
	for _, pattern := range arxivPatternOrder {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			raw, id := m[1], m[2]
			normalized := NormalizeArxivID(id)
			if seen[normalized] {
				continue
			}
			seen[normalized] = true
			matches = append(matches, newArxivMatch(normalized, raw))
		}
	}
	return matches
}

// ArxivDOI formats the canonical DOI form of an already-normalised
// arXiv identifier.
func ArxivDOI(id string) string {
	return fmt.Sprintf("10.48550/arXiv.%s", id)
}
