package citeid

import (
	"regexp"
	"strings"
)

// doiPattern captures a DOI substring after an optional doi: prefix or
// doi.org URL, case-insensitively. Mirrors the pattern fixed by the
// identifier extraction contract.
var doiPattern = regexp.MustCompile(`(?i)(?:doi[:\s]*|(?:https?://)?(?:dx\.)?doi\.org/)?(10\.\d{4,}/[^\s\]\)>,;"']+)`)

var doiURLDecodeReplacer = strings.NewReplacer(
	"%2F", "/", "%2f", "/",
	"%3A", ":", "%3a", ":",
	"%28", "(", "%29", ")",
	"%3C", "<", "%3c", "<",
	"%3E", ">", "%3e", ">",
)

var doiTrailingEntities = []string{"&gt", "&lt", "&amp", "&quot"}

const doiTrailingChars = ".,;:)]>\"' "

// DOIMatch is one DOI found in a block of text.
type DOIMatch struct {
	DOI string // normalised, lowercase
	Raw string // original matched substring
}

// NormalizeDOI decodes a handful of URL-encoded octets, strips trailing
// punctuation and HTML entity tails, and lowercases the result. It is
// idempotent.
func NormalizeDOI(doi string) string {
	result := doiURLDecodeReplacer.Replace(doi)
	result = strings.TrimRight(result, doiTrailingChars)
	for _, entity := range doiTrailingEntities {
		result = strings.TrimSuffix(result, entity)
	}
	return strings.ToLower(result)
}

// ExtractDOIs finds every DOI substring in text, normalises it, and
// returns one DOIMatch per distinct normalised DOI, retaining the first
// raw occurrence.
func ExtractDOIs(text string) []DOIMatch {
	seen := make(map[string]bool)
	var matches []DOIMatch
	for _, m := range doiPattern.FindAllStringSubmatch(text, -1) {
		raw := m[1]
		normalized := NormalizeDOI(raw)
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		matches = append(matches, DOIMatch{DOI: normalized, Raw: raw})
	}
	return matches
}

// DOIPrefix returns the registrant prefix (the substring before the
// first '/', lowercased) or "" if doi does not look like a DOI.
func DOIPrefix(doi string) string {
	idx := strings.IndexByte(doi, '/')
	if idx == -1 {
		return ""
	}
	prefix := doi[:idx]
	if !strings.HasPrefix(prefix, "10.") {
		return ""
	}
	return strings.ToLower(prefix)
}
