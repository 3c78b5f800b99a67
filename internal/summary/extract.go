package summary

import (
	"regexp"
	"sort"
)

// Citation occurrences are recognized in two representations: an explicit
// inline label ("DOI: <id>" or "PMID: <id>") and a canonical outbound URL
// with the identifier as a path segment. Both are anchored on a strict
// prefix so identifiers are never matched inside unrelated numbers.
var (
	labelCitationRe = regexp.MustCompile(`(?i)\b(?:DOI|PMID)\s*:\s*(10\.\d{4,9}/[^\s"'<>,;)\]]+|\d{1,9})`)

	doiURLRe = regexp.MustCompile(`(?i)https?://(?:(?:www\.)?doi\.org/|www\.biorxiv\.org/content/)(10\.\d{4,9}/[^\s"'<>,;)\]]+)`)

	pmidURLRe = regexp.MustCompile(`(?i)https?://pubmed\.ncbi\.nlm\.nih\.gov/(\d{1,9})`)
)

// citationMatch is one identifier occurrence found in text, positioned by
// byte offset so occurrences from different patterns interleave correctly.
type citationMatch struct {
	pos int
	id  string
}

// Extract scans text (or HTML) for citation occurrences and returns the
// distinct normalized identifiers in first-occurrence order. Duplicates are
// collapsed by case-insensitive key; the first physical occurrence wins.
func Extract(text string) []string {
	var matches []citationMatch
	for _, re := range []*regexp.Regexp{labelCitationRe, doiURLRe, pmidURLRe} {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			// m[2]:m[3] is the identifier capture group.
			matches = append(matches, citationMatch{pos: m[0], id: text[m[2]:m[3]]})
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].pos < matches[j].pos })

	seen := make(map[string]bool, len(matches))
	var ids []string
	for _, m := range matches {
		id := Normalize(m.id)
		if id == "" {
			continue
		}
		k := Key(id)
		if seen[k] {
			continue
		}
		seen[k] = true
		ids = append(ids, id)
	}
	return ids
}
