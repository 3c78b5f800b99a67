package summary

import (
	"fmt"
	"strings"

	"github.com/helixir/literature-digest-service/internal/domain"
)

// coverageLeadIn opens the synthetic paragraph used when the model produced
// no citable prose at all.
const coverageLeadIn = "Additional studies from this search are also of note"

// EnforceCoverage guarantees that every input paper with a resolvable
// identifier is cited at least once in the returned paragraph sequence.
// Identifiers already mentioned are left alone; the rest are appended as one
// linked citation clause on the last paragraph (or as a synthetic first
// paragraph when the sequence was empty). Papers whose identifier cannot be
// normalized to a usable link are returned in unciteable and omitted from
// the clause; this is a documented best-effort limitation, not an error.
func EnforceCoverage(paragraphs []string, papers []*domain.PaperRecord) (out []string, unciteable []*domain.PaperRecord) {
	mentioned := make(map[string]bool)
	for _, id := range Extract(strings.Join(paragraphs, "\n")) {
		mentioned[Key(id)] = true
	}

	var clauses []string
	for _, p := range papers {
		id := Normalize(p.Identifier)
		if id == "" {
			unciteable = append(unciteable, p)
			continue
		}
		if mentioned[Key(id)] {
			continue
		}
		label := CitationLabel(id)
		link := CanonicalLink(id, p.Version)
		if label == "" || link == "" {
			unciteable = append(unciteable, p)
			continue
		}
		clauses = append(clauses, fmt.Sprintf(`<a href=%q>%s: %s</a>`, link, label, id))
	}

	if len(clauses) == 0 {
		return paragraphs, unciteable
	}

	clause := " (" + strings.Join(clauses, "; ") + ")."
	if len(paragraphs) == 0 {
		return []string{coverageLeadIn + clause}, unciteable
	}

	out = make([]string, len(paragraphs))
	copy(out, paragraphs)
	out[len(out)-1] = strings.TrimSpace(out[len(out)-1]) + clause
	return out, unciteable
}
