// Package summary implements the citation-faithful summary assembly pipeline.
//
// Given a set of retrieved paper records and free-form model output, the
// pipeline guarantees that every paper is cited at least once in the final
// rendered fragment, that citations use a parseable format tied to a paper
// identifier, that a bibliography is appended deterministically from the
// citations that survive, and that non-compliant model output (code fences,
// forbidden tags, self-authored reference sections) is sanitized before it
// reaches a user.
//
// The pipeline is purely synchronous and stateless between calls: it performs
// no I/O and requires no locking.
package summary

import (
	"regexp"
	"strings"
)

// trailingPunct lists punctuation stripped from the end of a raw identifier:
// quotes, closing brackets, and sentence punctuation that commonly trails an
// inline citation.
const trailingPunct = "\"'`)]},.;"

// versionSuffixRe matches a trailing preprint version marker such as "v2".
var versionSuffixRe = regexp.MustCompile(`(?i)v\d+$`)

// Normalize canonicalizes a raw paper identifier (a DOI or a PMID string)
// into a stable comparison form. It trims whitespace, strips trailing
// quote/bracket/sentence punctuation, and strips a trailing version marker.
// Normalize is idempotent and never fails; empty or unusable input
// normalizes to the empty string.
func Normalize(raw string) string {
	s := raw
	for {
		t := strings.TrimSpace(s)
		t = strings.TrimRight(t, trailingPunct)
		t = versionSuffixRe.ReplaceAllString(t, "")
		if t == s {
			return s
		}
		s = t
	}
}

// Key returns the case-insensitive comparison key for an identifier.
// Two records referring to the same paper always produce the same key, even
// when one carries a trailing version marker and the other does not.
func Key(raw string) string {
	return strings.ToLower(Normalize(raw))
}
