// Package domain provides domain models and shared error types for the
// Literature Digest Service.
package domain

import "strings"

// SourceType represents the upstream API that provided a paper record.
type SourceType string

const (
	SourceTypePubMed   SourceType = "pubmed"
	SourceTypeBioRxiv  SourceType = "biorxiv"
	SourceTypeOpenAlex SourceType = "openalex"
)

// IdentifierKind classifies a paper identifier.
type IdentifierKind string

const (
	// IdentifierKindDOI is a Digital Object Identifier (e.g. 10.1101/2021.04.14.439861).
	IdentifierKindDOI IdentifierKind = "doi"

	// IdentifierKindPMID is a numeric PubMed identifier.
	IdentifierKindPMID IdentifierKind = "pmid"

	// IdentifierKindUnknown is anything that is neither a DOI nor a PMID.
	IdentifierKindUnknown IdentifierKind = "unknown"
)

// KindOfIdentifier classifies a raw identifier string. DOIs start with the
// "10." directory indicator; PMIDs are all digits.
func KindOfIdentifier(id string) IdentifierKind {
	id = strings.TrimSpace(id)
	if id == "" {
		return IdentifierKindUnknown
	}
	if strings.HasPrefix(id, "10.") && strings.Contains(id, "/") {
		return IdentifierKindDOI
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return IdentifierKindUnknown
		}
	}
	return IdentifierKindPMID
}

// PaperRecord is one retrieved publication as consumed by the digest pipeline.
// Records are created by the retrieval clients, read-only inside the core
// pipeline, and discarded once the digest for one request has been produced.
type PaperRecord struct {
	// Identifier is a DOI or PMID. It must normalize to a non-empty string
	// for the paper to be citeable.
	Identifier string

	// Title is the paper title. May be empty for incomplete records.
	Title string

	// Abstract is the paper abstract. Truncated to a character budget
	// before prompt submission.
	Abstract string

	// Authors is the full author list as a display string.
	Authors string

	// CorrespondingAuthor is the corresponding (usually last) author.
	CorrespondingAuthor string

	// Institution is the corresponding author's institution.
	Institution string

	// JournalOrCategory is the journal title (published work) or the
	// preprint server category (preprints).
	JournalOrCategory string

	// ISSN is the journal ISSN, used for journal rank lookups. Optional.
	ISSN string

	// Date is the publication date as a free-form string.
	Date string

	// Version is the preprint version marker (e.g. "2"), used only to build
	// a canonical outbound link. Optional.
	Version string

	// CitationStat is an optional ranking signal (e.g. mean citedness).
	// Nil when unknown.
	CitationStat *float64

	// JournalRank is the Scimago SJR rank for the journal, rounded to the
	// nearest integer. Nil when unknown.
	JournalRank *int

	// Source identifies the upstream API that produced this record.
	Source SourceType
}

// Complete reports whether the record carries the minimum fields required
// for summarization: a non-empty identifier, title and abstract.
func (p *PaperRecord) Complete() bool {
	return strings.TrimSpace(p.Identifier) != "" &&
		strings.TrimSpace(p.Title) != "" &&
		strings.TrimSpace(p.Abstract) != ""
}

// IdentifierKind classifies this record's identifier.
func (p *PaperRecord) IdentifierKind() IdentifierKind {
	return KindOfIdentifier(p.Identifier)
}
