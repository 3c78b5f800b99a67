package summary

import "github.com/helixir/literature-digest-service/internal/domain"

// Canonical outbound URL prefixes. Links are always constructed from
// normalized identifiers, never from escaped raw input.
const (
	doiURLPrefix     = "https://doi.org/"
	biorxivURLPrefix = "https://www.biorxiv.org/content/"
	pubmedURLPrefix  = "https://pubmed.ncbi.nlm.nih.gov/"
)

// CitationLabel returns the inline citation label for a normalized
// identifier: "DOI" for DOIs, "PMID" for PubMed IDs, and the empty string
// for anything else.
func CitationLabel(id string) string {
	switch domain.KindOfIdentifier(id) {
	case domain.IdentifierKindDOI:
		return "DOI"
	case domain.IdentifierKindPMID:
		return "PMID"
	}
	return ""
}

// CanonicalLink builds the canonical outbound URL for a normalized
// identifier. Preprint DOIs with a known version link to the versioned
// bioRxiv content page; other DOIs resolve through doi.org; PMIDs link to
// PubMed. Returns the empty string when the identifier is not resolvable.
func CanonicalLink(id, version string) string {
	switch domain.KindOfIdentifier(id) {
	case domain.IdentifierKindDOI:
		if version != "" {
			return biorxivURLPrefix + id + "v" + version
		}
		return doiURLPrefix + id
	case domain.IdentifierKindPMID:
		return pubmedURLPrefix + id + "/"
	}
	return ""
}
