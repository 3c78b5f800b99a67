package summary

import (
	"fmt"
	"html"
	"strings"

	"github.com/helixir/literature-digest-service/internal/domain"
)

// BiblioMeta carries optional decoration for the bibliography heading.
type BiblioMeta struct {
	// PapersFound is the total number of papers retrieved for the request.
	PapersFound int

	// PapersSummarized is the number of papers sent to the model.
	PapersSummarized int

	// HasCounts indicates that both counts above are meaningful.
	HasCounts bool

	// Interval is an optional human-readable interval label
	// (e.g. "last 30 days").
	Interval string
}

// LookupByIdentifier builds the identifier-to-record mapping used for
// bibliography rendering. Keys are case-insensitive normalized identifiers;
// the first record wins on collision, so an entry's metadata always reflects
// a single input record.
func LookupByIdentifier(papers []*domain.PaperRecord) map[string]*domain.PaperRecord {
	lookup := make(map[string]*domain.PaperRecord, len(papers))
	for _, p := range papers {
		k := Key(p.Identifier)
		if k == "" {
			continue
		}
		if _, ok := lookup[k]; !ok {
			lookup[k] = p
		}
	}
	return lookup
}

// BuildBibliography renders the reference list for the identifiers cited in
// the final text, in the exact order given (first-cited order, not retrieval
// order). It returns the empty string when nothing was cited: no bibliography
// section is emitted without citations. All record-supplied text is
// HTML-escaped; links are built from normalized identifiers only.
func BuildBibliography(orderedIDs []string, lookup map[string]*domain.PaperRecord, meta *BiblioMeta) string {
	if len(orderedIDs) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<h3 class="references-title">`)
	sb.WriteString(html.EscapeString(biblioHeading(meta)))
	sb.WriteString("</h3>")

	for _, raw := range orderedIDs {
		id := Normalize(raw)
		if id == "" {
			continue
		}
		sb.WriteString(referenceEntry(id, lookup[Key(id)]))
	}
	return sb.String()
}

// biblioHeading renders the heading text, decorated with counts and the
// interval label when supplied.
func biblioHeading(meta *BiblioMeta) string {
	if meta == nil {
		return "References"
	}
	switch {
	case meta.HasCounts && meta.Interval != "":
		return fmt.Sprintf("References (%d papers found; %d summarized; %s)",
			meta.PapersFound, meta.PapersSummarized, meta.Interval)
	case meta.HasCounts:
		return fmt.Sprintf("References (%d papers found; %d summarized)",
			meta.PapersFound, meta.PapersSummarized)
	case meta.Interval != "":
		return fmt.Sprintf("References (%s)", meta.Interval)
	}
	return "References"
}

// referenceEntry renders one bibliography entry. Optional metadata fields are
// omitted cleanly: no dangling punctuation or empty parentheses.
func referenceEntry(id string, rec *domain.PaperRecord) string {
	label := CitationLabel(id)

	var version string
	if rec != nil {
		version = rec.Version
	}

	var sb strings.Builder
	sb.WriteString(`<p class="reference-entry">`)

	citation := html.EscapeString(label + ": " + id)
	if link := CanonicalLink(id, version); link != "" {
		fmt.Fprintf(&sb, `<a href=%q>%s</a>`, link, citation)
	} else {
		sb.WriteString(citation)
	}

	title := label + " " + id
	if rec != nil && strings.TrimSpace(rec.Title) != "" {
		title = strings.TrimSpace(rec.Title)
	}
	sb.WriteString(": ")
	sb.WriteString(html.EscapeString(title))
	sb.WriteString(".")

	if rec != nil {
		writeSecondaryMeta(&sb, rec)
	}

	sb.WriteString("</p>")
	return sb.String()
}

// writeSecondaryMeta appends the optional secondary metadata segments:
// corresponding author with ranking stat, institution with date, and
// journal/category with rank.
func writeSecondaryMeta(sb *strings.Builder, rec *domain.PaperRecord) {
	if author := strings.TrimSpace(rec.CorrespondingAuthor); author != "" {
		sb.WriteString(" ")
		sb.WriteString(html.EscapeString(author))
		if rec.CitationStat != nil {
			fmt.Fprintf(sb, " (mean citedness %.2f)", *rec.CitationStat)
		}
		sb.WriteString(".")
	}

	inst := strings.TrimSpace(rec.Institution)
	date := strings.TrimSpace(rec.Date)
	switch {
	case inst != "" && date != "":
		sb.WriteString(" ")
		sb.WriteString(html.EscapeString(inst))
		sb.WriteString(", ")
		sb.WriteString(html.EscapeString(date))
		sb.WriteString(".")
	case inst != "":
		sb.WriteString(" ")
		sb.WriteString(html.EscapeString(inst))
		sb.WriteString(".")
	case date != "":
		sb.WriteString(" ")
		sb.WriteString(html.EscapeString(date))
		sb.WriteString(".")
	}

	if journal := strings.TrimSpace(rec.JournalOrCategory); journal != "" {
		sb.WriteString(" ")
		sb.WriteString(html.EscapeString(journal))
		if rec.JournalRank != nil {
			fmt.Fprintf(sb, " (SJR %d)", *rec.JournalRank)
		}
		sb.WriteString(".")
	}
}
