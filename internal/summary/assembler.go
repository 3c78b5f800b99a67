package summary

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/helixir/literature-digest-service/internal/domain"
)

// ErrEmptyOutput indicates that sanitizing and splitting the model output
// produced zero paragraphs. The caller must surface a user-visible failure,
// never silently show nothing.
var ErrEmptyOutput = errors.New("empty model output")

// EmptyOutputError provides details about an empty-output failure.
type EmptyOutputError struct {
	RawLength int
}

// Error implements the error interface.
func (e *EmptyOutputError) Error() string {
	return fmt.Sprintf("empty model output: no paragraphs after sanitizing %d bytes", e.RawLength)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *EmptyOutputError) Unwrap() error {
	return ErrEmptyOutput
}

// Assembler owns the summary assembly sequence: sanitize, split, enforce
// coverage, render summary HTML, append bibliography. It is the single
// entry point the rest of the service calls.
type Assembler struct {
	logger zerolog.Logger
}

// NewAssembler creates an Assembler that reports unciteable papers through
// the given logger.
func NewAssembler(logger zerolog.Logger) *Assembler {
	return &Assembler{
		logger: logger.With().Str("component", "summary-assembler").Logger(),
	}
}

// Assemble turns raw model output and the paper records that seeded the
// request into one trusted HTML fragment: zero or more summary paragraphs
// followed by the bibliography. Record-supplied text in the bibliography is
// escaped; the summary paragraphs are the sanitized model HTML.
//
// Returns an error wrapping ErrEmptyOutput when sanitize-then-split yields
// no paragraphs.
func (a *Assembler) Assemble(rawModelOutput string, papers []*domain.PaperRecord, meta *BiblioMeta) (string, error) {
	sanitized := Sanitize(rawModelOutput)

	paragraphs := SplitParagraphs(sanitized)
	if len(paragraphs) == 0 {
		return "", &EmptyOutputError{RawLength: len(rawModelOutput)}
	}

	paragraphs, unciteable := EnforceCoverage(paragraphs, papers)
	for _, p := range unciteable {
		a.logger.Warn().
			Str("identifier", p.Identifier).
			Str("title", p.Title).
			Msg("paper identifier not resolvable; omitted from coverage clause")
	}

	var sb strings.Builder
	for _, p := range paragraphs {
		sb.WriteString(`<p class="summary">`)
		sb.WriteString(p)
		sb.WriteString("</p>")
	}

	ordered := Extract(strings.Join(paragraphs, "\n"))
	sb.WriteString(BuildBibliography(ordered, LookupByIdentifier(papers), meta))

	return sb.String(), nil
}
