package summary

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/literature-digest-service/internal/domain"
)

func testAssembler() *Assembler {
	return NewAssembler(zerolog.Nop())
}

func TestAssembleEndToEnd(t *testing.T) {
	papers := []*domain.PaperRecord{
		{Identifier: "10.1101/2021.04.14.439861", Title: "T1", Abstract: "A1"},
		{Identifier: "10.1101/2022.01.01.000001v2", Title: "T2", Abstract: "A2"},
	}
	raw := `<p class="summary">Finding A (DOI: 10.1101/2021.04.14.439861).</p>`

	got, err := testAssembler().Assemble(raw, papers, nil)
	require.NoError(t, err)

	// Both papers end up cited in the summary body, the second via the
	// coverage clause, and the bibliography lists both in citation order.
	assert.Contains(t, got, `<p class="summary">Finding A (DOI: 10.1101/2021.04.14.439861).`)
	assert.Contains(t, got, "DOI: 10.1101/2022.01.01.000001<")
	assert.Contains(t, got, `<h3 class="references-title">References</h3>`)
	assert.Contains(t, got, "T1")
	assert.Contains(t, got, "T2")

	body := got[:strings.Index(got, "references-title")]
	assert.Less(t,
		strings.Index(body, "439861"),
		strings.Index(body, "000001"))

	// The versioned record is never shown with its version marker.
	assert.NotContains(t, got, "000001v2<")
}

func TestAssembleWrapsParagraphs(t *testing.T) {
	papers := []*domain.PaperRecord{{Identifier: "10.1101/aaa.111", Title: "T"}}
	raw := "First (DOI: 10.1101/aaa.111).\n\nSecond."

	got, err := testAssembler().Assemble(raw, papers, nil)
	require.NoError(t, err)

	assert.Contains(t, got, `<p class="summary">First (DOI: 10.1101/aaa.111).</p>`)
	assert.Contains(t, got, `<p class="summary">Second.</p>`)
}

func TestAssembleStripsModelAuthoredReferences(t *testing.T) {
	papers := []*domain.PaperRecord{{Identifier: "10.1101/aaa.111", Title: "Real Title"}}
	raw := `<p class="summary">Text (DOI: 10.1101/aaa.111).</p><p>References</p><p>1. Hallucinated entry</p>`

	got, err := testAssembler().Assemble(raw, papers, nil)
	require.NoError(t, err)

	assert.NotContains(t, got, "Hallucinated")
	assert.Contains(t, got, "Real Title")
	// Exactly one references heading, the generated one.
	assert.Equal(t, 1, strings.Count(got, "References"))
}

func TestAssembleBiblioMetaHeading(t *testing.T) {
	papers := []*domain.PaperRecord{{Identifier: "10.1101/aaa.111", Title: "T"}}
	meta := &BiblioMeta{PapersFound: 8, PapersSummarized: 1, HasCounts: true, Interval: "last 7 days"}

	got, err := testAssembler().Assemble(`<p class="summary">X (DOI: 10.1101/aaa.111).</p>`, papers, meta)
	require.NoError(t, err)
	assert.Contains(t, got, "References (8 papers found; 1 summarized; last 7 days)")
}

func TestAssembleEmptyOutput(t *testing.T) {
	papers := []*domain.PaperRecord{{Identifier: "10.1101/aaa.111", Title: "T"}}

	for _, raw := range []string{"", "   \n\n  ", "References\nonly a bibliography"} {
		got, err := testAssembler().Assemble(raw, papers, nil)
		assert.Empty(t, got)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEmptyOutput))

		var detail *EmptyOutputError
		require.ErrorAs(t, err, &detail)
		assert.Equal(t, len(raw), detail.RawLength)
	}
}

func TestAssembleNoPapers(t *testing.T) {
	got, err := testAssembler().Assemble("A summary with no citations.", nil, nil)
	require.NoError(t, err)

	// No citations means no bibliography at all.
	assert.Equal(t, `<p class="summary">A summary with no citations.</p>`, got)
}
