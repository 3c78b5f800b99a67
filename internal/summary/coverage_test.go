package summary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/literature-digest-service/internal/domain"
)

func paper(id string) *domain.PaperRecord {
	return &domain.PaperRecord{Identifier: id, Title: "T " + id, Abstract: "A"}
}

func TestEnforceCoverageAlreadyCovered(t *testing.T) {
	papers := []*domain.PaperRecord{paper("10.1101/aaa.111"), paper("34000001")}
	paragraphs := []string{
		"First (DOI: 10.1101/aaa.111).",
		"Second (PMID: 34000001).",
	}

	out, unciteable := EnforceCoverage(paragraphs, papers)
	assert.Equal(t, paragraphs, out)
	assert.Empty(t, unciteable)
}

func TestEnforceCoverageAppendsMissing(t *testing.T) {
	papers := []*domain.PaperRecord{paper("10.1101/aaa.111"), paper("10.1101/bbb.222"), paper("34000001")}
	paragraphs := []string{"Only the first is cited (DOI: 10.1101/aaa.111)."}

	out, unciteable := EnforceCoverage(paragraphs, papers)
	require.Len(t, out, 1)
	assert.Empty(t, unciteable)

	last := out[len(out)-1]
	assert.Contains(t, last, `<a href="https://doi.org/10.1101/bbb.222">DOI: 10.1101/bbb.222</a>`)
	assert.Contains(t, last, `<a href="https://pubmed.ncbi.nlm.nih.gov/34000001/">PMID: 34000001</a>`)
	assert.Contains(t, last, "; ")
	assert.True(t, strings.HasSuffix(last, ")."))
}

func TestEnforceCoverageEmptyParagraphs(t *testing.T) {
	papers := []*domain.PaperRecord{paper("10.1101/aaa.111")}

	out, unciteable := EnforceCoverage(nil, papers)
	require.Len(t, out, 1)
	assert.Empty(t, unciteable)
	assert.Contains(t, out[0], "DOI: 10.1101/aaa.111")
}

func TestEnforceCoverageVersionedIdentifierNotDoubleCited(t *testing.T) {
	// The text cites the unversioned form; the record carries a version
	// suffix. Normalized comparison must treat them as the same paper.
	papers := []*domain.PaperRecord{paper("10.1101/2022.01.01.000001v2")}
	paragraphs := []string{"Cited here (DOI: 10.1101/2022.01.01.000001)."}

	out, unciteable := EnforceCoverage(paragraphs, papers)
	assert.Equal(t, paragraphs, out)
	assert.Empty(t, unciteable)
}

func TestEnforceCoverageVersionedLinkUsesContentPage(t *testing.T) {
	rec := paper("10.1101/2022.01.01.000001")
	rec.Version = "2"

	out, _ := EnforceCoverage(nil, []*domain.PaperRecord{rec})
	require.Len(t, out, 1)
	assert.Contains(t, out[0], `https://www.biorxiv.org/content/10.1101/2022.01.01.000001v2`)
	// The visible citation never carries the version marker.
	assert.Contains(t, out[0], "DOI: 10.1101/2022.01.01.000001<")
}

func TestEnforceCoverageSkipsUnciteable(t *testing.T) {
	bad := paper(")].")
	weird := paper("not-an-identifier")
	good := paper("10.1101/aaa.111")

	out, unciteable := EnforceCoverage(nil, []*domain.PaperRecord{bad, weird, good})
	require.Len(t, out, 1)
	assert.Equal(t, []*domain.PaperRecord{bad, weird}, unciteable)
	assert.Contains(t, out[0], "10.1101/aaa.111")
	assert.NotContains(t, out[0], "not-an-identifier")
}

// Coverage guarantee: every paper with a normalizable identifier appears in
// the joined text, for paper sets crossed with paragraph shapes.
func TestEnforceCoverageGuarantee(t *testing.T) {
	paperSets := [][]*domain.PaperRecord{
		{paper("10.1101/aaa.111")},
		{paper("10.1101/aaa.111"), paper("34000001")},
		{paper("10.1101/aaa.111"), paper("10.1101/bbb.222"), paper("10.1101/ccc.333")},
	}
	paragraphSets := [][]string{
		nil,
		{"No citations at all."},
		{"One citation (DOI: 10.1101/aaa.111)."},
		{"Para one.", "Para two (PMID: 34000001)."},
	}

	for _, papers := range paperSets {
		for _, paragraphs := range paragraphSets {
			out, unciteable := EnforceCoverage(paragraphs, papers)
			assert.Empty(t, unciteable)

			joined := strings.ToLower(strings.Join(out, "\n"))
			for _, p := range papers {
				assert.Contains(t, joined, Key(p.Identifier))
			}
		}
	}
}
