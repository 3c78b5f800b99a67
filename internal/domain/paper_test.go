package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfIdentifier(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want IdentifierKind
	}{
		{"biorxiv doi", "10.1101/2021.04.14.439861", IdentifierKindDOI},
		{"journal doi", "10.1038/nature12373", IdentifierKindDOI},
		{"pmid", "34000001", IdentifierKindPMID},
		{"doi without slash", "10.1101", IdentifierKindUnknown},
		{"mixed", "abc123", IdentifierKindUnknown},
		{"empty", "", IdentifierKindUnknown},
		{"whitespace", "   ", IdentifierKindUnknown},
		{"padded pmid", "  12345  ", IdentifierKindPMID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOfIdentifier(tt.id))
		})
	}
}

func TestPaperRecordComplete(t *testing.T) {
	full := &PaperRecord{
		Identifier: "10.1101/2021.04.14.439861",
		Title:      "A title",
		Abstract:   "An abstract",
	}
	assert.True(t, full.Complete())

	noAbstract := &PaperRecord{Identifier: "12345", Title: "A title"}
	assert.False(t, noAbstract.Complete())

	blankIdentifier := &PaperRecord{Identifier: "  ", Title: "T", Abstract: "A"}
	assert.False(t, blankIdentifier.Complete())
}

func TestErrorUnwrapping(t *testing.T) {
	nf := NewNotFoundError("paper", "10.1101/x")
	assert.True(t, errors.Is(nf, ErrNotFound))
	assert.Contains(t, nf.Error(), "paper not found")

	cause := errors.New("boom")
	api := NewExternalAPIError("OpenAlex", 503, "unavailable", cause)
	assert.True(t, errors.Is(api, cause))
	assert.Contains(t, api.Error(), "status 503")
}
