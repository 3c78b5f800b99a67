package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain doi", "10.1101/2021.04.14.439861", "10.1101/2021.04.14.439861"},
		{"versioned doi", "10.1101/2022.01.01.000001v2", "10.1101/2022.01.01.000001"},
		{"uppercase version", "10.1101/2022.01.01.000001V3", "10.1101/2022.01.01.000001"},
		{"trailing period", "10.1038/nature12373.", "10.1038/nature12373"},
		{"trailing comma", "10.1038/nature12373,", "10.1038/nature12373"},
		{"trailing semicolon", "10.1038/nature12373;", "10.1038/nature12373"},
		{"trailing paren", "10.1038/nature12373)", "10.1038/nature12373"},
		{"trailing quote", `10.1038/nature12373"`, "10.1038/nature12373"},
		{"trailing bracket", "10.1038/nature12373]", "10.1038/nature12373"},
		{"punctuation after version", "10.1101/2022.01.01.000001v2).", "10.1101/2022.01.01.000001"},
		{"version after punctuation", "10.1101/2022.01.01.000001.v2", "10.1101/2022.01.01.000001"},
		{"whitespace", "  12345  ", "12345"},
		{"pmid untouched", "34000001", "34000001"},
		{"empty", "", ""},
		{"only punctuation", `")].`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			assert.Equal(t, tt.want, got)
			// Normalization is idempotent for every input.
			assert.Equal(t, got, Normalize(got))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	// Inputs chosen to force multiple trim/strip rounds.
	inputs := []string{
		"10.1101/2021.04.14.439861v1.",
		"(10.1101/2021.04.14.439861v1).",
		" 10.1101/2021.04.14.439861.v2 ",
		"pmid-ish 12345v6",
		"\"10.1038/nature12373\")",
		"v2",
		"   ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize(normalize(%q))", in)
	}
}

func TestKeyCaseInsensitive(t *testing.T) {
	assert.Equal(t, Key("10.1101/ABC.Def"), Key("10.1101/abc.def"))
	assert.Equal(t, Key("10.1101/abc.defV2"), Key("10.1101/abc.def"))
	assert.Empty(t, Key("  "))
}
