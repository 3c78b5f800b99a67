package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStripsWrappingFence(t *testing.T) {
	raw := "```html\n<p class=\"summary\">Text.</p>\n```"
	assert.Equal(t, `<p class="summary">Text.</p>`, Sanitize(raw))

	// A fence mid-text is not a wrapping fence.
	mid := "before ``` after"
	assert.Equal(t, mid, Sanitize(mid))
}

func TestSanitizeNormalizesLineEndings(t *testing.T) {
	assert.Equal(t, "a\nb\nc", Sanitize("a\r\nb\rc"))
}

func TestSanitizeDropsListAndHeadingTags(t *testing.T) {
	raw := `<h2>Highlights</h2><ul><li>Finding one.</li><li>Finding two.</li></ul>`
	got := Sanitize(raw)

	assert.NotContains(t, got, "<ul>")
	assert.NotContains(t, got, "<li>")
	assert.NotContains(t, got, "<h2>")
	// Content between the tags is preserved.
	assert.Contains(t, got, "Finding one.")
	assert.Contains(t, got, "Finding two.")
}

func TestSanitizeTruncatesSelfAuthoredReferences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			"heading paragraph",
			`<p class="summary">Text.</p><p>References</p><p class="reference-entry">junk</p>`,
		},
		{
			"bolded heading paragraph",
			`<p class="summary">Text.</p><p><strong>References</strong></p><p>junk</p>`,
		},
		{
			"bare line",
			"<p class=\"summary\">Text.</p>\nReferences\n1. junk entry",
		},
		{
			"case insensitive",
			`<p class="summary">Text.</p><p>REFERENCES</p><p>junk</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.raw)
			assert.Contains(t, got, "Text.")
			assert.NotContains(t, got, "junk")
			assert.Equal(t, []string{"Text."}, SplitParagraphs(got))
		})
	}
}

func TestSanitizeKeepsInlineReferencesMention(t *testing.T) {
	raw := `<p class="summary">See the references cited inline.</p>`
	assert.Equal(t, raw, Sanitize(raw))
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"```\n<p>Text.</p>\n```",
		"<h1>Title</h1><p>Body</p>\r\nReferences\r\njunk",
		"<ul><li>a</li></ul>",
		"",
		"   ",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "sanitize(sanitize(%q))", in)
	}
}

func TestSanitizeEmptyResult(t *testing.T) {
	assert.Empty(t, Sanitize(""))
	assert.Empty(t, Sanitize("References\neverything was a bibliography"))
}
