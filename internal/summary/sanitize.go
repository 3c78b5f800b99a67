package summary

import (
	"regexp"
	"strings"
)

var (
	// fenceOpenRe matches a leading code fence with an optional language tag.
	fenceOpenRe = regexp.MustCompile("^```[a-zA-Z]*[ \t]*\r?\n?")

	// fenceCloseRe matches a trailing code fence.
	fenceCloseRe = regexp.MustCompile("\r?\n?[ \t]*```$")

	// disallowedTagRe matches list and heading markup the model was told not
	// to emit. Only the wrapping tags are dropped; their content survives.
	disallowedTagRe = regexp.MustCompile(`(?i)</?(?:ul|ol|li|h[1-6])[^>]*>`)

	// referencesParagraphRe matches an HTML heading paragraph whose text is
	// exactly "References" (optionally bolded).
	referencesParagraphRe = regexp.MustCompile(`(?is)<p[^>]*>\s*(?:<(?:strong|b)>\s*)?References\s*(?:</(?:strong|b)>\s*)?</p>`)

	// referencesLineRe matches a bare line whose entire content is "References".
	referencesLineRe = regexp.MustCompile(`(?im)^[ \t]*References[ \t]*$`)
)

// Sanitize strips disallowed constructs from raw model output. The steps run
// in a fixed order and each is independently idempotent:
//
//  1. strip a wrapping fenced code block,
//  2. normalize line endings to "\n",
//  3. replace list and heading tags with a single space,
//  4. truncate at the first self-authored references section.
//
// Sanitize never fails. An empty result is a terminal condition the caller
// must surface, not a success.
func Sanitize(raw string) string {
	s := stripWrappingFence(raw)

	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	s = disallowedTagRe.ReplaceAllString(s, " ")

	// The pipeline owns bibliography generation exclusively: a model-authored
	// references section is discarded wholesale, never trusted or merged.
	cut := len(s)
	if loc := referencesParagraphRe.FindStringIndex(s); loc != nil && loc[0] < cut {
		cut = loc[0]
	}
	if loc := referencesLineRe.FindStringIndex(s); loc != nil && loc[0] < cut {
		cut = loc[0]
	}
	s = s[:cut]

	return strings.TrimSpace(s)
}

// stripWrappingFence removes a code fence that wraps the entire text.
// Fences appearing mid-text are left for the paragraph splitter's fallback.
func stripWrappingFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") || !strings.HasSuffix(t, "```") || len(t) < 7 {
		return s
	}
	t = fenceOpenRe.ReplaceAllString(t, "")
	t = fenceCloseRe.ReplaceAllString(t, "")
	return t
}
