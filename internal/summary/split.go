package summary

import (
	"regexp"
	"strings"
)

var (
	// summaryParagraphRe extracts the inner content of paragraphs explicitly
	// marked with the summary class.
	summaryParagraphRe = regexp.MustCompile(`(?is)<p\b[^>]*class\s*=\s*["']?[^"'>]*\bsummary\b[^"'>]*["']?[^>]*>(.*?)</p>`)

	// anyParagraphRe extracts the inner content of any paragraph tag.
	anyParagraphRe = regexp.MustCompile(`(?is)<p\b[^>]*>(.*?)</p>`)

	// markdownNoiseRe matches Markdown emphasis and heading punctuation the
	// model sometimes emits instead of HTML.
	markdownNoiseRe = regexp.MustCompile("[*#`]+")

	// bulletPrefixRe matches list or quote markers at the start of a line.
	bulletPrefixRe = regexp.MustCompile(`(?m)^[ \t]*(?:[-+>]|\d+\.)[ \t]+`)

	// blankLineRe matches a paragraph boundary: two or more newlines.
	blankLineRe = regexp.MustCompile(`\n{2,}`)
)

// SplitParagraphs converts sanitized model output into an ordered sequence of
// non-empty paragraph strings. Layers are tried in order and the first layer
// that yields at least one paragraph wins:
//
//  1. paragraphs explicitly marked with the summary class,
//  2. any paragraph tags,
//  3. plain text split on blank-line boundaries after Markdown cleanup,
//  4. the whole trimmed text as a single paragraph.
func SplitParagraphs(sanitized string) []string {
	if ps := extractParagraphs(summaryParagraphRe, sanitized); len(ps) > 0 {
		return ps
	}
	if ps := extractParagraphs(anyParagraphRe, sanitized); len(ps) > 0 {
		return ps
	}
	if ps := splitPlainText(sanitized); len(ps) > 0 {
		return ps
	}
	if t := strings.TrimSpace(sanitized); t != "" {
		return []string{t}
	}
	return nil
}

// extractParagraphs collects trimmed non-empty inner contents for re.
func extractParagraphs(re *regexp.Regexp, s string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		if p := strings.TrimSpace(m[1]); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitPlainText recovers paragraphs from prose without paragraph tags.
func splitPlainText(s string) []string {
	s = strings.ReplaceAll(s, "```", "")
	s = markdownNoiseRe.ReplaceAllString(s, "")
	s = bulletPrefixRe.ReplaceAllString(s, "")

	var out []string
	for _, seg := range blankLineRe.Split(s, -1) {
		if p := strings.TrimSpace(seg); p != "" {
			out = append(out, p)
		}
	}
	return out
}
