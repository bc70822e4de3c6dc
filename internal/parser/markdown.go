package parser

import (
	"regexp"
	"strings"
)

// Vision models decorate OCR output with markdown even when told not to.
// The passes below remove the decoration while keeping the underlying text.
// Order matters: each pass runs once over the output of the previous one.
var (
	reCodeBlock  = regexp.MustCompile("```[a-z]*\n?|```")
	reBold       = regexp.MustCompile(`\*\*|__`)
	reHeaders    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	reLinks      = regexp.MustCompile(`\[([^\]]+)]\([^)]+\)`)
	reInlineCode = regexp.MustCompile("`([^`]+)`")
)

// StripMarkdown converts recognized raw text into plain text by removing
// markdown decoration. It never fails; empty input yields "".
func StripMarkdown(text string) string {
	if text == "" {
		return ""
	}

	result := reCodeBlock.ReplaceAllString(text, "")
	result = reBold.ReplaceAllString(result, "")
	result = stripItalicMarkers(result)
	result = reHeaders.ReplaceAllString(result, "")
	result = reLinks.ReplaceAllString(result, "$1")
	result = reInlineCode.ReplaceAllString(result, "$1")

	return strings.TrimSpace(result)
}

// stripItalicMarkers drops single '*' or '_' characters that are not part of
// a doubled marker. RE2 has no lookaround, so this pass is a manual scan.
// Byte-wise scanning is safe: both markers are ASCII and never appear inside
// UTF-8 continuation bytes.
func stripItalicMarkers(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '*' || c == '_' {
			var prev, next byte
			if i > 0 {
				prev = s[i-1]
			}
			if i+1 < len(s) {
				next = s[i+1]
			}
			if prev != c && next != c {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
