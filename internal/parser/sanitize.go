package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/flapetina/smartocr/internal/common"
)

// Model responses are adversarial from a parsing standpoint: JSON may be
// wrapped in markdown fences, surrounded by commentary, or contain brace
// characters inside string values. ExtractJSON recovers exactly one JSON
// document from such text or fails with a precise code.

// reFencedJSON matches a fenced code block, optionally tagged "json".
// A deliberately wrapped fence is the strongest signal of intended
// boundaries, so it wins over bracket search.
var reFencedJSON = regexp.MustCompile("(?i)```(?:json)?\\s*\n?([\\s\\S]*?)\n?```")

const previewLimit = 200

// ExtractJSON locates and parses the single JSON object or array embedded in
// raw. The returned bytes are the exact candidate substring, verified to be
// valid JSON; callers unmarshal into their own types.
func ExtractJSON(raw string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, common.NewAppError(common.CodeEmptyInput, "response is empty or blank", nil)
	}

	candidate, err := locateCandidate(trimmed)
	if err != nil {
		return nil, err
	}

	var v any
	if err := json.Unmarshal([]byte(candidate), &v); err != nil {
		return nil, common.NewAppError(common.CodeInvalidJSON,
			fmt.Sprintf("invalid JSON: %v; extracted: %s", err, preview(candidate)), err)
	}
	return json.RawMessage(candidate), nil
}

// IsValidJSON reports whether s is valid JSON as-is. All failures are
// swallowed into a false verdict.
func IsValidJSON(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	return json.Valid([]byte(s))
}

func locateCandidate(text string) (string, error) {
	// Fenced block first. A fence with blank inner content falls through to
	// bracket search, as does a stray opener with no closing fence.
	if m := reFencedJSON.FindStringSubmatch(text); m != nil {
		if inner := strings.TrimSpace(m[1]); inner != "" {
			return inner, nil
		}
	}

	// The first raw '{' or '[' is the authoritative opening position;
	// whichever appears earlier selects the delimiter pair.
	objIdx := strings.IndexByte(text, '{')
	arrIdx := strings.IndexByte(text, '[')

	switch {
	case objIdx >= 0 && (arrIdx < 0 || objIdx < arrIdx):
		return scanBalanced(text, objIdx, '{', '}')
	case arrIdx >= 0:
		return scanBalanced(text, arrIdx, '[', ']')
	default:
		return "", common.NewAppError(common.CodeNoStructure,
			"no JSON structure found in response; preview: "+preview(text), nil)
	}
}

// scanBalanced walks forward from start tracking nesting depth of the
// opening/closing pair, ignoring delimiters inside string literals. A backslash
// inside a string consumes exactly the next character.
func scanBalanced(text string, start int, opening, closing byte) (string, error) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case opening:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", common.NewAppError(common.CodeUnbalanced,
		"unbalanced JSON structure; preview: "+preview(text[start:]), nil)
}

func preview(s string) string {
	if len(s) > previewLimit {
		return s[:previewLimit] + "..."
	}
	return s
}
