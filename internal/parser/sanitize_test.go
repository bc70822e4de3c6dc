package parser

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flapetina/smartocr/internal/common"
)

func mustJSONEqual(t *testing.T, want string, got json.RawMessage) {
	t.Helper()
	var w, g any
	require.NoError(t, json.Unmarshal([]byte(want), &w))
	require.NoError(t, json.Unmarshal(got, &g))
	assert.Equal(t, w, g)
}

func TestExtractJSONPlainObject(t *testing.T) {
	doc, err := ExtractJSON(`{"name":"Alice","age":30}`)
	require.NoError(t, err)
	mustJSONEqual(t, `{"name":"Alice","age":30}`, doc)
}

func TestExtractJSONWithSurroundingNoise(t *testing.T) {
	raw := `Sure! Here is the data you asked for: {"total":"42.50","currency":"EUR"} Hope that helps.`
	doc, err := ExtractJSON(raw)
	require.NoError(t, err)
	mustJSONEqual(t, `{"total":"42.50","currency":"EUR"}`, doc)
}

func TestExtractJSONFencedBlock(t *testing.T) {
	raw := "Here you go:\n```json\n{\"a\": [1, 2, 3]}\n```\nLet me know if you need anything else!"
	doc, err := ExtractJSON(raw)
	require.NoError(t, err)
	mustJSONEqual(t, `{"a":[1,2,3]}`, doc)
}

func TestExtractJSONFencedBlockUppercaseTag(t *testing.T) {
	raw := "```JSON\n{\"ok\":true}\n```"
	doc, err := ExtractJSON(raw)
	require.NoError(t, err)
	mustJSONEqual(t, `{"ok":true}`, doc)
}

func TestExtractJSONFencedBlockWinsOverEarlierBracket(t *testing.T) {
	// Commentary containing brackets must not distract from a deliberate fence.
	raw := "Values are in [0, 1].\n```json\n{\"score\": 0.9}\n```"
	doc, err := ExtractJSON(raw)
	require.NoError(t, err)
	mustJSONEqual(t, `{"score":0.9}`, doc)
}

func TestExtractJSONStrayFenceOpenerFallsThrough(t *testing.T) {
	// An unclosed fence opener is ignored and bracket search takes over.
	raw := "```json\n{\"partial\": true}"
	doc, err := ExtractJSON(raw)
	require.NoError(t, err)
	mustJSONEqual(t, `{"partial":true}`, doc)
}

func TestExtractJSONEmptyFenceFallsThrough(t *testing.T) {
	raw := "```json\n```\n{\"after\": 1}"
	doc, err := ExtractJSON(raw)
	require.NoError(t, err)
	mustJSONEqual(t, `{"after":1}`, doc)
}

func TestExtractJSONBracesInsideStrings(t *testing.T) {
	raw := `{"text":"a{b}c"}`
	doc, err := ExtractJSON(raw)
	require.NoError(t, err)
	mustJSONEqual(t, `{"text":"a{b}c"}`, doc)
}

func TestExtractJSONEscapedQuoteInsideString(t *testing.T) {
	raw := `{"text":"a\"}b"}`
	doc, err := ExtractJSON(raw)
	require.NoError(t, err)
	mustJSONEqual(t, `{"text":"a\"}b"}`, doc)
}

func TestExtractJSONTrailingCloserInCommentary(t *testing.T) {
	// A greedy first-open-to-last-close match would swallow the trailing brace.
	raw := `{"a":1} and that closes the matter}`
	doc, err := ExtractJSON(raw)
	require.NoError(t, err)
	mustJSONEqual(t, `{"a":1}`, doc)
}

func TestExtractJSONArray(t *testing.T) {
	raw := `The items are: [1, 2, {"x": 3}] as requested.`
	doc, err := ExtractJSON(raw)
	require.NoError(t, err)
	mustJSONEqual(t, `[1,2,{"x":3}]`, doc)
}

func TestExtractJSONTieBreakEarliestOffset(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "array first", raw: `noise [1,2] then {"a":1}`, want: `[1,2]`},
		{name: "object first", raw: `noise {"a":1} then [1,2]`, want: `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ExtractJSON(tt.raw)
			require.NoError(t, err)
			mustJSONEqual(t, tt.want, doc)
		})
	}
}

func TestExtractJSONNestedObject(t *testing.T) {
	raw := `prefix {"outer":{"inner":{"deep":[{"a":1}]}}} suffix`
	doc, err := ExtractJSON(raw)
	require.NoError(t, err)
	mustJSONEqual(t, `{"outer":{"inner":{"deep":[{"a":1}]}}}`, doc)
}

func TestExtractJSONEmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		_, err := ExtractJSON(raw)
		require.Error(t, err)
		assert.True(t, common.IsCode(err, common.CodeEmptyInput), "got %v", err)
	}
}

func TestExtractJSONNoStructureFound(t *testing.T) {
	_, err := ExtractJSON("there is no structured data in this sentence")
	require.Error(t, err)
	assert.True(t, common.IsCode(err, common.CodeNoStructure), "got %v", err)
	assert.Contains(t, err.Error(), "no structured data in this sentence")
}

func TestExtractJSONNoStructurePreviewBounded(t *testing.T) {
	long := strings.Repeat("x", 500)
	_, err := ExtractJSON(long)
	require.Error(t, err)
	assert.True(t, common.IsCode(err, common.CodeNoStructure))
	// 200 chars of preview plus ellipsis; the full input never leaks.
	assert.Contains(t, err.Error(), strings.Repeat("x", 200)+"...")
	assert.NotContains(t, err.Error(), strings.Repeat("x", 201))
}

func TestExtractJSONUnbalanced(t *testing.T) {
	for _, raw := range []string{
		`{"a": {"b": 1}`,
		`[1, 2, [3]`,
		`{"open`,
	} {
		_, err := ExtractJSON(raw)
		require.Error(t, err, "input %q", raw)
		assert.True(t, common.IsCode(err, common.CodeUnbalanced), "input %q got %v", raw, err)
	}
}

func TestExtractJSONInvalid(t *testing.T) {
	_, err := ExtractJSON(`{"a": trailing nonsense}`)
	require.Error(t, err)
	assert.True(t, common.IsCode(err, common.CodeInvalidJSON), "got %v", err)
	assert.Contains(t, err.Error(), "trailing nonsense")
}

func TestExtractJSONRoundTrip(t *testing.T) {
	// Any serialized value embedded in delimiter-free noise comes back
	// structurally equal.
	values := []string{
		`{"merchant":"Café Central","total":"12.30","items":["espresso","croissant"]}`,
		`[{"k":"v"},{"k":"w"}]`,
		`{"nested":{"empty":{},"list":[]}}`,
	}
	for _, v := range values {
		raw := "The model says: " + v + " -- end of transmission."
		doc, err := ExtractJSON(raw)
		require.NoError(t, err, "value %s", v)
		mustJSONEqual(t, v, doc)
	}
}

func TestIsValidJSON(t *testing.T) {
	assert.True(t, IsValidJSON(`{"a":1}`))
	assert.True(t, IsValidJSON(`[1,2,3]`))
	assert.False(t, IsValidJSON(""))
	assert.False(t, IsValidJSON("   "))
	assert.False(t, IsValidJSON("not json"))
	assert.False(t, IsValidJSON(`{"a":`))
}
