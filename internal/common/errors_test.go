package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	e := NewAppError(CodeBlankText, "text must not be blank", nil)
	assert.Equal(t, "BLANK_TEXT: text must not be blank", e.Error())

	cause := errors.New("socket closed")
	e = NewAppError(CodeOCRFailed, "ocr failed", cause)
	assert.Equal(t, "OCR_FAILED: ocr failed: socket closed", e.Error())
	assert.ErrorIs(t, e, cause)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeInvalidJSON, CodeOf(NewAppError(CodeInvalidJSON, "bad", nil)))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
}

func TestCodeOfOutermostWins(t *testing.T) {
	inner := NewAppError(CodeUnbalanced, "unbalanced", nil)
	outer := NewAppError(CodeExtractionFailed, "extraction failed", inner)
	assert.Equal(t, CodeExtractionFailed, CodeOf(outer))
}

func TestIsCode(t *testing.T) {
	e := NewAppError(CodeEmptyImage, "image must not be empty", nil)
	assert.True(t, IsCode(e, CodeEmptyImage))
	assert.False(t, IsCode(e, CodeBlankText))
	assert.False(t, IsCode(nil, CodeEmptyImage))

	wrapped := fmt.Errorf("calling pipeline: %w", e)
	assert.True(t, IsCode(wrapped, CodeEmptyImage), "survives fmt.Errorf wrapping")
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "context"))

	base := NewAppError(CodeNoStructure, "no JSON structure found", nil)
	wrapped := WrapError(base, "parse response")
	require.Error(t, wrapped)
	assert.Contains(t, wrapped.Error(), "parse response")
	assert.True(t, IsCode(wrapped, CodeNoStructure))
}
