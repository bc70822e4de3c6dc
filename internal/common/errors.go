package common

import (
	"errors"
	"fmt"
)

// Error codes. Input validation codes fire before any model call; extraction
// codes come from response sanitization; the *_FAILED codes wrap upstream
// model errors with the stage that observed them.
const (
	CodeMissingInput = "MISSING_INPUT"
	CodeBlankSchema  = "BLANK_SCHEMA"
	CodeEmptyImage   = "EMPTY_IMAGE"
	CodeBlankText    = "BLANK_TEXT"
	CodeEmptyInput   = "EMPTY_INPUT"

	CodeNoStructure = "NO_STRUCTURE_FOUND"
	CodeUnbalanced  = "UNBALANCED_STRUCTURE"
	CodeInvalidJSON = "INVALID_JSON"

	CodeOCRFailed        = "OCR_FAILED"
	CodeExtractionFailed = "EXTRACTION_FAILED"
)

// AppError represents application-specific errors with an inspectable code.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError builds an AppError; cause may be nil.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the code of the outermost AppError in err's chain,
// or "" if there is none.
func CodeOf(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// IsCode reports whether err's chain contains an AppError with the given code.
func IsCode(err error, code string) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
