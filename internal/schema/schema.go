package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/flapetina/smartocr/internal/common"
)

// Schema wraps a raw JSON schema string used as extraction instructions.
// The extraction core treats it as opaque bytes; only Validate, which is
// caller-side tooling, ever compiles it.
type Schema struct {
	raw string
}

// FromString builds a Schema, rejecting blank input.
func FromString(raw string) (Schema, error) {
	if strings.TrimSpace(raw) == "" {
		return Schema{}, common.NewAppError(common.CodeBlankSchema, "schema must not be blank", nil)
	}
	return Schema{raw: raw}, nil
}

// Raw returns the schema string byte-for-byte as it was provided.
func (s Schema) Raw() string {
	return s.raw
}

// Validate checks data against the schema under JSON Schema semantics.
// The pipeline never calls this; it exists for callers who want a local
// conformance check on extracted documents.
func (s Schema) Validate(data []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader([]byte(s.raw))); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := compiled.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
