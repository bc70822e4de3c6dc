package llm

import "fmt"

// Prompt templates are deterministic and entity-agnostic: the schema string
// is spliced in byte-for-byte, never interpreted.

const ocrPrompt = `You are an OCR engine.

Extract ALL readable text from the provided image.
Preserve original wording, numbers, dates, reference numbers, and currency values.
Do NOT summarize.
Do NOT interpret.
Do NOT extract fields.
Do NOT add explanations.

Return plain text only.`

const extractionPromptTemplate = `You are a data extraction engine. Your output must be ONLY a JSON object, nothing else.

You are given:
1. A JSON schema describing fields to extract
2. A block of unstructured text

Rules:
- Output MUST start with { and end with }
- Return ONLY valid JSON - no text before or after
- Use exactly the field names from the schema
- If a value is not found, use null
- Do NOT guess or hallucinate values
- Dates must be ISO-8601 format (YYYY-MM-DD)
- Numbers must be numeric (no currency symbols)
- Do NOT include explanations or comments
- Do NOT include markdown
- NEVER respond with anything other than a JSON object

Schema:
%s

Text:
%s

Respond with JSON only:`

// BuildOCRPrompt returns the prompt for plain-text extraction from images.
func BuildOCRPrompt() string {
	return ocrPrompt
}

// BuildExtractionPrompt composes the structured extraction prompt from an
// opaque schema string and the text to extract from.
func BuildExtractionPrompt(schemaJSON, text string) string {
	return fmt.Sprintf(extractionPromptTemplate, schemaJSON, text)
}
