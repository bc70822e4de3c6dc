package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flapetina/smartocr/internal/common"
)

type fakeRecognizer struct {
	text  string
	err   error
	calls int
	image []byte
}

func (f *fakeRecognizer) ExtractText(_ context.Context, image []byte) (string, error) {
	f.calls++
	f.image = image
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeExtractor struct {
	doc    json.RawMessage
	err    error
	calls  int
	text   string
	schema string
}

func (f *fakeExtractor) Extract(_ context.Context, text, schemaJSON string) (json.RawMessage, error) {
	f.calls++
	f.text = text
	f.schema = schemaJSON
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

const testSchema = `{"type":"object"}`

func TestRunTextPath(t *testing.T) {
	rec := &fakeRecognizer{}
	ext := &fakeExtractor{doc: json.RawMessage(`{"a":1}`)}
	p := New(rec, ext, nil)

	doc, err := p.Run(context.Background(), Request{Text: "raw invoice text"}, testSchema)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(doc))

	assert.Equal(t, 0, rec.calls, "recognizer must not run for text input")
	assert.Equal(t, 1, ext.calls)
	assert.Equal(t, "raw invoice text", ext.text, "caller text is passed through unnormalized")
	assert.Equal(t, testSchema, ext.schema)
}

func TestRunImagePath(t *testing.T) {
	rec := &fakeRecognizer{text: "recognized text"}
	ext := &fakeExtractor{doc: json.RawMessage(`{"b":2}`)}
	p := New(rec, ext, nil)

	img := []byte{0xFF, 0xD8, 0xFF}
	doc, err := p.Run(context.Background(), Request{Image: img}, testSchema)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2}`, string(doc))

	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, img, rec.image)
	assert.Equal(t, "recognized text", ext.text)
}

func TestRunImageTakesPrecedenceOverText(t *testing.T) {
	rec := &fakeRecognizer{text: "from the image"}
	ext := &fakeExtractor{doc: json.RawMessage(`{}`)}
	p := New(rec, ext, nil)

	_, err := p.Run(context.Background(), Request{
		Image: []byte{1, 2, 3},
		Text:  "this text must be ignored",
	}, testSchema)
	require.NoError(t, err)

	assert.Equal(t, 1, rec.calls, "image wins: recognition is invoked")
	assert.Equal(t, "from the image", ext.text)
	assert.NotContains(t, ext.text, "ignored")
}

func TestRunImagePrecedenceHoldsEvenWhenImageFails(t *testing.T) {
	rec := &fakeRecognizer{err: errors.New("vision model down")}
	ext := &fakeExtractor{}
	p := New(rec, ext, nil)

	_, err := p.Run(context.Background(), Request{
		Image: []byte{1},
		Text:  "perfectly good text",
	}, testSchema)
	require.Error(t, err)
	assert.Equal(t, 0, ext.calls, "no fallback to the text field")
}

func TestRunValidation(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		schema   string
		wantCode string
	}{
		{name: "both absent", req: Request{}, schema: testSchema, wantCode: common.CodeMissingInput},
		{name: "blank schema", req: Request{Text: "x"}, schema: "   ", wantCode: common.CodeBlankSchema},
		{name: "empty schema", req: Request{Text: "x"}, schema: "", wantCode: common.CodeBlankSchema},
		{name: "empty image, absent text", req: Request{Image: []byte{}}, schema: testSchema, wantCode: common.CodeEmptyImage},
		{name: "absent image, blank text", req: Request{Text: "   "}, schema: testSchema, wantCode: common.CodeBlankText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecognizer{}
			ext := &fakeExtractor{}
			p := New(rec, ext, nil)

			_, err := p.Run(context.Background(), tt.req, tt.schema)
			require.Error(t, err)
			assert.True(t, common.IsCode(err, tt.wantCode), "want %s, got %v", tt.wantCode, err)
			assert.Equal(t, 0, rec.calls, "validation fails before any capability call")
			assert.Equal(t, 0, ext.calls)
		})
	}
}

func TestRunExtractorErrorPropagates(t *testing.T) {
	wrapped := common.NewAppError(common.CodeExtractionFailed, "extraction failed", errors.New("boom"))
	ext := &fakeExtractor{err: wrapped}
	p := New(&fakeRecognizer{}, ext, nil)

	_, err := p.Run(context.Background(), Request{Text: "x"}, testSchema)
	require.Error(t, err)
	assert.True(t, common.IsCode(err, common.CodeExtractionFailed))
	assert.ErrorContains(t, err, "boom")
}
