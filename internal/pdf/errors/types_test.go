package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentError_Error(t *testing.T) {
	cause := stderrors.New("connection refused")

	tests := []struct {
		name string
		err  *DocumentError
		want string
	}{
		{
			name: "fetch with status",
			err:  NewFetchError("termo2.pdf", 404, nil),
			want: "erro ao acessar o PDF: termo2.pdf (status: 404)",
		},
		{
			name: "fetch without response",
			err:  NewFetchError("termo1.pdf", 0, cause),
			want: "erro ao acessar o PDF: termo1.pdf: connection refused",
		},
		{
			name: "extraction on a page",
			err:  NewExtractionError("termo3.pdf", stderrors.New("bad stream")).WithPage(2),
			want: "[EXTRACTION] termo3.pdf (página 2): bad stream",
		},
		{
			name: "extraction without cause",
			err:  NewExtractionError("termo3.pdf", nil),
			want: "[EXTRACTION] termo3.pdf: failed to extract text",
		},
		{
			name: "validation",
			err:  NewValidationError("notes.txt", "file is not a PDF"),
			want: "[VALIDATION] notes.txt: file is not a PDF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestDocumentError_Unwrap(t *testing.T) {
	cause := stderrors.New("timeout")
	err := fmt.Errorf("fetch: %w", NewFetchError("termo1.pdf", 0, cause))

	assert.ErrorIs(t, err, cause)

	var docErr *DocumentError
	require.ErrorAs(t, err, &docErr)
	assert.Equal(t, "termo1.pdf", docErr.Document)
	assert.False(t, docErr.Timestamp.IsZero())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		want         ErrorType
		isFetch      bool
		isExtraction bool
		isValidation bool
	}{
		{name: "nil", err: nil, want: ErrorTypeUnknown},
		{name: "plain", err: stderrors.New("x"), want: ErrorTypeUnknown},
		{name: "fetch", err: NewFetchError("a.pdf", 500, nil), want: ErrorTypeFetch, isFetch: true},
		{
			name:         "wrapped extraction",
			err:          fmt.Errorf("ctx: %w", NewExtractionError("a.pdf", nil)),
			want:         ErrorTypeExtraction,
			isExtraction: true,
		},
		{name: "validation", err: NewValidationError("a.pdf", "bad"), want: ErrorTypeValidation, isValidation: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
			assert.Equal(t, tt.isFetch, IsFetch(tt.err))
			assert.Equal(t, tt.isExtraction, IsExtraction(tt.err))
			assert.Equal(t, tt.isValidation, IsValidation(tt.err))
		})
	}
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "FETCH", ErrorTypeFetch.String())
	assert.Equal(t, "EXTRACTION", ErrorTypeExtraction.String())
	assert.Equal(t, "VALIDATION", ErrorTypeValidation.String())
	assert.Equal(t, "UNKNOWN", ErrorTypeUnknown.String())
}

func TestErrorCollection(t *testing.T) {
	ec := NewErrorCollection()
	assert.Equal(t, "No errors", ec.Summary())
	assert.Empty(t, ec.Messages())

	ec.Add("ignored.pdf", nil)
	ec.Add("termo2.pdf", NewFetchError("termo2.pdf", 404, nil))
	ec.Add("termo3.pdf", NewExtractionError("termo3.pdf", stderrors.New("corrupt")))
	ec.Add("other.pdf", stderrors.New("boom"))

	require.Equal(t, 3, ec.Count())
	assert.Equal(t, []string{
		"erro ao acessar o PDF: termo2.pdf (status: 404)",
		"[EXTRACTION] termo3.pdf: corrupt",
		"[UNKNOWN] other.pdf: boom",
	}, ec.Messages())
	assert.Equal(t, "Found 3 error(s) (1 fetch, 1 extraction)", ec.Summary())
	assert.Equal(t, ErrorTypeUnknown, ec.Errors[2].Type)
	assert.EqualError(t, ec.Errors[2].Unwrap(), "boom")
}
