package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdferrors "github.com/a3tai/aditamento-extractor/internal/pdf/errors"
	"github.com/a3tai/aditamento-extractor/internal/pdf/pdftest"
	"github.com/a3tai/aditamento-extractor/internal/terms"
)

func TestNewReader(t *testing.T) {
	tests := []struct {
		name        string
		maxFileSize int64
		want        *Reader
	}{
		{
			name:        "standard max file size",
			maxFileSize: 100 * 1024 * 1024, // 100MB
			want: &Reader{
				maxFileSize: 100 * 1024 * 1024,
			},
		},
		{
			name:        "small max file size",
			maxFileSize: 1024, // 1KB
			want: &Reader{
				maxFileSize: 1024,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewReader(tt.maxFileSize)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReader_ExtractText(t *testing.T) {
	reader := NewReader(1024 * 1024)

	tests := []struct {
		name  string
		pages []string
		want  string
	}{
		{
			name:  "single page",
			pages: []string{"Atualizacao pelo IPCA."},
			want:  "Atualizacao pelo IPCA.",
		},
		{
			name:  "pages are concatenated without separator",
			pages: []string{"parcela ", "reduzida", "."},
			want:  "parcela reduzida.",
		},
		{
			name:  "page without text contributes nothing",
			pages: []string{"antes", "", "depois"},
			want:  "antesdepois",
		},
		{
			name:  "only empty pages",
			pages: []string{"", ""},
			want:  "",
		},
		{
			name:  "escaped characters",
			pages: []string{`(a) \ (b)`},
			want:  `(a) \ (b)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reader.ExtractText("termo.pdf", pdftest.Build(tt.pages...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReader_ExtractText_Errors(t *testing.T) {
	reader := NewReader(64)

	tests := []struct {
		name     string
		data     []byte
		wantKind pdferrors.ErrorType
	}{
		{name: "empty", data: nil, wantKind: pdferrors.ErrorTypeValidation},
		{name: "too large", data: pdftest.Build("x"), wantKind: pdferrors.ErrorTypeValidation},
		{name: "not a pdf", data: []byte("plain text file"), wantKind: pdferrors.ErrorTypeExtraction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reader.ExtractText("bad.pdf", tt.data)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, pdferrors.KindOf(err))
			assert.Contains(t, err.Error(), "bad.pdf")
		})
	}
}

func TestReader_ExtractText_LineLayout(t *testing.T) {
	reader := NewReader(1024 * 1024)

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{
			name: "lines moved with Td",
			data: pdftest.Build("* nota um\nseguro prestamista\nIPCA"),
			want: "* nota um\nseguro prestamista\nIPCA",
		},
		{
			name: "lines placed with Tm",
			data: pdftest.BuildContent("BT /F1 12 Tf 1 0 0 1 72 720 Tm (tabela do) Tj 1 0 0 1 72 706 Tm (fabricante) Tj ET"),
			want: "tabela do\nfabricante",
		},
		{
			name: "lines advanced with T*",
			data: pdftest.BuildContent("BT /F1 12 Tf 14 TL 72 720 Td (a) Tj T* (b) Tj ET"),
			want: "a\nb",
		},
		{
			name: "same baseline stays on one line",
			data: pdftest.BuildContent("BT /F1 12 Tf 72 720 Td (parcela ) Tj 50 0 Td (reduzida) Tj ET"),
			want: "parcela reduzida",
		},
		{
			name: "lines of consecutive pages",
			data: pdftest.Build("um\ndois", "tres"),
			want: "um\ndoistres",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reader.ExtractText("termo.pdf", tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReader_ExtractText_NotesStayOnTheirLine(t *testing.T) {
	reader := NewReader(1024 * 1024)

	text, err := reader.ExtractText("termo.pdf", pdftest.Build("* nota um\nseguro prestamista\nIPCA"))
	require.NoError(t, err)

	fields := terms.Match(text)
	assert.Equal(t, "* nota um", fields[terms.FieldObservacoes])
	assert.Equal(t, "seguro prestamista", fields[terms.FieldSeguroPrestamista])
	assert.Equal(t, "IPCA", fields[terms.FieldAtualizacaoCredito])
}
