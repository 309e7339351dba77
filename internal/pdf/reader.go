package pdf

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"

	pdferrors "github.com/a3tai/aditamento-extractor/internal/pdf/errors"
)

// lineTolerance is the baseline shift, in text space units, that starts a
// new line
const lineTolerance = 0.5

// Reader handles PDF text extraction
type Reader struct {
	maxFileSize int64
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
	}
}

// ExtractText returns the plain text of every page of the PDF in data,
// concatenated in page order with no separators. Within a page each text
// row ends up on its own line. Null pages and pages with no text
// (image-only scans) contribute an empty string.
func (r *Reader) ExtractText(name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", pdferrors.NewValidationError(name, "file is empty")
	}
	if int64(len(data)) > r.maxFileSize {
		return "", pdferrors.NewValidationError(name,
			fmt.Sprintf("file too large: %d bytes (max: %d bytes)", len(data), r.maxFileSize))
	}

	pdfReader, err := openReader(data)
	if err != nil {
		return "", pdferrors.NewExtractionError(name, fmt.Errorf("failed to open PDF: %w", err))
	}

	return extractTextContent(name, pdfReader)
}

// extractTextContent concatenates the text of all pages
func extractTextContent(name string, pdfReader *pdf.Reader) (string, error) {
	var builder strings.Builder

	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		content, err := pageText(pdfReader, pageNum)
		if err != nil {
			return "", pdferrors.NewExtractionError(name, err).WithPage(pageNum)
		}
		builder.WriteString(content)
	}

	return builder.String(), nil
}

// openReader wraps pdf.NewReader, which panics on some malformed xref tables
func openReader(data []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reader, err = nil, fmt.Errorf("malformed PDF: %v", rec)
		}
	}()

	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

// pageText extracts the plain text of a single page. Glyphs are emitted in
// content stream order and a newline is written whenever the baseline
// moves, whatever operator (Td, TD, Tm, T*) moved it.
func pageText(pdfReader *pdf.Reader, pageNum int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("malformed page content: %v", rec)
		}
	}()

	page := pdfReader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}

	var builder strings.Builder
	var lastY float64
	for i, glyph := range page.Content().Text {
		if i > 0 && math.Abs(glyph.Y-lastY) > lineTolerance {
			builder.WriteString("\n")
		}
		builder.WriteString(glyph.S)
		lastY = glyph.Y
	}

	return builder.String(), nil
}
