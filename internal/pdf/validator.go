package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	pdferrors "github.com/a3tai/aditamento-extractor/internal/pdf/errors"
)

var pdfHeader = []byte("%PDF-")

// Validator handles PDF validation before text extraction
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateBytes checks that data looks like a PDF within the size limit and
// that pdfcpu can read its page tree. It returns the page count.
func (v *Validator) ValidateBytes(name string, data []byte) (int, error) {
	if err := v.validateHeader(name, data); err != nil {
		return 0, err
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := readContext(data, conf)
	if err != nil {
		return 0, pdferrors.NewExtractionError(name, fmt.Errorf("failed to read PDF context: %w", err))
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return 0, pdferrors.NewExtractionError(name, fmt.Errorf("failed to ensure page count: %w", err))
	}

	return ctx.PageCount, nil
}

// validateHeader performs the checks that need no parsing
func (v *Validator) validateHeader(name string, data []byte) error {
	if len(data) == 0 {
		return pdferrors.NewValidationError(name, "file is empty")
	}

	if int64(len(data)) > v.maxFileSize {
		return pdferrors.NewValidationError(name,
			fmt.Sprintf("file too large: %d bytes (max: %d bytes)", len(data), v.maxFileSize))
	}

	if !bytes.HasPrefix(bytes.TrimLeft(data[:min(len(data), 1024)], "\x00\t\r\n "), pdfHeader) {
		return pdferrors.NewValidationError(name, "file is not a PDF: missing %PDF- header")
	}

	return nil
}

// readContext guards pdfcpu against panics on malformed input
func readContext(data []byte, conf *model.Configuration) (ctx *model.Context, err error) {
	defer func() {
		if r := recover(); r != nil {
			ctx, err = nil, fmt.Errorf("pdfcpu panic: %v", r)
		}
	}()

	return api.ReadContext(bytes.NewReader(data), conf)
}
