package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/a3tai/aditamento-extractor/internal/pdf"
	"github.com/a3tai/aditamento-extractor/internal/source"
	"github.com/a3tai/aditamento-extractor/internal/terms"
)

// TextExtractor turns PDF bytes into plain text
type TextExtractor interface {
	ExtractText(name string, data []byte) (string, error)
}

// PDFValidator checks PDF bytes before extraction and returns the page count
type PDFValidator interface {
	ValidateBytes(name string, data []byte) (int, error)
}

// Assembler runs extraction and matching over resolved documents
type Assembler struct {
	validator PDFValidator
	extractor TextExtractor
	logger    *slog.Logger
}

// NewAssembler creates an assembler. A nil validator skips validation.
func NewAssembler(validator PDFValidator, extractor TextExtractor, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{validator: validator, extractor: extractor, logger: logger}
}

// NewDefaultAssembler wires the ledongthuc reader and pdfcpu validator
func NewDefaultAssembler(maxFileSize int64, logger *slog.Logger) *Assembler {
	return NewAssembler(pdf.NewValidator(maxFileSize), pdf.NewReader(maxFileSize), logger)
}

// Build processes outcomes one at a time in order. Failed outcomes and
// documents that fail validation or extraction become failures, never rows.
// When ctx is cancelled the remaining documents are recorded as failures.
func (a *Assembler) Build(ctx context.Context, outcomes []source.Outcome) *Report {
	start := time.Now()
	rep := New()

	for _, o := range outcomes {
		name := o.Document.Name

		if err := ctx.Err(); err != nil {
			rep.Failures.Add(name, err)
			continue
		}

		if !o.OK() {
			a.fail(rep, name, o.Err)
			continue
		}

		row, err := a.process(o.Document)
		if err != nil {
			a.fail(rep, name, err)
			continue
		}

		rep.Rows = append(rep.Rows, row)
	}

	a.logger.Info("report.build.done",
		"report_id", rep.ID.String(),
		"documents", len(outcomes),
		"rows", len(rep.Rows),
		"failures", rep.Failures.Count(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return rep
}

// process extracts and matches a single document
func (a *Assembler) process(doc source.Document) (Row, error) {
	pages := 0
	if a.validator != nil {
		n, err := a.validator.ValidateBytes(doc.Name, doc.Data)
		if err != nil {
			return Row{}, err
		}
		pages = n
	}

	text, err := a.extractor.ExtractText(doc.Name, doc.Data)
	if err != nil {
		return Row{}, err
	}

	fields := terms.Match(text)
	a.logger.Debug("report.document.ok",
		"file", doc.Name,
		"pages", pages,
		"chars", len(text),
		"matched_fields", fields.Matched(),
	)

	return Row{Fields: fields, File: doc.Name, Pages: pages}, nil
}

func (a *Assembler) fail(rep *Report, name string, err error) {
	a.logger.Warn("report.document.failed", "file", name, "error", err)
	rep.Failures.Add(name, err)
}
