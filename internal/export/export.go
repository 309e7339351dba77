// Package export serializes a report to downloadable flat files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/xuri/excelize/v2"

	"github.com/a3tai/aditamento-extractor/internal/report"
)

// BaseName is the file name, without extension, of every export artifact
const BaseName = "resumo_termos_aditamento"

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatText Format = "txt"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv", "txt"/"text" and "xlsx"
func ParseFormat(s string) (Format, error) {
	switch s {
	case "csv":
		return FormatCSV, nil
	case "txt", "text":
		return FormatText, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s (must be one of: csv, txt, xlsx)", s)
	}
}

// FileName returns the artifact name for the format
func (f Format) FileName() string {
	return BaseName + "." + string(f)
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Render serializes rep in the given format
func Render(rep *report.Report, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return CSV(rep)
	case FormatText:
		return Text(rep)
	case FormatXLSX:
		return XLSX(rep)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// CSV writes a header row and one comma-separated row per document, quoting
// cells that contain separators, quotes or newlines
func CSV(rep *report.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(rep.Columns()); err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	if err := w.WriteAll(rep.Records()); err != nil {
		return nil, fmt.Errorf("csv rows: %w", err)
	}

	return buf.Bytes(), nil
}

// Text renders a whitespace-aligned table. Cells are never wrapped or
// truncated.
func Text(rep *report.Report) ([]byte, error) {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader(rep.Columns())
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(rep.Records())
	table.Render()

	return buf.Bytes(), nil
}

// SheetName is the worksheet holding the summary in XLSX exports
const SheetName = "Resumo"

// ColumnWidth is the width of every XLSX column
const ColumnWidth = 32

// XLSX writes the report to a single-sheet workbook
func XLSX(rep *report.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	write := func(col, row int, v string) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(SheetName, cell, v)
	}

	for i, h := range rep.Columns() {
		if err := write(i+1, 1, h); err != nil {
			return nil, fmt.Errorf("xlsx header: %w", err)
		}
	}

	for r, record := range rep.Records() {
		for c, v := range record {
			if err := write(c+1, r+2, v); err != nil {
				return nil, fmt.Errorf("xlsx row %d: %w", r+1, err)
			}
		}
	}

	last, err := excelize.ColumnNumberToName(len(rep.Columns()))
	if err != nil {
		return nil, fmt.Errorf("xlsx columns: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", last, ColumnWidth); err != nil {
		return nil, fmt.Errorf("xlsx column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
