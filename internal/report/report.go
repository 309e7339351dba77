// Package report assembles one row of extracted terms per document.
package report

import (
	"time"

	"github.com/google/uuid"

	pdferrors "github.com/a3tai/aditamento-extractor/internal/pdf/errors"
	"github.com/a3tai/aditamento-extractor/internal/terms"
)

// Row holds the extracted field values of one document
type Row struct {
	Fields terms.Fields `json:"fields"`
	File   string       `json:"file"`
	Pages  int          `json:"pages"`
}

// Get returns the value of a column, including FileColumn
func (r Row) Get(column string) string {
	if column == terms.FileColumn {
		return r.File
	}
	v, ok := r.Fields[column]
	if !ok || v == "" {
		return terms.NotFound
	}
	return v
}

// Values returns the row cells in Columns order
func (r Row) Values() []string {
	return append(r.Fields.Values(), r.File)
}

// Report is the ordered result of processing a batch
type Report struct {
	ID        uuid.UUID                  `json:"id"`
	CreatedAt time.Time                  `json:"created_at"`
	Rows      []Row                      `json:"rows"`
	Failures  *pdferrors.ErrorCollection `json:"failures"`
}

// New returns an empty report
func New() *Report {
	return &Report{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Rows:      make([]Row, 0),
		Failures:  pdferrors.NewErrorCollection(),
	}
}

// Columns returns the field names followed by the file column
func (r *Report) Columns() []string {
	return terms.Columns()
}

// Len returns the number of rows
func (r *Report) Len() int {
	return len(r.Rows)
}

// Empty reports whether no document produced a row
func (r *Report) Empty() bool {
	return len(r.Rows) == 0
}

// Records returns the rows as string slices in Columns order
func (r *Report) Records() [][]string {
	records := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		records[i] = row.Values()
	}
	return records
}

// Messages returns the user-visible failure messages
func (r *Report) Messages() []string {
	return r.Failures.Messages()
}
