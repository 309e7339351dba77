package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// DocumentError is a per-document failure produced while fetching, validating
// or extracting a PDF. It never aborts a batch; the document is skipped.
type DocumentError struct {
	Type       ErrorType `json:"type"`
	Document   string    `json:"document"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code,omitempty"`
	PageNumber int       `json:"page_number,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Err        error     `json:"-"`
}

// ErrorType represents the stage at which a document failed
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeFetch
	ErrorTypeExtraction
	ErrorTypeValidation
)

// Error implements the error interface
func (e *DocumentError) Error() string {
	switch {
	case e.Type == ErrorTypeFetch && e.StatusCode > 0:
		return fmt.Sprintf("erro ao acessar o PDF: %s (status: %d)", e.Document, e.StatusCode)
	case e.Type == ErrorTypeFetch:
		return fmt.Sprintf("erro ao acessar o PDF: %s: %s", e.Document, e.Message)
	case e.PageNumber > 0:
		return fmt.Sprintf("[%s] %s (página %d): %s", e.Type, e.Document, e.PageNumber, e.Message)
	default:
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Document, e.Message)
	}
}

// Unwrap returns the underlying cause, if any
func (e *DocumentError) Unwrap() error {
	return e.Err
}

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeFetch:
		return "FETCH"
	case ErrorTypeExtraction:
		return "EXTRACTION"
	case ErrorTypeValidation:
		return "VALIDATION"
	default:
		return "UNKNOWN"
	}
}

// NewFetchError reports a remote request that did not return HTTP 200.
// A zero status code means the request never produced a response.
func NewFetchError(document string, statusCode int, cause error) *DocumentError {
	msg := fmt.Sprintf("status %d", statusCode)
	if cause != nil {
		msg = cause.Error()
	}
	return &DocumentError{
		Type:       ErrorTypeFetch,
		Document:   document,
		Message:    msg,
		StatusCode: statusCode,
		Timestamp:  time.Now(),
		Err:        cause,
	}
}

// NewExtractionError reports a PDF that could not be opened or parsed
func NewExtractionError(document string, cause error) *DocumentError {
	return &DocumentError{
		Type:      ErrorTypeExtraction,
		Document:  document,
		Message:   causeMessage(cause, "failed to extract text"),
		Timestamp: time.Now(),
		Err:       cause,
	}
}

// NewValidationError reports input rejected before any parsing took place
func NewValidationError(document, message string) *DocumentError {
	return &DocumentError{
		Type:      ErrorTypeValidation,
		Document:  document,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithPage adds page number information to an existing DocumentError
func (e *DocumentError) WithPage(pageNumber int) *DocumentError {
	e.PageNumber = pageNumber
	return e
}

// KindOf returns the ErrorType carried by err, or ErrorTypeUnknown
func KindOf(err error) ErrorType {
	var docErr *DocumentError
	if stderrors.As(err, &docErr) {
		return docErr.Type
	}
	return ErrorTypeUnknown
}

// IsFetch reports whether err is a FetchError
func IsFetch(err error) bool {
	return KindOf(err) == ErrorTypeFetch
}

// IsExtraction reports whether err is an ExtractionError
func IsExtraction(err error) bool {
	return KindOf(err) == ErrorTypeExtraction
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	return KindOf(err) == ErrorTypeValidation
}

func causeMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	return err.Error()
}

// ErrorCollection accumulates document failures in the order they occurred
type ErrorCollection struct {
	Errors []*DocumentError `json:"errors"`
}

// NewErrorCollection creates a new error collection
func NewErrorCollection() *ErrorCollection {
	return &ErrorCollection{
		Errors: make([]*DocumentError, 0),
	}
}

// Add records err. Errors that are not a DocumentError are wrapped as
// ErrorTypeUnknown under the given document name.
func (ec *ErrorCollection) Add(document string, err error) {
	if err == nil {
		return
	}
	var docErr *DocumentError
	if !stderrors.As(err, &docErr) {
		docErr = &DocumentError{
			Type:      ErrorTypeUnknown,
			Document:  document,
			Message:   err.Error(),
			Timestamp: time.Now(),
			Err:       err,
		}
	}
	ec.Errors = append(ec.Errors, docErr)
}

// Count returns the number of recorded errors
func (ec *ErrorCollection) Count() int {
	return len(ec.Errors)
}

// Messages returns the user-visible message for every recorded error
func (ec *ErrorCollection) Messages() []string {
	msgs := make([]string, 0, len(ec.Errors))
	for _, err := range ec.Errors {
		msgs = append(msgs, err.Error())
	}
	return msgs
}

// Summary returns a text summary of all errors
func (ec *ErrorCollection) Summary() string {
	if len(ec.Errors) == 0 {
		return "No errors"
	}

	fetch, extraction := 0, 0
	for _, err := range ec.Errors {
		switch err.Type {
		case ErrorTypeFetch:
			fetch++
		case ErrorTypeExtraction:
			extraction++
		}
	}

	return fmt.Sprintf("Found %d error(s) (%d fetch, %d extraction)", len(ec.Errors), fetch, extraction)
}
