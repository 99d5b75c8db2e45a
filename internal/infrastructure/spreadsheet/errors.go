package spreadsheet

import (
	"errors"
	"fmt"
)

// Common parse errors
var (
	// ErrEmptyFile is returned when the uploaded file has no content
	ErrEmptyFile = errors.New("file is empty")

	// ErrInvalidEncoding is returned when a CSV file is not valid UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding")

	// ErrMissingHeader is returned when the file has no header row
	ErrMissingHeader = errors.New("file missing header row")

	// ErrUnsupportedFormat is returned for file extensions we cannot parse
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// SheetNotFoundError is returned when a workbook does not contain the
// expected sheet.
type SheetNotFoundError struct {
	Sheet string
}

// Error implements the error interface
func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("workbook does not contain sheet %q", e.Sheet)
}
