// Package parsererror defines the typed errors shared by the statement
// parser, the store and the pipeline.
package parsererror

import "fmt"

// ParseError represents an error during parsing.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a rejected write, e.g. a regex rule whose
// pattern does not compile.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s='%s': %s", e.Field, e.Value, e.Reason)
}

// InvalidFormatError represents a source document that cannot be opened or
// decoded at all. Fatal for that file only; the batch continues.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// UnsupportedFileTypeError represents a file whose extension is outside the
// accepted set.
type UnsupportedFileTypeError struct {
	FilePath  string
	Extension string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type '%s' for file '%s'", e.Extension, e.FilePath)
}

// DataExtractionError represents a file that decoded but yielded no usable
// data, e.g. a PDF with no extractable text.
type DataExtractionError struct {
	FilePath string
	Reason   string
}

func (e *DataExtractionError) Error() string {
	return fmt.Sprintf("data extraction failed for file '%s': %s", e.FilePath, e.Reason)
}

// StoreError represents an underlying persistence failure. Always propagated
// to the caller; never swallowed.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store operation %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
