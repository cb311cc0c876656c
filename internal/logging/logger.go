// Package logging provides a logging abstraction that decouples the rest of
// the application from the underlying logging framework. Components receive a
// Logger through their constructor; the CLI root command owns the process-wide
// instance.
package logging

// Logger is the structured logging interface used throughout the application.
type Logger interface {
	// Debug logs a debug-level message with optional fields
	Debug(msg string, fields ...Field)

	// Info logs an info-level message with optional fields
	Info(msg string, fields ...Field)

	// Warn logs a warning-level message with optional fields
	Warn(msg string, fields ...Field)

	// Error logs an error-level message with optional fields
	Error(msg string, fields ...Field)

	// WithError returns a new logger with an error field attached
	WithError(err error) Logger

	// WithField returns a new logger with a single field attached
	WithField(key string, value interface{}) Logger

	// WithFields returns a new logger with multiple fields attached
	WithFields(fields ...Field) Logger

	// Fatal logs a fatal-level message and exits the program
	Fatal(msg string, fields ...Field)
}

// Field is a key-value pair attached to a log message.
type Field struct {
	Key   string
	Value interface{}
}

// Standardized field names for structured logging.
const (
	FieldFile      = "file_path"
	FieldDir       = "directory"
	FieldCount     = "count"
	FieldRule      = "rule_id"
	FieldCategory  = "category"
	FieldPattern   = "pattern"
	FieldReason    = "reason"
	FieldSkipped   = "skipped_lines"
	FieldInserted  = "inserted"
	FieldDuplicate = "duplicates"
)
