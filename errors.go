package toml

import (
	"fmt"
	"reflect"
)

// ErrorKind classifies a parse-time failure, per spec.md §7.
type ErrorKind string

const (
	ErrUnexpectedChar      ErrorKind = "unexpected_char"
	ErrUnexpectedEOF       ErrorKind = "unexpected_eof"
	ErrInvalidEscape       ErrorKind = "invalid_escape"
	ErrInvalidUnicodeScalar ErrorKind = "invalid_unicode_scalar"
	ErrInvalidNumber       ErrorKind = "invalid_number"
	ErrNumberOutOfRange    ErrorKind = "number_out_of_range"
	ErrInvalidDatetime     ErrorKind = "invalid_datetime"
	ErrInvalidString       ErrorKind = "invalid_string"
	ErrInvalidKey          ErrorKind = "invalid_key"
	ErrDuplicateKey        ErrorKind = "duplicate_key"
	ErrRedefinedTable      ErrorKind = "redefined_table"
	ErrTypeConflict        ErrorKind = "type_conflict"
	ErrHeterogeneousArray  ErrorKind = "heterogeneous_array"
	ErrInlineTableExtension ErrorKind = "inline_table_extension"
	ErrEmptyBareKey        ErrorKind = "empty_bare_key"
	ErrTrailingGarbage     ErrorKind = "trailing_garbage"
	ErrRecursionLimit      ErrorKind = "recursion_limit"
)

// ParseError describes a failure raised while lexing, parsing or
// building the value tree. Offset is 0-based from the start of the
// input; Line and Column are 1-based, following TOML's own convention
// (tab counts as one column, CRLF counts as one line).
type ParseError struct {
	Kind    ErrorKind
	Offset  int
	Line    int
	Column  int
	KeyPath string // optional: the key/header path the error concerns
	msg     string
}

func (e *ParseError) Error() string {
	if e.KeyPath != "" {
		return fmt.Sprintf("toml: %s at line %d, column %d (offset %d), key %q: %s", e.Kind, e.Line, e.Column, e.Offset, e.KeyPath, e.msg)
	}
	return fmt.Sprintf("toml: %s at line %d, column %d (offset %d): %s", e.Kind, e.Line, e.Column, e.Offset, e.msg)
}

// BindErrorKind classifies a failure raised by the binding surface
// (C7) or one of its drivers, per spec.md §7.
type BindErrorKind string

const (
	ErrWrongType       BindErrorKind = "wrong_type"
	ErrMissingField    BindErrorKind = "missing_field"
	ErrUnknownField    BindErrorKind = "unknown_field"
	ErrIntegerOverflow BindErrorKind = "integer_overflow"
	ErrCustomBind      BindErrorKind = "custom"
)

// BindError describes a failure in the C7 Producer/Consumer contract
// or one of its drivers (e.g. structbind).
type BindError struct {
	Kind    BindErrorKind
	KeyPath string
	Type    reflect.Type // Go type involved, when applicable
	msg     string
}

func (e *BindError) Error() string {
	switch {
	case e.Type != nil && e.KeyPath != "":
		return fmt.Sprintf("toml: %s: key %q, type %s: %s", e.Kind, e.KeyPath, e.Type, e.msg)
	case e.Type != nil:
		return fmt.Sprintf("toml: %s: type %s: %s", e.Kind, e.Type, e.msg)
	case e.KeyPath != "":
		return fmt.Sprintf("toml: %s: key %q: %s", e.Kind, e.KeyPath, e.msg)
	default:
		return fmt.Sprintf("toml: %s: %s", e.Kind, e.msg)
	}
}

func newBindError(kind BindErrorKind, msg string) *BindError {
	return &BindError{Kind: kind, msg: msg}
}

// NewBindError constructs a BindError for use by binding-surface
// drivers outside this package (e.g. structbind), which cannot reach
// the unexported msg field directly.
func NewBindError(kind BindErrorKind, keyPath string, typ reflect.Type, format string, args ...interface{}) *BindError {
	return &BindError{Kind: kind, KeyPath: keyPath, Type: typ, msg: fmt.Sprintf(format, args...)}
}
