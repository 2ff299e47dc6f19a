package dataset

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes load failures.
type ErrorCode string

const (
	// CodeNotFound indicates the data file does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeUnsupportedKind indicates a data kind other than "grid".
	CodeUnsupportedKind ErrorCode = "UNSUPPORTED_KIND"

	// CodeEmptyData indicates the file has no header or rows.
	CodeEmptyData ErrorCode = "EMPTY_DATA"

	// CodeParseError indicates malformed delimited content.
	CodeParseError ErrorCode = "PARSE_ERROR"

	// CodeUnknownColumn indicates a mapped column missing from the table.
	CodeUnknownColumn ErrorCode = "UNKNOWN_COLUMN"

	// CodeInvalidRole indicates a mapped role outside position, cell and face.
	CodeInvalidRole ErrorCode = "INVALID_ROLE"

	// CodeInvalidMapping indicates the mapping as a whole is inconsistent.
	CodeInvalidMapping ErrorCode = "INVALID_MAPPING"
)

// Error is returned for every load failure.
type Error struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the data file involved, when known.
	Path string

	// Column and Role identify the offending mapping entry.
	Column string
	Role   Role

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not an *Error.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

func newNotFoundError(path string, cause error) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("data file not found: %s", path),
		Path:    path,
		Err:     cause,
	}
}

func newUnsupportedKindError(kind Kind) *Error {
	return &Error{
		Code:    CodeUnsupportedKind,
		Message: fmt.Sprintf("unsupported data kind: %q", string(kind)),
	}
}

func newEmptyDataError(path string) *Error {
	return &Error{
		Code:    CodeEmptyData,
		Message: fmt.Sprintf("no data found in file: %s", path),
		Path:    path,
	}
}

func newParseError(path string, cause error) *Error {
	return &Error{
		Code:    CodeParseError,
		Message: fmt.Sprintf("failed to load data from %s", path),
		Path:    path,
		Err:     cause,
	}
}

func newUnknownColumnError(column string) *Error {
	return &Error{
		Code:    CodeUnknownColumn,
		Message: fmt.Sprintf("mapped column %q not found in table", column),
		Column:  column,
	}
}

func newInvalidRoleError(column string, role Role) *Error {
	return &Error{
		Code:    CodeInvalidRole,
		Message: fmt.Sprintf("invalid role %q for column %q (allowed: position, cell, face)", string(role), column),
		Column:  column,
		Role:    role,
	}
}

func newInvalidMappingError(message string) *Error {
	return &Error{
		Code:    CodeInvalidMapping,
		Message: message,
	}
}
