package tscerr

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrorType defines the category of the error.
type ErrorType string

const (
	TypeDiagnostic ErrorType = "Diagnostic"
	TypeInternal   ErrorType = "InternalError"
)

// TranspileError is the interface for all errors raised while translating a file.
type TranspileError interface {
	error
	Type() ErrorType
}

// BaseError provides common fields for transpile errors.
type BaseError struct {
	Msg     string
	ErrType ErrorType
}

func (e *BaseError) Error() string {
	return fmt.Sprintf("[%s] %s", e.ErrType, e.Msg)
}

func (e *BaseError) Type() ErrorType {
	return e.ErrType
}

// InternalError is an invariant violation inside the transpiler itself.
// It aborts processing of the file it was raised in.
type InternalError struct {
	BaseError
	FilePath string
	Line     int
	Column   int
	Err      error
}

func (e *InternalError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("[%s] internal error converting type at %s:%d:%d: %v", e.ErrType, e.FilePath, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.ErrType, e.Msg, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// NewInternalErrorAt wraps err with the source position it was raised at.
func NewInternalErrorAt(filePath string, line, column int, err error) *InternalError {
	return &InternalError{
		BaseError: BaseError{
			Msg:     "internal error",
			ErrType: TypeInternal,
		},
		FilePath: filePath,
		Line:     line,
		Column:   column,
		Err:      err,
	}
}

// IsInternal reports whether err is, or wraps, an InternalError.
func IsInternal(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}

// MultiError collects multiple transpile errors.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d error(s) occurred:\n", len(m.Errors)))
	for _, err := range m.Errors {
		sb.WriteString(fmt.Sprintf("- %v\n", err))
	}
	return sb.String()
}

func (m *MultiError) Type() ErrorType {
	if len(m.Errors) > 0 {
		if te, ok := m.Errors[0].(TranspileError); ok {
			return te.Type()
		}
	}
	return "MultiError"
}
