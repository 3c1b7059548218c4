package errors

import (
	"fmt"

	"github.com/hostwise/hostwise/internal/model"
)

// ParseError reports a configuration-set document that could not be read or
// decoded. Line is zero when the failure has no position, such as a missing
// file.
type ParseError struct {
	Path string
	Line int
	Err  error
}

// NewParseError constructs a ParseError for the document at path.
func NewParseError(path string, line int, err error) error {
	return &ParseError{Path: path, Line: line, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("cannot parse configuration document %s (line %d): %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("cannot parse configuration document %s: %v", e.Path, e.Err)
}

// Unwrap exposes the decoding error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError reports a configuration-set document that decoded cleanly
// but violates the document schema. Field names the offending location in
// document terms, e.g. "units[2].type".
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

// NewValidationError constructs a ValidationError for the given field.
func NewValidationError(field, reason string, err error) error {
	return &ValidationError{Field: field, Reason: reason, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}

	if e.Field == "" {
		return "invalid configuration document: " + e.Reason
	}
	return fmt.Sprintf("invalid configuration document: %s: %s", e.Field, e.Reason)
}

// Unwrap exposes the underlying validator error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UnitError is the fault encoding unit processors use to report a failure
// with an explicit result classification. The engine's fault extraction
// copies Code and Source into the unit's result information; errors of any
// other type are classified as unexpected internal faults.
type UnitError struct {
	UnitID string
	Code   model.ResultCode
	Source model.ResultSource
	Err    error
}

// NewUnitError constructs a UnitError for the given unit.
func NewUnitError(unitID string, code model.ResultCode, source model.ResultSource, err error) error {
	return &UnitError{UnitID: unitID, Code: code, Source: source, Err: err}
}

func (e *UnitError) Error() string {
	if e == nil {
		return ""
	}
	if e.UnitID != "" {
		return fmt.Sprintf("unit error [%s] (code 0x%X): %v", e.UnitID, int32(e.Code), e.Err)
	}
	return fmt.Sprintf("unit error (code 0x%X): %v", int32(e.Code), e.Err)
}

// Unwrap exposes the root error.
func (e *UnitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ProcessorNotFoundError indicates no unit processor is registered for a
// unit's type.
type ProcessorNotFoundError struct {
	Type string
}

// NewProcessorNotFoundError constructs a ProcessorNotFoundError.
func NewProcessorNotFoundError(unitType string) error {
	return &ProcessorNotFoundError{Type: unitType}
}

func (e *ProcessorNotFoundError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("no unit processor registered for type %q", e.Type)
}
