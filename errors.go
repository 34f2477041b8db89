// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"fmt"
	"strings"
)

// Error is implemented by every error kind strata reports. The set of
// implementations is closed: [NotFoundError], [TypeMismatchError],
// [FormatError], [ForeignError], [MessageError] and the locating
// wrapper [SourceError].
type Error interface {
	error
	strataError()
}

// NotFoundError occurs when a requested path is absent from a Config.
type NotFoundError struct {
	Path string
}

func (*NotFoundError) strataError() {}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("configuration key not found: %s", e.Path)
}

// TypeMismatchError occurs when a stored value cannot be coerced to
// the requested type.
type TypeMismatchError struct {
	Path     string
	Expected string
	Actual   Kind
	Cause    error
}

func (*TypeMismatchError) strataError() {}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	var sb strings.Builder
	sb.WriteString("cannot coerce ")
	sb.WriteString(e.Actual.String())
	sb.WriteString(" to ")
	sb.WriteString(e.Expected)
	if e.Path != "" {
		sb.WriteString(" at ")
		sb.WriteString(e.Path)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e *TypeMismatchError) Unwrap() error {
	return e.Cause
}

// FormatError occurs when a Format fails to parse a raw payload.
// Line, Column and Offset are zero when the underlying parser does
// not report a position.
type FormatError struct {
	Format string
	Origin string
	Line   int
	Column int
	Offset int64
	Reason string
	Cause  error
}

func (*FormatError) strataError() {}

// Error implements the error interface.
func (e *FormatError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid ")
	sb.WriteString(e.Format)
	if e.Origin != "" {
		sb.WriteString(" in ")
		sb.WriteString(e.Origin)
	}
	switch {
	case e.Line > 0 && e.Column > 0:
		fmt.Fprintf(&sb, " at line %d, column %d", e.Line, e.Column)
	case e.Line > 0:
		fmt.Fprintf(&sb, " at line %d", e.Line)
	case e.Offset > 0:
		fmt.Fprintf(&sb, " at offset %d", e.Offset)
	}
	if e.Reason != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Reason)
	}
	return sb.String()
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e *FormatError) Unwrap() error {
	return e.Cause
}

// ForeignError wraps a failure produced outside of strata, e.g. by a
// network transport or a third party parser, without losing its cause.
type ForeignError struct {
	Origin string
	Cause  error
}

func (*ForeignError) strataError() {}

// Foreign wraps err as a ForeignError attributed to origin. It returns
// nil if err is nil.
func Foreign(origin string, err error) error {
	if err == nil {
		return nil
	}
	return &ForeignError{Origin: origin, Cause: err}
}

// Error implements the error interface.
func (e *ForeignError) Error() string {
	if e.Origin == "" {
		return e.Cause.Error()
	}
	return e.Origin + ": " + e.Cause.Error()
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e *ForeignError) Unwrap() error {
	return e.Cause
}

// MessageError is a human authored error for Source and Format authors
// who have no better fitting error kind.
type MessageError struct {
	Message string
}

func (*MessageError) strataError() {}

// Messagef formats a MessageError.
func Messagef(format string, args ...any) error {
	return &MessageError{Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *MessageError) Error() string {
	return e.Message
}

// SourceError locates a build failure at a registered source.
// Cause is always one of the other strata error kinds.
type SourceError struct {
	Index  int
	Source string
	Cause  error
}

func (*SourceError) strataError() {}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("source %d (%s) failed: %s", e.Index, e.Source, e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e *SourceError) Unwrap() error {
	return e.Cause
}

// classify ensures err belongs to the taxonomy by wrapping anything
// unknown as a ForeignError.
func classify(origin string, err error) error {
	if _, ok := err.(Error); ok {
		return err
	}
	return &ForeignError{Origin: origin, Cause: err}
}
