// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package try folds panics and close failures into the error returned by
// the enclosing function.
package try

import (
	"errors"
	"fmt"
	"io"
	"runtime/debug"
)

// PanicError is the error produced by Recover. Stack is the goroutine
// stack at the time of the panic.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface.
func (e PanicError) Error() string {
	return fmt.Sprintf("recovered from panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error and nil otherwise.
func (e PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// CloseError wraps the failure returned by io.Closer.Close.
type CloseError struct {
	Cause error
}

// Error implements the error interface.
func (e CloseError) Error() string {
	return "failed to close: " + e.Cause.Error()
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e CloseError) Unwrap() error {
	return e.Cause
}

// Recover has to be deferred directly by the function whose panics it
// should catch.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	join(err, PanicError{Value: r, Stack: debug.Stack()})
}

// Close closes v when it is an io.Closer. A failure is reported as a
// CloseError next to whatever err already holds.
func Close(err *error, v any) {
	c, ok := v.(io.Closer)
	if !ok {
		return
	}
	if cerr := c.Close(); cerr != nil {
		join(err, CloseError{Cause: cerr})
	}
}

func join(dst *error, err error) {
	if *dst == nil {
		*dst = err
		return
	}
	*dst = errors.Join(*dst, err)
}
