// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package configtmpl

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"text/template"

	"github.com/z5labs/strata/internal/try"
)

// Option configures a Renderer.
type Option func(*Renderer)

// Func registers f for use in the template under name. It replaces any
// built-in function with the same name.
func Func(name string, f any) Option {
	return func(r *Renderer) {
		r.funcs[name] = f
	}
}

// Delims sets the action delimiters. An empty delimiter stands for the
// corresponding default: {{ or }}.
func Delims(left, right string) Option {
	return func(r *Renderer) {
		r.leftDelim = left
		r.rightDelim = right
	}
}

// Data sets the value the template is executed with, i.e. dot.
func Data(v any) Option {
	return func(r *Renderer) {
		r.data = v
	}
}

// Renderer is an io.Reader which reads a text/template from an underlying
// io.Reader and yields its rendered output. The underlying reader is
// closed after it has been read if it implements io.Closer.
type Renderer struct {
	name string
	r    io.Reader

	leftDelim  string
	rightDelim string
	funcs      template.FuncMap
	data       any

	renderOnce sync.Once
	renderErr  error
	buf        bytes.Buffer
}

// NewRenderer returns a Renderer for the template read from r. name is
// used in template error messages.
func NewRenderer(name string, r io.Reader, opts ...Option) *Renderer {
	rr := &Renderer{
		name:  name,
		r:     r,
		funcs: FuncMap(),
	}
	for _, opt := range opts {
		opt(rr)
	}
	return rr
}

// ParseError occurs when the template fails to be parsed.
type ParseError struct {
	Cause error
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return fmt.Sprintf("failed to parse config template: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e ParseError) Unwrap() error {
	return e.Cause
}

// ExecError occurs when a template fails to execute, e.g. because a
// template function returned an error.
type ExecError struct {
	Cause error
}

// Error implements the error interface.
func (e ExecError) Error() string {
	return fmt.Sprintf("failed to exec config template: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e ExecError) Unwrap() error {
	return e.Cause
}

// Read implements the io.Reader interface.
func (r *Renderer) Read(b []byte) (int, error) {
	r.renderOnce.Do(func() {
		r.renderErr = r.render()
	})
	if r.renderErr != nil {
		return 0, r.renderErr
	}
	return r.buf.Read(b)
}

func (r *Renderer) render() (err error) {
	raw, err := readAll(r.r)
	if err != nil {
		return err
	}

	tmpl, err := template.New(r.name).
		Delims(r.leftDelim, r.rightDelim).
		Funcs(r.funcs).
		Option("missingkey=error").
		Parse(string(raw))
	if err != nil {
		return ParseError{Cause: err}
	}

	err = tmpl.Execute(&r.buf, r.data)
	if err != nil {
		r.buf.Reset()
		return ExecError{Cause: err}
	}
	return nil
}

func readAll(r io.Reader) (b []byte, err error) {
	defer try.Close(&err, r)
	return io.ReadAll(r)
}
