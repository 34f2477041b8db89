// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

// Format parses a raw payload into a Table.
//
// Parse must be pure: no I/O and the same output for the same input.
// origin identifies where raw came from and is only used in errors and
// as the Origin of the parsed values. A syntactically valid but empty
// payload yields an empty Table; malformed payloads yield a [FormatError].
type Format interface {
	Parse(origin string, raw []byte) (*Table, error)
}

// FormatFunc is a functional implementation of the Format interface.
type FormatFunc func(origin string, raw []byte) (*Table, error)

// Parse implements the Format interface.
func (f FormatFunc) Parse(origin string, raw []byte) (*Table, error) {
	return f(origin, raw)
}
