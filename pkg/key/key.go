// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package key provides types for addressing values within nested tables and arrays.
package key

import (
	"fmt"
	"strconv"
	"strings"
)

// Keyer is a common interface all path segment types must implement.
type Keyer interface {
	Key() string
}

// Name addresses an entry of a table.
type Name string

// Key implements the [Keyer] interface.
func (k Name) Key() string {
	return string(k)
}

// Index addresses an element of an array. Negative indexes count
// from the end of the array, so -1 is the last element.
type Index int

// Key implements the [Keyer] interface.
func (k Index) Key() string {
	return "[" + strconv.Itoa(int(k)) + "]"
}

// Chain represents nested keys.
type Chain []Keyer

// Key implements the [Keyer] interface.
func (k Chain) Key() string {
	var sb strings.Builder
	for i, kr := range k {
		_, isIndex := kr.(Index)
		if i > 0 && !isIndex {
			sb.WriteByte('.')
		}
		sb.WriteString(kr.Key())
	}
	return sb.String()
}

// Names returns a Chain made only of [Name] segments.
func Names(names ...string) Chain {
	c := make(Chain, len(names))
	for i, n := range names {
		c[i] = Name(n)
	}
	return c
}

// SyntaxError is returned by [Parse] for paths which cannot be parsed.
type SyntaxError struct {
	Path   string
	Offset int
	Reason string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid key path %q at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// Parse converts a textual path into a Chain.
//
// Segments are separated by dots and array elements are selected with
// brackets, e.g. "servers[0].host" or "matrix[1][-1]". The empty path
// parses to an empty Chain, which addresses the root table.
func Parse(path string) (Chain, error) {
	var chain Chain
	if path == "" {
		return chain, nil
	}

	i := 0
	expectName := true
	for i < len(path) {
		switch c := path[i]; {
		case c == '[':
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				return nil, &SyntaxError{Path: path, Offset: i, Reason: "unterminated index"}
			}
			n, err := strconv.Atoi(path[i+1 : i+end])
			if err != nil {
				return nil, &SyntaxError{Path: path, Offset: i + 1, Reason: "index must be an integer"}
			}
			chain = append(chain, Index(n))
			i += end + 1
			expectName = false
		case c == '.':
			if expectName {
				return nil, &SyntaxError{Path: path, Offset: i, Reason: "empty key segment"}
			}
			i++
			expectName = true
			if i == len(path) {
				return nil, &SyntaxError{Path: path, Offset: i, Reason: "empty key segment"}
			}
		case c == ']':
			return nil, &SyntaxError{Path: path, Offset: i, Reason: "unexpected ']'"}
		default:
			if !expectName {
				return nil, &SyntaxError{Path: path, Offset: i, Reason: "expected '.' or '['"}
			}
			end := strings.IndexAny(path[i:], ".[]")
			if end < 0 {
				end = len(path) - i
			}
			chain = append(chain, Name(path[i:i+end]))
			i += end
			expectName = false
		}
	}
	return chain, nil
}
