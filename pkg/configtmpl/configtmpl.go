// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package configtmpl renders configuration payloads as text/templates
// before they are parsed.
package configtmpl

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"text/template"
)

// Env returns the value of the environment variable named key or an empty
// string if it is not set.
func Env(key string) string {
	return os.Getenv(key)
}

// Default returns def if v is nil or the zero value for its type.
func Default(def, v any) any {
	if v == nil {
		return def
	}
	val := reflect.ValueOf(v)
	if val.IsZero() {
		return def
	}
	return v
}

// ErrRequired is wrapped by the error returned from Required.
var ErrRequired = errors.New("required value is missing")

// Required fails template execution if v is nil or the zero value for
// its type.
func Required(name string, v any) (any, error) {
	if v == nil || reflect.ValueOf(v).IsZero() {
		return nil, fmt.Errorf("%s: %w", name, ErrRequired)
	}
	return v, nil
}

// FuncMap returns the functions available to every template:
//
//	env "KEY"             value of an environment variable
//	default DEF VALUE     VALUE unless it is empty, then DEF
//	required "NAME" VALUE VALUE unless it is empty, then an error
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"env":      Env,
		"default":  Default,
		"required": Required,
	}
}
