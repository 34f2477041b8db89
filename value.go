// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"time"
)

// Kind is the tag of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindDateTime
	KindArray
	KindTable
)

// String implements the fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindDateTime:
		return "datetime"
	case KindArray:
		return "array"
	case KindTable:
		return "table"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a format agnostic configuration value. The zero Value is null.
//
// A Value never changes its Kind. Converting to another representation
// happens through the As methods, which may fail with a [TypeMismatchError].
type Value struct {
	kind   Kind
	origin string

	b   bool
	i   int64
	f   float64
	s   string
	t   time.Time
	arr []Value
	tbl *Table
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer Value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating point Value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// DateTime returns a datetime Value.
func DateTime(t time.Time) Value { return Value{kind: KindDateTime, t: t} }

// Array returns an array Value holding copies of the given elements.
func Array(elems ...Value) Value {
	arr := make([]Value, len(elems))
	for i, e := range elems {
		arr[i] = e.clone()
	}
	return Value{kind: KindArray, arr: arr}
}

// TableValue returns a table Value. The table is copied so later changes
// to t are not observed by the returned Value.
func TableValue(t *Table) Value {
	return Value{kind: KindTable, tbl: t.Clone()}
}

// AdoptArray returns an array Value which takes ownership of elems. The
// caller must not use elems after this call.
func AdoptArray(elems []Value) Value {
	return Value{kind: KindArray, arr: elems}
}

// AdoptTable returns a table Value which takes ownership of t. The caller
// must not use t after this call. A nil t is treated as an empty table.
func AdoptTable(t *Table) Value {
	if t == nil {
		t = NewTable()
	}
	return Value{kind: KindTable, tbl: t}
}

// Kind returns the tag of v.
func (v Value) Kind() Kind { return v.kind }

// Origin names the source which produced v, if known.
func (v Value) Origin() string { return v.origin }

// WithOrigin returns a copy of v attributed to origin.
func (v Value) WithOrigin(origin string) Value {
	v.origin = origin
	return v
}

// IsNull reports whether v is the null Value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Interface converts v into plain Go values: nil, bool, int64, float64,
// string, time.Time, []any or map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindDateTime:
		return v.t
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Interface()
		}
		return out
	case KindTable:
		return v.tbl.Interface()
	default:
		return nil
	}
}

// Equal reports whether v and other hold the same data. Origins are ignored.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindDateTime:
		return v.t.Equal(other.t)
	case KindArray:
		return slices.EqualFunc(v.arr, other.arr, Value.Equal)
	case KindTable:
		return v.tbl.Equal(other.tbl)
	}
	return false
}

func (v Value) clone() Value {
	switch v.kind {
	case KindArray:
		arr := make([]Value, len(v.arr))
		for i, e := range v.arr {
			arr[i] = e.clone()
		}
		v.arr = arr
	case KindTable:
		v.tbl = v.tbl.Clone()
	}
	return v
}

func (v Value) withOriginDeep(origin string) Value {
	v.origin = origin
	switch v.kind {
	case KindArray:
		for i := range v.arr {
			v.arr[i] = v.arr[i].withOriginDeep(origin)
		}
	case KindTable:
		for _, k := range v.tbl.keys {
			v.tbl.m[k] = v.tbl.m[k].withOriginDeep(origin)
		}
	}
	return v
}

// UnsupportedTypeError occurs when ValueOf is given a Go value
// with no Value representation.
type UnsupportedTypeError struct {
	Type reflect.Type
}

// Error implements the error interface.
func (e UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported configuration value type: %s", e.Type)
}

// ValueOf converts a native Go value into a Value. Integers of every width,
// floats, strings, booleans, time.Time, slices, arrays and maps keyed by
// strings are supported, as are Value, *Table, json.Number and
// encoding.TextMarshaler implementations.
func ValueOf(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v.clone(), nil
	case *Table:
		return TableValue(v), nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case []byte:
		return String(string(v)), nil
	case int:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case float64:
		return Float(v), nil
	case time.Time:
		return DateTime(v), nil
	case time.Duration:
		return String(v.String()), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case map[string]any:
		t, err := TableOf("", v)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindTable, tbl: t}, nil
	case encoding.TextMarshaler:
		b, err := v.MarshalText()
		if err != nil {
			return Value{}, err
		}
		return String(string(b)), nil
	}
	return valueOfReflect(reflect.ValueOf(x))
}

func valueOfReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return ValueOf(rv.Elem().Interface())
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Value{}, fmt.Errorf("unsigned integer %d overflows int64", u)
		}
		return Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Value{kind: KindArray, arr: []Value{}}, nil
		}
		arr := make([]Value, rv.Len())
		for i := range rv.Len() {
			e, err := ValueOf(rv.Index(i).Interface())
			if err != nil {
				return Value{}, err
			}
			arr[i] = e
		}
		return Value{kind: KindArray, arr: arr}, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, UnsupportedTypeError{Type: rv.Type()}
		}
		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			switch {
			case a.String() < b.String():
				return -1
			case a.String() > b.String():
				return 1
			}
			return 0
		})
		t := NewTable()
		for _, k := range keys {
			e, err := ValueOf(rv.MapIndex(k).Interface())
			if err != nil {
				return Value{}, err
			}
			t.Set(k.String(), e)
		}
		return Value{kind: KindTable, tbl: t}, nil
	}
	return Value{}, UnsupportedTypeError{Type: rv.Type()}
}
