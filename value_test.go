// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"encoding/json"
	"math"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValueOf(t *testing.T) {
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	port := uint16(8080)

	testCases := []struct {
		Name   string
		Input  any
		Expect Value
	}{
		{Name: "nil", Input: nil, Expect: Null()},
		{Name: "bool", Input: true, Expect: Bool(true)},
		{Name: "string", Input: "hello", Expect: String("hello")},
		{Name: "bytes", Input: []byte("hello"), Expect: String("hello")},
		{Name: "int", Input: 1, Expect: Int(1)},
		{Name: "int8", Input: int8(-3), Expect: Int(-3)},
		{Name: "uint32", Input: uint32(7), Expect: Int(7)},
		{Name: "float32", Input: float32(0.5), Expect: Float(0.5)},
		{Name: "float64", Input: 1.25, Expect: Float(1.25)},
		{Name: "time", Input: now, Expect: DateTime(now)},
		{Name: "duration", Input: 5 * time.Second, Expect: String("5s")},
		{Name: "json integer", Input: json.Number("12"), Expect: Int(12)},
		{Name: "json float", Input: json.Number("1.5"), Expect: Float(1.5)},
		{Name: "text marshaler", Input: netip.MustParseAddr("127.0.0.1"), Expect: String("127.0.0.1")},
		{Name: "pointer", Input: &port, Expect: Int(8080)},
		{Name: "nil pointer", Input: (*int)(nil), Expect: Null()},
		{Name: "nil slice", Input: []string(nil), Expect: Array()},
		{Name: "typed slice", Input: []int{1, 2}, Expect: Array(Int(1), Int(2))},
		{Name: "array", Input: [2]string{"a", "b"}, Expect: Array(String("a"), String("b"))},
		{Name: "value", Input: Int(3), Expect: Int(3)},
		{
			Name:   "map",
			Input:  map[string]any{"b": 1, "a": []any{"x"}},
			Expect: TableValue(NewTable().Set("a", Array(String("x"))).Set("b", Int(1))),
		},
		{
			Name:   "typed map",
			Input:  map[string]int{"x": 1},
			Expect: TableValue(NewTable().Set("x", Int(1))),
		},
		{
			Name:   "table",
			Input:  NewTable().Set("x", Bool(false)),
			Expect: TableValue(NewTable().Set("x", Bool(false))),
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			v, err := ValueOf(testCase.Input)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.True(t, testCase.Expect.Equal(v), "expected %v, got %v", testCase.Expect.Interface(), v.Interface()) {
				return
			}
		})
	}

	t.Run("will keep map keys sorted", func(t *testing.T) {
		v, err := ValueOf(map[string]any{"c": 1, "a": 2, "b": 3})
		if !assert.Nil(t, err) {
			return
		}
		tbl, err := v.AsTable()
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, []string{"a", "b", "c"}, tbl.Keys()) {
			return
		}
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the type has no Value representation", func(t *testing.T) {
			_, err := ValueOf(struct{ A int }{A: 1})

			var uerr UnsupportedTypeError
			if !assert.ErrorAs(t, err, &uerr) {
				return
			}
		})

		t.Run("if a map is not keyed by strings", func(t *testing.T) {
			_, err := ValueOf(map[int]string{1: "a"})

			var uerr UnsupportedTypeError
			if !assert.ErrorAs(t, err, &uerr) {
				return
			}
		})

		t.Run("if an unsigned integer overflows int64", func(t *testing.T) {
			_, err := ValueOf(uint64(math.MaxUint64))
			if !assert.Error(t, err) {
				return
			}
		})
	})
}

func TestValue_Interface(t *testing.T) {
	v := TableValue(NewTable().
		Set("a", Int(1)).
		Set("b", Array(Float(1.5), Null())).
		Set("c", TableValue(NewTable().Set("d", String("e")))),
	)

	expect := map[string]any{
		"a": int64(1),
		"b": []any{1.5, nil},
		"c": map[string]any{"d": "e"},
	}
	if !assert.Equal(t, expect, v.Interface()) {
		return
	}
}

func TestValue_Equal(t *testing.T) {
	t.Run("will ignore origins", func(t *testing.T) {
		if !assert.True(t, Int(1).WithOrigin("a").Equal(Int(1).WithOrigin("b"))) {
			return
		}
	})

	t.Run("will compare kinds", func(t *testing.T) {
		if !assert.False(t, Int(1).Equal(Float(1))) {
			return
		}
	})

	t.Run("will ignore table key order", func(t *testing.T) {
		a := TableValue(NewTable().Set("x", Int(1)).Set("y", Int(2)))
		b := TableValue(NewTable().Set("y", Int(2)).Set("x", Int(1)))
		if !assert.True(t, a.Equal(b)) {
			return
		}
	})
}

func TestArray(t *testing.T) {
	t.Run("will copy its elements", func(t *testing.T) {
		inner := NewTable().Set("x", Int(1))
		elem := TableValue(inner)
		arr := Array(elem)

		elem.tbl.Set("x", Int(2))

		got, err := arr.AsArray()
		if !assert.Nil(t, err) {
			return
		}
		x, _ := got[0].tbl.Get("x")
		if !assert.True(t, Int(1).Equal(x)) {
			return
		}
	})
}

func TestAdopt(t *testing.T) {
	t.Run("will take ownership of a table", func(t *testing.T) {
		tbl := NewTable().Set("a", Int(1))
		v := AdoptTable(tbl)
		if !assert.Same(t, tbl, v.tbl) {
			return
		}
	})

	t.Run("will treat a nil table as empty", func(t *testing.T) {
		v := AdoptTable(nil)
		if !assert.Equal(t, KindTable, v.Kind()) {
			return
		}
		if !assert.Equal(t, map[string]any{}, v.Interface()) {
			return
		}
	})

	t.Run("will take ownership of array elements", func(t *testing.T) {
		elems := []Value{Int(1), Int(2)}
		v := AdoptArray(elems)
		if !assert.Same(t, &elems[0], &v.arr[0]) {
			return
		}
	})
}

func TestKind_String(t *testing.T) {
	names := map[Kind]string{
		KindNull:     "null",
		KindBool:     "bool",
		KindInt:      "integer",
		KindFloat:    "float",
		KindString:   "string",
		KindDateTime: "datetime",
		KindArray:    "array",
		KindTable:    "table",
	}
	for k, name := range names {
		if !assert.Equal(t, name, k.String()) {
			return
		}
	}
}
