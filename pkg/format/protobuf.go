// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"math"
	"slices"

	"github.com/z5labs/strata"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type protobufFormat struct{}

// Protobuf parses the binary encoding of a google.protobuf.Struct.
var Protobuf strata.Format = protobufFormat{}

// Parse implements the strata.Format interface.
func (protobufFormat) Parse(origin string, raw []byte) (*strata.Table, error) {
	var s structpb.Struct
	err := proto.Unmarshal(raw, &s)
	if err != nil {
		return nil, &strata.FormatError{
			Format: "protobuf",
			Origin: origin,
			Reason: err.Error(),
			Cause:  err,
		}
	}
	return FromStruct(origin, &s), nil
}

// maxExactInt is the largest magnitude a float64 holds without losing
// integer precision.
const maxExactInt = 1 << 53

// FromStruct converts s into a Table attributed to origin. Fields are
// inserted in sorted order. Numbers without a fractional part become
// integers when they can be represented exactly.
func FromStruct(origin string, s *structpb.Struct) *strata.Table {
	fields := s.GetFields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	tbl := strata.NewTable()
	for _, k := range keys {
		tbl.Set(k, fromValue(origin, fields[k]))
	}
	return tbl
}

func fromValue(origin string, v *structpb.Value) strata.Value {
	switch k := v.GetKind().(type) {
	case *structpb.Value_BoolValue:
		return strata.Bool(k.BoolValue).WithOrigin(origin)
	case *structpb.Value_NumberValue:
		f := k.NumberValue
		if f == math.Trunc(f) && math.Abs(f) <= maxExactInt {
			return strata.Int(int64(f)).WithOrigin(origin)
		}
		return strata.Float(f).WithOrigin(origin)
	case *structpb.Value_StringValue:
		return strata.String(k.StringValue).WithOrigin(origin)
	case *structpb.Value_ListValue:
		vals := k.ListValue.GetValues()
		elems := make([]strata.Value, len(vals))
		for i, e := range vals {
			elems[i] = fromValue(origin, e)
		}
		return strata.AdoptArray(elems).WithOrigin(origin)
	case *structpb.Value_StructValue:
		return strata.AdoptTable(FromStruct(origin, k.StructValue)).WithOrigin(origin)
	default:
		return strata.Null().WithOrigin(origin)
	}
}

// ToStruct converts t into a google.protobuf.Struct. Datetimes are
// encoded as RFC 3339 strings.
func ToStruct(t *strata.Table) (*structpb.Struct, error) {
	return structpb.NewStruct(jsonCompatible(t))
}

func jsonCompatible(t *strata.Table) map[string]any {
	out := make(map[string]any, t.Len())
	for k, v := range t.All() {
		out[k] = jsonCompatibleValue(v)
	}
	return out
}

func jsonCompatibleValue(v strata.Value) any {
	switch v.Kind() {
	case strata.KindDateTime:
		s, _ := v.AsString()
		return s
	case strata.KindArray:
		arr, _ := v.AsArray()
		out := make([]any, len(arr))
		for i, e := range arr {
			out[i] = jsonCompatibleValue(e)
		}
		return out
	case strata.KindTable:
		t, _ := v.AsTable()
		return jsonCompatible(t)
	default:
		return v.Interface()
	}
}
