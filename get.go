// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/z5labs/strata/pkg/key"
)

// Get looks up path in cfg and coerces the value found there to T.
//
// It fails with a [NotFoundError] if any path segment is absent and with
// a [TypeMismatchError] if the value cannot be coerced to T. Slices are
// coerced element by element and the first failing element fails the
// whole lookup. Struct types are decoded with mapstructure using the
// "config" field tag.
func Get[T any](cfg *Config, path string) (T, error) {
	v, err := cfg.Get(path)
	return coerceAt[T](v, err, path)
}

// GetKey is like [Get] but addresses the value with k, whose names are
// used verbatim. See [Config.Lookup].
func GetKey[T any](cfg *Config, k key.Keyer) (T, error) {
	v, err := cfg.Lookup(k)
	var path string
	if k != nil {
		path = k.Key()
	}
	return coerceAt[T](v, err, path)
}

func coerceAt[T any](v Value, err error, path string) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	out, err := As[T](v)
	if err != nil {
		return zero, atPath(err, path)
	}
	return out, nil
}

// As coerces v to T following the same rules as [Get].
func As[T any](v Value) (T, error) {
	var out T
	err := coerceInto(v, reflect.ValueOf(&out).Elem())
	return out, err
}

var (
	valueType    = reflect.TypeOf(Value{})
	tablePtrType = reflect.TypeOf((*Table)(nil))
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
)

func coerceInto(v Value, dst reflect.Value) error {
	typ := dst.Type()
	switch typ {
	case valueType:
		dst.Set(reflect.ValueOf(v.clone()))
		return nil
	case tablePtrType:
		t, err := v.AsTable()
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(t))
		return nil
	case timeType:
		t, err := v.AsTime()
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(t))
		return nil
	case durationType:
		d, err := v.AsDuration()
		if err != nil {
			return err
		}
		dst.SetInt(int64(d))
		return nil
	}

	switch typ.Kind() {
	case reflect.String:
		s, err := v.AsString()
		if err != nil {
			return err
		}
		dst.SetString(s)
	case reflect.Bool:
		b, err := v.AsBool()
		if err != nil {
			return err
		}
		dst.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := v.AsInt()
		if err != nil {
			return retype(err, typ)
		}
		if dst.OverflowInt(i) {
			return mismatch(v, typ.String(), fmt.Errorf("%d overflows %s", i, typ))
		}
		dst.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, err := v.AsInt()
		if err != nil {
			return retype(err, typ)
		}
		if i < 0 || dst.OverflowUint(uint64(i)) {
			return mismatch(v, typ.String(), fmt.Errorf("%d overflows %s", i, typ))
		}
		dst.SetUint(uint64(i))
	case reflect.Float32, reflect.Float64:
		f, err := v.AsFloat()
		if err != nil {
			return retype(err, typ)
		}
		if dst.OverflowFloat(f) {
			return mismatch(v, typ.String(), fmt.Errorf("%g overflows %s", f, typ))
		}
		dst.SetFloat(f)
	case reflect.Slice:
		if v.kind != KindArray {
			return mismatch(v, typ.String(), nil)
		}
		out := reflect.MakeSlice(typ, len(v.arr), len(v.arr))
		for i, e := range v.arr {
			err := coerceInto(e, out.Index(i))
			if err != nil {
				return mismatch(v, typ.String(), fmt.Errorf("element %d: %w", i, err))
			}
		}
		dst.Set(out)
	case reflect.Map:
		if typ.Key().Kind() != reflect.String || v.kind != KindTable {
			return mismatch(v, typ.String(), nil)
		}
		out := reflect.MakeMapWithSize(typ, v.tbl.Len())
		for k, e := range v.tbl.All() {
			ev := reflect.New(typ.Elem()).Elem()
			err := coerceInto(e, ev)
			if err != nil {
				return mismatch(v, typ.String(), fmt.Errorf("key %s: %w", k, err))
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(typ.Key()), ev)
		}
		dst.Set(out)
	case reflect.Interface:
		if typ.NumMethod() != 0 {
			return mismatch(v, typ.String(), nil)
		}
		if x := v.Interface(); x != nil {
			dst.Set(reflect.ValueOf(x))
		}
	default:
		err := decode(v.Interface(), dst.Addr().Interface())
		if err != nil {
			return mismatch(v, typ.String(), err)
		}
	}
	return nil
}

// retype reports a nested mismatch in terms of the type that was
// originally requested.
func retype(err error, typ reflect.Type) error {
	var terr *TypeMismatchError
	if !errors.As(err, &terr) {
		return err
	}
	out := *terr
	out.Expected = typ.String()
	return &out
}

// atPath fills in the path of a TypeMismatchError.
func atPath(err error, path string) error {
	var terr *TypeMismatchError
	if !errors.As(err, &terr) {
		return err
	}
	out := *terr
	out.Path = path
	return &out
}
