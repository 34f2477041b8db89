// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"encoding"
	"errors"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// decode uses mapstructure to populate v, which must be a pointer, from
// the plain Go representation of a Value. Struct fields are matched with
// the "config" tag.
func decode(input any, v any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		Result:           v,
		WeaklyTypedInput: true,
		DecodeHook: firstDecodeHook(
			scalarHook(timeType, func(v Value) (any, error) { return v.AsTime() }),
			scalarHook(durationType, func(v Value) (any, error) { return v.AsDuration() }),
			scalarHook(reflect.TypeOf(false), func(v Value) (any, error) { return v.AsBool() }),
			textUnmarshalerHook(),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// errSkipHook tells firstDecodeHook to try the next hook.
var errSkipHook = errors.New("decode hook does not apply")

// firstDecodeHook runs hs in order and returns the result of the first
// one which applies. Data no hook applies to is passed through unchanged.
func firstDecodeHook(hs ...mapstructure.DecodeHookFunc) mapstructure.DecodeHookFuncValue {
	return func(from, to reflect.Value) (any, error) {
		for _, h := range hs {
			out, err := mapstructure.DecodeHookExec(h, from, to)
			if errors.Is(err, errSkipHook) {
				continue
			}
			return out, err
		}
		return from.Interface(), nil
	}
}

// scalarHook converts data into target using one of the Value coercions.
func scalarHook(target reflect.Type, coerce func(Value) (any, error)) mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if to != target || from == target {
			return nil, errSkipHook
		}
		v, err := ValueOf(data)
		if err != nil || v.kind == KindNull || v.kind == KindTable || v.kind == KindArray {
			return nil, errSkipHook
		}
		return coerce(v)
	}
}

func textUnmarshalerHook() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String {
			return nil, errSkipHook
		}
		out := reflect.New(to)
		u, ok := out.Interface().(encoding.TextUnmarshaler)
		if !ok {
			return nil, errSkipHook
		}
		err := u.UnmarshalText([]byte(reflect.ValueOf(data).String()))
		if err != nil {
			return nil, err
		}
		return out.Elem().Interface(), nil
	}
}
