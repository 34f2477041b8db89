// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"math"
	"strconv"
	"strings"
	"time"
)

func mismatch(v Value, expected string, cause error) error {
	return &TypeMismatchError{Expected: expected, Actual: v.kind, Cause: cause}
}

// AsString coerces v to a string. Booleans, numbers and datetimes are
// formatted; datetimes use RFC 3339.
func (v Value) AsString() (string, error) {
	switch v.kind {
	case KindString:
		return v.s, nil
	case KindBool:
		return strconv.FormatBool(v.b), nil
	case KindInt:
		return strconv.FormatInt(v.i, 10), nil
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64), nil
	case KindDateTime:
		return v.t.Format(time.RFC3339Nano), nil
	}
	return "", mismatch(v, "string", nil)
}

// AsInt coerces v to an int64. Floats are accepted only if they have no
// fractional part and fit in an int64. Strings are parsed as base 10.
func (v Value) AsInt() (int64, error) {
	switch v.kind {
	case KindInt:
		return v.i, nil
	case KindFloat:
		if v.f != math.Trunc(v.f) || v.f < math.MinInt64 || v.f >= math.MaxInt64 {
			return 0, mismatch(v, "integer", nil)
		}
		return int64(v.f), nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindString:
		i, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64)
		if err != nil {
			return 0, mismatch(v, "integer", err)
		}
		return i, nil
	}
	return 0, mismatch(v, "integer", nil)
}

// AsFloat coerces v to a float64.
func (v Value) AsFloat() (float64, error) {
	switch v.kind {
	case KindFloat:
		return v.f, nil
	case KindInt:
		return float64(v.i), nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, mismatch(v, "float", err)
		}
		return f, nil
	}
	return 0, mismatch(v, "float", nil)
}

// AsBool coerces v to a bool. Strings must be one of true, false, yes,
// no, 1 or 0, compared case-insensitively. Numbers are true when non-zero.
func (v Value) AsBool() (bool, error) {
	switch v.kind {
	case KindBool:
		return v.b, nil
	case KindInt:
		return v.i != 0, nil
	case KindFloat:
		return v.f != 0, nil
	case KindString:
		switch strings.ToLower(strings.TrimSpace(v.s)) {
		case "true", "yes", "1":
			return true, nil
		case "false", "no", "0":
			return false, nil
		}
	}
	return false, mismatch(v, "bool", nil)
}

// AsTime coerces v to a time.Time. Strings are parsed as RFC 3339
// datetimes or as YYYY-MM-DD dates.
func (v Value) AsTime() (time.Time, error) {
	switch v.kind {
	case KindDateTime:
		return v.t, nil
	case KindString:
		s := strings.TrimSpace(v.s)
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t, nil
		}
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return time.Time{}, mismatch(v, "datetime", err)
		}
		return t, nil
	}
	return time.Time{}, mismatch(v, "datetime", nil)
}

// AsDuration coerces v to a time.Duration. Strings use the time.ParseDuration
// syntax and integers are interpreted as nanoseconds.
func (v Value) AsDuration() (time.Duration, error) {
	switch v.kind {
	case KindInt:
		return time.Duration(v.i), nil
	case KindString:
		d, err := time.ParseDuration(strings.TrimSpace(v.s))
		if err != nil {
			return 0, mismatch(v, "duration", err)
		}
		return d, nil
	}
	return 0, mismatch(v, "duration", nil)
}

// AsArray returns a copy of the elements of an array Value.
func (v Value) AsArray() ([]Value, error) {
	if v.kind != KindArray {
		return nil, mismatch(v, "array", nil)
	}
	return v.clone().arr, nil
}

// AsTable returns a copy of the Table held by a table Value.
func (v Value) AsTable() (*Table, error) {
	if v.kind != KindTable {
		return nil, mismatch(v, "table", nil)
	}
	return v.tbl.Clone(), nil
}
