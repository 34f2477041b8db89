// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/z5labs/strata"

	"github.com/BurntSushi/toml"
)

type tomlFormat struct{}

// TOML parses TOML documents. Keys keep the order in which they are
// defined and datetimes, including local dates and times, become
// datetime values.
var TOML strata.Format = tomlFormat{}

// Parse implements the strata.Format interface.
func (tomlFormat) Parse(origin string, raw []byte) (*strata.Table, error) {
	if blank(raw) {
		return strata.NewTable(), nil
	}

	m := make(map[string]any)
	md, err := toml.Decode(string(raw), &m)
	if err != nil {
		return nil, tomlError(origin, err)
	}

	order := make(map[string]int, len(md.Keys()))
	for i, k := range md.Keys() {
		path := k.String()
		if _, seen := order[path]; !seen {
			order[path] = i
		}
	}

	b := tomlBuilder{origin: origin, order: order}
	return b.table("", m)
}

func tomlError(origin string, err error) error {
	ferr := &strata.FormatError{
		Format: "toml",
		Origin: origin,
		Reason: err.Error(),
		Cause:  err,
	}
	var perr toml.ParseError
	if errors.As(err, &perr) {
		ferr.Line = perr.Position.Line
		ferr.Offset = int64(perr.Position.Start)
		ferr.Reason = perr.Message
	}
	return ferr
}

type tomlBuilder struct {
	origin string
	order  map[string]int
}

func (b tomlBuilder) table(prefix string, m map[string]any) (*strata.Table, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(x, y string) int {
		px, okx := b.order[join(prefix, x)]
		py, oky := b.order[join(prefix, y)]
		switch {
		case okx && oky:
			return px - py
		case okx:
			return -1
		case oky:
			return 1
		}
		return strings.Compare(x, y)
	})

	tbl := strata.NewTable()
	for _, k := range keys {
		v, err := b.value(join(prefix, k), m[k])
		if err != nil {
			return nil, err
		}
		tbl.Set(k, v)
	}
	return tbl, nil
}

func (b tomlBuilder) value(path string, x any) (strata.Value, error) {
	switch v := x.(type) {
	case map[string]any:
		tbl, err := b.table(path, v)
		if err != nil {
			return strata.Value{}, err
		}
		return strata.AdoptTable(tbl).WithOrigin(b.origin), nil
	case []map[string]any:
		elems := make([]strata.Value, len(v))
		for i, e := range v {
			ev, err := b.value(path, e)
			if err != nil {
				return strata.Value{}, err
			}
			elems[i] = ev
		}
		return strata.AdoptArray(elems).WithOrigin(b.origin), nil
	case []any:
		elems := make([]strata.Value, len(v))
		for i, e := range v {
			ev, err := b.value(path, e)
			if err != nil {
				return strata.Value{}, err
			}
			elems[i] = ev
		}
		return strata.AdoptArray(elems).WithOrigin(b.origin), nil
	case int64:
		return strata.Int(v).WithOrigin(b.origin), nil
	case float64:
		return strata.Float(v).WithOrigin(b.origin), nil
	case string:
		return strata.String(v).WithOrigin(b.origin), nil
	case bool:
		return strata.Bool(v).WithOrigin(b.origin), nil
	case time.Time:
		return strata.DateTime(v).WithOrigin(b.origin), nil
	}
	return strata.Value{}, &strata.FormatError{
		Format: "toml",
		Origin: b.origin,
		Reason: fmt.Sprintf("unsupported value of type %T at %s", x, path),
	}
}

// join builds the quoted key path used by toml.Key.String.
func join(prefix, k string) string {
	key := toml.Key{k}.String()
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
