// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/z5labs/strata"
)

type jsonFormat struct{}

// JSON parses JSON objects. Key order is preserved and numbers without
// a fraction or exponent become integers.
var JSON strata.Format = jsonFormat{}

// Parse implements the strata.Format interface.
func (jsonFormat) Parse(origin string, raw []byte) (*strata.Table, error) {
	if blank(raw) {
		return strata.NewTable(), nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	v, err := decodeJSON(dec, origin)
	if err != nil {
		return nil, jsonError(origin, raw, dec, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		line, col := position(raw, dec.InputOffset())
		return nil, &strata.FormatError{
			Format: "json",
			Origin: origin,
			Line:   line,
			Column: col,
			Offset: dec.InputOffset(),
			Reason: "unexpected data after top level value",
			Cause:  err,
		}
	}

	switch v.Kind() {
	case strata.KindNull:
		return strata.NewTable(), nil
	case strata.KindTable:
		return v.AsTable()
	default:
		return nil, notTable("json", origin, v.Kind())
	}
}

var errUnexpectedEnd = errors.New("unexpected end of input")

func decodeJSON(dec *json.Decoder, origin string) (strata.Value, error) {
	tok, err := dec.Token()
	if err == io.EOF {
		return strata.Value{}, errUnexpectedEnd
	}
	if err != nil {
		return strata.Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			tbl := strata.NewTable()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return strata.Value{}, err
				}
				k, ok := kt.(string)
				if !ok {
					return strata.Value{}, fmt.Errorf("expected object key, got %v", kt)
				}
				v, err := decodeJSON(dec, origin)
				if err != nil {
					return strata.Value{}, err
				}
				tbl.Set(k, v)
			}
			if _, err := dec.Token(); err != nil {
				return strata.Value{}, closing(err)
			}
			return strata.AdoptTable(tbl).WithOrigin(origin), nil
		case '[':
			elems := []strata.Value{}
			for dec.More() {
				v, err := decodeJSON(dec, origin)
				if err != nil {
					return strata.Value{}, err
				}
				elems = append(elems, v)
			}
			if _, err := dec.Token(); err != nil {
				return strata.Value{}, closing(err)
			}
			return strata.AdoptArray(elems).WithOrigin(origin), nil
		}
		return strata.Value{}, fmt.Errorf("unexpected delimiter %s", t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return strata.Int(i).WithOrigin(origin), nil
		}
		f, err := t.Float64()
		if err != nil {
			return strata.Value{}, err
		}
		return strata.Float(f).WithOrigin(origin), nil
	case string:
		return strata.String(t).WithOrigin(origin), nil
	case bool:
		return strata.Bool(t).WithOrigin(origin), nil
	case nil:
		return strata.Null().WithOrigin(origin), nil
	}
	return strata.Value{}, fmt.Errorf("unexpected token %v", tok)
}

func closing(err error) error {
	if err == io.EOF {
		return errUnexpectedEnd
	}
	return err
}

func jsonError(origin string, raw []byte, dec *json.Decoder, err error) error {
	offset := dec.InputOffset()
	var serr *json.SyntaxError
	if errors.As(err, &serr) {
		offset = serr.Offset
	}
	if errors.Is(err, errUnexpectedEnd) || errors.Is(err, io.ErrUnexpectedEOF) {
		offset = int64(len(raw))
	}
	line, col := position(raw, offset)
	return &strata.FormatError{
		Format: "json",
		Origin: origin,
		Line:   line,
		Column: col,
		Offset: offset,
		Reason: err.Error(),
		Cause:  err,
	}
}
