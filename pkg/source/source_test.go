// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package source

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/z5labs/strata"
	"github.com/z5labs/strata/pkg/format"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	t.Run("will convert native values", func(t *testing.T) {
		tbl, err := Map(map[string]any{"a": 1, "b": map[string]any{"c": []string{"d"}}}).Collect()
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, map[string]any{"a": int64(1), "b": map[string]any{"c": []any{"d"}}}, tbl.Interface()) {
			return
		}
	})

	t.Run("will return a MessageError", func(t *testing.T) {
		t.Run("if a value is unsupported", func(t *testing.T) {
			_, err := Map(map[string]any{"a": func() {}}).Collect()

			var merr *strata.MessageError
			if !assert.ErrorAs(t, err, &merr) {
				return
			}
		})
	})
}

type failingReader struct {
	err error
}

func (r failingReader) Read([]byte) (int, error) {
	return 0, r.err
}

func TestReader(t *testing.T) {
	t.Run("will parse the payload", func(t *testing.T) {
		src := Reader("stdin", strings.NewReader(`{"a": 1}`), format.JSON)

		tbl, err := src.Collect()
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, map[string]any{"a": int64(1)}, tbl.Interface()) {
			return
		}

		again, err := src.Collect()
		if !assert.Nil(t, err) {
			return
		}
		if !assert.True(t, tbl.Equal(again)) {
			return
		}
		if !assert.Equal(t, "stdin", src.String()) {
			return
		}
	})

	t.Run("will return a ForeignError", func(t *testing.T) {
		t.Run("if reading fails", func(t *testing.T) {
			readErr := errors.New("broken pipe")
			_, err := Reader("stdin", failingReader{err: readErr}, format.JSON).Collect()

			var ferr *strata.ForeignError
			if !assert.ErrorAs(t, err, &ferr) {
				return
			}
			if !assert.Equal(t, "stdin", ferr.Origin) {
				return
			}
			if !assert.ErrorIs(t, err, readErr) {
				return
			}
		})
	})

	t.Run("will return a FormatError", func(t *testing.T) {
		t.Run("if the payload is malformed", func(t *testing.T) {
			_, err := Reader("stdin", io.NopCloser(strings.NewReader(`{"a":`)), format.JSON).Collect()

			var ferr *strata.FormatError
			if !assert.ErrorAs(t, err, &ferr) {
				return
			}
			if !assert.Equal(t, "stdin", ferr.Origin) {
				return
			}
		})
	})
}
