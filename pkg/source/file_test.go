// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package source

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/z5labs/strata"
	"github.com/z5labs/strata/pkg/configtmpl"
	"github.com/z5labs/strata/pkg/format"

	"github.com/stretchr/testify/assert"
)

func TestFile(t *testing.T) {
	fsys := fstest.MapFS{
		"config.yaml":      {Data: []byte("server:\n  port: 8080\n")},
		"config.toml":      {Data: []byte("[server]\nport = 9090\n")},
		"config":           {Data: []byte(`{"server": {"port": 7070}}`)},
		"config.tmpl.json": {Data: []byte(`{"host": "{{ env "STRATA_FILE_TEST_HOST" }}"}`)},
		"broken.json":      {Data: []byte(`{"a": `)},
	}

	t.Run("will pick the format from the extension", func(t *testing.T) {
		for _, path := range []string{"config.yaml", "config.toml"} {
			tbl, err := File(fsys, path).Collect()
			if !assert.Nil(t, err) {
				return
			}
			server, ok := tbl.Get("server")
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, path, server.Origin()) {
				return
			}
		}
	})

	t.Run("will use an explicit format", func(t *testing.T) {
		tbl, err := File(fsys, "config", WithFormat(format.JSON)).Collect()
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, map[string]any{"server": map[string]any{"port": int64(7070)}}, tbl.Interface()) {
			return
		}
	})

	t.Run("will render templates", func(t *testing.T) {
		t.Setenv("STRATA_FILE_TEST_HOST", "example.com")

		tbl, err := File(fsys, "config.tmpl.json", Templated()).Collect()
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, map[string]any{"host": "example.com"}, tbl.Interface()) {
			return
		}
	})

	t.Run("will return an empty table", func(t *testing.T) {
		t.Run("if an optional file is missing", func(t *testing.T) {
			tbl, err := File(fsys, "missing.yaml", Optional()).Collect()
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, 0, tbl.Len()) {
				return
			}
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if a required file is missing", func(t *testing.T) {
			_, err := File(fsys, "missing.yaml").Collect()

			var ferr *strata.ForeignError
			if !assert.ErrorAs(t, err, &ferr) {
				return
			}
			if !assert.ErrorIs(t, err, fs.ErrNotExist) {
				return
			}
		})

		t.Run("if the format cannot be determined", func(t *testing.T) {
			_, err := File(fsys, "config").Collect()

			var merr *strata.MessageError
			if !assert.ErrorAs(t, err, &merr) {
				return
			}
		})

		t.Run("if the file is malformed", func(t *testing.T) {
			_, err := File(fsys, "broken.json").Collect()

			var ferr *strata.FormatError
			if !assert.ErrorAs(t, err, &ferr) {
				return
			}
			if !assert.Equal(t, "broken.json", ferr.Origin) {
				return
			}
		})

		t.Run("if the template fails", func(t *testing.T) {
			_, err := File(fsys, "config.tmpl.json", Templated(configtmpl.Delims("{{", "}}"), configtmpl.Func("env", func(string) (string, error) {
				return "", configtmpl.ErrRequired
			}))).Collect()

			var ferr *strata.ForeignError
			if !assert.ErrorAs(t, err, &ferr) {
				return
			}
			var eerr configtmpl.ExecError
			if !assert.ErrorAs(t, err, &eerr) {
				return
			}
		})
	})
}
