// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/z5labs/strata"
	"github.com/z5labs/strata/pkg/format"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestGet(t *testing.T) {
	t.Run("will print a scalar", func(t *testing.T) {
		path := writeFile(t, "config.yaml", "server:\n  port: 8080\n")

		out, _, err := run("-f", path, "get", "server.port")
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, "8080\n", out) {
			return
		}
	})

	t.Run("will print a table as json", func(t *testing.T) {
		path := writeFile(t, "config.json", `{"server":{"port":8080}}`)

		out, _, err := run("-f", path, "get", "server")
		if !assert.Nil(t, err) {
			return
		}
		if !assert.JSONEq(t, `{"port":8080}`, out) {
			return
		}
	})

	t.Run("will print the origin", func(t *testing.T) {
		t.Run("if the origin flag is set", func(t *testing.T) {
			path := writeFile(t, "config.toml", "name = \"demo\"\n")

			out, _, err := run("-f", path, "get", "name", "--origin")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "demo\tconfig.toml\n", out) {
				return
			}
		})
	})

	t.Run("will let later files win", func(t *testing.T) {
		base := writeFile(t, "base.yaml", "value: 100\nnested:\n  x: 1\n")
		overlay := writeFile(t, "overlay.json", `{"value":123,"nested":{"y":2}}`)

		out, _, err := run("-f", base, "-f", overlay, "get", "")
		if !assert.Nil(t, err) {
			return
		}
		if !assert.JSONEq(t, `{"value":123,"nested":{"x":1,"y":2}}`, out) {
			return
		}
	})

	t.Run("will merge sources in command line order", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"value":"remote"}`))
		}))
		defer srv.Close()

		path := writeFile(t, "config.yaml", "value: local\n")

		t.Run("if a file follows a url", func(t *testing.T) {
			out, _, err := run("--url", srv.URL+"/app.json", "-f", path, "get", "value")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "local\n", out) {
				return
			}
		})

		t.Run("if a url follows a file", func(t *testing.T) {
			out, _, err := run("-f", path, "--url", srv.URL+"/app.json", "get", "value")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "remote\n", out) {
				return
			}
		})

		t.Run("if environment variables follow a file", func(t *testing.T) {
			t.Setenv("STRATA_TEST_VALUE", "env")

			out, _, err := run("-f", path, "--env-prefix", "STRATA_TEST_", "get", "value")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "env\n", out) {
				return
			}
		})

		t.Run("if a file follows environment variables", func(t *testing.T) {
			t.Setenv("STRATA_TEST_VALUE", "env")

			out, _, err := run("--env-prefix", "STRATA_TEST_", "-f", path, "get", "value")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "local\n", out) {
				return
			}
		})
	})

	t.Run("will apply overrides", func(t *testing.T) {
		path := writeFile(t, "config.yaml", "server:\n  port: 8080\n")

		out, _, err := run("-f", path, "--set", "server.port=9090", "get", "server.port")
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, "9090\n", out) {
			return
		}
	})

	t.Run("will merge remote documents", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("remote: true\n"))
		}))
		defer srv.Close()

		out, _, err := run("--url", srv.URL+"/app.yaml", "get", "remote")
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, "true\n", out) {
			return
		}
	})

	t.Run("will redact url passwords", func(t *testing.T) {
		t.Run("if the verbose flag is set", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"remote":true}`))
			}))
			defer srv.Close()

			uri := strings.Replace(srv.URL, "http://", "http://app:hunter2@", 1) + "/app.json"

			_, stderr, err := run("--url", uri, "-v", "get", "remote")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Contains(t, stderr, "app:xxxxx@") {
				return
			}
			if !assert.NotContains(t, stderr, "hunter2") {
				return
			}
		})
	})

	t.Run("will return a NotFoundError", func(t *testing.T) {
		t.Run("if the path is absent", func(t *testing.T) {
			path := writeFile(t, "config.yaml", "a: 1\n")

			_, stderr, err := run("-f", path, "get", "b")

			var nerr *strata.NotFoundError
			if !assert.ErrorAs(t, err, &nerr) {
				return
			}
			if !assert.Contains(t, stderr, "configuration key not found: b") {
				return
			}
		})
	})

	t.Run("will return a SourceError", func(t *testing.T) {
		t.Run("if a file is malformed", func(t *testing.T) {
			path := writeFile(t, "config.json", `{"a":`)

			_, _, err := run("-f", path, "get", "a")

			var serr *strata.SourceError
			if !assert.ErrorAs(t, err, &serr) {
				return
			}
			var ferr *strata.FormatError
			if !assert.ErrorAs(t, err, &ferr) {
				return
			}
		})
	})

	t.Run("will print trace spans", func(t *testing.T) {
		t.Run("if the trace flag is set", func(t *testing.T) {
			path := writeFile(t, "config.yaml", "a: 1\n")

			_, stderr, err := run("-f", path, "--trace", "get", "a")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Contains(t, stderr, "AsyncBuilder.Build") {
				return
			}
		})
	})

	t.Run("will log build details", func(t *testing.T) {
		t.Run("if the verbose flag is set", func(t *testing.T) {
			path := writeFile(t, "config.yaml", "a: 1\n")

			_, stderr, err := run("-f", path, "-v", "get", "a")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Contains(t, stderr, "built configuration") {
				return
			}
		})
	})
}

func TestDump(t *testing.T) {
	path := writeFile(t, "config.yaml", "name: demo\nserver:\n  port: 8080\n")

	t.Run("will print json", func(t *testing.T) {
		out, _, err := run("-f", path, "dump")
		if !assert.Nil(t, err) {
			return
		}

		var got map[string]any
		err = json.Unmarshal([]byte(out), &got)
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, "demo", got["name"]) {
			return
		}
	})

	t.Run("will print yaml", func(t *testing.T) {
		out, _, err := run("-f", path, "dump", "-o", "yaml")
		if !assert.Nil(t, err) {
			return
		}

		var got map[string]any
		err = yaml.Unmarshal([]byte(out), &got)
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, map[string]any{"port": 8080}, got["server"]) {
			return
		}
	})

	t.Run("will print toml", func(t *testing.T) {
		out, _, err := run("-f", path, "dump", "-o", "toml")
		if !assert.Nil(t, err) {
			return
		}
		if !assert.True(t, strings.Contains(out, `name = "demo"`)) {
			return
		}
		if !assert.Contains(t, out, "[server]") {
			return
		}
	})

	t.Run("will print a binary protobuf struct", func(t *testing.T) {
		out, _, err := run("-f", path, "dump", "-o", "protobuf")
		if !assert.Nil(t, err) {
			return
		}

		tbl, err := format.Protobuf.Parse("dump", []byte(out))
		if !assert.Nil(t, err) {
			return
		}
		server, ok := tbl.Get("server")
		if !assert.True(t, ok) {
			return
		}
		if !assert.Equal(t, map[string]any{"port": int64(8080)}, server.Interface()) {
			return
		}
	})

	t.Run("will return an UnknownOutputError", func(t *testing.T) {
		t.Run("if the output format is not supported", func(t *testing.T) {
			_, _, err := run("-f", path, "dump", "-o", "xml")

			var uerr UnknownOutputError
			if !assert.ErrorAs(t, err, &uerr) {
				return
			}
			if !assert.Equal(t, "xml", uerr.Output) {
				return
			}
		})
	})
}
