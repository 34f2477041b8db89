// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package source

import (
	"os"
	"slices"
	"strings"

	"github.com/z5labs/strata"
)

// EnvOption configures an EnvSource.
type EnvOption func(*EnvSource)

// Prefix only keeps variables starting with p and strips it from their names.
func Prefix(p string) EnvOption {
	return func(src *EnvSource) {
		src.prefix = p
	}
}

// Separator splits variable names on sep into nested keys, e.g. with
// "__" the variable SERVER__PORT sets server.port.
func Separator(sep string) EnvOption {
	return func(src *EnvSource) {
		src.separator = sep
	}
}

// KeepCase stops variable names from being lower cased.
func KeepCase() EnvOption {
	return func(src *EnvSource) {
		src.keepCase = true
	}
}

// Environ replaces os.Environ as the provider of KEY=VALUE pairs.
func Environ(f func() []string) EnvOption {
	return func(src *EnvSource) {
		src.environ = f
	}
}

// EnvSource is a Source for environment variables. Every value is a
// string; typed access relies on coercion when reading the Config.
type EnvSource struct {
	environ   func() []string
	prefix    string
	separator string
	keepCase  bool
}

// Env returns a Source for the process environment.
func Env(opts ...EnvOption) *EnvSource {
	src := &EnvSource{
		environ: os.Environ,
	}
	for _, opt := range opts {
		opt(src)
	}
	return src
}

// String implements the fmt.Stringer interface.
func (src *EnvSource) String() string {
	if src.prefix == "" {
		return "env"
	}
	return "env(" + src.prefix + "*)"
}

// Collect implements the strata.Source interface.
//
// Variables are applied in sorted order, so a nested key such as
// A__B replaces a scalar A.
func (src *EnvSource) Collect() (*strata.Table, error) {
	pairs := slices.Clone(src.environ())
	slices.Sort(pairs)

	origin := src.String()
	t := strata.NewTable()
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name, ok := strings.CutPrefix(k, src.prefix)
		if !ok || name == "" {
			continue
		}
		if !src.keepCase {
			name = strings.ToLower(name)
		}

		names := []string{name}
		if src.separator != "" {
			names = strings.Split(name, src.separator)
		}
		if slices.Contains(names, "") {
			continue
		}
		t.SetPath(names, strata.String(v).WithOrigin(origin))
	}
	return t, nil
}
