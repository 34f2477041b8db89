// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package koanfsource adapts koanf providers and parsers into a
// strata.Source.
package koanfsource

import (
	"github.com/z5labs/strata"

	"github.com/knadh/koanf/v2"
)

// Option configures a Source.
type Option func(*Source)

// Name sets the origin reported for every value. The default is "koanf".
func Name(name string) Option {
	return func(s *Source) {
		s.name = name
	}
}

// Source is a strata.Source which loads its values through koanf.
type Source struct {
	name     string
	provider koanf.Provider
	parser   koanf.Parser
}

// New returns a Source which loads p with parser. parser may be nil for
// providers which return a map directly.
func New(p koanf.Provider, parser koanf.Parser, opts ...Option) *Source {
	s := &Source{
		name:     "koanf",
		provider: p,
		parser:   parser,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// String implements the fmt.Stringer interface.
func (s *Source) String() string {
	return s.name
}

// Collect implements the strata.Source interface.
func (s *Source) Collect() (*strata.Table, error) {
	k := koanf.New(".")
	err := k.Load(s.provider, s.parser)
	if err != nil {
		return nil, strata.Foreign(s.name, err)
	}

	t, err := strata.TableOf(s.name, k.Raw())
	if err != nil {
		return nil, strata.Messagef("%s: %s", s.name, err)
	}
	return t, nil
}
