// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package vipersource adapts a *viper.Viper into a strata.Source.
package vipersource

import (
	"github.com/z5labs/strata"

	"github.com/spf13/viper"
)

// Source is a strata.Source for the settings held by a viper instance.
type Source struct {
	name string
	v    *viper.Viper
}

// New returns a Source which yields v.AllSettings() each time it is
// collected. Values are attributed to "viper".
func New(v *viper.Viper) *Source {
	return &Source{name: "viper", v: v}
}

// Named is like New but attributes values to name.
func Named(name string, v *viper.Viper) *Source {
	return &Source{name: name, v: v}
}

// String implements the fmt.Stringer interface.
func (s *Source) String() string {
	return s.name
}

// Collect implements the strata.Source interface.
func (s *Source) Collect() (*strata.Table, error) {
	t, err := strata.TableOf(s.name, s.v.AllSettings())
	if err != nil {
		return nil, strata.Messagef("%s: %s", s.name, err)
	}
	return t, nil
}
