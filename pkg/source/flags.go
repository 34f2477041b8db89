// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package source

import (
	"strconv"
	"strings"

	"github.com/z5labs/strata"

	"github.com/spf13/pflag"
)

// FlagOption configures a FlagSource.
type FlagOption func(*FlagSource)

// AllFlags includes flags which were not set on the command line with
// their default values.
func AllFlags() FlagOption {
	return func(src *FlagSource) {
		src.all = true
	}
}

// FlagSource is a Source for a parsed pflag.FlagSet. Flag names are
// split on "." into nested keys, e.g. --server.port sets server.port.
type FlagSource struct {
	fs  *pflag.FlagSet
	all bool
}

// Flags returns a Source for fs. Only flags changed on the command line
// are included unless AllFlags is given.
func Flags(fs *pflag.FlagSet, opts ...FlagOption) *FlagSource {
	src := &FlagSource{fs: fs}
	for _, opt := range opts {
		opt(src)
	}
	return src
}

// String implements the fmt.Stringer interface.
func (src *FlagSource) String() string {
	return "flags"
}

// Collect implements the strata.Source interface.
func (src *FlagSource) Collect() (*strata.Table, error) {
	t := strata.NewTable()
	var err error
	visit := func(f *pflag.Flag) {
		if err != nil {
			return
		}
		var v strata.Value
		v, err = flagValue(f)
		if err != nil {
			return
		}
		t.SetPath(strings.Split(f.Name, "."), v.WithOrigin("flag --"+f.Name))
	}
	if src.all {
		src.fs.VisitAll(visit)
	} else {
		src.fs.Visit(visit)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func flagValue(f *pflag.Flag) (strata.Value, error) {
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		elems := sv.GetSlice()
		vals := make([]strata.Value, len(elems))
		for i, e := range elems {
			vals[i] = strata.String(e)
		}
		return strata.Array(vals...), nil
	}

	s := f.Value.String()
	typ := f.Value.Type()
	switch {
	case typ == "bool":
		b, err := strconv.ParseBool(s)
		if err != nil {
			return strata.Value{}, flagError(f, err)
		}
		return strata.Bool(b), nil
	case strings.HasPrefix(typ, "int"), strings.HasPrefix(typ, "uint"):
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return strata.Value{}, flagError(f, err)
		}
		return strata.Int(i), nil
	case strings.HasPrefix(typ, "float"):
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return strata.Value{}, flagError(f, err)
		}
		return strata.Float(x), nil
	}
	return strata.String(s), nil
}

func flagError(f *pflag.Flag, err error) error {
	return &strata.TypeMismatchError{
		Path:     f.Name,
		Expected: f.Value.Type(),
		Actual:   strata.KindString,
		Cause:    err,
	}
}
