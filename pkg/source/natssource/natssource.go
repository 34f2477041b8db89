// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package natssource provides a strata.AsyncSource which reads every key
// of a NATS JetStream key value bucket.
package natssource

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/z5labs/strata"

	"github.com/nats-io/nats.go/jetstream"
)

// KeyValue is the subset of jetstream.KeyValue used by Source.
type KeyValue interface {
	Bucket() string
	Keys(ctx context.Context, opts ...jetstream.WatchOpt) ([]string, error)
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
}

// Option configures a Source.
type Option func(*Source)

// Separator sets the string bucket keys are split on to build nested
// tables. The default is ".".
func Separator(sep string) Option {
	return func(s *Source) {
		s.sep = sep
	}
}

// WithFormat parses each entry with f instead of keeping it as a string.
func WithFormat(f strata.Format) Option {
	return func(s *Source) {
		s.format = f
	}
}

// Source is a strata.AsyncSource for a JetStream key value bucket.
type Source struct {
	kv     KeyValue
	sep    string
	format strata.Format
}

// New returns a Source which reads all of the keys in kv.
func New(kv KeyValue, opts ...Option) *Source {
	s := &Source{
		kv:  kv,
		sep: ".",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// String implements the fmt.Stringer interface.
func (s *Source) String() string {
	return "nats " + s.kv.Bucket()
}

// CollectContext implements the strata.AsyncSource interface.
func (s *Source) CollectContext(ctx context.Context) (*strata.Table, error) {
	name := s.String()
	tbl := strata.NewTable()

	keys, err := s.kv.Keys(ctx)
	if errors.Is(err, jetstream.ErrNoKeysFound) {
		return tbl, nil
	}
	if err != nil {
		return nil, strata.Foreign(name, err)
	}
	slices.Sort(keys)

	for _, k := range keys {
		entry, err := s.kv.Get(ctx, k)
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, strata.Foreign(name, err)
		}

		v, err := s.value(name+"/"+k, entry.Value())
		if err != nil {
			return nil, err
		}
		names := split(k, s.sep)
		if len(names) == 0 {
			continue
		}
		tbl.SetPath(names, v)
	}
	return tbl, nil
}

func (s *Source) value(origin string, raw []byte) (strata.Value, error) {
	if s.format == nil {
		return strata.String(string(raw)).WithOrigin(origin), nil
	}
	t, err := s.format.Parse(origin, raw)
	if err != nil {
		return strata.Value{}, strata.Foreign(origin, err)
	}
	return strata.TableValue(t).WithOrigin(origin), nil
}

func split(k, sep string) []string {
	parts := strings.Split(k, sep)
	names := parts[:0]
	for _, p := range parts {
		if p != "" {
			names = append(names, p)
		}
	}
	return names
}
