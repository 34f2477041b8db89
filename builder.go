// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"context"
	"slices"
	"time"
)

// Builder assembles a Config from synchronous Sources only. Use
// [Builder.Async] or [NewAsyncBuilder] when any source must be awaited.
//
// A Builder is not safe for concurrent use while sources are being added.
type Builder struct {
	opts      options
	obs       observer
	sources   []Source
	defaults  []assignment
	overrides []assignment
}

// NewBuilder returns an empty Builder.
func NewBuilder(opts ...Option) *Builder {
	o := newOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}
	return &Builder{
		opts: o,
		obs:  newObserver(o),
	}
}

// AddSource registers sources in order. Registering the same Source
// twice collects it twice.
func (b *Builder) AddSource(srcs ...Source) *Builder {
	b.sources = append(b.sources, srcs...)
	return b
}

// SetDefault records a value which every source can replace. Invalid
// paths or values are reported by Build.
func (b *Builder) SetDefault(path string, value any) *Builder {
	b.defaults = append(b.defaults, assignment{path: path, value: value})
	return b
}

// SetOverride records a value which replaces whatever the sources produce.
func (b *Builder) SetOverride(path string, value any) *Builder {
	b.overrides = append(b.overrides, assignment{path: path, value: value})
	return b
}

// Async returns an AsyncBuilder holding the same options and registrations.
// Further changes to either builder are not seen by the other.
func (b *Builder) Async() *AsyncBuilder {
	ab := &AsyncBuilder{
		opts:      b.opts,
		obs:       b.obs,
		defaults:  slices.Clone(b.defaults),
		overrides: slices.Clone(b.overrides),
	}
	ab.AddSource(b.sources...)
	return ab
}

// Build collects every source in registration order on the calling
// goroutine and merges the results over the defaults, followed by the
// overrides. The first failure aborts the build.
//
// Every error returned implements [Error]. Source failures are reported
// as a [*SourceError].
func (b *Builder) Build() (cfg *Config, err error) {
	ctx, span := b.obs.tracer.Start(context.Background(), "Builder.Build")
	defer span.End()

	start := time.Now()
	defer func() {
		b.obs.finish(ctx, span, "sync", start, err)
	}()

	root, err := layer("default", b.defaults)
	if err != nil {
		return nil, err
	}
	for i, src := range b.sources {
		t, err := b.obs.collect(ctx, i, src, func(context.Context) (*Table, error) {
			return src.Collect()
		})
		if err != nil {
			return nil, err
		}
		root.mergeFrom(t)
	}
	over, err := layer("override", b.overrides)
	if err != nil {
		return nil, err
	}
	root.mergeFrom(over)
	return newConfig(root), nil
}
