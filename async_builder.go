// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"context"
	"time"

	"github.com/z5labs/strata/internal/fixedpool"
)

type registration struct {
	src     any
	collect collectFunc
}

// AsyncBuilder assembles a Config from Sources and AsyncSources which are
// collected concurrently.
//
// An AsyncBuilder is not safe for concurrent use while sources are being added.
type AsyncBuilder struct {
	opts      options
	obs       observer
	regs      []registration
	defaults  []assignment
	overrides []assignment
}

// NewAsyncBuilder returns an empty AsyncBuilder.
func NewAsyncBuilder(opts ...AsyncOption) *AsyncBuilder {
	o := newOptions()
	for _, opt := range opts {
		opt.applyAsync(&o)
	}
	return &AsyncBuilder{
		opts: o,
		obs:  newObserver(o),
	}
}

// AddSource registers synchronous sources. Each is run on its own goroutine
// during Build.
func (b *AsyncBuilder) AddSource(srcs ...Source) *AsyncBuilder {
	for _, src := range srcs {
		b.regs = append(b.regs, registration{
			src: src,
			collect: func(context.Context) (*Table, error) {
				return src.Collect()
			},
		})
	}
	return b
}

// AddAsyncSource registers asynchronous sources.
func (b *AsyncBuilder) AddAsyncSource(srcs ...AsyncSource) *AsyncBuilder {
	for _, src := range srcs {
		b.regs = append(b.regs, registration{
			src:     src,
			collect: src.CollectContext,
		})
	}
	return b
}

// SetDefault records a value which every source can replace. Invalid
// paths or values are reported by Build.
func (b *AsyncBuilder) SetDefault(path string, value any) *AsyncBuilder {
	b.defaults = append(b.defaults, assignment{path: path, value: value})
	return b
}

// SetOverride records a value which replaces whatever the sources produce.
func (b *AsyncBuilder) SetOverride(path string, value any) *AsyncBuilder {
	b.overrides = append(b.overrides, assignment{path: path, value: value})
	return b
}

// Build collects every registered source concurrently and, once all of
// them have finished, merges their tables in registration order. The
// order in which sources finish never affects the result.
//
// The first failing source cancels the context passed to the others and
// its [*SourceError] is returned. If ctx is done by the time collection
// ends, Build returns a [*ForeignError] wrapping ctx.Err() instead. No
// Config is produced in either case.
func (b *AsyncBuilder) Build(ctx context.Context) (cfg *Config, err error) {
	spanCtx, span := b.obs.tracer.Start(ctx, "AsyncBuilder.Build")
	defer span.End()

	start := time.Now()
	defer func() {
		b.obs.finish(spanCtx, span, "async", start, err)
	}()

	root, err := layer("default", b.defaults)
	if err != nil {
		return nil, err
	}

	tasks := make([]fixedpool.Task[*Table], len(b.regs))
	for i, reg := range b.regs {
		tasks[i] = func(ctx context.Context) (*Table, error) {
			return b.obs.collect(ctx, i, reg.src, reg.collect)
		}
	}
	tables, err := fixedpool.Collect(spanCtx, b.opts.maxConcurrency, tasks...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, Foreign("build", ctxErr)
	}
	if err != nil {
		return nil, classify("build", err)
	}

	for _, t := range tables {
		root.mergeFrom(t)
	}
	over, err := layer("override", b.overrides)
	if err != nil {
		return nil, err
	}
	root.mergeFrom(over)
	return newConfig(root), nil
}
