// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"log/slog"

	"github.com/z5labs/strata/pkg/noop"
	"github.com/z5labs/strata/pkg/otelslog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type options struct {
	logHandler     slog.Handler
	tracerProvider trace.TracerProvider
	registerer     prometheus.Registerer
	maxConcurrency int
}

func newOptions() options {
	return options{
		logHandler: otelslog.NewHandler(noop.LogHandler{}),
	}
}

// AsyncOption configures an AsyncBuilder.
type AsyncOption interface {
	applyAsync(*options)
}

// Option configures a Builder or an AsyncBuilder.
type Option interface {
	AsyncOption
	apply(*options)
}

type commonOptionFunc func(*options)

func (f commonOptionFunc) apply(o *options) {
	f(o)
}

func (f commonOptionFunc) applyAsync(o *options) {
	f(o)
}

type asyncOptionFunc func(*options)

func (f asyncOptionFunc) applyAsync(o *options) {
	f(o)
}

// LogHandler configures the slog.Handler used for build logs. Records are
// correlated with the active span. The default discards everything.
func LogHandler(h slog.Handler) Option {
	return commonOptionFunc(func(o *options) {
		o.logHandler = otelslog.NewHandler(h)
	})
}

// TracerProvider configures where build spans are sent. The default is
// the global provider registered with go.opentelemetry.io/otel.
func TracerProvider(tp trace.TracerProvider) Option {
	return commonOptionFunc(func(o *options) {
		o.tracerProvider = tp
	})
}

// Registerer configures where build metrics are registered. Without it
// no metrics are registered.
func Registerer(reg prometheus.Registerer) Option {
	return commonOptionFunc(func(o *options) {
		o.registerer = reg
	})
}

// MaxConcurrency limits how many sources an AsyncBuilder collects at once.
// Zero, the default, means no limit.
func MaxConcurrency(n uint) AsyncOption {
	return asyncOptionFunc(func(o *options) {
		o.maxConcurrency = int(n)
	})
}

func (o options) tracer() trace.Tracer {
	if o.tracerProvider == nil {
		return otel.Tracer("github.com/z5labs/strata")
	}
	return o.tracerProvider.Tracer("github.com/z5labs/strata")
}
