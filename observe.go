// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/z5labs/strata/internal/try"
	"github.com/z5labs/strata/pkg/slogfield"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type observer struct {
	log     *slog.Logger
	tracer  trace.Tracer
	metrics metrics
}

func newObserver(o options) observer {
	return observer{
		log:     slog.New(o.logHandler),
		tracer:  o.tracer(),
		metrics: newMetrics(o.registerer),
	}
}

type collectFunc func(context.Context) (*Table, error)

// collect runs a single registration and normalizes its outcome: a nil
// table becomes empty and any failure, including a panic, becomes a
// *SourceError whose cause belongs to the error taxonomy.
func (ob observer) collect(ctx context.Context, index int, src any, f collectFunc) (*Table, error) {
	name := describe(src)
	spanCtx, span := ob.tracer.Start(ctx, "collect", trace.WithAttributes(
		attribute.Int("strata.source.index", index),
		attribute.String("strata.source.name", name),
	))
	defer span.End()

	ob.log.DebugContext(spanCtx, "collecting source", slogfield.SourceIndex(index), slogfield.SourceName(name))

	start := time.Now()
	t, err := safeCollect(spanCtx, f)
	ob.metrics.collectDuration.WithLabelValues(fmt.Sprintf("%T", src), result(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		err = &SourceError{
			Index:  index,
			Source: name,
			Cause:  classify(name, err),
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ob.log.ErrorContext(
			spanCtx,
			"failed to collect source",
			slogfield.SourceIndex(index),
			slogfield.SourceName(name),
			slogfield.Error(err),
		)
		return nil, err
	}
	if t == nil {
		t = NewTable()
	}
	return t, nil
}

func safeCollect(ctx context.Context, f collectFunc) (t *Table, err error) {
	defer try.Recover(&err)
	return f(ctx)
}

func (ob observer) finish(ctx context.Context, span trace.Span, mode string, start time.Time, err error) {
	ob.metrics.buildDuration.WithLabelValues(mode, result(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ob.log.ErrorContext(ctx, "failed to build configuration", slogfield.String("mode", mode), slogfield.Error(err))
		return
	}
	ob.log.InfoContext(ctx, "built configuration", slogfield.String("mode", mode), slogfield.Duration("duration", time.Since(start)))
}
