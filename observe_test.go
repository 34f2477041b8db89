// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type namedSource struct {
	name string
	err  error
}

func (s namedSource) String() string { return s.name }

func (s namedSource) Collect() (*Table, error) {
	return NewTable().Set(s.name, Bool(true)), s.err
}

func TestBuilder_tracing(t *testing.T) {
	t.Run("will record a span per source", func(t *testing.T) {
		exp := tracetest.NewInMemoryExporter()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))

		_, err := NewBuilder(TracerProvider(tp)).
			AddSource(namedSource{name: "env"}, namedSource{name: "file"}).
			Build()
		if !assert.Nil(t, err) {
			return
		}

		spans := exp.GetSpans()
		if !assert.Len(t, spans, 3) {
			return
		}
		if !assert.Equal(t, "collect", spans[0].Name) {
			return
		}
		if !assert.Contains(t, spans[0].Attributes, attribute.String("strata.source.name", "env")) {
			return
		}
		if !assert.Contains(t, spans[1].Attributes, attribute.Int("strata.source.index", 1)) {
			return
		}
		if !assert.Equal(t, "Builder.Build", spans[2].Name) {
			return
		}
		if !assert.Equal(t, spans[2].SpanContext.SpanID(), spans[0].Parent.SpanID()) {
			return
		}
	})

	t.Run("will record failures on the spans", func(t *testing.T) {
		exp := tracetest.NewInMemoryExporter()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))

		_, err := NewAsyncBuilder(TracerProvider(tp)).
			AddSource(namedSource{name: "env", err: errors.New("boom")}).
			Build(context.Background())
		if !assert.Error(t, err) {
			return
		}

		spans := exp.GetSpans()
		if !assert.Len(t, spans, 2) {
			return
		}
		for _, span := range spans {
			if !assert.Equal(t, codes.Error, span.Status.Code) {
				return
			}
		}
		if !assert.Equal(t, "AsyncBuilder.Build", spans[1].Name) {
			return
		}
	})
}

func TestBuilder_metrics(t *testing.T) {
	t.Run("will observe build and collect durations", func(t *testing.T) {
		reg := prometheus.NewRegistry()

		_, err := NewBuilder(Registerer(reg)).
			AddSource(namedSource{name: "a"}, namedSource{name: "b"}).
			Build()
		if !assert.Nil(t, err) {
			return
		}
		_, err = NewBuilder(Registerer(reg)).
			AddSource(namedSource{name: "a", err: errors.New("boom")}).
			Build()
		if !assert.Error(t, err) {
			return
		}

		n, err := testutil.GatherAndCount(reg, "strata_build_duration_seconds")
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, 2, n) {
			return
		}
		n, err = testutil.GatherAndCount(reg, "strata_source_collect_duration_seconds")
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, 2, n) {
			return
		}
	})
}

func TestBuilder_logging(t *testing.T) {
	t.Run("will log source failures", func(t *testing.T) {
		var buf bytes.Buffer
		h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

		_, err := NewBuilder(LogHandler(h)).
			AddSource(namedSource{name: "env", err: errors.New("boom")}).
			Build()
		if !assert.Error(t, err) {
			return
		}

		var records []map[string]any
		dec := json.NewDecoder(&buf)
		for dec.More() {
			var rec map[string]any
			if !assert.Nil(t, dec.Decode(&rec)) {
				return
			}
			records = append(records, rec)
		}
		if !assert.Len(t, records, 3) {
			return
		}
		if !assert.Equal(t, "collecting source", records[0]["msg"]) {
			return
		}
		if !assert.Equal(t, "ERROR", records[1]["level"]) {
			return
		}
		if !assert.Equal(t, "env", records[1]["source"]) {
			return
		}
		if !assert.Equal(t, "failed to build configuration", records[2]["msg"]) {
			return
		}
	})
}
