// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otelslog correlates slog records with OpenTelemetry spans.
package otelslog

import (
	"context"
	"log/slog"

	"github.com/z5labs/strata/pkg/slogfield"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Handler.
type Option func(*Handler)

// SpanEvents also records every record at or above lvl as an event on
// the span active in the record's context.
func SpanEvents(lvl slog.Level) Option {
	return func(h *Handler) {
		h.events = true
		h.eventLevel = lvl
	}
}

// Handler is a slog.Handler which adds an "otel" group holding the
// trace id, span id and sampling decision of the span active in the
// record's context. Records without a valid span pass through unchanged.
type Handler struct {
	slog       slog.Handler
	events     bool
	eventLevel slog.Level
}

// NewHandler wraps h. A *Handler given without options is returned as is.
func NewHandler(h slog.Handler, opts ...Option) *Handler {
	if oh, ok := h.(*Handler); ok && len(opts) == 0 {
		return oh
	}
	oh := &Handler{slog: h}
	for _, opt := range opts {
		opt(oh)
	}
	return oh
}

// New is shorthand for slog.New(NewHandler(h, opts...)).
func New(h slog.Handler, opts ...Option) *slog.Logger {
	return slog.New(NewHandler(h, opts...))
}

// Enabled implements the slog.Handler interface.
func (h *Handler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.slog.Enabled(ctx, lvl)
}

// Handle implements the slog.Handler interface.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	span := trace.SpanFromContext(ctx)
	sc := span.SpanContext()
	if !sc.IsValid() {
		return h.slog.Handle(ctx, record)
	}

	if h.events && record.Level >= h.eventLevel && span.IsRecording() {
		span.AddEvent(record.Message, trace.WithAttributes(
			attribute.String("log.severity", record.Level.String()),
		))
	}

	r := record.Clone()
	r.AddAttrs(slog.Group(
		"otel",
		slogfield.String("trace_id", sc.TraceID().String()),
		slogfield.String("span_id", sc.SpanID().String()),
		slogfield.Bool("sampled", sc.IsSampled()),
	))
	return h.slog.Handle(ctx, r)
}

// WithAttrs implements the slog.Handler interface.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.slog = h.slog.WithAttrs(attrs)
	return &nh
}

// WithGroup implements the slog.Handler interface.
func (h *Handler) WithGroup(name string) slog.Handler {
	nh := *h
	nh.slog = h.slog.WithGroup(name)
	return &nh
}
