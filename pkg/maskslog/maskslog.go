// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package maskslog provides a slog.Handler which masks sensitive
// attributes, e.g. credentials embedded in source URLs.
package maskslog

import (
	"context"
	"log/slog"
	"net/url"
)

// MaskFunc rewrites an attribute before it is logged.
type MaskFunc func(slog.Attr) slog.Attr

// Option configures a Handler.
type Option func(map[string]MaskFunc)

// Attr masks every attribute named key with f.
func Attr(key string, f MaskFunc) Option {
	return func(m map[string]MaskFunc) {
		m[key] = f
	}
}

// Anonymous replaces the attribute value with "****".
func Anonymous(a slog.Attr) slog.Attr {
	return slog.String(a.Key, "****")
}

// RedactURL replaces the password of a URL valued attribute with "xxxxx".
// Values which do not parse as a URL are anonymized.
func RedactURL(a slog.Attr) slog.Attr {
	u, err := url.Parse(a.Value.String())
	if err != nil {
		return Anonymous(a)
	}
	return slog.String(a.Key, u.Redacted())
}

// Handler is a slog.Handler which masks attributes before passing
// records on to another handler. Attributes inside groups are matched
// by their own key.
type Handler struct {
	slog  slog.Handler
	masks map[string]MaskFunc
}

// NewHandler returns a Handler which wraps h.
func NewHandler(h slog.Handler, opts ...Option) *Handler {
	masks := make(map[string]MaskFunc)
	for _, opt := range opts {
		opt(masks)
	}
	return &Handler{slog: h, masks: masks}
}

// Enabled implements the slog.Handler interface.
func (h *Handler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.slog.Enabled(ctx, lvl)
}

// Handle implements the slog.Handler interface.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if len(h.masks) == 0 {
		return h.slog.Handle(ctx, record)
	}

	attrs := make([]slog.Attr, 0, record.NumAttrs())
	record.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.mask(a))
		return true
	})

	r := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	r.AddAttrs(attrs...)
	return h.slog.Handle(ctx, r)
}

func (h *Handler) mask(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		attrs := make([]slog.Attr, len(group))
		for i, ga := range group {
			attrs[i] = h.mask(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(attrs...)}
	}
	f, ok := h.masks[a.Key]
	if !ok {
		return a
	}
	return f(a)
}

// WithAttrs implements the slog.Handler interface.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.mask(a)
	}
	return &Handler{slog: h.slog.WithAttrs(masked), masks: h.masks}
}

// WithGroup implements the slog.Handler interface.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{slog: h.slog.WithGroup(name), masks: h.masks}
}
