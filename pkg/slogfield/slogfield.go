// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package slogfield standardizes the attributes strata attaches to its logs.
package slogfield

import (
	"log/slog"
	"time"
)

// Any returns an slog.Attr for the supplied value.
func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

// Bool returns an slog.Attr for a bool.
func Bool(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

// Duration returns an slog.Attr for a time.Duration.
func Duration(key string, d time.Duration) slog.Attr {
	return slog.Duration(key, d)
}

// Error returns an slog.Attr for a error.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// String returns an slog.Attr for a string.
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Strings returns an slog.Attr for a slice of strings.
func Strings(key string, values []string) slog.Attr {
	return slog.Any(key, values)
}

// Int returns an slog.Attr for a int.
func Int(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// SourceIndex returns an slog.Attr for the registration index of a source.
func SourceIndex(i int) slog.Attr {
	return slog.Int("source_index", i)
}

// SourceName returns an slog.Attr for the description of a source.
func SourceName(name string) slog.Attr {
	return slog.String("source", name)
}

// Origin returns an slog.Attr for where a payload was read from,
// e.g. a file path or URL.
func Origin(origin string) slog.Attr {
	return slog.String("origin", origin)
}

// Path returns an slog.Attr for a configuration key path.
func Path(path string) slog.Attr {
	return slog.String("path", path)
}
