// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"context"
	"fmt"
)

// Source produces a partial configuration synchronously. Collect may
// block the calling goroutine. It is invoked once per registration per build.
type Source interface {
	Collect() (*Table, error)
}

// SourceFunc is a functional implementation of the Source interface.
type SourceFunc func() (*Table, error)

// Collect implements the Source interface.
func (f SourceFunc) Collect() (*Table, error) {
	return f()
}

// AsyncSource produces a partial configuration while honouring ctx, so
// that an AsyncBuilder can run it alongside other sources and abandon it
// when the build is cancelled.
//
// Implementations wrap transport and parse failures with [Foreign] and
// return the parsed table as is. Merging is done by the builder.
type AsyncSource interface {
	CollectContext(ctx context.Context) (*Table, error)
}

// AsyncSourceFunc is a functional implementation of the AsyncSource interface.
type AsyncSourceFunc func(context.Context) (*Table, error)

// CollectContext implements the AsyncSource interface.
func (f AsyncSourceFunc) CollectContext(ctx context.Context) (*Table, error) {
	return f(ctx)
}

// describe names a source for errors and logs. Sources implementing
// fmt.Stringer describe themselves.
func describe(src any) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", src)
}
