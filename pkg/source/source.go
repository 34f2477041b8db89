// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package source provides synchronous strata.Source implementations for
// in-memory maps, readers, files, environment variables and flags.
package source

import (
	"io"
	"sync"

	"github.com/z5labs/strata"
	"github.com/z5labs/strata/internal/try"
)

// MapSource is a Source for a map of native Go values.
type MapSource struct {
	m map[string]any
}

// Map returns a Source which yields m. Values are converted with
// strata.ValueOf when collected.
func Map(m map[string]any) MapSource {
	return MapSource{m: m}
}

// String implements the fmt.Stringer interface.
func (MapSource) String() string {
	return "map"
}

// Collect implements the strata.Source interface.
func (src MapSource) Collect() (*strata.Table, error) {
	t, err := strata.TableOf("map", src.m)
	if err != nil {
		return nil, strata.Messagef("map source: %s", err)
	}
	return t, nil
}

// ReaderSource is a Source for a payload read from an io.Reader.
type ReaderSource struct {
	origin string
	r      io.Reader
	format strata.Format

	readOnce sync.Once
	raw      []byte
	readErr  error
}

// Reader returns a Source which reads r to completion and parses the
// payload with f. The payload is read once and reused if the source is
// collected again. r is closed after reading if it implements io.Closer.
func Reader(origin string, r io.Reader, f strata.Format) *ReaderSource {
	return &ReaderSource{
		origin: origin,
		r:      r,
		format: f,
	}
}

// String implements the fmt.Stringer interface.
func (src *ReaderSource) String() string {
	return src.origin
}

// Collect implements the strata.Source interface.
func (src *ReaderSource) Collect() (*strata.Table, error) {
	src.readOnce.Do(func() {
		src.raw, src.readErr = readAll(src.r)
	})
	if src.readErr != nil {
		return nil, strata.Foreign(src.origin, src.readErr)
	}
	return src.format.Parse(src.origin, src.raw)
}

func readAll(r io.Reader) (b []byte, err error) {
	defer try.Close(&err, r)
	return io.ReadAll(r)
}
