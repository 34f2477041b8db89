// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package source

import (
	"errors"
	"io"
	"io/fs"

	"github.com/z5labs/strata"
	"github.com/z5labs/strata/pkg/configtmpl"
	"github.com/z5labs/strata/pkg/format"
)

// FileOption configures a FileSource.
type FileOption func(*FileSource)

// WithFormat sets the Format used to parse the file instead of picking
// one by its extension.
func WithFormat(f strata.Format) FileOption {
	return func(fs *FileSource) {
		fs.format = f
	}
}

// Optional makes a missing file yield an empty table instead of an error.
func Optional() FileOption {
	return func(fs *FileSource) {
		fs.optional = true
	}
}

// Templated renders the file as a text/template before parsing it.
func Templated(opts ...configtmpl.Option) FileOption {
	return func(fs *FileSource) {
		fs.templated = true
		fs.tmplOpts = opts
	}
}

// FileSource is a Source for a file in an fs.FS.
type FileSource struct {
	fsys      fs.FS
	path      string
	format    strata.Format
	optional  bool
	templated bool
	tmplOpts  []configtmpl.Option
}

// File returns a Source which reads path from fsys every time it is
// collected. Unless WithFormat is given, the format is chosen from the
// file extension with format.ForPath.
func File(fsys fs.FS, path string, opts ...FileOption) *FileSource {
	src := &FileSource{
		fsys: fsys,
		path: path,
	}
	for _, opt := range opts {
		opt(src)
	}
	return src
}

// String implements the fmt.Stringer interface.
func (src *FileSource) String() string {
	return src.path
}

// Collect implements the strata.Source interface.
func (src *FileSource) Collect() (*strata.Table, error) {
	f := src.format
	if f == nil {
		var ok bool
		_, f, ok = format.ForPath(src.path)
		if !ok {
			return nil, strata.Messagef("unable to determine the format of %s", src.path)
		}
	}

	file, err := src.fsys.Open(src.path)
	if errors.Is(err, fs.ErrNotExist) && src.optional {
		return strata.NewTable(), nil
	}
	if err != nil {
		return nil, strata.Foreign(src.path, err)
	}

	var r io.Reader = file
	if src.templated {
		r = configtmpl.NewRenderer(src.path, file, src.tmplOpts...)
	}
	raw, err := readAll(r)
	if err != nil {
		return nil, strata.Foreign(src.path, err)
	}
	return f.Parse(src.path, raw)
}
