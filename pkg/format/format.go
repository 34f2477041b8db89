// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package format provides the built-in strata.Format implementations and a
// registry for looking them up by name or file extension.
package format

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/z5labs/strata"
)

var (
	registryMu sync.RWMutex
	byTag      = map[string]strata.Format{}
	byExt      = map[string]string{}
)

func init() {
	Register("json", JSON, ".json")
	Register("yaml", YAML, ".yaml", ".yml")
	Register("toml", TOML, ".toml", ".tml")
	Register("protobuf", Protobuf, ".pb", ".binpb")
}

// Register makes f available under tag and the given file extensions.
// Registering an existing tag or extension replaces it.
func Register(tag string, f strata.Format, exts ...string) {
	registryMu.Lock()
	defer registryMu.Unlock()

	tag = strings.ToLower(tag)
	byTag[tag] = f
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		byExt[ext] = tag
	}
}

// Lookup returns the Format registered under tag.
func Lookup(tag string) (strata.Format, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	f, ok := byTag[strings.ToLower(tag)]
	return f, ok
}

// ForPath returns the Format registered for the extension of path along
// with its tag.
func ForPath(path string) (tag string, f strata.Format, ok bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	tag, ok = byExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", nil, false
	}
	f, ok = byTag[tag]
	return tag, f, ok
}

// Tags returns the registered tags in sorted order.
func Tags() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	tags := make([]string, 0, len(byTag))
	for tag := range byTag {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

func blank(raw []byte) bool {
	return len(bytes.TrimSpace(raw)) == 0
}

// position converts a byte offset in raw into a 1-based line and column.
func position(raw []byte, offset int64) (line, col int) {
	if offset > int64(len(raw)) {
		offset = int64(len(raw))
	}
	prefix := raw[:offset]
	line = bytes.Count(prefix, []byte{'\n'}) + 1
	col = int(offset) - bytes.LastIndexByte(prefix, '\n')
	return line, col
}

func notTable(format, origin string, kind strata.Kind) error {
	return &strata.FormatError{
		Format: format,
		Origin: origin,
		Reason: "top level value must be a table, got " + kind.String(),
	}
}
