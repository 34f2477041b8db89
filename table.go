// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"iter"
	"slices"
)

// Table maps string keys to Values and remembers the order in which keys
// were first inserted. A nil *Table behaves like an empty table for reads.
type Table struct {
	keys []string
	m    map[string]Value
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{m: make(map[string]Value)}
}

// Set stores v under k. Replacing an existing key keeps its position.
func (t *Table) Set(k string, v Value) *Table {
	if t.m == nil {
		t.m = make(map[string]Value)
	}
	if _, exists := t.m[k]; !exists {
		t.keys = append(t.keys, k)
	}
	t.m[k] = v
	return t
}

// Get returns the Value stored under k.
func (t *Table) Get(k string) (Value, bool) {
	if t == nil {
		return Value{}, false
	}
	v, ok := t.m[k]
	return v, ok
}

// Len returns the number of keys in t.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns the keys of t in insertion order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.keys)
}

// All iterates over the entries of t in insertion order.
func (t *Table) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if t == nil {
			return
		}
		for _, k := range t.keys {
			if !yield(k, t.m[k]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	out := &Table{
		keys: make([]string, 0, t.Len()),
		m:    make(map[string]Value, t.Len()),
	}
	if t == nil {
		return out
	}
	for _, k := range t.keys {
		out.keys = append(out.keys, k)
		out.m[k] = t.m[k].clone()
	}
	return out
}

// Equal reports whether t and other hold the same keys and values,
// regardless of key order.
func (t *Table) Equal(other *Table) bool {
	if t.Len() != other.Len() {
		return false
	}
	for k, v := range t.All() {
		ov, ok := other.Get(k)
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Interface converts t into a map[string]any of plain Go values.
func (t *Table) Interface() map[string]any {
	out := make(map[string]any, t.Len())
	for k, v := range t.All() {
		out[k] = v.Interface()
	}
	return out
}

// TableOf converts m into a Table whose values are all attributed to
// origin. Keys are inserted in sorted order so the result does not
// depend on map iteration order.
func TableOf(origin string, m map[string]any) (*Table, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	t := NewTable()
	for _, k := range keys {
		v, err := ValueOf(m[k])
		if err != nil {
			return nil, err
		}
		t.Set(k, v.withOriginDeep(origin))
	}
	return t, nil
}

// Merge deep merges overlay onto base and returns the result as a new
// Table; neither input is modified.
//
// For a key present in both, a Table in base and a Table in overlay are
// merged recursively. In every other case the overlay value replaces the
// base value outright.
func Merge(base, overlay *Table) *Table {
	out := base.Clone()
	out.mergeFrom(overlay)
	return out
}

// mergeFrom merges overlay into t in place. t must own all of its nested
// tables, which holds for any Table produced by Clone.
func (t *Table) mergeFrom(overlay *Table) {
	for k, ov := range overlay.All() {
		cur, exists := t.m[k]
		if exists && cur.kind == KindTable && ov.kind == KindTable {
			cur.tbl.mergeFrom(ov.tbl)
			continue
		}
		t.Set(k, ov.clone())
	}
}

// SetPath stores v under the nested keys names, creating intermediate
// tables as needed. A value in the way which is not a table is replaced.
// Nested tables already held by t are modified in place.
func (t *Table) SetPath(names []string, v Value) *Table {
	if len(names) == 0 {
		return t
	}
	cur := t
	for _, name := range names[:len(names)-1] {
		next, ok := cur.Get(name)
		if !ok || next.kind != KindTable || next.tbl == nil {
			next = Value{kind: KindTable, origin: v.origin, tbl: NewTable()}
			cur.Set(name, next)
		}
		cur = next.tbl
	}
	cur.Set(names[len(names)-1], v)
	return t
}
