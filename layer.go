// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"github.com/z5labs/strata/pkg/key"
)

type assignment struct {
	path  string
	value any
}

// layer builds the table for a list of programmatic assignments, e.g.
// defaults or overrides. Later assignments win.
func layer(origin string, as []assignment) (*Table, error) {
	t := NewTable()
	for _, a := range as {
		chain, err := key.Parse(a.path)
		if err != nil {
			return nil, Messagef("invalid %s path: %s", origin, err)
		}
		v, err := ValueOf(a.value)
		if err != nil {
			return nil, Messagef("invalid %s value for %q: %s", origin, a.path, err)
		}
		v = v.clone().withOriginDeep(origin)

		if len(chain) == 0 {
			if v.kind != KindTable {
				return nil, Messagef("%s for the root must be a table, got %s", origin, v.kind)
			}
			t.mergeFrom(v.tbl)
			continue
		}

		for i := len(chain) - 1; i >= 0; i-- {
			name, ok := chain[i].(key.Name)
			if !ok {
				return nil, Messagef("%s path %q must not contain array indexes", origin, a.path)
			}
			if i == 0 {
				t.mergeFrom(NewTable().Set(string(name), v))
				break
			}
			v = Value{kind: KindTable, origin: origin, tbl: NewTable().Set(string(name), v)}
		}
	}
	return t, nil
}
