// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"encoding/json"
	"time"

	"github.com/z5labs/strata/pkg/key"
)

// Config is the immutable result of a successful build. It is safe for
// concurrent use by multiple goroutines.
//
// Paths address nested values with dots and brackets, e.g. "server.port"
// or "servers[0].host". Negative indexes count from the end of an array.
// The empty path addresses the root table.
type Config struct {
	root *Table
}

func newConfig(root *Table) *Config {
	if root == nil {
		root = NewTable()
	}
	return &Config{root: root}
}

// Get returns a copy of the Value stored at path.
func (c *Config) Get(path string) (Value, error) {
	chain, err := key.Parse(path)
	if err != nil {
		return Value{}, Messagef("%s", err)
	}
	return c.get(path, chain)
}

// Lookup returns a copy of the Value addressed by k. Unlike [Config.Get],
// names are used verbatim, so keys containing dots or brackets can be
// reached, e.g. key.Names("hosts", "example.com").
func (c *Config) Lookup(k key.Keyer) (Value, error) {
	if k == nil {
		return c.get("", nil)
	}
	return c.get(k.Key(), chainOf(k))
}

// chainOf flattens k into Name and Index segments. Keyers of any other
// type address a table entry named by their Key.
func chainOf(k key.Keyer) key.Chain {
	var chain key.Chain
	switch k := k.(type) {
	case nil:
	case key.Name, key.Index:
		chain = append(chain, k)
	case key.Chain:
		for _, seg := range k {
			chain = append(chain, chainOf(seg)...)
		}
	default:
		chain = append(chain, key.Name(k.Key()))
	}
	return chain
}

func (c *Config) get(path string, chain key.Chain) (Value, error) {
	v, err := c.lookup(path, chain)
	if err != nil {
		return Value{}, err
	}
	return v.clone(), nil
}

func (c *Config) lookup(path string, chain key.Chain) (Value, error) {
	cur := Value{kind: KindTable, tbl: c.root}
	for _, seg := range chain {
		switch k := seg.(type) {
		case key.Name:
			v, ok := cur.tbl.Get(string(k))
			if cur.kind != KindTable || !ok {
				return Value{}, &NotFoundError{Path: path}
			}
			cur = v
		case key.Index:
			if cur.kind != KindArray {
				return Value{}, &NotFoundError{Path: path}
			}
			i := int(k)
			if i < 0 {
				i += len(cur.arr)
			}
			if i < 0 || i >= len(cur.arr) {
				return Value{}, &NotFoundError{Path: path}
			}
			cur = cur.arr[i]
		}
	}
	return cur, nil
}

// Has reports whether a value exists at path.
func (c *Config) Has(path string) bool {
	chain, err := key.Parse(path)
	if err != nil {
		return false
	}
	_, err = c.lookup(path, chain)
	return err == nil
}

// Origin names the source which supplied the value at path.
func (c *Config) Origin(path string) (string, error) {
	chain, err := key.Parse(path)
	if err != nil {
		return "", Messagef("%s", err)
	}
	v, err := c.lookup(path, chain)
	if err != nil {
		return "", err
	}
	return v.origin, nil
}

// String returns the value at path coerced to a string.
func (c *Config) String(path string) (string, error) {
	return Get[string](c, path)
}

// Int returns the value at path coerced to an int64.
func (c *Config) Int(path string) (int64, error) {
	return Get[int64](c, path)
}

// Float returns the value at path coerced to a float64.
func (c *Config) Float(path string) (float64, error) {
	return Get[float64](c, path)
}

// Bool returns the value at path coerced to a bool.
func (c *Config) Bool(path string) (bool, error) {
	return Get[bool](c, path)
}

// Time returns the value at path coerced to a time.Time.
func (c *Config) Time(path string) (time.Time, error) {
	return Get[time.Time](c, path)
}

// Duration returns the value at path coerced to a time.Duration.
func (c *Config) Duration(path string) (time.Duration, error) {
	return Get[time.Duration](c, path)
}

// Table returns a copy of the table at path.
func (c *Config) Table(path string) (*Table, error) {
	return Get[*Table](c, path)
}

// Keys returns the top level keys in the order they were first merged.
func (c *Config) Keys() []string {
	return c.root.Keys()
}

// AllSettings returns the whole configuration as plain Go values.
func (c *Config) AllSettings() map[string]any {
	return c.root.Interface()
}

// Unmarshal decodes the whole configuration into v, which must be a
// pointer. Struct fields are matched with the "config" tag.
func (c *Config) Unmarshal(v any) error {
	return c.UnmarshalKey("", v)
}

// UnmarshalKey decodes the value at path into v, which must be a pointer.
func (c *Config) UnmarshalKey(path string, v any) error {
	val, err := c.Get(path)
	if err != nil {
		return err
	}
	err = decode(val.Interface(), v)
	if err != nil {
		return &TypeMismatchError{Path: path, Expected: "decodable value", Actual: val.kind, Cause: err}
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (c *Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.AllSettings())
}
