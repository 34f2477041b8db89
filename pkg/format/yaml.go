// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/z5labs/strata"

	"gopkg.in/yaml.v3"
)

type yamlFormat struct{}

// YAML parses a single YAML document whose top level node is a mapping.
// Key order is preserved, aliases are expanded and merge keys are applied.
var YAML strata.Format = yamlFormat{}

// Parse implements the strata.Format interface.
func (yamlFormat) Parse(origin string, raw []byte) (*strata.Table, error) {
	if blank(raw) {
		return strata.NewTable(), nil
	}

	var doc yaml.Node
	err := yaml.Unmarshal(raw, &doc)
	if err != nil {
		return nil, yamlError(origin, err, 0)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return strata.NewTable(), nil
	}

	w := yamlWalker{origin: origin}
	v, err := w.walk(doc.Content[0])
	if err != nil {
		var nerr *yamlNodeError
		if errors.As(err, &nerr) {
			return nil, yamlError(origin, nerr.cause, nerr.line)
		}
		return nil, yamlError(origin, err, 0)
	}

	switch v.Kind() {
	case strata.KindNull:
		return strata.NewTable(), nil
	case strata.KindTable:
		return v.AsTable()
	default:
		return nil, notTable("yaml", origin, v.Kind())
	}
}

type yamlNodeError struct {
	line  int
	cause error
}

func (e *yamlNodeError) Error() string {
	return fmt.Sprintf("line %d: %s", e.line, e.cause)
}

func (e *yamlNodeError) Unwrap() error {
	return e.cause
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

func yamlError(origin string, err error, line int) error {
	if line == 0 {
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			line, _ = strconv.Atoi(m[1])
		}
	}
	return &strata.FormatError{
		Format: "yaml",
		Origin: origin,
		Line:   line,
		Reason: err.Error(),
		Cause:  err,
	}
}

type yamlWalker struct {
	origin string
	depth  int

	// visited counts every node walked and aliased the ones walked
	// beneath an alias, so expanded aliases are counted each time.
	visited int
	aliased int
}

// maxAliasDepth bounds alias expansion so recursive anchors fail to parse.
const maxAliasDepth = 64

var errExcessiveAliasing = errors.New("excessive aliasing")

// allowedAliasRatio is the share of walked nodes which may come from
// alias expansion. Larger documents are allowed proportionally less,
// matching the limits yaml.v3 applies when decoding into Go values.
func allowedAliasRatio(visited int) float64 {
	const (
		low  = 400000
		high = 4000000
	)
	switch {
	case visited <= low:
		return 0.99
	case visited >= high:
		return 0.10
	default:
		return 0.99 - 0.89*(float64(visited-low)/float64(high-low))
	}
}

func (w *yamlWalker) count(n *yaml.Node) error {
	w.visited++
	if w.depth > 0 {
		w.aliased++
	}
	if w.aliased > 100 && w.visited > 1000 && float64(w.aliased)/float64(w.visited) > allowedAliasRatio(w.visited) {
		return &yamlNodeError{line: n.Line, cause: errExcessiveAliasing}
	}
	return nil
}

func (w *yamlWalker) walk(n *yaml.Node) (strata.Value, error) {
	err := w.count(n)
	if err != nil {
		return strata.Value{}, err
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return strata.Null(), nil
		}
		return w.walk(n.Content[0])
	case yaml.AliasNode:
		w.depth++
		defer func() { w.depth-- }()
		if w.depth > maxAliasDepth {
			return strata.Value{}, &yamlNodeError{line: n.Line, cause: errors.New("alias nesting too deep")}
		}
		return w.walk(n.Alias)
	case yaml.MappingNode:
		return w.mapping(n)
	case yaml.SequenceNode:
		elems := make([]strata.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := w.walk(c)
			if err != nil {
				return strata.Value{}, err
			}
			elems = append(elems, v)
		}
		return strata.AdoptArray(elems).WithOrigin(w.origin), nil
	case yaml.ScalarNode:
		return w.scalar(n)
	}
	return strata.Value{}, &yamlNodeError{line: n.Line, cause: fmt.Errorf("unsupported node kind %d", n.Kind)}
}

func (w *yamlWalker) mapping(n *yaml.Node) (strata.Value, error) {
	tbl := strata.NewTable()
	for i := 0; i+1 < len(n.Content); i += 2 {
		kn, vn := n.Content[i], n.Content[i+1]

		if kn.Kind == yaml.ScalarNode && kn.ShortTag() == "!!merge" {
			err := w.merge(tbl, vn)
			if err != nil {
				return strata.Value{}, err
			}
			continue
		}

		if kn.Kind != yaml.ScalarNode {
			return strata.Value{}, &yamlNodeError{line: kn.Line, cause: errors.New("mapping keys must be scalars")}
		}
		v, err := w.walk(vn)
		if err != nil {
			return strata.Value{}, err
		}
		tbl.Set(kn.Value, v)
	}
	return strata.AdoptTable(tbl).WithOrigin(w.origin), nil
}

// merge applies a YAML merge key. Keys already present take precedence.
func (w *yamlWalker) merge(dst *strata.Table, n *yaml.Node) error {
	sources := []*yaml.Node{n}
	if n.Kind == yaml.SequenceNode {
		sources = n.Content
	}
	for _, src := range sources {
		v, err := w.walk(src)
		if err != nil {
			return err
		}
		tbl, err := v.AsTable()
		if err != nil {
			return &yamlNodeError{line: src.Line, cause: errors.New("merge value must be a mapping")}
		}
		for k, v := range tbl.All() {
			if _, exists := dst.Get(k); !exists {
				dst.Set(k, v)
			}
		}
	}
	return nil
}

func (w *yamlWalker) scalar(n *yaml.Node) (strata.Value, error) {
	fail := func(err error) (strata.Value, error) {
		return strata.Value{}, &yamlNodeError{line: n.Line, cause: err}
	}

	switch n.ShortTag() {
	case "!!null":
		return strata.Null().WithOrigin(w.origin), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return fail(err)
		}
		return strata.Bool(b).WithOrigin(w.origin), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return strata.Int(i).WithOrigin(w.origin), nil
		}
		var u uint64
		if err := n.Decode(&u); err != nil {
			return fail(err)
		}
		if u > math.MaxInt64 {
			return strata.Float(float64(u)).WithOrigin(w.origin), nil
		}
		return strata.Int(int64(u)).WithOrigin(w.origin), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return fail(err)
		}
		return strata.Float(f).WithOrigin(w.origin), nil
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return fail(err)
		}
		return strata.DateTime(t).WithOrigin(w.origin), nil
	default:
		return strata.String(n.Value).WithOrigin(w.origin), nil
	}
}
