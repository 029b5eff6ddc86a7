// Package eval implements the tree-walking evaluator: the sequence/map/
// function-reference value domain, the evaluation context, the path axis
// engine, element constructor and pattern matching, and the built-in
// function library.
package eval

import (
	"strconv"

	"github.com/arturoeanton/go-xform/xmlmodel"
)

// Sequence is the evaluator's universal value: an ordered, possibly
// heterogeneous list. Each item is one of *xmlmodel.Node, bool, float64,
// string, *Map, *FuncRef, or Absent. A scalar is a length-1 Sequence.
type Sequence []any

// Absent is the sentinel marking an explicit "no value" item, distinct
// from the empty sequence.
type Absent struct{}

// FuncRef is a first-class reference to a callable, captured by name
// only — the evaluator re-resolves it against the current function table
// on every invocation, so it never goes stale across a rebound table.
type FuncRef struct {
	Name string
}

// Map is an insertion-ordered mapping from string key to Sequence,
// produced by index/groupBy and consumed by lookup. A parallel keys
// slice alongside the backing map fixes iteration order.
type Map struct {
	keys   []string
	values map[string]Sequence
}

// NewMap returns an empty, ready-to-use Map.
func NewMap() *Map {
	return &Map{values: make(map[string]Sequence)}
}

// Put inserts or overwrites key, preserving first-insertion order.
func (m *Map) Put(key string, value Sequence) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the sequence stored for key, or (nil, false).
func (m *Map) Get(key string) (Sequence, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the map's keys in insertion order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// ToBoolean implements the to_boolean coercion: empty sequence is
// false; any node present makes the sequence true; otherwise it is true
// when any atomic item falls outside the falsy set {false, 0, "", Absent}.
func ToBoolean(seq Sequence) bool {
	if len(seq) == 0 {
		return false
	}
	for _, item := range seq {
		if _, ok := item.(*xmlmodel.Node); ok {
			return true
		}
	}
	for _, item := range seq {
		if !isFalsy(item) {
			return true
		}
	}
	return false
}

func isFalsy(item any) bool {
	switch v := item.(type) {
	case bool:
		return !v
	case float64:
		return v == 0
	case string:
		return v == ""
	case Absent:
		return true
	default:
		return false
	}
}

// ToString implements the to_string coercion.
func ToString(seq Sequence) string {
	if len(seq) == 0 {
		return ""
	}
	return stringOf(seq[0])
}

func stringOf(item any) string {
	switch v := item.(type) {
	case *xmlmodel.Node:
		return v.StringValue()
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return formatNumber(v)
	case string:
		return v
	case Absent:
		return ""
	case nil:
		return ""
	default:
		return ""
	}
}

func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// ToNumber implements the to_number coercion. Parse failure reports
// XFDY0002 via the returned error.
func ToNumber(seq Sequence) (float64, error) {
	if len(seq) == 0 {
		return 0, nil
	}
	item := seq[0]
	switch v := item.(type) {
	case *xmlmodel.Node:
		return parseNumber(v.StringValue())
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case float64:
		return v, nil
	case string:
		return parseNumber(v)
	default:
		return parseNumber(stringOf(item))
	}
}

func parseNumber(s string) (float64, error) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &DynamicError{ErrCode: "XFDY0002", Msg: "cannot convert " + strconv.Quote(s) + " to a number"}
	}
	return n, nil
}

// ValueEqual implements the "=" / "!=" atomization rule: compare
// by string-value, the same rule to_string applies to a single item.
func ValueEqual(left, right Sequence) bool {
	return ToString(left) == ToString(right)
}
