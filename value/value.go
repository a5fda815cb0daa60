// Package value provides a tagged union over decoded metadata documents.
//
// Source records arrive as JSON or YAML whose fields may hold a string, a
// list, an object or nothing at all depending on the producer. A document is
// decoded into a Value exactly once; readers then switch on Kind instead of
// inspecting dynamic Go types.
//
// Empty strings, empty lists and empty objects decode as Absent, so the
// presence of a Value always means there is something to read.
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/segmentio/encoding/json"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	Absent Kind = iota
	Scalar
	Sequence
	Mapping
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	default:
		return "absent"
	}
}

// Value is one node of a decoded document.
// The zero Value is Absent.
type Value struct {
	kind   Kind
	scalar any
	items  []Value
	keys   []string
	fields map[string]Value
}

// Of converts a plain Go value (as produced by encoding/json or yaml.v3
// decoding into any) into a Value.
func Of(x any) Value {
	switch v := x.(type) {
	case nil:
		return Value{}
	case Value:
		return v
	case string:
		if strings.TrimSpace(v) == "" {
			return Value{}
		}
		return Value{kind: Scalar, scalar: v}
	case []any:
		items := make([]Value, 0, len(v))
		for _, item := range v {
			if iv := Of(item); iv.kind != Absent {
				items = append(items, iv)
			}
		}
		return NewSequence(items)
	case []string:
		items := make([]Value, 0, len(v))
		for _, item := range v {
			if iv := Of(item); iv.kind != Absent {
				items = append(items, iv)
			}
		}
		return NewSequence(items)
	case []Value:
		return NewSequence(v)
	case map[string]any:
		fields := make(map[string]Value, len(v))
		for k, item := range v {
			if iv := Of(item); iv.kind != Absent {
				fields[k] = iv
			}
		}
		return NewMapping(fields)
	case map[string]Value:
		return NewMapping(v)
	default:
		return Value{kind: Scalar, scalar: v}
	}
}

// NewSequence builds a Sequence from items, dropping absent entries.
func NewSequence(items []Value) Value {
	kept := make([]Value, 0, len(items))
	for _, item := range items {
		if item.kind != Absent {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		return Value{}
	}
	return Value{kind: Sequence, items: kept}
}

// NewMapping builds a Mapping from fields, dropping absent entries.
// Keys are kept in sorted order.
func NewMapping(fields map[string]Value) Value {
	kept := make(map[string]Value, len(fields))
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if v.kind == Absent {
			continue
		}
		kept[k] = v
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return Value{}
	}
	sort.Strings(keys)
	return Value{kind: Mapping, keys: keys, fields: kept}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v holds nothing.
func (v Value) IsAbsent() bool { return v.kind == Absent }

// Get returns the field key of a Mapping. A Sequence is unwrapped to its
// first item first, so single-element lists behave like their element.
func (v Value) Get(key string) Value {
	if v.kind == Sequence {
		v = v.First()
	}
	if v.kind != Mapping {
		return Value{}
	}
	return v.fields[key]
}

// Path follows a chain of keys, see Get.
func (v Value) Path(keys ...string) Value {
	cur := v
	for _, k := range keys {
		cur = cur.Get(k)
		if cur.kind == Absent {
			return cur
		}
	}
	return cur
}

// Has reports whether a Mapping carries key.
func (v Value) Has(key string) bool {
	return !v.Get(key).IsAbsent()
}

// Index returns the i-th item of a Sequence; index 0 of a non-sequence is
// the value itself.
func (v Value) Index(i int) Value {
	items := v.Items()
	if i < 0 || i >= len(items) {
		return Value{}
	}
	return items[i]
}

// Len returns the number of items Items would return.
func (v Value) Len() int {
	switch v.kind {
	case Absent:
		return 0
	case Sequence:
		return len(v.items)
	default:
		return 1
	}
}

// Items wraps v into a list: a Sequence yields its items, any other present
// value yields itself, Absent yields nil.
func (v Value) Items() []Value {
	switch v.kind {
	case Absent:
		return nil
	case Sequence:
		return v.items
	default:
		return []Value{v}
	}
}

// First unwraps a Sequence to its first item. Other kinds are returned as-is.
func (v Value) First() Value {
	if v.kind == Sequence {
		return v.items[0]
	}
	return v
}

// Keys returns the sorted field names of a Mapping.
func (v Value) Keys() []string {
	if v.kind != Mapping {
		return nil
	}
	return v.keys
}

// Text renders a Scalar as a string. A Sequence renders its first item;
// a Mapping or Absent renders "".
func (v Value) Text(opts ...TextOption) string {
	switch v.kind {
	case Scalar:
		return textOf(v.scalar, opts...)
	case Sequence:
		return v.items[0].Text(opts...)
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	switch v.kind {
	case Scalar:
		return Text(v.scalar)
	case Absent:
		return "<absent>"
	default:
		b, err := json.Marshal(v.Raw())
		if err != nil {
			return fmt.Sprintf("<%s>", v.kind)
		}
		return string(b)
	}
}

// Texts renders every item as text, dropping empty results.
func (v Value) Texts(opts ...TextOption) []string {
	var out []string
	for _, item := range v.Items() {
		if item.kind != Scalar {
			continue
		}
		if s := item.Text(opts...); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Int returns the scalar as an integer.
func (v Value) Int() (int, bool) {
	v = v.First()
	if v.kind != Scalar {
		return 0, false
	}
	switch n := v.scalar.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return 0, false
			}
			return int(f), true
		}
		return int(i), true
	}
	i, err := strconv.Atoi(strings.TrimSpace(Text(v.scalar)))
	if err != nil {
		return 0, false
	}
	return i, true
}

// Bool returns the scalar as a boolean.
func (v Value) Bool() bool {
	v = v.First()
	if v.kind != Scalar {
		return false
	}
	if b, ok := v.scalar.(bool); ok {
		return b
	}
	s := strings.ToLower(strings.TrimSpace(Text(v.scalar)))
	return s == "true" || s == "1" || s == "yes"
}

// Raw converts v back to plain Go values: map[string]any, []any, or the
// scalar itself. Absent becomes nil.
func (v Value) Raw() any {
	switch v.kind {
	case Scalar:
		return v.scalar
	case Sequence:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Raw()
		}
		return out
	case Mapping:
		out := make(map[string]any, len(v.keys))
		for _, k := range v.keys {
			out[k] = v.fields[k].Raw()
		}
		return out
	default:
		return nil
	}
}
