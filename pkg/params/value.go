package params

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindScalar Kind = iota
	KindList
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindMapping:
		return "mapping"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a decoded parameter value: a scalar, a list of values or a nested
// mapping. The zero Value is a nil scalar.
type Value struct {
	kind    Kind
	scalar  any
	list    []Value
	mapping *Mapping
}

// Scalar wraps a terminal value (string, number, bool, nil, upload...).
func Scalar(v any) Value {
	return Value{kind: KindScalar, scalar: v}
}

// List wraps a list of values.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, list: items}
}

// Strings wraps multiple raw field values as a list of scalars.
func Strings(vals ...string) Value {
	items := make([]Value, 0, len(vals))
	for _, s := range vals {
		items = append(items, Scalar(s))
	}
	return List(items...)
}

// Nested wraps a mapping. A nil mapping becomes an empty one.
func Nested(m *Mapping) Value {
	if m == nil {
		m = NewMapping()
	}
	return Value{kind: KindMapping, mapping: m}
}

// FromAny converts plain Go values into a Value. Maps are converted with
// sorted keys since Go maps carry no order.
func FromAny(v any) Value {
	switch t := v.(type) {
	case Value:
		return t
	case *Mapping:
		return Nested(t)
	case []Value:
		return List(t...)
	case []string:
		return Strings(t...)
	case []any:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			items = append(items, FromAny(item))
		}
		return List(items...)
	case map[string]any:
		return Nested(MappingFromMap(t))
	default:
		return Scalar(t)
	}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsScalar() bool  { return v.kind == KindScalar }
func (v Value) IsList() bool    { return v.kind == KindList }
func (v Value) IsMapping() bool { return v.kind == KindMapping }

// IsNull reports whether v is the nil scalar.
func (v Value) IsNull() bool { return v.kind == KindScalar && v.scalar == nil }

// Raw returns the scalar payload, or nil for lists and mappings.
func (v Value) Raw() any {
	if v.kind != KindScalar {
		return nil
	}
	return v.scalar
}

// Items returns the list payload, or nil when v is not a list.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Mapping returns the nested mapping, or nil when v is not a mapping.
func (v Value) Mapping() *Mapping {
	if v.kind != KindMapping {
		return nil
	}
	return v.mapping
}

// IsEmpty reports whether v carries no data: nil or "" scalars, empty lists
// and empty mappings.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindScalar:
		if v.scalar == nil {
			return true
		}
		if s, ok := v.scalar.(string); ok {
			return s == ""
		}
		return false
	case KindList:
		return len(v.list) == 0
	case KindMapping:
		return v.mapping == nil || v.mapping.Len() == 0
	default:
		return true
	}
}

// Interface converts v to plain Go values: scalars as-is, lists as []any and
// mappings as map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindList:
		out := make([]any, 0, len(v.list))
		for _, item := range v.list {
			out = append(out, item.Interface())
		}
		return out
	case KindMapping:
		return v.mapping.ToMap()
	default:
		return nil
	}
}

// String renders scalars with fmt and containers as JSON.
func (v Value) String() string {
	if v.kind == KindScalar {
		if v.scalar == nil {
			return ""
		}
		if s, ok := v.scalar.(string); ok {
			return s
		}
		return fmt.Sprint(v.scalar)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// MarshalJSON keeps mapping key order.
func (v Value) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	if err := writeValueJSON(&b, v); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func writeValueJSON(b *strings.Builder, v Value) error {
	switch v.kind {
	case KindScalar:
		raw, err := json.Marshal(v.scalar)
		if err != nil {
			return err
		}
		b.Write(raw)
	case KindList:
		b.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeValueJSON(b, item); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case KindMapping:
		return v.mapping.writeJSON(b)
	default:
		return fmt.Errorf("params: cannot encode %s", v.kind)
	}
	return nil
}
