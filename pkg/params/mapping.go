package params

import (
	"encoding/json"
	"sort"
	"strings"
)

// Mapping is a string-keyed mapping that remembers insertion order. Setting an
// existing key keeps its position; deleting and setting again appends.
type Mapping struct {
	keys   []string
	values map[string]Value
}

func NewMapping() *Mapping {
	return &Mapping{values: map[string]Value{}}
}

// MappingFromMap builds a mapping from a Go map using sorted keys.
func MappingFromMap(in map[string]any) *Mapping {
	m := NewMapping()
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.Set(k, FromAny(in[k]))
	}
	return m
}

func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.values[key]
	return v, ok
}

func (m *Mapping) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

func (m *Mapping) Set(key string, v Value) {
	if m.values == nil {
		m.values = map[string]Value{}
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

func (m *Mapping) Delete(key string) {
	if m == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns a copy of the keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Range calls fn for each entry in insertion order until fn returns false.
// The key set is snapshotted first, so fn may modify m.
func (m *Mapping) Range(fn func(key string, v Value) bool) {
	for _, k := range m.Keys() {
		v, ok := m.values[k]
		if !ok {
			continue
		}
		if !fn(k, v) {
			return
		}
	}
}

// Clone copies the top level of m. Nested values are shared.
func (m *Mapping) Clone() *Mapping {
	out := NewMapping()
	m.Range(func(k string, v Value) bool {
		out.Set(k, v)
		return true
	})
	return out
}

// DeepClone copies m together with every nested mapping and list.
func (m *Mapping) DeepClone() *Mapping {
	out := NewMapping()
	m.Range(func(k string, v Value) bool {
		out.Set(k, v.deepClone())
		return true
	})
	return out
}

func (v Value) deepClone() Value {
	switch v.kind {
	case KindList:
		items := make([]Value, 0, len(v.list))
		for _, item := range v.list {
			items = append(items, item.deepClone())
		}
		return List(items...)
	case KindMapping:
		return Nested(v.mapping.DeepClone())
	default:
		return v
	}
}

// ToMap converts m into plain Go maps and slices.
func (m *Mapping) ToMap() map[string]any {
	out := make(map[string]any, m.Len())
	m.Range(func(k string, v Value) bool {
		out[k] = v.Interface()
		return true
	})
	return out
}

func (m *Mapping) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	if err := m.writeJSON(&b); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func (m *Mapping) writeJSON(b *strings.Builder) error {
	b.WriteByte('{')
	first := true
	var err error
	m.Range(func(k string, v Value) bool {
		if !first {
			b.WriteByte(',')
		}
		first = false
		key, kerr := json.Marshal(k)
		if kerr != nil {
			err = kerr
			return false
		}
		b.Write(key)
		b.WriteByte(':')
		if err = writeValueJSON(b, v); err != nil {
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	b.WriteByte('}')
	return nil
}
