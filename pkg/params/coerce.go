package params

import (
	"fmt"
	"sort"
	"strings"
)

// TypeTable declares the recognized filter/pagination fields and their
// casts. It is immutable once built.
type TypeTable struct {
	casts map[string]Cast
}

func NewTypeTable(casts map[string]Cast) TypeTable {
	out := make(map[string]Cast, len(casts))
	for k, c := range casts {
		if c != nil {
			out[k] = c
		}
	}
	return TypeTable{casts: out}
}

var defaultTypeNames = map[string]string{
	"skip":   "int",
	"limit":  "int",
	"find_s": "str",
	"find_d": "str",
}

// DefaultTypes recognizes the pagination and find fields.
func DefaultTypes() TypeTable {
	casts := make(map[string]Cast, len(defaultTypeNames))
	for field, name := range defaultTypeNames {
		casts[field], _ = CastByName(name)
	}
	return NewTypeTable(casts)
}

// DefaultTypeNames returns a copy of the default field to cast name entries.
func DefaultTypeNames() map[string]string {
	out := make(map[string]string, len(defaultTypeNames))
	for k, v := range defaultTypeNames {
		out[k] = v
	}
	return out
}

func (t TypeTable) Lookup(name string) (Cast, bool) {
	c, ok := t.casts[name]
	return c, ok
}

func (t TypeTable) Len() int { return len(t.casts) }

// Names returns the recognized field names, sorted.
func (t TypeTable) Names() []string {
	out := make([]string, 0, len(t.casts))
	for k := range t.casts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CoerceFilterFields drops every key of m the table does not know and casts
// the rest. A failed cast stops with a CoercionFailure.
func CoerceFilterFields(m *Mapping, t TypeTable) error {
	for _, key := range m.Keys() {
		cast, ok := t.Lookup(key)
		if !ok {
			m.Delete(key)
			continue
		}
		v, _ := m.Get(key)
		out, err := cast(v)
		if err != nil {
			return &Error{Kind: CoercionFailure, Path: key, Err: err}
		}
		m.Set(key, out)
	}
	return nil
}

// Tables bundles the alias and type tables used by one request.
type Tables struct {
	Aliases AliasTable
	Types   TypeTable
}

func DefaultTables() Tables {
	return Tables{Aliases: DefaultAliases(), Types: DefaultTypes()}
}

// NewTables builds tables from configuration, resolving cast names.
func NewTables(aliases map[string]string, types map[string]string) (Tables, error) {
	resolved := make(map[string]Cast, len(types))
	for field, name := range types {
		c, ok := CastByName(name)
		if !ok {
			return Tables{}, fmt.Errorf("field %q: unknown cast %q (supported: %s)",
				field, name, strings.Join(CastNames(), ", "))
		}
		resolved[field] = c
	}
	return Tables{Aliases: NewAliasTable(aliases), Types: NewTypeTable(resolved)}, nil
}
