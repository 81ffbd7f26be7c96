package params

// AliasTable renames top-level fields. It is immutable once built.
type AliasTable struct {
	names map[string]string
}

// NewAliasTable copies names into a new table.
func NewAliasTable(names map[string]string) AliasTable {
	out := make(map[string]string, len(names))
	for k, v := range names {
		out[k] = v
	}
	return AliasTable{names: out}
}

var defaultAliasNames = map[string]string{
	"filter_def":     "find_d",
	"filter_string":  "find_s",
	"start_record":   "skip",
	"number_records": "limit",
}

// DefaultAliases maps the public filter/pagination names to internal ones.
func DefaultAliases() AliasTable {
	return NewAliasTable(defaultAliasNames)
}

// DefaultAliasNames returns a copy of the default alias entries.
func DefaultAliasNames() map[string]string {
	return DefaultAliases().Map()
}

// Lookup returns the target name for name.
func (t AliasTable) Lookup(name string) (string, bool) {
	to, ok := t.names[name]
	return to, ok
}

func (t AliasTable) Len() int { return len(t.names) }

// Map returns a copy of the table entries.
func (t AliasTable) Map() map[string]string {
	out := make(map[string]string, len(t.names))
	for k, v := range t.names {
		out[k] = v
	}
	return out
}

// ApplyAliases moves every aliased top-level key of m to its target name. A
// target that is already present is overwritten.
func ApplyAliases(m *Mapping, t AliasTable) {
	for _, key := range m.Keys() {
		to, ok := t.Lookup(key)
		if !ok || to == key {
			continue
		}
		v, _ := m.Get(key)
		m.Set(to, v)
		m.Delete(key)
	}
}
