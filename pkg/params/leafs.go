package params

// LeafEntry is one terminal of a nested mapping: its dotted path and the
// values found there, one per row.
type LeafEntry struct {
	Path   string
	Values []Value
}

// Leafs flattens m into leaf entries in insertion order. Scalar leaves are
// wrapped as one-element lists so every entry carries a list.
func Leafs(m *Mapping) []LeafEntry {
	var out []LeafEntry
	m.Range(func(k string, v Value) bool {
		switch v.Kind() {
		case KindMapping:
			for _, sub := range Leafs(v.Mapping()) {
				out = append(out, LeafEntry{Path: k + "." + sub.Path, Values: sub.Values})
			}
		case KindList:
			out = append(out, LeafEntry{Path: k, Values: v.Items()})
		case KindScalar:
			out = append(out, LeafEntry{Path: k, Values: []Value{v}})
		}
		return true
	})
	return out
}
