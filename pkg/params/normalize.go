package params

import "strings"

// ArrayMarker is the key suffix that marks an array group.
const ArrayMarker = "[]"

// NormalizeArrays expands every top-level "name[]" key of m into "name"
// holding a list of mappings. Leaves of a group are aligned by position: row
// i takes the i-th value of every leaf. Mappings without marked keys are left
// untouched.
func NormalizeArrays(m *Mapping) error {
	if err := composeGroupKeys(m); err != nil {
		return err
	}
	for _, key := range m.Keys() {
		if !strings.HasSuffix(key, ArrayMarker) {
			continue
		}
		v, _ := m.Get(key)
		m.Delete(key)
		name := strings.TrimSuffix(key, ArrayMarker)

		rows, err := expandGroup(key, v)
		if err != nil {
			return err
		}
		items := make([]Value, 0, len(rows))
		for _, row := range rows {
			items = append(items, Nested(row))
		}
		m.Set(name, List(items...))
	}
	return nil
}

// composeGroupKeys folds flat keys such as "people[].name[]" into the
// "people[]" group mapping, so flat sources and form-composed sources share
// one grammar. A group mapping is copied before the first write into it,
// since it may be shared with a caller's source.
func composeGroupKeys(m *Mapping) error {
	owned := map[string]bool{}
	for _, key := range m.Keys() {
		head, _, found := strings.Cut(key, ".")
		if !found || !strings.HasSuffix(head, ArrayMarker) {
			continue
		}
		v, _ := m.Get(key)
		m.Delete(key)
		if !owned[head] {
			if g, ok := m.Get(head); ok && g.IsMapping() {
				m.Set(head, Nested(g.Mapping().DeepClone()))
			}
			owned[head] = true
		}
		if err := SetPath(m, SplitPath(key), v); err != nil {
			return err
		}
	}
	return nil
}

func expandGroup(key string, v Value) ([]*Mapping, error) {
	if v.IsEmpty() {
		return nil, nil
	}
	if v.Kind() != KindMapping {
		return nil, newError(MalformedArrayGroup, key, "expected mapping, got %s", v.Kind())
	}

	leafs := Leafs(v.Mapping())
	size := 0
	if len(leafs) > 0 {
		size = len(leafs[0].Values)
	}
	rows := make([]*Mapping, size)
	for i := range rows {
		rows[i] = NewMapping()
	}

	for _, leaf := range leafs {
		if len(leaf.Values) != size {
			return nil, newError(MalformedArrayGroup, key+"."+leaf.Path,
				"leaf has %d values, group has %d rows", len(leaf.Values), size)
		}
		segments := SplitPath(leaf.Path)
		last := len(segments) - 1
		segments[last] = strings.TrimSuffix(segments[last], ArrayMarker)
		for i, row := range rows {
			if err := SetPath(row, segments, leaf.Values[i]); err != nil {
				return nil, prefixPath(err, key)
			}
		}
	}

	for _, row := range rows {
		if err := NormalizeArrays(row); err != nil {
			return nil, prefixPath(err, key)
		}
	}
	return rows, nil
}

// prefixPath qualifies the path of a nested *Error with the enclosing group.
func prefixPath(err error, prefix string) error {
	pe, ok := err.(*Error)
	if !ok {
		return err
	}
	out := *pe
	if out.Path == "" {
		out.Path = prefix
	} else {
		out.Path = prefix + "." + out.Path
	}
	return &out
}
