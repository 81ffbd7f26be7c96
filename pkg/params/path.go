package params

import "strings"

// SetPath writes v at the dotted location described by segments, creating
// intermediate mappings as needed. The last segment is overwritten. An
// intermediate segment holding a non-mapping value is a StructuralConflict.
func SetPath(root *Mapping, segments []string, v Value) error {
	if root == nil || len(segments) == 0 {
		return newError(StructuralConflict, "", "empty path")
	}
	cur := root
	for i, seg := range segments[:len(segments)-1] {
		existing, ok := cur.Get(seg)
		if !ok {
			next := NewMapping()
			cur.Set(seg, Nested(next))
			cur = next
			continue
		}
		if existing.Kind() != KindMapping {
			return newError(StructuralConflict, strings.Join(segments[:i+1], "."),
				"cannot descend into %s value", existing.Kind())
		}
		cur = existing.Mapping()
	}
	cur.Set(segments[len(segments)-1], v)
	return nil
}

// SplitPath splits a dotted name into segments.
func SplitPath(name string) []string {
	return strings.Split(name, ".")
}
