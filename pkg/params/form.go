package params

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Field is one named, possibly repeated, form or query entry.
type Field struct {
	Name   string
	Values []string
}

// LoadForm composes fields into a nested mapping using their dotted names.
// Fields are applied in order; a field with a single value is stored as a
// scalar, repeated fields as a list.
func LoadForm(fields []Field) (*Mapping, error) {
	out := NewMapping()
	for _, f := range fields {
		var v Value
		if len(f.Values) == 1 {
			v = Scalar(f.Values[0])
		} else {
			v = Strings(f.Values...)
		}
		if err := SetPath(out, SplitPath(f.Name), v); err != nil {
			return nil, fmt.Errorf("form field %q: %w", f.Name, err)
		}
	}
	return out, nil
}

// ParseFields decodes a URL-encoded string into fields in wire order. Repeated
// names are grouped at the position of their first occurrence.
func ParseFields(raw string) ([]Field, error) {
	var fields []Field
	index := map[string]int{}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		name, err := url.QueryUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("invalid field name %q: %w", k, err)
		}
		val, err := url.QueryUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %q: %w", name, err)
		}
		if i, ok := index[name]; ok {
			fields[i].Values = append(fields[i].Values, val)
			continue
		}
		index[name] = len(fields)
		fields = append(fields, Field{Name: name, Values: []string{val}})
	}
	return fields, nil
}

// FieldsFromValues orders a url.Values (or multipart value map) by name.
func FieldsFromValues(values map[string][]string) []Field {
	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make([]Field, 0, len(names))
	for _, k := range names {
		out = append(out, Field{Name: k, Values: values[k]})
	}
	return out
}
