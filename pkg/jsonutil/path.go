package jsonutil

import (
	"strconv"
	"strings"

	"github.com/reqshape/reqshape/pkg/params"
)

// GetValuesByPath reads all matched values from a decoded mapping using a
// restricted JSONPath subset:
// - $.a.b.c
// - $.items[0].x
// - $.items[*].x (every matched item)
func GetValuesByPath(root *params.Mapping, path string) ([]params.Value, bool) {
	p := strings.TrimSpace(path)
	if p == "$" {
		return []params.Value{params.Nested(root)}, true
	}
	if p == "" || !strings.HasPrefix(p, "$.") {
		return nil, false
	}
	parts := strings.Split(strings.TrimPrefix(p, "$."), ".")
	return collectPathValues(params.Nested(root), parts)
}

// GetByPath returns the first value matched by path.
func GetByPath(root *params.Mapping, path string) (params.Value, bool) {
	vals, ok := GetValuesByPath(root, path)
	if !ok || len(vals) == 0 {
		return params.Value{}, false
	}
	return vals[0], true
}

// GetStringByPath returns the first non-empty scalar matched by path as text.
func GetStringByPath(root *params.Mapping, path string) string {
	vals, _ := GetValuesByPath(root, path)
	for _, v := range vals {
		if !v.IsScalar() {
			continue
		}
		if s := strings.TrimSpace(v.String()); s != "" {
			return v.String()
		}
	}
	return ""
}

func collectPathValues(cur params.Value, parts []string) ([]params.Value, bool) {
	if len(parts) == 0 {
		return []params.Value{cur}, true
	}
	part := strings.TrimSpace(parts[0])
	if part == "" {
		return nil, false
	}
	name, idx, hasIdx, isStar := splitIndex(part)
	if name != "" {
		next, ok := cur.Mapping().Get(name)
		if !ok {
			return nil, false
		}
		cur = next
	}
	rest := parts[1:]
	if !hasIdx {
		return collectPathValues(cur, rest)
	}
	if !cur.IsList() {
		return nil, false
	}
	arr := cur.Items()
	if isStar {
		out := make([]params.Value, 0, len(arr))
		for _, item := range arr {
			vals, ok := collectPathValues(item, rest)
			if !ok {
				continue
			}
			out = append(out, vals...)
		}
		return out, true
	}
	if idx < 0 || idx >= len(arr) {
		return nil, false
	}
	return collectPathValues(arr[idx], rest)
}

func splitIndex(s string) (name string, idx int, hasIdx bool, isStar bool) {
	open := strings.IndexByte(s, '[')
	if open < 0 {
		return s, 0, false, false
	}
	close := strings.IndexByte(s, ']')
	if close < 0 || close < open {
		return s, 0, false, false
	}
	name = s[:open]
	inner := strings.TrimSpace(s[open+1 : close])
	if inner == "*" {
		return name, 0, true, true
	}
	n, err := strconv.Atoi(inner)
	if err != nil {
		return name, 0, false, false
	}
	return name, n, true, false
}
