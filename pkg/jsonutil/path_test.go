package jsonutil

import (
	"testing"

	"github.com/reqshape/reqshape/pkg/params"
)

func decoded(t *testing.T, body string) *params.Mapping {
	t.Helper()
	m := params.DecodeJSONBody([]byte(body))
	if m.Len() == 0 {
		t.Fatalf("fixture did not decode: %s", body)
	}
	return m
}

func TestGetByPath_SupportsWildcardAndIndex(t *testing.T) {
	root := decoded(t, `{"people":[{"name":"A","age":1},{"name":"B","age":2}],"meta":{"total":2}}`)

	v, ok := GetByPath(root, "$.people[1].name")
	if !ok || v.String() != "B" {
		t.Fatalf("index access got %v ok=%v", v, ok)
	}
	v, ok = GetByPath(root, "$.meta.total")
	if !ok || v.Raw() != 2 {
		t.Fatalf("nested access got %v ok=%v", v.Raw(), ok)
	}
	vals, ok := GetValuesByPath(root, "$.people[*].age")
	if !ok || len(vals) != 2 || vals[0].Raw() != 1 || vals[1].Raw() != 2 {
		t.Fatalf("wildcard got %v ok=%v", vals, ok)
	}
}

func TestGetByPath_Misses(t *testing.T) {
	root := decoded(t, `{"a":{"b":"x"},"list":[1]}`)
	for _, p := range []string{"", "a.b", "$.missing", "$.a.b.c", "$.list[3]", "$.a[0]", "$..a"} {
		if v, ok := GetByPath(root, p); ok {
			t.Fatalf("path %q should miss, got %v", p, v)
		}
	}
}

func TestGetByPath_Root(t *testing.T) {
	root := decoded(t, `{"a":1}`)
	v, ok := GetByPath(root, "$")
	if !ok || v.Mapping() != root {
		t.Fatalf("root path should return the mapping itself")
	}
}

func TestGetStringByPath_FirstNonEmpty(t *testing.T) {
	root := decoded(t, `{"items":[{"v":""},{"v":"x"}],"n":[{"v":3}]}`)
	if got := GetStringByPath(root, "$.items[*].v"); got != "x" {
		t.Fatalf("wildcard string got %q, want x", got)
	}
	if got := GetStringByPath(root, "$.n[0].v"); got != "3" {
		t.Fatalf("number string got %q, want 3", got)
	}
}
