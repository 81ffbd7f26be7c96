package params

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func mappingOf(pairs ...any) *Mapping {
	m := NewMapping()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i].(string), FromAny(pairs[i+1]))
	}
	return m
}

func TestMapping_KeepsInsertionOrder(t *testing.T) {
	m := NewMapping()
	m.Set("b", Scalar(1))
	m.Set("a", Scalar(2))
	m.Set("c", Scalar(3))
	m.Set("b", Scalar(4))
	require.Equal(t, []string{"b", "a", "c"}, m.Keys())
	require.Equal(t, `{"b":4,"a":2,"c":3}`, mustJSON(t, m))

	m.Delete("b")
	m.Set("b", Scalar(5))
	require.Equal(t, []string{"a", "c", "b"}, m.Keys())
}

func TestMapping_RangeToleratesMutation(t *testing.T) {
	m := mappingOf("a", "1", "b", "2", "c", "3")
	var seen []string
	m.Range(func(k string, _ Value) bool {
		seen = append(seen, k)
		m.Delete("b")
		return true
	})
	require.Equal(t, []string{"a", "c"}, seen)
}

func TestValue_IsEmpty(t *testing.T) {
	require.True(t, Scalar(nil).IsEmpty())
	require.True(t, Scalar("").IsEmpty())
	require.True(t, List().IsEmpty())
	require.True(t, Nested(nil).IsEmpty())
	require.False(t, Scalar(0).IsEmpty())
	require.False(t, Strings("x").IsEmpty())
}

func TestSetPath_SingleSegmentOverwrites(t *testing.T) {
	root := mappingOf("k", "old")
	require.NoError(t, SetPath(root, []string{"k"}, Scalar("new")))
	v, ok := root.Get("k")
	require.True(t, ok)
	require.Equal(t, Scalar("new"), v)
}

func TestSetPath_CreatesIntermediateMappings(t *testing.T) {
	root := NewMapping()
	require.NoError(t, SetPath(root, []string{"a", "b", "c"}, Scalar(1)))
	require.NoError(t, SetPath(root, []string{"a", "d"}, Scalar(2)))
	require.Equal(t, `{"a":{"b":{"c":1},"d":2}}`, mustJSON(t, root))
}

func TestSetPath_StructuralConflict(t *testing.T) {
	root := mappingOf("a", map[string]any{"b": "leaf"})
	err := SetPath(root, []string{"a", "b", "c"}, Scalar(1))
	require.Error(t, err)
	require.True(t, IsKind(err, StructuralConflict))

	var pe *Error
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "a.b", pe.Path)

	// the existing scalar survives
	require.Equal(t, `{"a":{"b":"leaf"}}`, mustJSON(t, root))
}

func TestSetPath_EmptySegments(t *testing.T) {
	err := SetPath(NewMapping(), nil, Scalar(1))
	require.True(t, IsKind(err, StructuralConflict))
}

func TestLeafs_SinglePath(t *testing.T) {
	root := NewMapping()
	require.NoError(t, SetPath(root, []string{"a", "b"}, Scalar(1)))
	require.Equal(t, []LeafEntry{{Path: "a.b", Values: []Value{Scalar(1)}}}, Leafs(root))
}

func TestLeafs_OrderAndLists(t *testing.T) {
	root := NewMapping()
	root.Set("z", Strings("1", "2"))
	root.Set("a", Nested(mappingOf("y", "s", "x", []string{"p", "q"})))
	got := Leafs(root)
	require.Equal(t, []LeafEntry{
		{Path: "z", Values: []Value{Scalar("1"), Scalar("2")}},
		{Path: "a.y", Values: []Value{Scalar("s")}},
		{Path: "a.x", Values: []Value{Scalar("p"), Scalar("q")}},
	}, got)
}

func TestLeafs_RoundTrip(t *testing.T) {
	root := NewMapping()
	require.NoError(t, SetPath(root, []string{"a"}, Scalar("x")))
	require.NoError(t, SetPath(root, []string{"b"}, Scalar(2)))
	require.NoError(t, SetPath(root, []string{"c"}, Scalar(true)))

	rebuilt := NewMapping()
	for _, leaf := range Leafs(root) {
		require.Len(t, leaf.Values, 1)
		require.NoError(t, SetPath(rebuilt, SplitPath(leaf.Path), leaf.Values[0]))
	}
	require.Equal(t, root, rebuilt)
}

func TestApplyAliases(t *testing.T) {
	m := mappingOf("filter_def", "x")
	ApplyAliases(m, NewAliasTable(map[string]string{"filter_def": "find_d"}))
	require.Equal(t, `{"find_d":"x"}`, mustJSON(t, m))
}

func TestApplyAliases_TopLevelOnly(t *testing.T) {
	m := mappingOf("outer", map[string]any{"filter_def": "x"})
	ApplyAliases(m, DefaultAliases())
	require.Equal(t, `{"outer":{"filter_def":"x"}}`, mustJSON(t, m))
}

func TestCoerceFilterFields(t *testing.T) {
	m := mappingOf("skip", "5", "other", "z")
	require.NoError(t, CoerceFilterFields(m, NewTypeTable(map[string]Cast{"skip": ToInt})))
	require.Equal(t, `{"skip":5}`, mustJSON(t, m))
}

func TestCoerceFilterFields_Failure(t *testing.T) {
	m := mappingOf("limit", "ten")
	err := CoerceFilterFields(m, DefaultTypes())
	require.True(t, IsKind(err, CoercionFailure))

	var pe *Error
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "limit", pe.Path)
	require.Equal(t, "coercion_failure", pe.Kind.Code())
}

func TestToInt_RejectsOutOfRangeFloats(t *testing.T) {
	for _, f := range []float64{1e300, -1e300, math.Inf(1), math.NaN()} {
		_, err := ToInt(Scalar(f))
		require.Error(t, err, "value %v", f)
	}
	v, err := ToInt(Scalar(float64(1 << 40)))
	require.NoError(t, err)
	require.Equal(t, 1<<40, v.Raw())

	m := DecodeJSONBody([]byte(`{"skip":1e300}`))
	require.True(t, IsKind(CoerceFilterFields(m, DefaultTypes()), CoercionFailure))
}

func TestNewTables_UnknownCast(t *testing.T) {
	_, err := NewTables(nil, map[string]string{"skip": "decimal"})
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown cast "decimal"`)

	tables, err := NewTables(map[string]string{"page": "skip"}, map[string]string{"skip": "INT"})
	require.NoError(t, err)
	to, ok := tables.Aliases.Lookup("page")
	require.True(t, ok)
	require.Equal(t, "skip", to)
	require.Equal(t, []string{"skip"}, tables.Types.Names())
}
