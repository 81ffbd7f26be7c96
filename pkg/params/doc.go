// Package params decodes flat request parameters into nested mappings.
//
// Request data arrives as flat name/value pairs from several sources at once:
// a JSON body, uploaded files, form fields and the query string. Names use a
// dotted convention ("user.name") to express nesting and a trailing "[]" to
// mark array groups:
//
//	people[].name[]=A&people[].name[]=B&people[].age[]=1&people[].age[]=2
//
// decodes, after LoadForm and NormalizeArrays, to
//
//	{"people": [{"name": "A", "age": "1"}, {"name": "B", "age": "2"}]}
//
// Resolve merges the sources (JSON < files < form < query) and runs the
// pipeline stages in a fixed order: ApplyAliases, CoerceFilterFields,
// NormalizeArrays. Request ties the sources of one inbound request together
// and memoizes the parsed JSON body for repeated Field lookups.
//
// Mappings keep insertion order, so the rows of an array group are assembled
// deterministically from the order in which leaves were written.
//
// Decoding failures that callers must see are reported as *Error with one of
// the kinds StructuralConflict, MalformedArrayGroup or CoercionFailure.
// Invalid JSON bodies and unrecognized filter fields are not errors: the
// former decode to an empty mapping and the latter are dropped.
package params
