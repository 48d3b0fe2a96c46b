// Package salad is the shared runtime behind Schema Salad generated parsers.
//
// A companion compiler reads a Schema Salad schema and emits typed data
// structures plus decode functions for each declared type. Those generated
// functions call into this package for the parts that cannot be generated
// statically: deciding which concrete type an untyped document node
// instantiates when the schema allows several candidates at a position,
// expanding identifier fields to canonical absolute form under the active
// base/vocabulary context, merging inherited record fields, and filling in
// schema-declared defaults.
//
// The package operates purely on in-memory generic value trees
// (map[string]any, []any, scalars) and an immutable Registry built once per
// schema. It performs no I/O; loading raw JSON or YAML into a value tree is
// the job of the source subpackages.
package salad
