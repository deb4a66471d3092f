// Package serialize contains the serializers that regression results are stored with, the
// registry that picks a serializer for a result by its type, and the functions that save and
// load regression records.
//
// A Serializer only converts values to and from their stored form and compares them; all
// file handling goes through Save, Load and Exists, which use a FileSystem. The built-in
// registry (Defaults) stores strings as .txt records and byte slices as .bin records. The
// JSON, YAML, TOML and txtar serializers can be added for other result types with a Rule.
//
// Go types do not have supertypes, so Registry.Resolve walks an approximation of one that is
// described on Ancestry: a rule for a struct type also applies to structs that embed it, and a
// rule for string also applies to named string types.
package serialize
