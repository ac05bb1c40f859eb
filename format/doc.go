// Package format names the wire formats and the value tags of the binary layout.
//
// # Wire Types
//
//   - Binary: tagged binary values, each preceded by its field name
//   - FieldlessBinary: tagged binary values in strict write order, no names
//   - Text: YAML-like `key: value` documents
//   - JSON: `{"key": value}` documents
//
// # Binary Layout
//
// A keyed field is written as
//
//	[TagFieldName][uvarint name length][name bytes][value]
//
// and a value is a Tag followed by its payload. Fixed-width numbers use the
// byte order of the wire's endian engine. Nested objects and sequences carry a
// uint32 length so a reader can skip them without decoding their content.
package format
