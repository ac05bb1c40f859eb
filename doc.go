// Package wire marshals self-describing objects to and from one of five
// interchangeable formats over a growable byte buffer.
//
// A Wire binds a format to a buffer.Buffer. Values are written and read by
// field name through FieldKey, and the same WriteMarshallable and
// ReadMarshallable implementations serve every format:
//
//   - format.Binary: tagged binary values preceded by their field names
//   - format.NumericBinary: tagged binary values preceded by the 64-bit
//     code of their field names (see FieldKey.Hash)
//   - format.FieldlessBinary: tagged binary values in strict write order
//   - format.Text: YAML block mappings
//   - format.JSON: JSON objects
//
// # Basic Usage
//
//	var (
//	    nameKey  = wire.Key("name")
//	    valueKey = wire.Key("value")
//	)
//
//	type Order struct {
//	    Name  string
//	    Value int32
//	}
//
//	func (o *Order) WriteMarshallable(out wire.WireOut) error {
//	    if err := out.Write(nameKey).Text(o.Name); err != nil {
//	        return err
//	    }
//	    return out.Write(valueKey).Int32(o.Value)
//	}
//
//	func (o *Order) ReadMarshallable(in wire.WireIn) error {
//	    o.Name = in.Read(nameKey).TextOr("")
//	    o.Value = in.Read(valueKey).Int32Or(0)
//	    return nil
//	}
//
//	w, _ := wire.New(format.Text, buffer.NewElastic())
//	_ = w.WriteDocument(false, &Order{Name: "foo", Value: 42})
//
//	var got Order
//	ok, err := w.ReadDocument(&got, nil)
//
// # Documents
//
// WriteDocument frames its fields behind a 4-byte header holding the payload
// length and the data/meta-data flag (see package section). ReadDocument
// bounds every read to the payload of one document and always leaves the read
// position at the next document. Documents can be appended to one buffer and
// scanned without decoding them with ScanDocuments; FromSizePrefixedBlobs
// renders them as text for debugging.
//
// # Field Lookup
//
// Binary, NumericBinary, Text and JSON find a field anywhere in its enclosing
// object, so readers may ask for fields in any order. FieldlessBinary writes no names:
// WireIn.Read ignores the key and returns the next value, and reading out of
// write order yields undefined values.
//
// # Polymorphic Objects
//
// ValueOut.Object writes a nested object tagged with the short alias its type
// was registered under, and ValueIn.Object rebuilds the exact registered type
// from that alias. Aliases live in a Registry; wires use DefaultRegistry unless
// WithRegistry injects another one. Types whose fields cannot be set after
// construction register a Demarshaller with AddDemarshaller instead of
// implementing ReadMarshallable.
//
// # Errors
//
// Failures are reported with the typed errors of package errs:
// FramingError, MissingFieldError, UnresolvedAliasError, AliasConflictError
// and TypeMismatchError. The Or variants of ValueIn never fail.
//
// # Thread Safety
//
// A Wire and its buffer must be used from one goroutine at a time. A Registry
// is safe for concurrent registration and lookup.
package wire
