package format

import (
	"fmt"
	"strings"

	"github.com/arloliu/wire/errs"
)

type (
	WireType uint8
	Tag      uint8
)

const (
	Binary          WireType = 0x1 // Binary is the tagged binary format with field names.
	FieldlessBinary WireType = 0x2 // FieldlessBinary is the tagged binary format without field names.
	Text            WireType = 0x3 // Text is the YAML-like human-readable format.
	JSON            WireType = 0x4 // JSON is the JSON format.
	NumericBinary   WireType = 0x5 // NumericBinary is the tagged binary format with numeric field codes.
)

// WireTypes lists every supported wire type.
var WireTypes = []WireType{Binary, FieldlessBinary, Text, JSON, NumericBinary}

func (w WireType) String() string {
	switch w {
	case Binary:
		return "Binary"
	case FieldlessBinary:
		return "FieldlessBinary"
	case Text:
		return "Text"
	case JSON:
		return "JSON"
	case NumericBinary:
		return "NumericBinary"
	default:
		return "Unknown"
	}
}

// IsKeyed reports whether the format writes a key, name or code, per field.
func (w WireType) IsKeyed() bool {
	return w != FieldlessBinary
}

// IsTextual reports whether the format is human readable.
func (w WireType) IsTextual() bool {
	return w == Text || w == JSON
}

// ParseWireType parses a wire type name as used on command lines and in
// configuration files. Matching is case-insensitive.
func ParseWireType(name string) (WireType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "binary", "bin":
		return Binary, nil
	case "fieldless", "fieldlessbinary", "fieldless-binary", "fieldless_binary":
		return FieldlessBinary, nil
	case "text", "yaml":
		return Text, nil
	case "json":
		return JSON, nil
	case "numeric", "numericbinary", "numeric-binary", "numeric_binary":
		return NumericBinary, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrUnsupportedWireType, name)
	}
}

// Binary value tags. Every value in the binary formats starts with one of these.
const (
	TagInt32        Tag = 0xA4 // TagInt32 is followed by 4 bytes.
	TagInt64        Tag = 0xA8 // TagInt64 is followed by 8 bytes.
	TagFloat64      Tag = 0x91 // TagFloat64 is followed by 8 bytes of IEEE 754 bits.
	TagFalse        Tag = 0xB0 // TagFalse has no payload.
	TagTrue         Tag = 0xB1 // TagTrue has no payload.
	TagNull         Tag = 0xBB // TagNull has no payload.
	TagText         Tag = 0xB8 // TagText is followed by a uvarint length and UTF-8 bytes.
	TagBytes        Tag = 0x8A // TagBytes is followed by a uvarint length and raw bytes.
	TagTypePrefix   Tag = 0xB6 // TagTypePrefix is followed by a uvarint length, the alias, then an object.
	TagMarshallable Tag = 0x82 // TagMarshallable is followed by a uint32 length and the object's fields.
	TagSequence     Tag = 0x83 // TagSequence is followed by a uint32 length and the element values.
	TagFieldName    Tag = 0xB7 // TagFieldName is followed by a uvarint length and the field name.
	TagFieldNumber  Tag = 0xBA // TagFieldNumber is followed by the 8-byte code of the field name.
)

func (t Tag) String() string {
	switch t {
	case TagInt32:
		return "int32"
	case TagInt64:
		return "int64"
	case TagFloat64:
		return "float64"
	case TagFalse, TagTrue:
		return "bool"
	case TagNull:
		return "null"
	case TagText:
		return "text"
	case TagBytes:
		return "bytes"
	case TagTypePrefix:
		return "typed-object"
	case TagMarshallable:
		return "object"
	case TagSequence:
		return "sequence"
	case TagFieldName:
		return "field-name"
	case TagFieldNumber:
		return "field-number"
	default:
		return fmt.Sprintf("unknown(0x%02X)", uint8(t))
	}
}

// FixedSize returns the payload size of fixed-width tags, or -1 for tags
// whose payload is length-prefixed or not a value at all.
func (t Tag) FixedSize() int {
	switch t {
	case TagInt32:
		return 4
	case TagInt64, TagFloat64:
		return 8
	case TagFalse, TagTrue, TagNull:
		return 0
	default:
		return -1
	}
}
