package wire

import (
	"fmt"
	"reflect"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/arloliu/wire/errs"
	"github.com/arloliu/wire/format"
)

// WriteMarshallable is implemented by types that can serialize themselves.
//
// Fields must be written in a stable order so textual output is
// deterministic; FieldlessBinary readers depend on that order.
type WriteMarshallable interface {
	WriteMarshallable(out WireOut) error
}

// ReadMarshallable is implemented by types that populate themselves from a
// reader after being constructed empty.
type ReadMarshallable interface {
	ReadMarshallable(in WireIn) error
}

// Marshallable is a type that can be both written and populated.
type Marshallable interface {
	WriteMarshallable
	ReadMarshallable
}

// Demarshaller builds a complete value from a reader in a single call.
//
// It is the reconstruction entry point for types whose fields are immutable
// once set: every field the value needs must be read inside the call.
type Demarshaller func(in WireIn) (any, error)

// WireOut is the field-keyed write side of a wire, a document or a nested object.
type WireOut interface {
	// Write positions the writer at field key. Exactly one value method of
	// the returned ValueOut must be called before the next Write.
	Write(key FieldKey) ValueOut
	// WireType returns the format being written.
	WireType() format.WireType
}

// WireIn is the field-keyed read side of a wire, a document or a nested object.
//
// Keyed formats (Binary, Text, JSON) locate key anywhere inside the enclosing
// object, regardless of the order fields were written in. FieldlessBinary
// ignores key and returns the next value: callers must read in exactly the
// order the fields were written, and reading out of order yields undefined
// values rather than an error.
type WireIn interface {
	// Read positions the reader at field key. A field that does not exist
	// yields a ValueIn whose typed reads fail with MissingFieldError and
	// whose Or variants return their default.
	Read(key FieldKey) ValueIn
	// HasMore reports whether fields remain after the read cursor. Fields
	// skipped by an out-of-order read are not counted.
	HasMore() bool
	// WireType returns the format being read.
	WireType() format.WireType
	// Registry returns the alias registry used to reconstruct objects.
	Registry() *Registry
}

// ValueOut writes one value at the position chosen by WireOut.Write or SequenceOut.Add.
type ValueOut interface {
	Int32(v int32) error
	Int64(v int64) error
	Float64(v float64) error
	Bool(v bool) error
	// Text writes v, which must be valid UTF-8.
	Text(v string) error
	Bytes(v []byte) error
	Null() error
	// Marshallable writes v as a nested object without a type alias.
	Marshallable(v WriteMarshallable) error
	// Object writes v as a nested object tagged with the alias registered
	// for its type. A nil v is written as null.
	Object(v WriteMarshallable) error
	// Sequence writes an ordered list of values added through seq.
	Sequence(fn func(seq SequenceOut) error) error
}

// SequenceOut appends elements to a sequence.
type SequenceOut interface {
	// Add returns the writer for the next element.
	Add() ValueOut
}

// ValueIn reads one value located by WireIn.Read or SequenceIn.Next.
type ValueIn interface {
	// Present reports whether the value exists.
	Present() bool
	// IsNull reports whether the value is an explicit null.
	IsNull() bool

	Int32() (int32, error)
	Int64() (int64, error)
	Float64() (float64, error)
	Bool() (bool, error)
	Text() (string, error)
	Bytes() ([]byte, error)

	// Marshallable populates v from a nested object. Any alias on the
	// object is ignored. A null value leaves v untouched.
	Marshallable(v ReadMarshallable) error
	// Object reconstructs the registered type named by the object's alias.
	// A null value yields (nil, nil).
	Object() (any, error)
	// Sequence iterates the elements of a sequence. A null value is an
	// empty sequence.
	Sequence(fn func(seq SequenceIn) error) error

	// The Or variants return def when the value is absent or cannot be
	// read as the requested type. They never fail.
	Int32Or(def int32) int32
	Int64Or(def int64) int64
	Float64Or(def float64) float64
	BoolOr(def bool) bool
	TextOr(def string) string
}

// SequenceIn walks the elements of a sequence in order.
type SequenceIn interface {
	HasNext() bool
	Next() ValueIn
}

// ReadAs reconstructs the object at in and asserts it to T.
func ReadAs[T any](in ValueIn) (T, error) {
	var zero T
	v, err := in.Object()
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &errs.TypeMismatchError{Expected: fmt.Sprintf("%T", zero), Actual: fmt.Sprintf("%T", v)}
	}

	return typed, nil
}

// ReadObjects reads a sequence of alias-tagged objects of type T.
func ReadObjects[T any](in ValueIn) ([]T, error) {
	var out []T
	err := in.Sequence(func(seq SequenceIn) error {
		for seq.HasNext() {
			v, err := ReadAs[T](seq.Next())
			if err != nil {
				return err
			}
			out = append(out, v)
		}

		return nil
	})

	return out, err
}

// WriteObjects writes items as a sequence of alias-tagged objects.
func WriteObjects[T WriteMarshallable](out ValueOut, items []T) error {
	return out.Sequence(func(seq SequenceOut) error {
		for _, item := range items {
			if err := seq.Add().Object(item); err != nil {
				return err
			}
		}

		return nil
	})
}

// ReadTexts reads a sequence of text values.
func ReadTexts(in ValueIn) ([]string, error) {
	var out []string
	err := in.Sequence(func(seq SequenceIn) error {
		for seq.HasNext() {
			s, err := seq.Next().Text()
			if err != nil {
				return err
			}
			out = append(out, s)
		}

		return nil
	})

	return out, err
}

// WriteTexts writes values as a sequence of text values.
func WriteTexts(out ValueOut, values []string) error {
	return out.Sequence(func(seq SequenceOut) error {
		for _, v := range values {
			if err := seq.Add().Text(v); err != nil {
				return err
			}
		}

		return nil
	})
}

// validText rejects text that not every format can carry.
func validText(s string) error {
	if !utf8.ValidString(s) {
		return errors.Wrapf(errs.ErrInvalidText, "%q", s)
	}

	return nil
}

// isNilMarshallable reports whether m is nil or a typed nil pointer.
func isNilMarshallable(m WriteMarshallable) bool {
	if m == nil {
		return true
	}
	rv := reflect.ValueOf(m)

	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// orDefaults implements the Or variants of ValueIn on top of its strict reads.
type orDefaults struct {
	in ValueIn
}

func (d orDefaults) Int32Or(def int32) int32 {
	if v, err := d.in.Int32(); err == nil {
		return v
	}

	return def
}

func (d orDefaults) Int64Or(def int64) int64 {
	if v, err := d.in.Int64(); err == nil {
		return v
	}

	return def
}

func (d orDefaults) Float64Or(def float64) float64 {
	if v, err := d.in.Float64(); err == nil {
		return v
	}

	return def
}

func (d orDefaults) BoolOr(def bool) bool {
	if v, err := d.in.Bool(); err == nil {
		return v
	}

	return def
}

func (d orDefaults) TextOr(def string) string {
	if !d.in.Present() || d.in.IsNull() {
		return def
	}
	if v, err := d.in.Text(); err == nil {
		return v
	}

	return def
}

// errValueIn is returned for fields that could not be located.
type errValueIn struct {
	orDefaults
	err     error
	missing bool
}

func newErrValueIn(err error, missing bool) *errValueIn {
	v := &errValueIn{err: err, missing: missing}
	v.in = v

	return v
}

func missingValue(field string) *errValueIn {
	return newErrValueIn(&errs.MissingFieldError{Field: field}, true)
}

func (v *errValueIn) Present() bool { return !v.missing }
func (v *errValueIn) IsNull() bool { return false }
func (v *errValueIn) Int32() (int32, error) { return 0, v.err }
func (v *errValueIn) Int64() (int64, error) { return 0, v.err }
func (v *errValueIn) Float64() (float64, error) { return 0, v.err }
func (v *errValueIn) Bool() (bool, error) { return false, v.err }
func (v *errValueIn) Text() (string, error) { return "", v.err }
func (v *errValueIn) Bytes() ([]byte, error) { return nil, v.err }
func (v *errValueIn) Marshallable(ReadMarshallable) error { return v.err }
func (v *errValueIn) Object() (any, error) { return nil, v.err }
func (v *errValueIn) Sequence(func(seq SequenceIn) error) error { return v.err }
